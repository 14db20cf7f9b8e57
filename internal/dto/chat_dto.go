package dto

import (
	"time"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type StartSessionResponse struct {
	SessionId string        `json:"session_id"`
	History   []ChatMessage `json:"history"`
}

type SendChatRequest struct {
	Chat string `json:"chat" validate:"required"`
}

type SendChatResponse struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
}

type SessionHistoryResponse struct {
	SessionId string        `json:"session_id"`
	History   []ChatMessage `json:"history"`
}

type ArchivedSessionResponse struct {
	Id         string        `json:"id"`
	Summary    string        `json:"summary"`
	ArchivedAt time.Time     `json:"archived_at"`
	History    []ChatMessage `json:"history"`
}
