package mapper

import (
	"dr-vain-be/internal/dto"
	"dr-vain-be/pkg/llm"
	"dr-vain-be/pkg/rag/session"
)

// ChatMapper converts core transcript types into API DTOs.
type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToChatMessages(history []llm.Message) []dto.ChatMessage {
	out := make([]dto.ChatMessage, len(history))
	for i, msg := range history {
		out[i] = dto.ChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return out
}

func (m *ChatMapper) ToArchivedSession(record session.Record) *dto.ArchivedSessionResponse {
	return &dto.ArchivedSessionResponse{
		Id:         record.Id,
		Summary:    record.Summary,
		ArchivedAt: record.ArchivedAt,
		History:    m.ToChatMessages(record.History),
	}
}
