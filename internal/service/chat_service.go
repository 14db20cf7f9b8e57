package service

import (
	"context"

	"dr-vain-be/internal/dto"
	"dr-vain-be/internal/mapper"
	"dr-vain-be/internal/pkg/logger"
	"dr-vain-be/pkg/rag/session"
)

// IChatService is the boundary the UI shell talks to: session lifecycle plus
// message exchange. Lifecycle and turn errors from the core propagate typed.
type IChatService interface {
	StartSession(ctx context.Context) (*dto.StartSessionResponse, error)
	EndSession(ctx context.Context, sessionId string) error
	SendChat(ctx context.Context, sessionId string, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.SessionHistoryResponse, error)
	GetArchive(ctx context.Context) ([]*dto.ArchivedSessionResponse, error)
}

type chatService struct {
	sessions *session.Manager
	mapper   *mapper.ChatMapper
	logger   logger.ILogger
}

func NewChatService(sessions *session.Manager, log logger.ILogger) IChatService {
	return &chatService{
		sessions: sessions,
		mapper:   mapper.NewChatMapper(),
		logger:   log,
	}
}

func (s *chatService) StartSession(ctx context.Context) (*dto.StartSessionResponse, error) {
	sessionId, err := s.sessions.StartNewSession()
	if err != nil {
		s.logger.Error("chat", "Failed to start session", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	history, err := s.sessions.ActiveHistory(sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.StartSessionResponse{
		SessionId: sessionId,
		History:   s.mapper.ToChatMessages(history),
	}, nil
}

func (s *chatService) EndSession(ctx context.Context, sessionId string) error {
	return s.sessions.EndSession(sessionId)
}

func (s *chatService) SendChat(ctx context.Context, sessionId string, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	reply, err := s.sessions.SendMessage(ctx, sessionId, request.Chat)
	if err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		SessionId: sessionId,
		Reply:     reply,
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionId string) (*dto.SessionHistoryResponse, error) {
	history, err := s.sessions.ActiveHistory(sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.SessionHistoryResponse{
		SessionId: sessionId,
		History:   s.mapper.ToChatMessages(history),
	}, nil
}

func (s *chatService) GetArchive(ctx context.Context) ([]*dto.ArchivedSessionResponse, error) {
	records := s.sessions.GetArchive()

	out := make([]*dto.ArchivedSessionResponse, len(records))
	for i, record := range records {
		out[i] = s.mapper.ToArchivedSession(record)
	}
	return out, nil
}
