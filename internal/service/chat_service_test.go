package service

import (
	"context"
	"errors"
	"testing"

	"dr-vain-be/internal/dto"
	"dr-vain-be/pkg/rag/session"
)

func newTestChatService() IChatService {
	manager := newTestSessionManager(&scriptedLLM{reply: "A measured reply."})
	return NewChatService(manager, testLogger{})
}

func TestChatServiceLifecycle(t *testing.T) {
	svc := newTestChatService()
	ctx := context.Background()

	started, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if started.SessionId != "session_1" {
		t.Errorf("SessionId = %q, want session_1", started.SessionId)
	}
	if len(started.History) != 1 || started.History[0].Role != "assistant" {
		t.Fatalf("start history = %+v, want single welcome entry", started.History)
	}

	sent, err := svc.SendChat(ctx, started.SessionId, &dto.SendChatRequest{Chat: "I feel off."})
	if err != nil {
		t.Fatalf("SendChat: %v", err)
	}
	if sent.Reply != "A measured reply." {
		t.Errorf("Reply = %q", sent.Reply)
	}

	history, err := svc.GetHistory(ctx, started.SessionId)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history.History) != 3 {
		t.Errorf("history length = %d, want 3", len(history.History))
	}

	if err := svc.EndSession(ctx, started.SessionId); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	archive, err := svc.GetArchive(ctx)
	if err != nil {
		t.Fatalf("GetArchive: %v", err)
	}
	if len(archive) != 1 {
		t.Fatalf("archive length = %d, want 1", len(archive))
	}
	if archive[0].Id != started.SessionId {
		t.Errorf("archived id = %q", archive[0].Id)
	}
	if archive[0].Summary == "" {
		t.Error("archived record must carry a summary")
	}
}

func TestChatServicePropagatesTypedErrors(t *testing.T) {
	svc := newTestChatService()
	ctx := context.Background()

	if _, err := svc.SendChat(ctx, "session_1", &dto.SendChatRequest{Chat: "hi"}); !errors.Is(err, session.ErrSessionMismatch) {
		t.Errorf("SendChat without session = %v, want ErrSessionMismatch", err)
	}
	if _, err := svc.GetHistory(ctx, "session_1"); !errors.Is(err, session.ErrNoActiveSession) {
		t.Errorf("GetHistory without session = %v, want ErrNoActiveSession", err)
	}
	if err := svc.EndSession(ctx, "session_1"); !errors.Is(err, session.ErrSessionMismatch) {
		t.Errorf("EndSession without session = %v, want ErrSessionMismatch", err)
	}
}
