package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
	"github.com/ngophulan456hn/alice-assignment/domains/session"
	"github.com/ngophulan456hn/alice-assignment/validations"
)

// generator is the single-call contract to the inference backend.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type chatService struct {
	sessions  session.ISessionManager
	generator generator
}

func NewChatService(sessions session.ISessionManager, gen generator) chat.IChatUsecase {
	return &chatService{
		sessions:  sessions,
		generator: gen,
	}
}

// Send runs one chat turn: refresh TTL, read state, assemble the prompt,
// call the backend, then persist both sides of the exchange. A failed
// generation never mutates session state.
func (s *chatService) Send(ctx context.Context, request chat.SendRequest) (chat.SendResponse, error) {
	if err := validations.ValidateSendChat(ctx, request); err != nil {
		return chat.SendResponse{}, err
	}

	sessionID := request.SessionID

	if err := s.sessions.RefreshSession(ctx, sessionID); err != nil {
		return chat.SendResponse{}, err
	}

	docContext, err := s.sessions.GetContext(ctx, sessionID)
	if err != nil {
		return chat.SendResponse{}, err
	}
	history, err := s.sessions.GetHistory(ctx, sessionID)
	if err != nil {
		return chat.SendResponse{}, err
	}

	prompt := BuildPrompt(docContext, history, request.Message)

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return chat.SendResponse{}, err
	}

	if err := s.persistTurns(ctx, sessionID, request.Message, reply); err != nil {
		return chat.SendResponse{}, err
	}

	return chat.SendResponse{Response: reply}, nil
}

// persistTurns appends the user turn and then the assistant turn under the
// session's advisory lock so a concurrent request on the same session cannot
// interleave between the pair. The store offers no transaction here: if the
// second append fails the orphaned user turn stays, matching the documented
// partial-failure policy.
func (s *chatService) persistTurns(ctx context.Context, sessionID, userMessage, reply string) error {
	token, lockErr := s.sessions.Lock(ctx, sessionID)
	if lockErr != nil {
		logrus.Warnf("[CHAT] session %s lock unavailable, appending unlocked: %v", sessionID, lockErr)
	} else {
		defer func() {
			if err := s.sessions.Unlock(ctx, sessionID, token); err != nil {
				logrus.Warnf("[CHAT] failed to release lock for session %s: %v", sessionID, err)
			}
		}()
	}

	if err := s.sessions.AppendTurn(ctx, sessionID, chat.RoleUser, userMessage); err != nil {
		return err
	}
	if err := s.sessions.AppendTurn(ctx, sessionID, chat.RoleAssistant, reply); err != nil {
		logrus.Warnf("[CHAT] session %s has an orphaned user turn: assistant append failed: %v", sessionID, err)
		return err
	}
	return nil
}

func (s *chatService) History(ctx context.Context, sessionID string) (chat.HistoryResponse, error) {
	turns, err := s.sessions.GetHistory(ctx, sessionID)
	if err != nil {
		return chat.HistoryResponse{}, err
	}
	return chat.HistoryResponse{Messages: turns}, nil
}

func (s *chatService) ClearSession(ctx context.Context, sessionID string) error {
	return s.sessions.ClearSession(ctx, sessionID)
}
