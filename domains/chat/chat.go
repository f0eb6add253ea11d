package chat

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message exchange unit in a session's history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SendRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type SendResponse struct {
	Response string `json:"response"`
}

type HistoryResponse struct {
	Messages []Turn `json:"messages"`
}

type IChatUsecase interface {
	// Send proxies one chat turn through the inference backend, persisting
	// both sides of the exchange on success.
	Send(ctx context.Context, request SendRequest) (SendResponse, error)
	History(ctx context.Context, sessionID string) (HistoryResponse, error)
	ClearSession(ctx context.Context, sessionID string) error
}
