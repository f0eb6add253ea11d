package session

import (
	"context"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
)

// Context is the currently active uploaded document for a session. It is
// replaced wholesale on each upload, never merged.
type Context struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// Status summarizes a session for the status endpoint.
type Status struct {
	HasDocument  bool    `json:"has_document"`
	DocumentName *string `json:"document_name"`
	MessageCount int64   `json:"message_count"`
}

// ISessionManager owns the session data model: the history list under
// chat:{session_id}, the context record under context:{session_id}, and the
// shared TTL window on both. Every write resets the TTL to the full window.
//
// Implementations perform no retries and no buffering. A store round-trip
// failure surfaces as pkgError.StoreUnavailableError and fails the whole
// request.
type ISessionManager interface {
	// AppendTurn appends one turn to the history record, creating it if
	// absent, and resets its TTL.
	AppendTurn(ctx context.Context, sessionID, role, content string) error
	// GetHistory returns the full stored sequence, oldest first. An absent
	// record yields an empty slice, not an error.
	GetHistory(ctx context.Context, sessionID string) ([]chat.Turn, error)
	// MessageCount reports the stored history length without fetching it.
	MessageCount(ctx context.Context, sessionID string) (int64, error)
	// ClearHistory deletes the history record. Idempotent.
	ClearHistory(ctx context.Context, sessionID string) error

	// SetContext replaces the context record and resets its TTL.
	SetContext(ctx context.Context, sessionID, text, filename string) error
	// GetContext returns the current context record, or (nil, nil) when the
	// session has no document in scope.
	GetContext(ctx context.Context, sessionID string) (*Context, error)
	// ClearContext deletes the context record only. Idempotent.
	ClearContext(ctx context.Context, sessionID string) error

	// ClearSession deletes both records. Idempotent.
	ClearSession(ctx context.Context, sessionID string) error
	// RefreshSession resets the TTL on whichever records exist, creating
	// neither. A session with no records is a no-op, not an error.
	RefreshSession(ctx context.Context, sessionID string) error
	// SessionExists reports whether either record is present.
	SessionExists(ctx context.Context, sessionID string) (bool, error)

	// Ping probes store reachability without touching session data.
	Ping(ctx context.Context) error

	// Lock acquires a short-lived advisory lock for the session and returns
	// a release token. It keeps one request's paired appends adjacent when
	// two chat turns race on the same session; it is not required for
	// correctness of individual operations.
	Lock(ctx context.Context, sessionID string) (string, error)
	// Unlock releases the advisory lock if the token still owns it.
	Unlock(ctx context.Context, sessionID, token string) error
}
