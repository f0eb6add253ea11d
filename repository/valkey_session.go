package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
	"github.com/ngophulan456hn/alice-assignment/domains/session"
	"github.com/ngophulan456hn/alice-assignment/infrastructure/valkey"
	pkgError "github.com/ngophulan456hn/alice-assignment/pkg/error"
)

const (
	chatKeyPrefix    = "chat:"
	contextKeyPrefix = "context:"

	lockSuffix     = ":lock"
	lockTTL        = 5 * time.Second
	lockWaitTime   = 50 * time.Millisecond
	maxLockRetries = 10
)

// Lua script for atomic lock release (only delete if token matches).
const releaseLockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// ValkeySessionStore implements session.ISessionManager on Valkey.
//
// A session maps to two independently expiring records: a list under
// chat:{session_id} holding one JSON turn per element, and a string under
// context:{session_id} holding the JSON context record. Each write resets
// the record's TTL to the full session window.
type ValkeySessionStore struct {
	client     *valkey.Client
	sessionTTL time.Duration
}

// NewValkeySessionStore wires the store onto an existing valkey client.
func NewValkeySessionStore(client *valkey.Client, sessionTTL time.Duration) *ValkeySessionStore {
	return &ValkeySessionStore{
		client:     client,
		sessionTTL: sessionTTL,
	}
}

func (s *ValkeySessionStore) chatKey(sessionID string) string {
	return s.client.Key(chatKeyPrefix + sessionID)
}

func (s *ValkeySessionStore) contextKey(sessionID string) string {
	return s.client.Key(contextKeyPrefix + sessionID)
}

func (s *ValkeySessionStore) inner() valkeylib.Client {
	return s.client.Inner()
}

func storeErr(op string, err error) error {
	return pkgError.StoreUnavailableError(fmt.Sprintf("session store %s failed: %v", op, err))
}

// AppendTurn appends one turn to the history list and resets the full TTL
// window. The list is created implicitly on first append.
func (s *ValkeySessionStore) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	data, err := json.Marshal(chat.Turn{Role: role, Content: content})
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	key := s.chatKey(sessionID)
	push := s.inner().B().Rpush().Key(key).Element(string(data)).Build()
	if err := s.inner().Do(ctx, push).Error(); err != nil {
		return storeErr("append", err)
	}

	expire := s.inner().B().Expire().Key(key).Seconds(int64(s.sessionTTL.Seconds())).Build()
	if err := s.inner().Do(ctx, expire).Error(); err != nil {
		return storeErr("expire", err)
	}
	return nil
}

// GetHistory returns the full stored sequence, oldest first. A missing list
// yields an empty slice. Elements that fail to decode are skipped with a
// warning rather than poisoning the whole read.
func (s *ValkeySessionStore) GetHistory(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	cmd := s.inner().B().Lrange().Key(s.chatKey(sessionID)).Start(0).Stop(-1).Build()
	elements, err := s.inner().Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if valkey.IsNil(err) {
			return []chat.Turn{}, nil
		}
		return nil, storeErr("history read", err)
	}

	turns := make([]chat.Turn, 0, len(elements))
	for _, raw := range elements {
		var t chat.Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			logrus.Warnf("[SessionStore] skipping undecodable turn in session %s: %v", sessionID, err)
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// MessageCount reports the stored history length without fetching elements.
func (s *ValkeySessionStore) MessageCount(ctx context.Context, sessionID string) (int64, error) {
	cmd := s.inner().B().Llen().Key(s.chatKey(sessionID)).Build()
	count, err := s.inner().Do(ctx, cmd).AsInt64()
	if err != nil {
		if valkey.IsNil(err) {
			return 0, nil
		}
		return 0, storeErr("history count", err)
	}
	return count, nil
}

// ClearHistory deletes the history record. Deleting an absent key is a no-op.
func (s *ValkeySessionStore) ClearHistory(ctx context.Context, sessionID string) error {
	cmd := s.inner().B().Del().Key(s.chatKey(sessionID)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return storeErr("history delete", err)
	}
	return nil
}

// SetContext replaces the context record wholesale and resets its TTL.
func (s *ValkeySessionStore) SetContext(ctx context.Context, sessionID, text, filename string) error {
	data, err := json.Marshal(session.Context{Text: text, Filename: filename})
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	cmd := s.inner().B().Set().
		Key(s.contextKey(sessionID)).
		Value(string(data)).
		Ex(s.sessionTTL).
		Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return storeErr("context write", err)
	}
	return nil
}

// GetContext returns (nil, nil) when the session has no document in scope.
func (s *ValkeySessionStore) GetContext(ctx context.Context, sessionID string) (*session.Context, error) {
	cmd := s.inner().B().Get().Key(s.contextKey(sessionID)).Build()
	data, err := s.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, nil
		}
		return nil, storeErr("context read", err)
	}

	var c session.Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal context: %w", err)
	}
	return &c, nil
}

// ClearContext deletes the context record only, leaving history intact.
func (s *ValkeySessionStore) ClearContext(ctx context.Context, sessionID string) error {
	cmd := s.inner().B().Del().Key(s.contextKey(sessionID)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return storeErr("context delete", err)
	}
	return nil
}

// ClearSession removes both records with a single multi-key DEL, so the
// deletion is atomic from the caller's perspective.
func (s *ValkeySessionStore) ClearSession(ctx context.Context, sessionID string) error {
	cmd := s.inner().B().Del().Key(s.chatKey(sessionID), s.contextKey(sessionID)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return storeErr("session delete", err)
	}
	return nil
}

// RefreshSession resets the TTL on whichever records exist. EXPIRE on a
// missing key returns 0 and is not an error, so absent records are left
// uncreated.
func (s *ValkeySessionStore) RefreshSession(ctx context.Context, sessionID string) error {
	seconds := int64(s.sessionTTL.Seconds())
	for _, key := range []string{s.chatKey(sessionID), s.contextKey(sessionID)} {
		cmd := s.inner().B().Expire().Key(key).Seconds(seconds).Build()
		if err := s.inner().Do(ctx, cmd).Error(); err != nil {
			return storeErr("refresh", err)
		}
	}
	return nil
}

// SessionExists reports whether either record is present.
func (s *ValkeySessionStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	cmd := s.inner().B().Exists().Key(s.chatKey(sessionID), s.contextKey(sessionID)).Build()
	count, err := s.inner().Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, storeErr("existence check", err)
	}
	return count > 0, nil
}

// Ping probes the store without touching any session key.
func (s *ValkeySessionStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// Lock acquires a short-lived advisory lock for the session using SET NX
// with a unique token, retrying with jitter. The lock expires on its own if
// the holder dies.
func (s *ValkeySessionStore) Lock(ctx context.Context, sessionID string) (string, error) {
	lockKey := s.chatKey(sessionID) + lockSuffix
	token := uuid.New().String()

	for i := 0; i < maxLockRetries; i++ {
		cmd := s.inner().B().Set().
			Key(lockKey).
			Value(token).
			Nx().
			Ex(lockTTL).
			Build()

		err := s.inner().Do(ctx, cmd).Error()
		if err == nil {
			return token, nil
		}
		if !valkey.IsNil(err) {
			logrus.Debugf("[SessionStore] lock attempt %d failed for %s: %v", i+1, sessionID, err)
		}

		sleep := lockWaitTime + time.Duration(rand.Intn(20))*time.Millisecond
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(sleep):
		}
	}

	return "", fmt.Errorf("session lock acquisition timed out")
}

// Unlock releases the advisory lock only if the token still owns it, via a
// Lua script so the check-and-delete is atomic.
func (s *ValkeySessionStore) Unlock(ctx context.Context, sessionID, token string) error {
	lockKey := s.chatKey(sessionID) + lockSuffix

	cmd := s.inner().B().Eval().
		Script(releaseLockScript).
		Numkeys(1).
		Key(lockKey).
		Arg(token).
		Build()

	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to release session lock: %w", err)
	}
	return nil
}
