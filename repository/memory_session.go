package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
	"github.com/ngophulan456hn/alice-assignment/domains/session"
)

// MemorySessionStore implements session.ISessionManager with in-process
// maps. It backs development and tests; data is lost on restart. Expiry is
// enforced lazily on access instead of by a background sweeper.
type MemorySessionStore struct {
	mu         sync.Mutex
	sessionTTL time.Duration

	histories  map[string]*historyEntry
	contexts   map[string]*contextEntry
	lockTokens map[string]lockEntry

	now func() time.Time
}

type historyEntry struct {
	turns    []chat.Turn
	expireAt time.Time
}

type contextEntry struct {
	data     session.Context
	expireAt time.Time
}

type lockEntry struct {
	token    string
	expireAt time.Time
}

func NewMemorySessionStore(sessionTTL time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessionTTL: sessionTTL,
		histories:  make(map[string]*historyEntry),
		contexts:   make(map[string]*contextEntry),
		lockTokens: make(map[string]lockEntry),
		now:        time.Now,
	}
}

func (ms *MemorySessionStore) liveHistory(sessionID string) *historyEntry {
	e, ok := ms.histories[sessionID]
	if !ok {
		return nil
	}
	if ms.now().After(e.expireAt) {
		delete(ms.histories, sessionID)
		return nil
	}
	return e
}

func (ms *MemorySessionStore) liveContext(sessionID string) *contextEntry {
	e, ok := ms.contexts[sessionID]
	if !ok {
		return nil
	}
	if ms.now().After(e.expireAt) {
		delete(ms.contexts, sessionID)
		return nil
	}
	return e
}

func (ms *MemorySessionStore) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e := ms.liveHistory(sessionID)
	if e == nil {
		e = &historyEntry{}
		ms.histories[sessionID] = e
	}
	e.turns = append(e.turns, chat.Turn{Role: role, Content: content})
	e.expireAt = ms.now().Add(ms.sessionTTL)
	return nil
}

func (ms *MemorySessionStore) GetHistory(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e := ms.liveHistory(sessionID)
	if e == nil {
		return []chat.Turn{}, nil
	}
	out := make([]chat.Turn, len(e.turns))
	copy(out, e.turns)
	return out, nil
}

func (ms *MemorySessionStore) MessageCount(ctx context.Context, sessionID string) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e := ms.liveHistory(sessionID)
	if e == nil {
		return 0, nil
	}
	return int64(len(e.turns)), nil
}

func (ms *MemorySessionStore) ClearHistory(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.histories, sessionID)
	return nil
}

func (ms *MemorySessionStore) SetContext(ctx context.Context, sessionID, text, filename string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.contexts[sessionID] = &contextEntry{
		data:     session.Context{Text: text, Filename: filename},
		expireAt: ms.now().Add(ms.sessionTTL),
	}
	return nil
}

func (ms *MemorySessionStore) GetContext(ctx context.Context, sessionID string) (*session.Context, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e := ms.liveContext(sessionID)
	if e == nil {
		return nil, nil
	}
	c := e.data
	return &c, nil
}

func (ms *MemorySessionStore) ClearContext(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.contexts, sessionID)
	return nil
}

func (ms *MemorySessionStore) ClearSession(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.histories, sessionID)
	delete(ms.contexts, sessionID)
	return nil
}

func (ms *MemorySessionStore) RefreshSession(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	expireAt := ms.now().Add(ms.sessionTTL)
	if e := ms.liveHistory(sessionID); e != nil {
		e.expireAt = expireAt
	}
	if e := ms.liveContext(sessionID); e != nil {
		e.expireAt = expireAt
	}
	return nil
}

func (ms *MemorySessionStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return ms.liveHistory(sessionID) != nil || ms.liveContext(sessionID) != nil, nil
}

func (ms *MemorySessionStore) Ping(ctx context.Context) error {
	return nil
}

func (ms *MemorySessionStore) Lock(ctx context.Context, sessionID string) (string, error) {
	deadline := ms.now().Add(lockTTL)
	for {
		ms.mu.Lock()
		existing, held := ms.lockTokens[sessionID]
		if !held || ms.now().After(existing.expireAt) {
			token := uuid.New().String()
			ms.lockTokens[sessionID] = lockEntry{token: token, expireAt: ms.now().Add(lockTTL)}
			ms.mu.Unlock()
			return token, nil
		}
		ms.mu.Unlock()

		if ms.now().After(deadline) {
			return "", fmt.Errorf("session lock acquisition timed out")
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(lockWaitTime):
		}
	}
}

func (ms *MemorySessionStore) Unlock(ctx context.Context, sessionID, token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if e, held := ms.lockTokens[sessionID]; held && e.token == token {
		delete(ms.lockTokens, sessionID)
	}
	return nil
}
