package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
	"github.com/ngophulan456hn/alice-assignment/infrastructure/valkey"
)

// Integration tests against a live Valkey server. Set VALKEY_TEST_ADDR
// (for example "localhost:6379") to run them.
func newTestValkeyStore(t *testing.T) *ValkeySessionStore {
	t.Helper()

	addr := os.Getenv("VALKEY_TEST_ADDR")
	if addr == "" {
		t.Skip("VALKEY_TEST_ADDR not set, skipping valkey integration tests")
	}

	client, err := valkey.NewClient(valkey.Config{
		Address:        addr,
		KeyPrefix:      "alice_test",
		ConnectTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to connect to valkey at %s: %v", addr, err)
	}
	t.Cleanup(client.Close)

	return NewValkeySessionStore(client, time.Hour)
}

func testSessionID(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("test-%s", uuid.New().String())
}

func TestValkeySessionStore_RoundTrip(t *testing.T) {
	store := newTestValkeyStore(t)
	ctx := context.Background()
	sessionID := testSessionID(t)
	t.Cleanup(func() { _ = store.ClearSession(ctx, sessionID) })

	if err := store.AppendTurn(ctx, sessionID, chat.RoleUser, "hello"); err != nil {
		t.Fatalf("AppendTurn() error: %v", err)
	}
	if err := store.AppendTurn(ctx, sessionID, chat.RoleAssistant, "hi there"); err != nil {
		t.Fatalf("AppendTurn() error: %v", err)
	}

	history, err := store.GetHistory(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetHistory() error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != chat.RoleUser || history[0].Content != "hello" {
		t.Fatalf("history[0] = %+v", history[0])
	}
	if history[1].Role != chat.RoleAssistant || history[1].Content != "hi there" {
		t.Fatalf("history[1] = %+v", history[1])
	}

	count, err := store.MessageCount(ctx, sessionID)
	if err != nil {
		t.Fatalf("MessageCount() error: %v", err)
	}
	if count != 2 {
		t.Fatalf("MessageCount() = %d, want 2", count)
	}
}

func TestValkeySessionStore_ContextLifecycle(t *testing.T) {
	store := newTestValkeyStore(t)
	ctx := context.Background()
	sessionID := testSessionID(t)
	t.Cleanup(func() { _ = store.ClearSession(ctx, sessionID) })

	docContext, err := store.GetContext(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetContext() error: %v", err)
	}
	if docContext != nil {
		t.Fatalf("GetContext() on fresh session = %+v, want nil", docContext)
	}

	if err := store.SetContext(ctx, sessionID, "document body", "report.pdf"); err != nil {
		t.Fatalf("SetContext() error: %v", err)
	}
	if err := store.SetContext(ctx, sessionID, "newer body", "data.csv"); err != nil {
		t.Fatalf("SetContext() error: %v", err)
	}

	docContext, err = store.GetContext(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetContext() error: %v", err)
	}
	if docContext == nil || docContext.Text != "newer body" || docContext.Filename != "data.csv" {
		t.Fatalf("GetContext() = %+v, want latest write", docContext)
	}

	if err := store.ClearContext(ctx, sessionID); err != nil {
		t.Fatalf("ClearContext() error: %v", err)
	}
	docContext, err = store.GetContext(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetContext() error: %v", err)
	}
	if docContext != nil {
		t.Fatal("context survived ClearContext")
	}
}

func TestValkeySessionStore_ClearSessionAndExists(t *testing.T) {
	store := newTestValkeyStore(t)
	ctx := context.Background()
	sessionID := testSessionID(t)
	t.Cleanup(func() { _ = store.ClearSession(ctx, sessionID) })

	exists, err := store.SessionExists(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionExists() error: %v", err)
	}
	if exists {
		t.Fatal("fresh session reported as existing")
	}

	if err := store.AppendTurn(ctx, sessionID, chat.RoleUser, "hello"); err != nil {
		t.Fatalf("AppendTurn() error: %v", err)
	}
	if err := store.SetContext(ctx, sessionID, "body", "doc.txt"); err != nil {
		t.Fatalf("SetContext() error: %v", err)
	}

	exists, err = store.SessionExists(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionExists() error: %v", err)
	}
	if !exists {
		t.Fatal("populated session reported as missing")
	}

	if err := store.ClearSession(ctx, sessionID); err != nil {
		t.Fatalf("ClearSession() error: %v", err)
	}
	exists, err = store.SessionExists(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionExists() error: %v", err)
	}
	if exists {
		t.Fatal("session still exists after ClearSession")
	}
}

func TestValkeySessionStore_LockRoundTrip(t *testing.T) {
	store := newTestValkeyStore(t)
	ctx := context.Background()
	sessionID := testSessionID(t)

	token, err := store.Lock(ctx, sessionID)
	if err != nil {
		t.Fatalf("Lock() error: %v", err)
	}
	if token == "" {
		t.Fatal("Lock() returned an empty token")
	}

	// A wrong token must not release the lock.
	if err := store.Unlock(ctx, sessionID, "bogus-token"); err != nil {
		t.Fatalf("Unlock() with wrong token error: %v", err)
	}
	shortCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if _, err := store.Lock(shortCtx, sessionID); err == nil {
		t.Fatal("Lock() succeeded while the session was still held")
	}

	if err := store.Unlock(ctx, sessionID, token); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}
	relocked, err := store.Lock(ctx, sessionID)
	if err != nil {
		t.Fatalf("Lock() after release error: %v", err)
	}
	if err := store.Unlock(ctx, sessionID, relocked); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}
}

func TestValkeySessionStore_RefreshAndPing(t *testing.T) {
	store := newTestValkeyStore(t)
	ctx := context.Background()
	sessionID := testSessionID(t)
	t.Cleanup(func() { _ = store.ClearSession(ctx, sessionID) })

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}

	// Refresh of a missing session must not create keys.
	if err := store.RefreshSession(ctx, sessionID); err != nil {
		t.Fatalf("RefreshSession() error: %v", err)
	}
	exists, err := store.SessionExists(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionExists() error: %v", err)
	}
	if exists {
		t.Fatal("refresh created a session out of nothing")
	}

	if err := store.AppendTurn(ctx, sessionID, chat.RoleUser, "hello"); err != nil {
		t.Fatalf("AppendTurn() error: %v", err)
	}
	if err := store.RefreshSession(ctx, sessionID); err != nil {
		t.Fatalf("RefreshSession() error: %v", err)
	}
}
