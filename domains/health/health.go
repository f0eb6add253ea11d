package health

import (
	"context"
	"time"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	StateConnected    = "connected"
	StateDisconnected = "disconnected"
)

// Status is the live health snapshot returned by the health endpoint.
// Overall status is healthy only when the store is reachable, the inference
// server is reachable, and the configured model is present.
type Status struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Store   string `json:"store"`
	Ollama  string `json:"ollama"`
	Model   string `json:"model"`
}

// Record is one persisted health-check result per dependency.
type Record struct {
	ID          string     `json:"id"`
	Dependency  string     `json:"dependency"`
	Status      string     `json:"status"`
	LastMessage string     `json:"last_message"`
	LastChecked time.Time  `json:"last_checked"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

type IHealthUsecase interface {
	// Check probes store and inference backend. Sub-check failures degrade
	// the snapshot instead of propagating.
	Check(ctx context.Context) Status
	// StoreConnected reports store reachability only (root liveness line).
	StoreConnected(ctx context.Context) bool
	// Records returns the persisted last-known state per dependency.
	Records(ctx context.Context) ([]Record, error)
}
