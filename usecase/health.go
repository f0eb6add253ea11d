package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ngophulan456hn/alice-assignment/config"
	"github.com/ngophulan456hn/alice-assignment/domains/health"
	"github.com/ngophulan456hn/alice-assignment/domains/session"
)

const (
	dependencyStore  = "store"
	dependencyOllama = "ollama"

	healthProbeTimeout = 5 * time.Second
)

// inferenceProbe is the health-facing slice of the ollama client.
type inferenceProbe interface {
	Model() string
	Models(ctx context.Context) ([]string, error)
}

type healthService struct {
	db       *sql.DB
	sessions session.ISessionManager
	probe    inferenceProbe
}

func initHealthStorageDB() (*sql.DB, error) {
	dbPath := fmt.Sprintf("%s/health.db", config.Global.Paths.Storages)
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, err
	}

	createHealthTable := `
		CREATE TABLE IF NOT EXISTS health_checks (
			id TEXT NOT NULL,
			dependency TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			last_message TEXT,
			last_checked TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_success TIMESTAMP
		);
	`

	if _, err := db.Exec(createHealthTable); err != nil {
		return nil, err
	}

	return db, nil
}

// NewHealthService probes the session store and inference backend and keeps
// a last-known-state record per dependency in a local sqlite log. A failed
// log initialization degrades to live checks only.
func NewHealthService(sessions session.ISessionManager, probe inferenceProbe) health.IHealthUsecase {
	db, err := initHealthStorageDB()
	if err != nil {
		logrus.WithError(err).Error("[HEALTH] failed to initialize storage")
		db = nil
	}
	return &healthService{
		db:       db,
		sessions: sessions,
		probe:    probe,
	}
}

// Check probes both dependencies. Sub-check errors degrade the snapshot
// instead of propagating; overall status is healthy only when the store is
// reachable, the server answers, and the configured model is present.
func (s *healthService) Check(ctx context.Context) health.Status {
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	storeOK := s.sessions.Ping(probeCtx) == nil
	s.record(ctx, dependencyStore, storeOK, storeStateMessage(storeOK))

	modelName := ""
	models, err := s.probe.Models(probeCtx)
	ollamaOK := err == nil
	if ollamaOK {
		for _, m := range models {
			if strings.Contains(m, s.probe.Model()) {
				modelName = s.probe.Model()
				break
			}
		}
	}
	s.record(ctx, dependencyOllama, ollamaOK && modelName != "", ollamaStateMessage(ollamaOK, modelName))

	status := health.Status{
		Status:  health.StatusDegraded,
		Backend: "running",
		Store:   health.StateDisconnected,
		Ollama:  health.StateDisconnected,
		Model:   fmt.Sprintf("%s not found", s.probe.Model()),
	}
	if storeOK {
		status.Store = health.StateConnected
	}
	if ollamaOK {
		status.Ollama = health.StateConnected
	}
	if modelName != "" {
		status.Model = modelName
	}
	if storeOK && ollamaOK && modelName != "" {
		status.Status = health.StatusHealthy
	}
	return status
}

func (s *healthService) StoreConnected(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	return s.sessions.Ping(probeCtx) == nil
}

func (s *healthService) Records(ctx context.Context) ([]health.Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("health storage not initialized")
	}

	query := `SELECT id, dependency, status, last_message, last_checked, last_success FROM health_checks`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []health.Record
	for rows.Next() {
		var r health.Record
		var lastSuccess sql.NullTime
		if err := rows.Scan(&r.ID, &r.Dependency, &r.Status, &r.LastMessage, &r.LastChecked, &lastSuccess); err != nil {
			return nil, err
		}
		if lastSuccess.Valid {
			r.LastSuccess = &lastSuccess.Time
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// record upserts the dependency's last-known state. Logging-only on failure;
// health checks never fail because the log does.
func (s *healthService) record(ctx context.Context, dependency string, ok bool, message string) {
	if s.db == nil {
		return
	}

	status := "OK"
	now := time.Now().UTC()
	var lastSuccess any
	if ok {
		lastSuccess = now
	} else {
		status = "ERROR"
		lastSuccess = nil
	}

	query := `
		INSERT INTO health_checks (id, dependency, status, last_message, last_checked, last_success)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(dependency) DO UPDATE SET
			status = excluded.status,
			last_message = excluded.last_message,
			last_checked = excluded.last_checked,
			last_success = COALESCE(excluded.last_success, health_checks.last_success)
	`
	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), dependency, status, message, now, lastSuccess); err != nil {
		logrus.Warnf("[HEALTH] failed to record %s check: %v", dependency, err)
	}
}

func storeStateMessage(ok bool) string {
	if ok {
		return "store reachable"
	}
	return "store connection failed"
}

func ollamaStateMessage(ok bool, modelName string) string {
	switch {
	case !ok:
		return "inference server unreachable"
	case modelName == "":
		return "inference server reachable but configured model is missing"
	default:
		return "inference server reachable, model present"
	}
}
