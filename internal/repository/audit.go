// Package repository persists an audit trail of pipeline events. Auditing
// is optional: with no DSN configured the rest of the service runs fully
// in-memory, which matches the source system's "no durable store" contract.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// AuditEvent is one recorded pipeline step.
type AuditEvent struct {
	ID        uuid.UUID
	SessionID string
	Event     string // upload | process | generate | download
	Detail    string
	CreatedAt time.Time
}

// AuditStore records and lists pipeline events.
type AuditStore interface {
	Record(ctx context.Context, e AuditEvent) error
	Recent(ctx context.Context, limit int) ([]AuditEvent, error)
	Close() error
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS form_jobs (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	event      TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
)`

// OpenAudit opens the audit store for the given DSN. postgres:// DSNs go
// through pgx; anything else is treated as a sqlite path. An empty DSN
// returns a no-op store.
func OpenAudit(ctx context.Context, dsn string, logger *slog.Logger) (AuditStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		logger.Info("audit disabled, no DSN configured")
		return nopAudit{}, nil
	}

	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	if _, err := db.ExecContext(ctx, auditSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}

	logger.Info("audit store ready", "driver", driver)
	return &sqlAudit{db: db, logger: logger}, nil
}

type sqlAudit struct {
	db     *sql.DB
	logger *slog.Logger
}

func (a *sqlAudit) Record(ctx context.Context, e AuditEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO form_jobs (id, session_id, event, detail, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID.String(), e.SessionID, e.Event, e.Detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

func (a *sqlAudit) Recent(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, session_id, event, detail, created_at FROM form_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var out []AuditEvent
	for rows.Next() {
		var e AuditEvent
		var id string
		if err := rows.Scan(&id, &e.SessionID, &e.Event, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.ID, _ = uuid.Parse(id)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (a *sqlAudit) Close() error {
	return a.db.Close()
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, AuditEvent) error          { return nil }
func (nopAudit) Recent(context.Context, int) ([]AuditEvent, error) { return nil, nil }
func (nopAudit) Close() error                                      { return nil }
