// File: internal/services/dbconn/manager.go
package dbconn

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/go-sql-driver/mysql"

	"github.com/voxai/voxai-sql/internal/domain"
)

// Logger defines the logging interface used by the connection manager.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Opener opens a database handle. Injected so tests can substitute sqlmock.
type Opener func(driverName, dsn string) (*sql.DB, error)

// QueryResult carries the rows a user query produced.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Manager owns the single live handle to the last-connected external MySQL
// database. The handle is process-wide: exactly zero or one live connection
// exists at any instant, and connecting replaces the previous handle
// wholesale. Callers go through ensureLive so they never hold a stale handle
// across a reconnect.
type Manager struct {
	mu     sync.Mutex
	open   Opener
	driver string
	db     *sql.DB
	record *domain.Database
	logger Logger
}

// NewManager creates a manager using the real MySQL driver.
func NewManager(logger Logger) *Manager {
	return NewManagerWithOpener(sql.Open, "mysql", logger)
}

// NewManagerWithOpener creates a manager with an injected opener.
func NewManagerWithOpener(open Opener, driver string, logger Logger) *Manager {
	return &Manager{open: open, driver: driver, logger: logger}
}

func dsnFor(record *domain.Database) string {
	cfg := mysql.NewConfig()
	cfg.User = record.Username
	cfg.Passwd = record.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", record.Host, record.Port)
	cfg.DBName = record.DBName
	return cfg.FormatDSN()
}

// Connect closes any existing live handle and opens a new one using the
// record's stored parameters, verifying it with a liveness probe.
func (m *Manager) Connect(ctx context.Context, record *domain.Database) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()

	db, err := m.openAndProbe(ctx, record)
	if err != nil {
		return err
	}

	m.db = db
	m.record = record
	m.logger.Info("database connection established",
		"database", record.DBName, "host", record.Host)
	return nil
}

// EnsureLive returns the current handle, transparently reconnecting from the
// last-known record when the handle is absent or fails its liveness probe.
func (m *Manager) EnsureLive(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureLiveLocked(ctx)
}

// Disconnect closes the live handle if present. Idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	m.record = nil
}

// ActiveRecord returns the database record the live handle was opened from,
// or nil when no connect has happened yet.
func (m *Manager) ActiveRecord() *domain.Database {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record
}

// Execute runs a user query against the active connection. A transport
// failure triggers one transparent reconnect attempt; if that also fails the
// handle is cleared so the next call starts clean. Statement errors from the
// server are surfaced as-is.
func (m *Manager) Execute(ctx context.Context, query string) (*QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, err := m.ensureLiveLocked(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		if !IsTransportError(err) {
			return nil, err
		}

		m.logger.Warn("connection lost during query, attempting to reconnect", "cause", err.Error())
		m.closeLocked()

		db, rerr := m.ensureLiveLocked(ctx)
		if rerr != nil {
			return nil, &ConnError{
				Reason:    ReasonTransportLost,
				Operation: "execute",
				Message:   "lost database connection and failed to reconnect",
				Cause:     err,
			}
		}
		rows, err = db.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}
	}
	defer rows.Close()

	return collectRows(rows)
}

// TestConnection opens a throwaway handle for the record, probes it and
// introspects the schema, then closes it. The live slot is untouched. Used
// when a database is first registered.
func (m *Manager) TestConnection(ctx context.Context, record *domain.Database) (string, error) {
	db, err := m.openAndProbe(ctx, record)
	if err != nil {
		return "", err
	}
	defer db.Close()

	schema, err := IntrospectSchema(ctx, db, record.DBName)
	if err != nil {
		return "", err
	}
	return schema, nil
}

// IntrospectActive renders the schema of the currently live database. A
// failure here is soft: the caller substitutes an empty schema.
func (m *Manager) IntrospectActive(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, err := m.ensureLiveLocked(ctx)
	if err != nil {
		return "", err
	}
	return IntrospectSchema(ctx, db, m.record.DBName)
}

func (m *Manager) ensureLiveLocked(ctx context.Context) (*sql.DB, error) {
	if m.db != nil {
		if err := probe(ctx, m.db); err == nil {
			return m.db, nil
		}
		m.logger.Warn("liveness probe failed, reconnecting")
		m.closeLocked()
	}

	if m.record == nil {
		return nil, &ConnError{
			Reason:    ReasonNoDatabase,
			Operation: "ensure_live",
			Message:   "no active database connection",
		}
	}

	db, err := m.openAndProbe(ctx, m.record)
	if err != nil {
		return nil, err
	}
	m.db = db
	return m.db, nil
}

func (m *Manager) openAndProbe(ctx context.Context, record *domain.Database) (*sql.DB, error) {
	db, err := m.open(m.driver, dsnFor(record))
	if err != nil {
		return nil, newConnError("connect", err)
	}
	if err := probe(ctx, db); err != nil {
		db.Close()
		return nil, newConnError("connect", err)
	}
	return db, nil
}

func (m *Manager) closeLocked() {
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.logger.Warn("error closing database handle", "error", err.Error())
		}
		m.db = nil
	}
}

// probe issues the trivial liveness query.
func probe(ctx context.Context, db *sql.DB) error {
	var one int
	return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

func collectRows(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
