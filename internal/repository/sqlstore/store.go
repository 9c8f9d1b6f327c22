// Package sqlstore persists sessions through database/sql for SQLite and MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/Rrens/room-designer/internal/domain"
)

// Dialect captures the statements that differ between engines
type Dialect struct {
	Name   string
	driver string
	schema string
	upsert string
}

var (
	SQLite = Dialect{
		Name:   "sqlite",
		driver: "sqlite",
		schema: `CREATE TABLE IF NOT EXISTS design_sessions (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		upsert: `INSERT INTO design_sessions (id, data, created_at, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
	}

	MySQL = Dialect{
		Name:   "mysql",
		driver: "mysql",
		schema: `CREATE TABLE IF NOT EXISTS design_sessions (
			id VARCHAR(64) PRIMARY KEY,
			data LONGTEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL,
			INDEX idx_design_sessions_updated_at (updated_at)
		)`,
		upsert: `INSERT INTO design_sessions (id, data, created_at, updated_at)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`,
	}
)

// Store implements domain.SessionRepository
type Store struct {
	db      *sql.DB
	dialect Dialect
	ttl     time.Duration
	now     func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite database file in WAL mode
func OpenSQLite(ctx context.Context, path string, ttl time.Duration) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open(SQLite.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	return New(ctx, db, SQLite, ttl)
}

// OpenMySQL connects to MySQL using a go-sql-driver DSN
func OpenMySQL(ctx context.Context, dsn string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open(MySQL.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return New(ctx, db, MySQL, ttl)
}

// New wraps an open database and ensures the schema exists
func New(ctx context.Context, db *sql.DB, dialect Dialect, ttl time.Duration) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialect.Name, err)
	}

	if _, err := db.ExecContext(ctx, dialect.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize %s schema: %w", dialect.Name, err)
	}

	return &Store{db: db, dialect: dialect, ttl: ttl, now: time.Now}, nil
}

// Timestamps are stored as unix milliseconds so both engines compare them numerically.
func (s *Store) cutoff() int64 {
	if s.ttl <= 0 {
		return 0
	}
	return s.now().Add(-s.ttl).UnixMilli()
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM design_sessions WHERE id = ? AND updated_at > ?`,
		id, s.cutoff(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.upsert,
		session.ID, string(data), session.CreatedAt.UnixMilli(), s.now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM design_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM design_sessions WHERE updated_at > ? ORDER BY created_at`,
		s.cutoff(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		var session domain.Session
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM design_sessions WHERE updated_at <= ?`, s.cutoff())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
