package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // registers "postgres"
	_ "modernc.org/sqlite" // registers "sqlite"

	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/pkg/metrics"
)

// Supported session drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const sessionsSchema = `CREATE TABLE IF NOT EXISTS hr_sessions (
	name       TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	user_json  TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// SQLSessionStore implements session.Store on database/sql.
type SQLSessionStore struct {
	db     *sql.DB
	driver string
}

var _ session.Store = (*SQLSessionStore)(nil)

// OpenSessionStore opens dsn with driver, checks the connection and
// creates the sessions table if needed.
func OpenSessionStore(ctx context.Context, driver, dsn string) (*SQLSessionStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrStore, err)
	}
	if driver == DriverSQLite {
		// One writer; an in-memory database lives only as long as its connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrStore, err)
	}
	if _, err := db.ExecContext(ctx, sessionsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", ErrStore, err)
	}
	return &SQLSessionStore{db: db, driver: driver}, nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLSessionStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save implements session.Store.Save.
func (s *SQLSessionStore) Save(ctx context.Context, name string, sess session.Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("%w: encode user: %w", ErrStore, err)
	}
	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO hr_sessions (name, token, user_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			token = excluded.token,
			user_json = excluded.user_json,
			created_at = excluded.created_at
	`), name, sess.Token, string(user), created.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("%w: save: %w", ErrStore, err)
	}
	metrics.RecordSessionEvent("save")
	return nil
}

// Load implements session.Store.Load.
func (s *SQLSessionStore) Load(ctx context.Context, name string) (session.Session, error) {
	var (
		sess    session.Session
		user    string
		created string
	)
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT token, user_json, created_at FROM hr_sessions WHERE name = ?
	`), name)
	if err := row.Scan(&sess.Token, &user, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, fmt.Errorf("%w: load: %w", ErrStore, err)
	}
	if err := json.Unmarshal([]byte(user), &sess.User); err != nil {
		return session.Session{}, fmt.Errorf("%w: decode user: %w", ErrStore, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		sess.CreatedAt = t
	}
	metrics.RecordSessionEvent("load")
	return sess, nil
}

// Delete implements session.Store.Delete.
func (s *SQLSessionStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM hr_sessions WHERE name = ?`), name); err != nil {
		return fmt.Errorf("%w: delete: %w", ErrStore, err)
	}
	metrics.RecordSessionEvent("delete")
	return nil
}

// Close closes the database.
func (s *SQLSessionStore) Close() error {
	return s.db.Close()
}
