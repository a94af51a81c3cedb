// Package visitors keeps privacy-conscious page view counts: IPs are salted
// and hashed before they reach the database, and rows expire.
package visitors

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrOpen  = errors.New("open visitor store failed")
	ErrStore = errors.New("visitor store query failed")
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	visited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_visited_at ON visitors (visited_at);`

// Visit is one recorded page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	VisitedAt time.Time `json:"visited_at"`
}

// Summary aggregates the visit table.
type Summary struct {
	Total    int64  `json:"total_visitors"`
	Unique   int64  `json:"unique_visitors"`
	Today    int64  `json:"visitors_today"`
	ThisWeek int64  `json:"visitors_this_week"`
	TopPath  string `json:"top_path,omitempty"`
}

// Store is the SQLite-backed visit log.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithSalt fixes the hashing salt. By default a random salt is generated
// per process, so hashes cannot be joined across restarts.
func WithSalt(salt string) Option {
	return func(s *Store) { s.salt = salt }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	// One connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: schema: %v", ErrOpen, err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.salt == "" {
		s.salt = randomSalt()
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP salts and hashes ip; the result is stable for the store's lifetime.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores one visit.
func (s *Store) Record(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, visited_at) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("%w: record: %v", ErrStore, err)
	}
	return nil
}

// Summary counts visits overall, today (since local midnight) and over the
// last seven days.
func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	sum := &Summary{}
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT hashed_ip),
			COALESCE(SUM(CASE WHEN visited_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN visited_at >= ? THEN 1 ELSE 0 END), 0)
		FROM visitors`, midnight.Unix(), weekAgo.Unix())
	if err := row.Scan(&sum.Total, &sum.Unique, &sum.Today, &sum.ThisWeek); err != nil {
		return nil, fmt.Errorf("%w: summary: %v", ErrStore, err)
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT path FROM visitors
		GROUP BY path
		ORDER BY COUNT(*) DESC, path ASC
		LIMIT 1`).Scan(&sum.TopPath)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: top path: %v", ErrStore, err)
	}
	return sum, nil
}

// Recent returns up to limit visits, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent: %v", ErrStore, err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrStore, err)
		}
		v.VisitedAt = time.Unix(ts, 0)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrStore, err)
	}
	return out, nil
}

// Cleanup deletes visits older than retention and returns how many went.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup: %v", ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: cleanup rows affected: %v", ErrStore, err)
	}
	return n, nil
}

func randomSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(fmt.Sprintf("visitors: read random salt: %v", err))
	}
	return hex.EncodeToString(b)
}
