package admin

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// VisitorMetric is one tracked page visit. The client address is stored
// hashed.
type VisitorMetric struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Theme     string    `json:"theme,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SectionStat counts how often a page section was revealed.
type SectionStat struct {
	Section string `json:"section"`
	Reveals int64  `json:"reveals"`
	Views   int64  `json:"views"`
}

// Stats is the dashboard summary.
type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalReveals     int64           `json:"total_reveals"`
	RevealedViews    int64           `json:"revealed_views"`
	TopSections      []SectionStat   `json:"top_sections"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
}

// Retention is how long visitor and reveal rows are kept.
const Retention = 365 * 24 * time.Hour

// Store persists visits and reveal beacons in sqlite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	theme TEXT,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_ts ON visitors (ts);
CREATE TABLE IF NOT EXISTS reveals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	view_id TEXT NOT NULL,
	element TEXT NOT NULL,
	section TEXT NOT NULL,
	ts INTEGER NOT NULL,
	UNIQUE (view_id, element)
);
CREATE INDEX IF NOT EXISTS reveals_section ON reveals (section);
`

// Open opens (creating if needed) the analytics database at path. Use
// ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	// sqlite serializes writers; one connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate analytics db: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordVisit stores one page visit.
func (s *Store) RecordVisit(ctx context.Context, v VisitorMetric) error {
	ts := v.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, theme, ts) VALUES (?, ?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.Theme, ts.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordReveal stores that element entered the viewport during view. Only
// the first report per view and element counts; it returns false for
// repeats.
func (s *Store) RecordReveal(ctx context.Context, viewID, element, section string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reveals (view_id, element, section, ts) VALUES (?, ?, ?, ?)`,
		viewID, element, section, s.now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("record reveal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record reveal: %w", err)
	}
	return n > 0, nil
}

// Cleanup removes rows older than the retention window and reports how
// many visits and reveals were dropped.
func (s *Store) Cleanup(ctx context.Context) (visits, reveals int64, err error) {
	cutoff := s.now().Add(-Retention).Unix()

	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	visits, _ = res.RowsAffected()

	res, err = s.db.ExecContext(ctx, `DELETE FROM reveals WHERE ts < ?`, cutoff)
	if err != nil {
		return visits, 0, fmt.Errorf("cleanup reveals: %w", err)
	}
	reveals, _ = res.RowsAffected()
	return visits, reveals, nil
}

// Stats builds the dashboard summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		query string
		args  []any
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM visitors`, nil, &stats.TotalVisitors},
		{`SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil, &stats.UniqueVisitors},
		{`SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{startOfDay.Unix()}, &stats.VisitorsToday},
		{`SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{now.Add(-7 * 24 * time.Hour).Unix()}, &stats.VisitorsThisWeek},
		{`SELECT COUNT(*) FROM reveals`, nil, &stats.TotalReveals},
		{`SELECT COUNT(DISTINCT view_id) FROM reveals`, nil, &stats.RevealedViews},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT section, COUNT(*) AS reveals, COUNT(DISTINCT view_id) AS views
		FROM reveals
		GROUP BY section
		ORDER BY reveals DESC, section
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("stats sections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st SectionStat
		if err := rows.Scan(&st.Section, &st.Reveals, &st.Views); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		stats.TopSections = append(stats.TopSections, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats sections: %w", err)
	}

	stats.RecentVisitors, err = s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RecentVisitors returns the latest visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), COALESCE(theme, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var (
			v  VisitorMetric
			ts int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Theme, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}
