// Package storage provides SQLite-based persistence for completed
// sessions and their replay traces. Uses the pure-Go modernc.org/sqlite
// driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// SessionRecord is one completed (or aborted) simulation session.
type SessionRecord struct {
	ID            int64
	Seed          int64
	Theme         string
	Width         int
	Height        int
	Ticks         uint64
	WorldChecksum uint64
	FinalChecksum uint64
	Winner        int // -1 when the session ended undecided
	DurationSecs  float64
	CreatedAt     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist. Checksums are
// stored as text because SQLite integers are signed 64-bit.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			theme TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			world_checksum TEXT NOT NULL,
			final_checksum TEXT NOT NULL,
			winner INTEGER NOT NULL DEFAULT -1,
			duration_secs REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_theme ON sessions(theme);
		CREATE INDEX IF NOT EXISTS idx_sessions_seed ON sessions(seed);

		CREATE TABLE IF NOT EXISTS replays (
			session_id INTEGER PRIMARY KEY,
			data BLOB NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session and returns the inserted ID.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (seed, theme, width, height, ticks, world_checksum, final_checksum, winner, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Seed,
		rec.Theme,
		rec.Width,
		rec.Height,
		int64(rec.Ticks),
		fmt.Sprintf("%016x", rec.WorldChecksum),
		fmt.Sprintf("%016x", rec.FinalChecksum),
		rec.Winner,
		rec.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveReplay attaches an encoded replay trace to a saved session.
func (s *Store) SaveReplay(sessionID int64, data []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO replays (session_id, data) VALUES (?, ?)`,
		sessionID, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save replay: %w", err)
	}
	return nil
}

// ReplayData retrieves the encoded replay trace for a session.
// Returns nil data when no replay was stored.
func (s *Store) ReplayData(sessionID int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT data FROM replays WHERE session_id = ?",
		sessionID,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return data, nil
}

// SessionByID retrieves a single session record. Returns nil when the
// session does not exist.
func (s *Store) SessionByID(id int64) (*SessionRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, seed, theme, width, height, ticks, world_checksum, final_checksum,
		        winner, duration_secs, created_at
		 FROM sessions
		 WHERE id = ?`,
		id,
	)

	rec, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return rec, nil
}

// RecentSessions retrieves the most recently saved sessions.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, theme, width, height, ticks, world_checksum, final_checksum,
		        winner, duration_secs, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SessionsByTheme retrieves sessions generated with a specific theme.
func (s *Store) SessionsByTheme(theme string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, theme, width, height, ticks, world_checksum, final_checksum,
		        winner, duration_secs, created_at
		 FROM sessions
		 WHERE theme = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		theme, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ThemeStats contains aggregated statistics for a theme.
type ThemeStats struct {
	Theme        string
	SessionCount int
	AvgTicks     float64
	LastPlayed   time.Time
}

// AllThemeStats retrieves per-theme aggregates over all saved sessions.
func (s *Store) AllThemeStats() (map[string]*ThemeStats, error) {
	rows, err := s.db.Query(
		`SELECT theme, COUNT(*), AVG(ticks), MAX(created_at)
		 FROM sessions
		 GROUP BY theme`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get theme stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ThemeStats)
	for rows.Next() {
		var ts ThemeStats
		var lastPlayed any
		if err := rows.Scan(&ts.Theme, &ts.SessionCount, &ts.AvgTicks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ts.LastPlayed = parseDBTime(lastPlayed)
		stats[ts.Theme] = &ts
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearSessions deletes all sessions and their replays.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM replays"); err != nil {
		return fmt.Errorf("storage: cannot clear replays: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// scanSession reads one session row through the given Scan function.
func scanSession(scan func(...any) error) (*SessionRecord, error) {
	var rec SessionRecord
	var ticks int64
	var worldSum, finalSum string
	var createdAt any

	err := scan(
		&rec.ID,
		&rec.Seed,
		&rec.Theme,
		&rec.Width,
		&rec.Height,
		&ticks,
		&worldSum,
		&finalSum,
		&rec.Winner,
		&rec.DurationSecs,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Ticks = uint64(ticks)
	rec.WorldChecksum, err = strconv.ParseUint(worldSum, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid world checksum %q: %w", worldSum, err)
	}
	rec.FinalChecksum, err = strconv.ParseUint(finalSum, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid final checksum %q: %w", finalSum, err)
	}
	rec.CreatedAt = parseDBTime(createdAt)
	return &rec, nil
}

// parseDBTime handles both time.Time and string datetime values, which
// the sqlite driver returns depending on the column affinity.
func parseDBTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
