// Package storage provides SQLite-based persistence for finished chases.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02 15:04:05.000000"

// Store manages the SQLite database connection for chase history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// ChaseRecord is one caught runner.
type ChaseRecord struct {
	ID           uuid.UUID
	Mode         string // game ID, e.g. "catchbash" or "catchbash_glide"
	Region       string // empty for the whole world
	CaughtIn     string // country name
	Reason       string // "name" or "distance"
	Guesses      int
	RunnerHops   int
	DurationSecs float64
	Score        int
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
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

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions save concurrently; SQLite takes one writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot enable WAL: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS chases (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			region TEXT NOT NULL DEFAULT '',
			caught_in TEXT NOT NULL,
			reason TEXT NOT NULL,
			guesses INTEGER NOT NULL DEFAULT 0,
			runner_hops INTEGER NOT NULL DEFAULT 0,
			duration_secs REAL NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chases_mode ON chases(mode);
		CREATE INDEX IF NOT EXISTS idx_chases_top ON chases(mode, score DESC);
		CREATE INDEX IF NOT EXISTS idx_chases_created ON chases(created_at DESC);
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

// SaveChase records a finished chase. A missing ID or timestamp is filled in.
// Returns the ID of the stored record.
func (s *Store) SaveChase(r ChaseRecord) (uuid.UUID, error) {
	if r.Mode == "" {
		return uuid.Nil, errors.New("storage: chase has no mode")
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	_, err := s.db.Exec(
		`INSERT INTO chases
		 (id, mode, region, caught_in, reason, guesses, runner_hops, duration_secs, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(),
		r.Mode,
		r.Region,
		r.CaughtIn,
		r.Reason,
		r.Guesses,
		r.RunnerHops,
		r.DurationSecs,
		r.Score,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot save chase: %w", err)
	}
	return r.ID, nil
}

const chaseColumns = `id, mode, region, caught_in, reason, guesses, runner_hops, duration_secs, score, created_at`

// TopChases retrieves the best chases for a mode, highest score first.
// An empty mode matches every mode; an empty region matches every region.
func (s *Store) TopChases(mode, region string, limit int) ([]ChaseRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+chaseColumns+`
		 FROM chases
		 WHERE (? = '' OR mode = ?) AND (? = '' OR region = ?)
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		mode, mode, region, region, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query chases: %w", err)
	}
	return scanChases(rows)
}

// RecentChases retrieves the latest chases across all modes.
func (s *Store) RecentChases(limit int) ([]ChaseRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+chaseColumns+`
		 FROM chases
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query chases: %w", err)
	}
	return scanChases(rows)
}

// ChaseByID retrieves one chase. Returns nil if it does not exist.
func (s *Store) ChaseByID(id uuid.UUID) (*ChaseRecord, error) {
	rows, err := s.db.Query(`SELECT `+chaseColumns+` FROM chases WHERE id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query chase: %w", err)
	}
	records, err := scanChases(rows)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}

func scanChases(rows *sql.Rows) ([]ChaseRecord, error) {
	defer rows.Close()

	var records []ChaseRecord
	for rows.Next() {
		var r ChaseRecord
		var id, createdAt string
		if err := rows.Scan(
			&id,
			&r.Mode,
			&r.Region,
			&r.CaughtIn,
			&r.Reason,
			&r.Guesses,
			&r.RunnerHops,
			&r.DurationSecs,
			&r.Score,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("storage: bad chase id %q: %w", id, err)
		}
		r.ID = parsed
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

func parseTime(v string) time.Time {
	t, err := time.ParseInLocation(timeLayout, v, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BestScore returns the highest score for the given mode.
// Returns 0 if no chases exist.
func (s *Store) BestScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM chases WHERE mode = ?",
		mode,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearChases deletes all chases for the given mode, or every chase when
// mode is empty. Returns the number of deleted rows.
func (s *Store) ClearChases(mode string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM chases WHERE ? = '' OR mode = ?", mode, mode)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear chases: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared chases: %w", err)
	}
	return n, nil
}

// ModeStats contains aggregated statistics for a game mode.
type ModeStats struct {
	Mode          string
	Chases        int
	BestScore     int
	AvgScore      float64
	AvgGuesses    float64
	FewestGuesses int
	LastPlayed    time.Time
}

const statsColumns = `COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
	COALESCE(AVG(guesses), 0), COALESCE(MIN(guesses), 0), COALESCE(MAX(created_at), '')`

// GetModeStats retrieves aggregated statistics for a specific mode.
func (s *Store) GetModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}
	var lastPlayed string

	err := s.db.QueryRow(
		`SELECT `+statsColumns+` FROM chases WHERE mode = ?`,
		mode,
	).Scan(&stats.Chases, &stats.BestScore, &stats.AvgScore, &stats.AvgGuesses, &stats.FewestGuesses, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllModeStats retrieves statistics for every mode that has been played.
func (s *Store) GetAllModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, ` + statsColumns + `
		 FROM chases
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var m ModeStats
		var lastPlayed string
		if err := rows.Scan(&m.Mode, &m.Chases, &m.BestScore, &m.AvgScore, &m.AvgGuesses, &m.FewestGuesses, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.Mode] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
