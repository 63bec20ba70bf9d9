package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const historyFileName = "history.db"

// Completion is one countdown that reached zero.
type Completion struct {
	Phase        string
	DurationSecs int
	CompletedAt  time.Time
}

// History records completed countdowns in SQLite.
type History struct {
	db *sql.DB
}

// HistoryPath returns the history database location for appName.
func HistoryPath(appName string) (string, error) {
	configDir, err := AppDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, historyFileName), nil
}

// OpenHistory opens (and if needed creates) the database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phase TEXT NOT NULL,
			duration_secs INTEGER NOT NULL,
			completed_at INTEGER NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create completions table: %w", err)
	}

	return &History{db: db}, nil
}

// Record stores a completion.
func (history *History) Record(ctx context.Context, completion Completion) error {
	_, err := history.db.ExecContext(ctx,
		`INSERT INTO completions (phase, duration_secs, completed_at) VALUES (?, ?, ?)`,
		completion.Phase, completion.DurationSecs, completion.CompletedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// CountSince returns how many countdowns of phase completed at or after since.
func (history *History) CountSince(ctx context.Context, phase string, since time.Time) (int, error) {
	var count int
	err := history.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM completions WHERE phase = ? AND completed_at >= ?`,
		phase, since.Unix(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return count, nil
}

// Recent returns the latest completions, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]Completion, error) {
	rows, err := history.db.QueryContext(ctx,
		`SELECT phase, duration_secs, completed_at FROM completions ORDER BY completed_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var completions []Completion
	for rows.Next() {
		var completion Completion
		var completedAt int64
		if err := rows.Scan(&completion.Phase, &completion.DurationSecs, &completedAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completion.CompletedAt = time.Unix(completedAt, 0)
		completions = append(completions, completion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return completions, nil
}

// Close releases the database.
func (history *History) Close() error {
	return history.db.Close()
}
