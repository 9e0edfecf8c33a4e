package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var DB *sql.DB

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// FetchRecord is one transcript request outcome. Transcript text is never
// stored.
type FetchRecord struct {
	ID         int64     `json:"id"`
	VideoID    string    `json:"videoId"`
	Status     string    `json:"status"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	Segments   int       `json:"segments"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

func InitializeDB(dbPath string) error {
	logrus.WithField("path", dbPath).Info("Initializing database")

	// Ensure the directory for the database file exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "error creating directory for database")
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return errors.Wrap(err, "error opening database")
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	_, err = conn.Exec(`CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id TEXT NOT NULL,
		status TEXT NOT NULL,
		error_kind TEXT NOT NULL DEFAULT '',
		segments INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "error creating table")
	}

	_, err = conn.Exec(`CREATE INDEX IF NOT EXISTS idx_fetches_video_id ON fetches(video_id)`)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "error creating index")
	}

	DB = conn
	return nil
}

// Enabled reports whether InitializeDB has opened the fetch log.
func Enabled() bool {
	return DB != nil
}

func RecordFetch(ctx context.Context, rec FetchRecord) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "error beginning transaction")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fetches
		(video_id, status, error_kind, segments, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "error preparing statement")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		rec.VideoID,
		rec.Status,
		rec.ErrorKind,
		rec.Segments,
		rec.DurationMs,
		rec.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "error executing statement")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "error committing transaction")
	}

	return nil
}

// RecentFetches returns up to limit records, newest first.
func RecentFetches(ctx context.Context, limit int) ([]FetchRecord, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := DB.QueryContext(ctx, `SELECT id, video_id, status, error_kind, segments, duration_ms, created_at
		FROM fetches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "error querying database")
	}
	defer rows.Close()

	records := []FetchRecord{}
	for rows.Next() {
		var rec FetchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.VideoID,
			&rec.Status,
			&rec.ErrorKind,
			&rec.Segments,
			&rec.DurationMs,
			&rec.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return records, nil
}

// CountFetches returns how many attempts were logged for videoID.
func CountFetches(ctx context.Context, videoID string) (int, error) {
	if DB == nil {
		return 0, errors.New("database not initialized")
	}

	var count int
	err := DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM fetches WHERE video_id = ?", videoID).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "error querying database")
	}
	return count, nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	err := DB.Close()
	DB = nil
	return err
}
