package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/registry/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteRegistry implements Registry using SQLite.
type SQLiteRegistry struct {
	db *sql.DB
}

// NewSQLiteRegistry opens (creating if needed) the registry database at dsn.
func NewSQLiteRegistry(dsn string) (*SQLiteRegistry, error) {
	if dsn == "" {
		dsn = "data/registry.db"
	}

	dir := filepath.Dir(dsn)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRegistry{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (r *SQLiteRegistry) Register(ctx context.Context, originalName, sanitizedName string) (string, error) {
	hash := ComputeHash(sanitizedName)

	var existingHash string
	err := r.db.QueryRowContext(ctx,
		`SELECT content_hash FROM registry WHERE original_name = ?`, originalName,
	).Scan(&existingHash)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("query original name: %w", err)
	}
	if err == nil && existingHash != hash {
		return "", fmt.Errorf("%w: %q already registered with a different sanitized name",
			core.ErrIntegrity, originalName)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO registry (original_name, sanitized_name, content_hash, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET last_updated = excluded.last_updated`,
		originalName, sanitizedName, hash, now(),
	)
	if err != nil {
		return "", fmt.Errorf("register %q: %w", originalName, err)
	}
	return hash, nil
}

func (r *SQLiteRegistry) MarkStageComplete(ctx context.Context, hash string, stage Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidStage, stage)
	}
	// stage is validated against the enum above, never interpolated raw.
	query := fmt.Sprintf(`UPDATE registry SET %s = 1, last_updated = ? WHERE content_hash = ?`, stage)
	res, err := r.db.ExecContext(ctx, query, now(), hash)
	if err != nil {
		return fmt.Errorf("mark %s: %w", stage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark %s: %w", stage, err)
	}
	if n == 0 {
		return fmt.Errorf("mark %s: %w", stage, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRegistry) IsStageComplete(ctx context.Context, hash string, stage Stage) (bool, error) {
	if !stage.Valid() {
		return false, fmt.Errorf("%w: %q", core.ErrInvalidStage, stage)
	}
	query := fmt.Sprintf(`SELECT %s FROM registry WHERE content_hash = ?`, stage)
	var done bool
	err := r.db.QueryRowContext(ctx, query, hash).Scan(&done)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s: %w", stage, err)
	}
	return done, nil
}

func (r *SQLiteRegistry) ResetStage(ctx context.Context, stage Stage, hash string) (int64, error) {
	if !stage.Valid() {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidStage, stage)
	}
	query := fmt.Sprintf(`UPDATE registry SET %s = 0, last_updated = ?`, stage)
	args := []any{now()}
	if hash != "" {
		query += ` WHERE content_hash = ?`
		args = append(args, hash)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset %s: %w", stage, err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRegistry) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, original_name, sanitized_name, content_hash, converted, embedded, last_updated
		FROM registry ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query registry: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var updated string
		if err := rows.Scan(
			&rec.ID, &rec.OriginalName, &rec.SanitizedName, &rec.ContentHash,
			&rec.Converted, &rec.Embedded, &updated,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.LastUpdated, _ = time.Parse(time.RFC3339, updated)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
