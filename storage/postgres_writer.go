package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"flipkart-scraper/config"
	"flipkart-scraper/models"
	"flipkart-scraper/utils"
)

// ProductStore is the persistence contract the run orchestrator depends on.
type ProductStore interface {
	EnsureSchema() error
	InsertBatch(products []models.Product) (int, error)
	Count() (int64, error)
}

// dbconn is the slice of pgxpool.Pool the writer actually uses.
type dbconn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresWriter owns the product_info table.
type PostgresWriter struct {
	db   dbconn
	pool *pgxpool.Pool
}

// NewPostgresWriter connects to the database. Connection is verified with a
// bounded retry so a store that is still starting up does not fail the run.
func NewPostgresWriter(cfg config.DatabaseConfig) (*PostgresWriter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := utils.Retry(3, func() error {
		return pool.Ping(ctx)
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{db: pool, pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

// EnsureSchema creates the product table if it does not exist yet.
// Safe to call on every run.
func (w *PostgresWriter) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS product_info (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		image_url TEXT,
		price TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_product_info_created_at ON product_info(created_at);
	`

	if _, err := w.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

// InsertBatch writes each record in its own statement so one bad record
// does not abort its siblings; failed records are logged and skipped.
// Returns how many rows were written, with an error only when a non-empty
// batch could not write anything at all (store unusable).
func (w *PostgresWriter) InsertBatch(products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	insertSQL := `
	INSERT INTO product_info (title, image_url, price, created_at)
	VALUES ($1, $2, $3, $4);
	`

	inserted := 0
	var lastErr error
	now := time.Now()

	for _, p := range products {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			continue
		}

		_, err := w.db.Exec(ctx, insertSQL,
			title,
			nullIfEmpty(p.ImageURL),
			nullIfEmpty(p.Price),
			now,
		)
		if err != nil {
			utils.Warn("Failed to insert %q: %v", title, err)
			lastErr = err
			continue
		}
		inserted++
	}

	if inserted == 0 && lastErr != nil {
		return 0, fmt.Errorf("batch insert wrote nothing: %w", lastErr)
	}

	return inserted, nil
}

// Count returns the total number of stored products.
func (w *PostgresWriter) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var count int64
	err := w.db.QueryRow(ctx, `SELECT COUNT(*) FROM product_info`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Stats summarises the table for the stats command.
func (w *PostgresWriter) Stats() (models.DBStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stats models.DBStats
	err := w.db.QueryRow(ctx, `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE price IS NOT NULL AND price != ''),
		COUNT(*) FILTER (WHERE image_url IS NOT NULL AND image_url != '')
	FROM product_info`).Scan(&stats.Total, &stats.WithPrice, &stats.WithImage)
	if err != nil {
		return models.DBStats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// Products returns stored records newest first. limit <= 0 means all rows.
func (w *PostgresWriter) Products(limit int) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	SELECT id, title, COALESCE(image_url, ''), COALESCE(price, ''), created_at
	FROM product_info
	ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		sql += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := w.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.ImageURL, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}

	return products, nil
}

func nullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
