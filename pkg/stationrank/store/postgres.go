package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

const createUploadsTable = `
	CREATE TABLE IF NOT EXISTS stationrank_uploads (
		key           TEXT PRIMARY KEY,
		owner         TEXT NOT NULL,
		original_name TEXT NOT NULL,
		uploaded_at   TIMESTAMPTZ NOT NULL,
		size          BIGINT NOT NULL,
		row_count     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS stationrank_uploads_owner_idx
		ON stationrank_uploads (owner, uploaded_at DESC);
`

// PGCatalog is a Catalog stored in PostgreSQL.
type PGCatalog struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPGCatalog opens a connection pool for dsn.
func NewPGCatalog(ctx context.Context, dsn string, logger *zap.Logger) (*PGCatalog, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &PGCatalog{pool: pool, logger: logger}, nil
}

// Close closes the pool.
func (c *PGCatalog) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (c *PGCatalog) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// EnsureSchema creates the uploads table if it does not exist.
func (c *PGCatalog) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, createUploadsTable); err != nil {
		return fmt.Errorf("failed to create uploads table: %w", err)
	}
	return nil
}

// Record implements Catalog.
func (c *PGCatalog) Record(ctx context.Context, u models.Upload) error {
	query := `
		INSERT INTO stationrank_uploads (key, owner, original_name, uploaded_at, size, row_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			owner = EXCLUDED.owner,
			original_name = EXCLUDED.original_name,
			uploaded_at = EXCLUDED.uploaded_at,
			size = EXCLUDED.size,
			row_count = EXCLUDED.row_count
	`
	_, err := c.pool.Exec(ctx, query, u.Key, u.Owner, u.OriginalName, u.UploadedAt.UTC(), u.Size, u.RowCount)
	if err != nil {
		return fmt.Errorf("failed to record upload %s: %w", u.Key, err)
	}
	return nil
}

// List implements Catalog.
func (c *PGCatalog) List(ctx context.Context, owner string) ([]models.Upload, error) {
	query := `
		SELECT key, owner, original_name, uploaded_at, size, row_count
		FROM stationrank_uploads
		WHERE owner = $1
		ORDER BY uploaded_at DESC, key
	`

	rows, err := c.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []models.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating uploads: %w", err)
	}
	return uploads, nil
}

// Get implements Catalog.
func (c *PGCatalog) Get(ctx context.Context, key string) (models.Upload, error) {
	query := `
		SELECT key, owner, original_name, uploaded_at, size, row_count
		FROM stationrank_uploads
		WHERE key = $1
	`
	u, err := scanUpload(c.pool.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Upload{}, fmt.Errorf("upload %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return models.Upload{}, fmt.Errorf("failed to get upload %s: %w", key, err)
	}
	return u, nil
}

// Delete implements Catalog.
func (c *PGCatalog) Delete(ctx context.Context, key string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM stationrank_uploads WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete upload %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		c.logger.Debug("Upload not in catalog", zap.String("key", key))
	}
	return nil
}

func scanUpload(row pgx.Row) (models.Upload, error) {
	var u models.Upload
	err := row.Scan(&u.Key, &u.Owner, &u.OriginalName, &u.UploadedAt, &u.Size, &u.RowCount)
	u.UploadedAt = u.UploadedAt.UTC()
	return u, err
}
