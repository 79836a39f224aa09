package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpattn/changelog/internal/changelog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type fileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository wires a file repository backed by pgxpool.
func NewFileRepository(pool *pgxpool.Pool) FileRepository {
	return &fileRepository{pool: pool}
}

func (r *fileRepository) ResolveURL(ctx context.Context, fileID int64) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("file repository not initialized")
	}

	var url string
	err := r.pool.QueryRow(ctx, `SELECT url FROM files WHERE id = $1`, fileID).Scan(&url)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", changelog.ErrFileNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve file %d: %w", fileID, err)
	}

	return url, nil
}
