package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/changelog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type changeLogRepository struct {
	pool *pgxpool.Pool
}

// NewChangeLogRepository wires a change-log repository backed by pgxpool.
func NewChangeLogRepository(pool *pgxpool.Pool) ChangeLogRepository {
	return &changeLogRepository{pool: pool}
}

func (r *changeLogRepository) Append(ctx context.Context, entry domain.ChangeEntry) error {
	if r.pool == nil {
		return fmt.Errorf("change log repository not initialized")
	}

	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO change_log (id, entity_kind, entity_id, revision_id, field_label, diff_text, logged_at, actor_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id,
		entry.EntityKind,
		entry.EntityID,
		entry.RevisionID,
		entry.FieldLabel,
		entry.DiffText,
		entry.LoggedAt,
		entry.ActorID,
	)
	if err != nil {
		return fmt.Errorf("failed to append change entry: %w", err)
	}

	return nil
}

func (r *changeLogRepository) List(ctx context.Context, entityKind string, entityID int64, limit, offset int) ([]domain.ChangeEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("change log repository not initialized")
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, entity_kind, entity_id, revision_id, field_label, diff_text, logged_at, actor_id
		 FROM change_log
		 WHERE entity_kind = $1
		   AND entity_id = $2
		 ORDER BY logged_at DESC, revision_id DESC
		 LIMIT $3 OFFSET $4`,
		entityKind,
		entityID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list change entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.ChangeEntry{}
	for rows.Next() {
		var (
			entry    domain.ChangeEntry
			loggedAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.EntityKind,
			&entry.EntityID,
			&entry.RevisionID,
			&entry.FieldLabel,
			&entry.DiffText,
			&loggedAt,
			&entry.ActorID,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan change entry: %w", scanErr)
		}

		if loggedAt.Valid {
			entry.LoggedAt = loggedAt.Time
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate change entries: %w", rowsErr)
	}

	return entries, nil
}
