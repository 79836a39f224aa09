package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpattn/changelog/internal/domain"
	"github.com/rpattn/changelog/internal/schema/validator"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type paragraphRepository struct {
	pool *pgxpool.Pool
}

// NewParagraphRepository wires a paragraph repository backed by pgxpool.
func NewParagraphRepository(pool *pgxpool.Pool) ParagraphRepository {
	return &paragraphRepository{pool: pool}
}

func (r *paragraphRepository) ListByRevisionIDs(ctx context.Context, revisionIDs []int64) ([]domain.Revision, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("paragraph repository not initialized")
	}
	if len(revisionIDs) == 0 {
		return []domain.Revision{}, nil
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT pr.revision_id, pr.paragraph_id, pr.kind, pr.field_values, rk.fields
		 FROM paragraph_revisions pr
		 JOIN record_kinds rk ON rk.name = pr.kind
		 WHERE pr.revision_id = ANY($1)`,
		revisionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list paragraph revisions: %w", err)
	}
	defer rows.Close()

	return collectRevisions(rows)
}

func (r *paragraphRepository) ListLatestByIDs(ctx context.Context, paragraphIDs []int64) ([]domain.Revision, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("paragraph repository not initialized")
	}
	if len(paragraphIDs) == 0 {
		return []domain.Revision{}, nil
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT DISTINCT ON (pr.paragraph_id)
		        pr.revision_id, pr.paragraph_id, pr.kind, pr.field_values, rk.fields
		 FROM paragraph_revisions pr
		 JOIN record_kinds rk ON rk.name = pr.kind
		 WHERE pr.paragraph_id = ANY($1)
		 ORDER BY pr.paragraph_id, pr.revision_id DESC`,
		paragraphIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest paragraph revisions: %w", err)
	}
	defer rows.Close()

	return collectRevisions(rows)
}

func collectRevisions(rows pgx.Rows) ([]domain.Revision, error) {
	revisions := []domain.Revision{}
	for rows.Next() {
		var (
			revision   domain.Revision
			valuesJSON json.RawMessage
			fieldsJSON json.RawMessage
		)
		if err := rows.Scan(&revision.RevisionID, &revision.RecordID, &revision.Kind, &valuesJSON, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan paragraph revision: %w", err)
		}

		fields, err := domain.FromJSONBFields(fieldsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode field definitions: %w", err)
		}
		if err := validator.ValidateFields(fields); err != nil {
			return nil, fmt.Errorf("kind %s has invalid field definitions: %w", revision.Kind, err)
		}
		values, err := domain.FromJSONBFieldValues(valuesJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode field values: %w", err)
		}

		revision.Fields = fields
		revision.Values = values
		revisions = append(revisions, revision)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate paragraph revisions: %w", rowsErr)
	}

	return revisions, nil
}
