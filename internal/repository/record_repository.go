package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpattn/changelog/internal/domain"
	"github.com/rpattn/changelog/internal/schema/validator"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRevisionNotFound signals that no revision matched the lookup.
var ErrRevisionNotFound = errors.New("record revision not found")

type recordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository wires a record repository backed by pgxpool.
func NewRecordRepository(pool *pgxpool.Pool) RecordRepository {
	return &recordRepository{pool: pool}
}

func (r *recordRepository) GetRevision(ctx context.Context, recordID, revisionID int64) (domain.Revision, error) {
	if r.pool == nil {
		return domain.Revision{}, fmt.Errorf("record repository not initialized")
	}

	row := r.pool.QueryRow(
		ctx,
		`SELECT rr.revision_id, rr.record_id, rr.kind, rr.field_values, rk.fields
		 FROM record_revisions rr
		 JOIN record_kinds rk ON rk.name = rr.kind
		 WHERE rr.record_id = $1
		   AND rr.revision_id = $2`,
		recordID,
		revisionID,
	)

	return scanRevision(row)
}

// scanRevision builds a domain.Revision from a row shaped as
// (revision_id, record_id, kind, field_values, fields).
func scanRevision(row pgx.Row) (domain.Revision, error) {
	var (
		revision   domain.Revision
		valuesJSON json.RawMessage
		fieldsJSON json.RawMessage
	)
	if err := row.Scan(&revision.RevisionID, &revision.RecordID, &revision.Kind, &valuesJSON, &fieldsJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Revision{}, ErrRevisionNotFound
		}
		return domain.Revision{}, fmt.Errorf("failed to scan revision: %w", err)
	}

	fields, err := domain.FromJSONBFields(fieldsJSON)
	if err != nil {
		return domain.Revision{}, fmt.Errorf("failed to decode field definitions: %w", err)
	}
	if err := validator.ValidateFields(fields); err != nil {
		return domain.Revision{}, fmt.Errorf("kind %s has invalid field definitions: %w", revision.Kind, err)
	}
	values, err := domain.FromJSONBFieldValues(valuesJSON)
	if err != nil {
		return domain.Revision{}, fmt.Errorf("failed to decode field values: %w", err)
	}

	revision.Fields = fields
	revision.Values = values
	return revision, nil
}
