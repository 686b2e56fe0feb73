package transform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/contra-ai/contra-api/internal/database"
)

var ErrRecordNotFound = errors.New("transformation record not found")

// Repository handles transformation persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one transformation record
func (r *Repository) Create(ctx context.Context, t *Transformation) (*Transformation, error) {
	dbRecord := &database.Transformation{
		ID:                   uuid.New(),
		UserID:               t.UserID,
		Mode:                 string(t.Mode),
		OriginalContent:      t.OriginalContent,
		TransformedContent:   t.TransformedContent,
		OriginalWordCount:    t.OriginalWordCount,
		TransformedWordCount: t.TransformedWordCount,
		CreatedAt:            time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(dbRecord).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create transformation: %w", err)
	}

	return mapDBTransformationToModel(dbRecord), nil
}

// ListByOwnerAndMode returns a user's history for one mode, newest first
func (r *Repository) ListByOwnerAndMode(ctx context.Context, userID uuid.UUID, mode Mode) ([]Transformation, error) {
	var dbRecords []database.Transformation
	err := r.db.NewSelect().
		Model(&dbRecords).
		Where("user_id = ?", userID).
		Where("mode = ?", string(mode)).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transformations: %w", err)
	}

	records := make([]Transformation, 0, len(dbRecords))
	for i := range dbRecords {
		records = append(records, *mapDBTransformationToModel(&dbRecords[i]))
	}

	return records, nil
}

// DeleteByID removes one record matching the exact (id, owner, mode) triple.
// A delete scoped to mode X can never remove a record stored under mode Y,
// even for a matching id and owner.
func (r *Repository) DeleteByID(ctx context.Context, id, userID uuid.UUID, mode Mode) error {
	result, err := r.db.NewDelete().
		Model((*database.Transformation)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Where("mode = ?", string(mode)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete transformation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// mapDBTransformationToModel converts database model to domain model
func mapDBTransformationToModel(dbt *database.Transformation) *Transformation {
	return &Transformation{
		ID:                   dbt.ID,
		UserID:               dbt.UserID,
		Mode:                 Mode(dbt.Mode),
		OriginalContent:      dbt.OriginalContent,
		TransformedContent:   dbt.TransformedContent,
		OriginalWordCount:    dbt.OriginalWordCount,
		TransformedWordCount: dbt.TransformedWordCount,
		CreatedAt:            dbt.CreatedAt,
	}
}
