package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/contra-ai/contra-api/internal/logging"
	"github.com/contra-ai/contra-api/internal/textutil"
	"github.com/contra-ai/contra-api/internal/user"
)

var (
	// ErrUpstream is the caller-visible signal for any provider failure:
	// missing credential, non-2xx answer, or an empty completion. The
	// underlying detail is logged server-side only.
	ErrUpstream = errors.New("failed to generate the transformed content")

	// ErrOwnerNotFound means the authenticated user's record vanished between
	// the auth gate and the write.
	ErrOwnerNotFound = errors.New("user not found")

	// ErrPersistFailed means the store write did not complete. The provider
	// call was already spent; that output is lost and the caller is told the
	// operation failed.
	ErrPersistFailed = errors.New("failed to save the transformed content")
)

// ContentRepository is the persistence surface the pipeline needs.
type ContentRepository interface {
	Create(ctx context.Context, t *Transformation) (*Transformation, error)
	ListByOwnerAndMode(ctx context.Context, userID uuid.UUID, mode Mode) ([]Transformation, error)
	DeleteByID(ctx context.Context, id, userID uuid.UUID, mode Mode) error
}

// UserDirectory re-resolves the full user record by id, guarding against a
// stale session principal.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service runs the transformation pipeline: validate, sanitize, call the
// provider, derive word counts, persist. Each step short-circuits; a failure
// anywhere means no record is written (the provider call is the one
// non-compensated side effect).
type Service struct {
	repo   ContentRepository
	users  UserDirectory
	client Transformer
	logger *logging.Logger
}

func NewService(repo ContentRepository, users UserDirectory, client Transformer, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		client: client,
		logger: logger,
	}
}

// Create runs the full pipeline for one mode and returns the persisted
// record. Error returns are one of: *ValidationError, ErrUpstream,
// ErrOwnerNotFound, ErrPersistFailed.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, mode Mode, originalContent string) (*Transformation, error) {
	if !mode.Valid() {
		return nil, ErrUnknownMode
	}

	originalWordCount := textutil.CountWords(originalContent)
	if err := ValidateContent(originalContent, originalWordCount); err != nil {
		return nil, err
	}

	sanitized := textutil.SanitizeInput(originalContent)

	transformed, err := s.client.Transform(ctx, mode, sanitized)
	if err != nil {
		// Provider detail stays in the log; callers get a generic failure.
		s.logger.Error("provider call failed", "mode", mode.String(), "error", err.Error())
		return nil, ErrUpstream
	}

	transformedWordCount := textutil.CountWords(transformed)

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	record, err := s.repo.Create(ctx, &Transformation{
		UserID:               owner.ID,
		Mode:                 mode,
		OriginalContent:      sanitized,
		TransformedContent:   transformed,
		OriginalWordCount:    textutil.CountWords(sanitized),
		TransformedWordCount: transformedWordCount,
	})
	if err != nil {
		s.logger.Error("failed to persist transformation", "mode", mode.String(), "error", err.Error())
		return nil, ErrPersistFailed
	}

	return record, nil
}

// History returns the user's records for one mode, newest first. An empty
// slice is a normal result, not an error.
func (s *Service) History(ctx context.Context, userID uuid.UUID, mode Mode) ([]Transformation, error) {
	if !mode.Valid() {
		return nil, ErrUnknownMode
	}
	return s.repo.ListByOwnerAndMode(ctx, userID, mode)
}

// Delete removes one record matching the exact (id, owner, mode) triple.
// Returns ErrRecordNotFound when the triple matches nothing.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID, mode Mode) error {
	if !mode.Valid() {
		return ErrUnknownMode
	}
	return s.repo.DeleteByID(ctx, id, userID, mode)
}
