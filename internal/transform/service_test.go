package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contra-ai/contra-api/internal/logging"
	"github.com/contra-ai/contra-api/internal/textutil"
	"github.com/contra-ai/contra-api/internal/user"
)

type stubTransformer struct {
	calls       int
	lastContent string
	out         string
	err         error
}

func (s *stubTransformer) Transform(ctx context.Context, mode Mode, content string) (string, error) {
	s.calls++
	s.lastContent = content
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

type stubContentRepo struct {
	created   *Transformation
	createErr error
	list      []Transformation
	listErr   error
	deleteErr error
}

func (s *stubContentRepo) Create(ctx context.Context, t *Transformation) (*Transformation, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	record := *t
	record.ID = uuid.New()
	s.created = &record
	return &record, nil
}

func (s *stubContentRepo) ListByOwnerAndMode(ctx context.Context, userID uuid.UUID, mode Mode) ([]Transformation, error) {
	return s.list, s.listErr
}

func (s *stubContentRepo) DeleteByID(ctx context.Context, id, userID uuid.UUID, mode Mode) error {
	return s.deleteErr
}

type stubDirectory struct {
	user *user.User
	err  error
}

func (s *stubDirectory) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func newServiceForTest(repo ContentRepository, users UserDirectory, client Transformer) *Service {
	return NewService(repo, users, client, logging.NewLogger(true))
}

func TestServiceCreatePersistsDerivedWordCounts(t *testing.T) {
	owner := &user.User{ID: uuid.New()}
	transformer := &stubTransformer{out: "a shorter rewritten version"}
	repo := &stubContentRepo{}
	svc := newServiceForTest(repo, &stubDirectory{user: owner}, transformer)

	input := "<p>This original   content has enough length</p>"

	record, err := svc.Create(context.Background(), owner.ID, ModeHumanize, input)
	require.NoError(t, err)

	sanitized := textutil.SanitizeInput(input)
	assert.Equal(t, sanitized, transformer.lastContent, "provider must receive the sanitized content")
	assert.Equal(t, sanitized, record.OriginalContent)
	assert.Equal(t, textutil.CountWords(sanitized), record.OriginalWordCount)
	assert.Equal(t, textutil.CountWords(transformer.out), record.TransformedWordCount)
	assert.Equal(t, owner.ID, record.UserID)
	assert.Equal(t, ModeHumanize, record.Mode)
	require.NotNil(t, repo.created)
	assert.NotEqual(t, uuid.Nil, record.ID)
}

func TestServiceCreateRejectsInvalidContentBeforeProviderCall(t *testing.T) {
	transformer := &stubTransformer{out: "anything"}
	svc := newServiceForTest(&stubContentRepo{}, &stubDirectory{user: &user.User{ID: uuid.New()}}, transformer)

	_, err := svc.Create(context.Background(), uuid.New(), ModeRefine, "short")
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "at least 10 characters")
	assert.Zero(t, transformer.calls, "invalid content must never reach the provider")
}

func TestServiceCreateRejectsOversizedContent(t *testing.T) {
	transformer := &stubTransformer{out: "anything"}
	svc := newServiceForTest(&stubContentRepo{}, &stubDirectory{user: &user.User{ID: uuid.New()}}, transformer)

	_, err := svc.Create(context.Background(), uuid.New(), ModeRefine, strings.Repeat("a", MaxContentLength+1))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "cannot exceed 5000 characters")
	assert.Zero(t, transformer.calls)
}

func TestServiceCreateMapsProviderFailureToUpstream(t *testing.T) {
	transformer := &stubTransformer{err: &ProviderError{StatusCode: 500, Message: "internal"}}
	repo := &stubContentRepo{}
	svc := newServiceForTest(repo, &stubDirectory{user: &user.User{ID: uuid.New()}}, transformer)

	_, err := svc.Create(context.Background(), uuid.New(), ModeConcise, "long enough content here")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, repo.created, "nothing may be written after a provider failure")
}

func TestServiceCreateOwnerVanished(t *testing.T) {
	transformer := &stubTransformer{out: "rewritten"}
	svc := newServiceForTest(&stubContentRepo{}, &stubDirectory{err: user.ErrNotFound}, transformer)

	_, err := svc.Create(context.Background(), uuid.New(), ModeAcademics, "long enough content here")
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestServiceCreatePersistFailure(t *testing.T) {
	transformer := &stubTransformer{out: "rewritten"}
	repo := &stubContentRepo{createErr: errors.New("connection reset")}
	svc := newServiceForTest(repo, &stubDirectory{user: &user.User{ID: uuid.New()}}, transformer)

	_, err := svc.Create(context.Background(), uuid.New(), ModeHumanize, "long enough content here")
	assert.ErrorIs(t, err, ErrPersistFailed)
}

func TestServiceCreateUnknownMode(t *testing.T) {
	transformer := &stubTransformer{out: "rewritten"}
	svc := newServiceForTest(&stubContentRepo{}, &stubDirectory{user: &user.User{ID: uuid.New()}}, transformer)

	_, err := svc.Create(context.Background(), uuid.New(), Mode("summarize"), "long enough content here")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Zero(t, transformer.calls)
}

func TestServiceHistoryEmptyIsNotAnError(t *testing.T) {
	svc := newServiceForTest(&stubContentRepo{}, &stubDirectory{}, &stubTransformer{})

	records, err := svc.History(context.Background(), uuid.New(), ModeRefine)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestServiceDeletePassesThroughNotFound(t *testing.T) {
	repo := &stubContentRepo{deleteErr: ErrRecordNotFound}
	svc := newServiceForTest(repo, &stubDirectory{}, &stubTransformer{})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New(), ModeConcise)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
