package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/contra-ai/contra-api/internal/logging"
	"github.com/contra-ai/contra-api/internal/user"
)

// stubEmailService captures sent verification codes instead of talking SMTP.
type stubEmailService struct {
	codes chan string
}

func (s *stubEmailService) SendVerificationCode(ctx context.Context, toEmail, username, code string) error {
	s.codes <- code
	return nil
}

func (s *stubEmailService) waitForCode(t *testing.T) string {
	t.Helper()
	select {
	case code := <-s.codes:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("no verification code was sent")
		return ""
	}
}

func newServiceForTest(t *testing.T) (*Service, *user.Repository, *stubEmailService) {
	t.Helper()

	sqlDB, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		verify_code TEXT NOT NULL,
		verify_code_expiry TIMESTAMP NOT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	require.NoError(t, err)

	m := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	pasetoService, err := NewPasetoService(testKey)
	require.NoError(t, err)

	userRepo := user.NewRepository(db)
	emailService := &stubEmailService{codes: make(chan string, 4)}

	svc := NewService(
		userRepo,
		NewRedisRepository(redisClient),
		pasetoService,
		emailService,
		logging.NewLogger(true),
		15*time.Minute,
		7*24*time.Hour,
	)

	return svc, userRepo, emailService
}

func signUpAndVerify(t *testing.T, svc *Service, emails *stubEmailService, username, email, password string) {
	t.Helper()
	_, err := svc.SignUp(context.Background(), username, email, password)
	require.NoError(t, err)
	code := emails.waitForCode(t)
	require.NoError(t, svc.VerifyCode(context.Background(), username, code))
}

func TestSignUpAndVerifyFlow(t *testing.T) {
	svc, _, emails := newServiceForTest(t)
	ctx := context.Background()

	account, err := svc.SignUp(ctx, "Jane.Doe", "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", account.Username, "username must be stored lowercase")
	assert.False(t, account.IsVerified)

	code := emails.waitForCode(t)
	require.Len(t, code, 6)

	// Unverified accounts cannot sign in yet
	_, err = svc.SignIn(ctx, "jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountNotVerified)

	require.NoError(t, svc.VerifyCode(ctx, "jane.doe", code))
	assert.ErrorIs(t, svc.VerifyCode(ctx, "jane.doe", code), ErrAlreadyVerified)

	tokens, err := svc.SignIn(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.pasetoService.VerifyToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", claims.Username)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestSignUpRejectsBadInput(t *testing.T) {
	svc, _, _ := newServiceForTest(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "a", "jane@example.com", "secret123")
	assert.ErrorIs(t, err, user.ErrUsernameTooShort)

	_, err = svc.SignUp(ctx, "jane.doe", "not-an-email", "secret123")
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)

	_, err = svc.SignUp(ctx, "jane.doe", "jane@example.com", "12345")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSignUpReissuesCodeForUnverifiedEmail(t *testing.T) {
	svc, _, emails := newServiceForTest(t)
	ctx := context.Background()

	first, err := svc.SignUp(ctx, "jane.doe", "jane@example.com", "secret123")
	require.NoError(t, err)
	firstCode := emails.waitForCode(t)

	second, err := svc.SignUp(ctx, "jane.doe", "jane@example.com", "secret123")
	require.NoError(t, err)
	secondCode := emails.waitForCode(t)

	assert.Equal(t, first.ID, second.ID, "re-signup must reuse the unverified account")
	assert.NotEqual(t, firstCode, secondCode, "a fresh code must be issued")

	// Only the fresh code verifies
	assert.ErrorIs(t, svc.VerifyCode(ctx, "jane.doe", firstCode), ErrInvalidVerifyCode)
	require.NoError(t, svc.VerifyCode(ctx, "jane.doe", secondCode))
}

func TestSignUpVerifiedAccountReservesIdentity(t *testing.T) {
	svc, _, emails := newServiceForTest(t)
	ctx := context.Background()

	signUpAndVerify(t, svc, emails, "jane.doe", "jane@example.com", "secret123")

	_, err := svc.SignUp(ctx, "someone.else", "jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.SignUp(ctx, "jane.doe", "other@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _, emails := newServiceForTest(t)
	ctx := context.Background()

	signUpAndVerify(t, svc, emails, "jane.doe", "jane@example.com", "secret123")

	_, err := svc.SignIn(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyCodeWrongAndExpired(t *testing.T) {
	svc, userRepo, emails := newServiceForTest(t)
	ctx := context.Background()

	account, err := svc.SignUp(ctx, "jane.doe", "jane@example.com", "secret123")
	require.NoError(t, err)
	emails.waitForCode(t)

	assert.ErrorIs(t, svc.VerifyCode(ctx, "jane.doe", "000000"), ErrInvalidVerifyCode)

	// Backdate the expiry; the right code no longer verifies
	require.NoError(t, userRepo.UpdateVerifyCode(ctx, account.ID, account.VerifyCode, time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, svc.VerifyCode(ctx, "jane.doe", account.VerifyCode), ErrVerifyCodeExpired)
}

func TestUsernameAvailability(t *testing.T) {
	svc, _, emails := newServiceForTest(t)
	ctx := context.Background()

	available, err := svc.UsernameAvailable(ctx, "Jane.Doe")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.SignUp(ctx, "jane.doe", "jane@example.com", "secret123")
	require.NoError(t, err)
	code := emails.waitForCode(t)

	// Unverified holders do not reserve a name
	available, err = svc.UsernameAvailable(ctx, "jane.doe")
	require.NoError(t, err)
	assert.True(t, available)

	require.NoError(t, svc.VerifyCode(ctx, "jane.doe", code))

	available, err = svc.UsernameAvailable(ctx, "jane.doe")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, emails := newServiceForTest(t)
	ctx := context.Background()

	signUpAndVerify(t, svc, emails, "jane.doe", "jane@example.com", "secret123")

	tokens, err := svc.SignIn(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)

	rotated, err := svc.RefreshAccessToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old refresh token is spent
	_, err = svc.RefreshAccessToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	// The rotated one still works
	_, err = svc.RefreshAccessToken(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}
