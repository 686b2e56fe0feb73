package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/contra-ai/contra-api/internal/logging"
	"github.com/contra-ai/contra-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrAccountNotVerified = errors.New("account not verified, please verify your email first")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidVerifyCode  = errors.New("invalid verification code")
	ErrVerifyCodeExpired  = errors.New("verification code has expired, please sign up again to get a new code")
	ErrAlreadyVerified    = errors.New("account is already verified")
)

// Argon2id parameters - tuned for security vs performance balance
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

const verifyCodeTTL = time.Hour

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationCode(ctx context.Context, toEmail, username, code string) error
}

// Service handles authentication business logic
type Service struct {
	userRepo             *user.Repository
	authRepo             RefreshTokenRepository
	pasetoService        TokenService
	emailService         EmailService
	logger               *logging.Logger
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

func NewService(
	userRepo *user.Repository,
	authRepo RefreshTokenRepository,
	pasetoService TokenService,
	emailService EmailService,
	logger *logging.Logger,
	accessTokenDuration time.Duration,
	refreshTokenDuration time.Duration,
) *Service {
	return &Service{
		userRepo:             userRepo,
		authRepo:             authRepo,
		pasetoService:        pasetoService,
		emailService:         emailService,
		logger:               logger,
		accessTokenDuration:  accessTokenDuration,
		refreshTokenDuration: refreshTokenDuration,
	}
}

// SignUp registers a new account and sends a verification code. Signing up
// again with an existing unverified email reissues the code instead of
// failing; verified usernames and emails are taken.
func (s *Service) SignUp(ctx context.Context, username, email, password string) (*user.User, error) {
	username = user.CanonicalUsername(username)
	if err := user.ValidateUsername(username); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.userRepo.VerifiedUsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	verifyCode, err := generateVerifyCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verify code: %w", err)
	}
	expiry := time.Now().Add(verifyCodeTTL)

	account, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if account.IsVerified {
			return nil, ErrEmailTaken
		}
		// Unverified holder signing up again: reissue the code
		if err := s.userRepo.UpdateVerifyCode(ctx, account.ID, verifyCode, expiry); err != nil {
			return nil, fmt.Errorf("failed to reissue verify code: %w", err)
		}
		account.VerifyCode = verifyCode
		account.VerifyCodeExpiry = expiry
	case errors.Is(err, user.ErrNotFound):
		passwordHash, hashErr := s.hashPassword(password)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		account, err = s.userRepo.Create(ctx, username, email, passwordHash, verifyCode, expiry)
		if err != nil {
			if errors.Is(err, user.ErrDuplicateUsername) {
				return nil, ErrUsernameTaken
			}
			if errors.Is(err, user.ErrDuplicateEmail) {
				return nil, ErrEmailTaken
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	// Send verification code in a goroutine (non-blocking); the user can sign
	// up again to get a fresh code if delivery fails.
	go func() {
		emailCtx := context.Background()
		if err := s.emailService.SendVerificationCode(emailCtx, email, account.Username, verifyCode); err != nil {
			s.logger.Warn("failed to send verification code", "email", email, "error", err)
		}
	}()

	return account, nil
}

// SignIn authenticates a verified user and returns tokens
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthTokens, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.verifyPassword(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !existingUser.IsVerified {
		return nil, ErrAccountNotVerified
	}

	tokens, err := s.generateTokens(ctx, existingUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return tokens, nil
}

// VerifyCode checks a sign-up verification code for the given username and
// flips the account to verified on success
func (s *Service) VerifyCode(ctx context.Context, username, code string) error {
	username = user.CanonicalUsername(username)

	account, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if account.IsVerified {
		return ErrAlreadyVerified
	}

	if time.Now().After(account.VerifyCodeExpiry) {
		return ErrVerifyCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(account.VerifyCode), []byte(code)) != 1 {
		return ErrInvalidVerifyCode
	}

	if err := s.userRepo.MarkVerified(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	return nil
}

// UsernameAvailable reports whether a username can still be claimed
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = user.CanonicalUsername(username)
	if err := user.ValidateUsername(username); err != nil {
		return false, err
	}

	taken, err := s.userRepo.VerifiedUsernameExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return !taken, nil
}

// RefreshAccessToken generates a new token pair using a refresh token,
// rotating the old one
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	rt, err := s.authRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !rt.IsValid() {
		if rt.IsRevoked() {
			return nil, ErrRefreshTokenRevoked
		}
		return nil, ErrRefreshTokenExpired
	}

	// Revoke old refresh token before issuing new ones to prevent reuse
	if err := s.authRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	existingUser, err := s.userRepo.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	tokens, err := s.generateTokens(ctx, existingUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return tokens, nil
}

// RevokeRefreshToken revokes a refresh token
func (s *Service) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return s.authRepo.RevokeRefreshToken(ctx, refreshToken)
}

// generateTokens creates both access and refresh tokens
func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthTokens, error) {
	accessToken, err := s.pasetoService.CreateToken(u.ID, u.Username, u.Email, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := generateRandomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.refreshTokenDuration)
	if err := s.authRepo.StoreRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTokenDuration.Seconds()),
	}, nil
}

// hashPassword creates an argon2id hash of the password
func (s *Service) hashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		argon2Time,
		argon2Memory,
		argon2Threads,
		argon2KeyLen,
	)

	// Encode as: $argon2id$v=19$m=65536,t=3,p=4$salt$hash
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		encodedSalt,
		encodedHash,
	), nil
}

// verifyPassword checks if a password matches the stored hash
func (s *Service) verifyPassword(encodedHash, password string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	inputHash := argon2.IDKey(
		[]byte(password),
		salt,
		time,
		memory,
		threads,
		uint32(len(decodedHash)),
	)

	return subtle.ConstantTimeCompare(decodedHash, inputHash) == 1
}

// generateRandomToken creates a cryptographically secure random token
func generateRandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// generateVerifyCode returns a random 6-digit numeric code
func generateVerifyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
