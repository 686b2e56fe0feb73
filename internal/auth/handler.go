package auth

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contra-ai/contra-api/internal/httputil"
	"github.com/contra-ai/contra-api/internal/logging"
	"github.com/contra-ai/contra-api/internal/ratelimit"
	"github.com/contra-ai/contra-api/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service         *Service
	rateLimiter     *ratelimit.Limiter
	logger          *logging.Logger
	isProduction    bool
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewHandler(service *Service, rateLimiter *ratelimit.Limiter, logger *logging.Logger, isProduction bool, accessDuration, refreshDuration time.Duration) *Handler {
	return &Handler{
		service:         service,
		rateLimiter:     rateLimiter,
		logger:          logger,
		isProduction:    isProduction,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}
}

// SignUpRequest represents the sign-up request body
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest represents the sign-in request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyCodeRequest represents the account verification request body
type VerifyCodeRequest struct {
	Username   string `json:"username"`
	VerifyCode string `json:"verifyCode"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
}

// SignUpResponse represents the sign-up response
type SignUpResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// SignUp handles account registration
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	if h.limitExceeded(w, r, ip, "sign-up") {
		return
	}

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid sign-up request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, "sign-up"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	newUser, err := h.service.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			logger.Warn("sign-up failed: username taken")
			respondError(w, "Username is already taken", httputil.CodeUsernameTaken, http.StatusBadRequest)
		case errors.Is(err, ErrEmailTaken):
			logger.Warn("sign-up failed: email taken")
			respondError(w, "User already exists with this email", httputil.CodeEmailAlreadyExists, http.StatusBadRequest)
		case isValidationError(err):
			logger.Warn("sign-up failed: validation error", "error", err.Error())
			respondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		default:
			logger.Error("sign-up failed: internal error", "error", err.Error())
			respondError(w, "Error while registering the user", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondJSON(w, SignUpResponse{
		Success: true,
		Message: "User registered successfully, please verify your account",
		User: UserResponse{
			ID:         newUser.ID,
			Username:   newUser.Username,
			Email:      newUser.Email,
			IsVerified: newUser.IsVerified,
		},
	}, http.StatusCreated)
}

// SignIn handles user login
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	if h.limitExceeded(w, r, ip, "sign-in") {
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid sign-in request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, "sign-in"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	tokens, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			logger.Warn("sign-in failed: invalid credentials")
			respondError(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
		case errors.Is(err, ErrAccountNotVerified):
			logger.Warn("sign-in failed: account not verified")
			respondError(w, "account not verified, please verify your email first", httputil.CodeAccountNotVerified, http.StatusForbidden)
		default:
			logger.Error("sign-in failed: internal error", "error", err.Error())
			respondError(w, "failed to sign in", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user signed in successfully")

	if ShouldUseCookies(r) {
		SetAuthCookies(w, tokens.AccessToken, tokens.RefreshToken, h.isProduction, h.accessDuration, h.refreshDuration)
		httputil.RespondSuccess(w, "signed in successfully", http.StatusOK)
	} else {
		httputil.RespondJSON(w, tokens, http.StatusOK)
	}
}

// VerifyCode handles account verification using the emailed 6-digit code
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verify-code request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if len(req.VerifyCode) != 6 {
		respondError(w, "Verification code must be six digits", httputil.CodeVerificationFailed, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"username": req.Username})

	err := h.service.VerifyCode(r.Context(), req.Username, req.VerifyCode)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			logger.Warn("verification failed: user not found")
			respondError(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
		case errors.Is(err, ErrVerifyCodeExpired):
			logger.Warn("verification failed: code expired")
			respondError(w, "Verification code has expired. Please sign up again to get a new code.", httputil.CodeVerifyCodeExpired, http.StatusBadRequest)
		case errors.Is(err, ErrAlreadyVerified):
			logger.Warn("verification failed: already verified")
			respondError(w, "Account is already verified. You can sign in now.", httputil.CodeAlreadyVerified, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidVerifyCode):
			logger.Warn("verification failed: invalid code")
			respondError(w, "Invalid verification code", httputil.CodeVerificationFailed, http.StatusBadRequest)
		default:
			logger.Error("verification failed: internal error", "error", err.Error())
			respondError(w, "Error verifying user", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("account verified successfully")

	httputil.RespondSuccess(w, "Account verified successfully", http.StatusOK)
}

// UsernameUniqueness checks whether a username is still available
func (h *Handler) UsernameUniqueness(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	username := r.URL.Query().Get("username")

	available, err := h.service.UsernameAvailable(r.Context(), username)
	if err != nil {
		if isValidationError(err) {
			respondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("username check failed", "error", err.Error())
		respondError(w, "Error checking username", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	if !available {
		respondError(w, "Username is already taken", httputil.CodeUsernameTaken, http.StatusConflict)
		return
	}

	httputil.RespondSuccess(w, "Username is unique", http.StatusOK)
}

// Refresh handles access token refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var refreshToken string
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		refreshToken = req.RefreshToken
	}

	if refreshToken == "" {
		cookieToken, err := GetRefreshTokenFromCookie(r)
		if err == nil {
			refreshToken = cookieToken
		}
	}

	if refreshToken == "" {
		logger.Warn("refresh token missing from both body and cookie")
		respondError(w, "refresh token required", httputil.CodeRefreshTokenRequired, http.StatusBadRequest)
		return
	}

	refreshToken = strings.TrimSpace(refreshToken)

	tokens, err := h.service.RefreshAccessToken(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrRefreshTokenRevoked) || errors.Is(err, ErrRefreshTokenExpired) {
			logger.Warn("token refresh failed: invalid or expired token", "error", err.Error())
			respondError(w, "invalid or expired refresh token", httputil.CodeInvalidRefreshToken, http.StatusUnauthorized)
			return
		}
		logger.Error("token refresh failed: internal error", "error", err.Error())
		respondError(w, "failed to refresh token", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("access token refreshed successfully")

	if ShouldUseCookies(r) {
		SetAuthCookies(w, tokens.AccessToken, tokens.RefreshToken, h.isProduction, h.accessDuration, h.refreshDuration)
		httputil.RespondSuccess(w, "token refreshed successfully", http.StatusOK)
	} else {
		httputil.RespondJSON(w, tokens, http.StatusOK)
	}
}

// Logout revokes the refresh token and clears auth cookies
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var refreshToken string
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		cookieToken, _ := GetRefreshTokenFromCookie(r)
		refreshToken = cookieToken
	}

	if refreshToken != "" {
		if err := h.service.RevokeRefreshToken(r.Context(), refreshToken); err != nil {
			logger.Warn("failed to revoke refresh token", "error", err)
			// Continue - still clear cookies
		}
	}

	ClearAuthCookies(w)

	logger.Info("user logged out successfully")

	httputil.RespondSuccess(w, "logged out", http.StatusOK)
}

// limitExceeded applies the per-IP rate limit check and writes the 429
// response when the caller is over the window
func (h *Handler) limitExceeded(w http.ResponseWriter, r *http.Request, ip, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return false
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		respondError(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}
	return false
}

// isValidationError reports whether the error is one of the sign-up
// field-validation sentinels
func isValidationError(err error) bool {
	return errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrInvalidEmailFormat) ||
		errors.Is(err, user.ErrUsernameTooShort) ||
		errors.Is(err, user.ErrUsernameTooLong) ||
		errors.Is(err, user.ErrUsernameCharset) ||
		errors.Is(err, user.ErrUsernameDots)
}

// getClientIP extracts the client address; chi's RealIP middleware has
// already folded X-Forwarded-For into RemoteAddr
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// respondError sends an error response with a machine-readable code
func respondError(w http.ResponseWriter, message string, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}
