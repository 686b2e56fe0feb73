package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

var ErrCookieNotFound = errors.New("auth cookie not found")

// ShouldUseCookies reports whether the client looks like a browser that
// expects cookie-based auth rather than tokens in the response body.
func ShouldUseCookies(r *http.Request) bool {
	// Explicit opt-in wins
	if r.Header.Get("X-Use-Cookies") == "true" {
		return true
	}
	// Browsers send an Origin header on cross-site requests
	return r.Header.Get("Origin") != "" && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// SetAuthCookies writes HttpOnly cookies for both tokens
func SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, secure bool, accessDuration, refreshDuration time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(accessDuration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/auth",
		MaxAge:   int(refreshDuration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookies expires both auth cookies
func ClearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: "", Path: "/auth", MaxAge: -1, HttpOnly: true})
}

// GetAccessTokenFromCookie reads the access token cookie
func GetAccessTokenFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}

// GetRefreshTokenFromCookie reads the refresh token cookie
func GetRefreshTokenFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}
