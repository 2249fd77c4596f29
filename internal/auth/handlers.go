// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package auth provides JWT authentication middleware and login handlers.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/viridis/internal/config"
	"github.com/tomtom215/viridis/internal/logging"
	"github.com/tomtom215/viridis/internal/models"
)

// TokenCookieName is the cookie used to carry the JWT for browser clients.
const TokenCookieName = "token"

// LoginHandlers provides HTTP handlers for credential-based login.
// The service carries a single admin credential pair from configuration;
// successful login issues a signed JWT both in the response body and as
// an HTTP-only cookie.
type LoginHandlers struct {
	jwtManager *JWTManager
	lockout    *LockoutManager
	middleware *Middleware

	// Credentials are stored as SHA-256 digests so comparisons are
	// constant-time regardless of input length.
	usernameHash [32]byte
	passwordHash [32]byte
	configured   bool
}

// NewLoginHandlers creates login handlers backed by the configured admin credentials.
func NewLoginHandlers(jwtManager *JWTManager, lockout *LockoutManager, mw *Middleware, cfg *config.SecurityConfig) *LoginHandlers {
	h := &LoginHandlers{
		jwtManager: jwtManager,
		lockout:    lockout,
		middleware: mw,
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		h.usernameHash = sha256.Sum256([]byte(cfg.AdminUsername))
		h.passwordHash = sha256.Sum256([]byte(cfg.AdminPassword))
		h.configured = true
	}

	return h
}

// credentialsMatch compares the submitted credentials against the configured
// admin pair in constant time.
func (h *LoginHandlers) credentialsMatch(username, password string) bool {
	if !h.configured {
		return false
	}

	userHash := sha256.Sum256([]byte(username))
	passHash := sha256.Sum256([]byte(password))

	userOK := subtle.ConstantTimeCompare(userHash[:], h.usernameHash[:])
	passOK := subtle.ConstantTimeCompare(passHash[:], h.passwordHash[:])

	return userOK&passOK == 1
}

// Login authenticates the admin credentials and issues a JWT.
// POST /api/v1/auth/login
func (h *LoginHandlers) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientIP := h.middleware.getClientIP(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Missing username or password", http.StatusBadRequest)
		return
	}

	// Check lockout before verifying credentials so locked subjects get
	// no oracle about credential validity.
	for _, subject := range []string{req.Username, "ip:" + clientIP} {
		locked, remaining, err := h.lockout.CheckLocked(ctx, subject)
		if err != nil {
			logging.Error().Err(err).Msg("Lockout check failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if locked {
			RecordLoginAttempt("locked")
			writeLockoutResponse(w, remaining)
			return
		}
	}

	if !h.credentialsMatch(req.Username, req.Password) {
		locked, remaining, err := h.lockout.RecordFailedAttempt(ctx, req.Username, clientIP)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to record login attempt")
		}

		RecordLoginAttempt("failure")
		logging.Warn().
			Str("username", sanitizeUsername(req.Username)).
			Str("client_ip", clientIP).
			Msg("Failed login attempt")

		if locked {
			writeLockoutResponse(w, remaining)
			return
		}

		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	if err := h.lockout.RecordSuccessfulLogin(ctx, req.Username); err != nil {
		logging.Error().Err(err).Msg("Failed to clear lockout state")
	}

	token, err := h.jwtManager.GenerateToken(req.Username, "admin")
	if err != nil {
		logging.Error().Err(err).Msg("Failed to generate token")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	ttl := h.jwtManager.TokenTTL()
	expiresAt := time.Now().Add(ttl)

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})

	RecordLoginAttempt("success")
	logging.Info().
		Str("username", req.Username).
		Str("client_ip", clientIP).
		Msg("Login successful")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  req.Username,
		Role:      "admin",
	}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode login response")
	}
}

// Logout clears the token cookie. The JWT itself stays valid until expiry;
// clients holding the bearer token must discard it.
// POST /api/v1/auth/logout
func (h *LoginHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"message": "Logged out successfully",
	}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode logout response")
	}
}

// UserInfo returns information about the authenticated user.
// GET /api/v1/auth/userinfo
func (h *LoginHandlers) UserInfo(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized: not authenticated", http.StatusUnauthorized)
		return
	}

	response := map[string]interface{}{
		"username": claims.Username,
		"role":     claims.Role,
	}
	if claims.ExpiresAt != nil {
		response["expires_at"] = claims.ExpiresAt.Time
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Error().Err(err).Msg("Failed to encode userinfo response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// isSecureRequest reports whether the request arrived over TLS, directly
// or via a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// sanitizeUsername truncates attacker-controlled usernames before logging.
func sanitizeUsername(username string) string {
	const maxLen = 64
	if len(username) > maxLen {
		return username[:maxLen] + "..."
	}
	return username
}
