// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/viridis/internal/config"
)

const (
	// tokenIssuer identifies tokens minted by this service. Validation
	// rejects tokens carrying any other issuer.
	tokenIssuer = "viridis"

	// tokenAudience scopes tokens to the admin API surface.
	tokenAudience = "viridis-api"
)

// Claims represents JWT claims
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token creation and validation
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a JWT token manager with the configured secret and
// token lifetime. The manager signs with HMAC-SHA256; the secret is stored
// as []byte to prevent string interning attacks.
//
// Returns an error if JWT_SECRET is empty. Length and placeholder checks
// happen during config validation, so by the time this runs a non-empty
// secret is already at least 32 characters.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	return &JWTManager{
		secret: []byte(secret),
		ttl:    cfg.TokenTTL,
	}, nil
}

// GenerateToken creates a signed JWT for an authenticated user.
//
// The token carries the username and role plus registered claims: issuer
// and audience fixed to this service, expiry at now + TOKEN_TTL (default
// 24 hours), and immediate NotBefore. Tokens are stateless and cannot be
// revoked before expiration; clients should store them in the HTTP-only
// cookie the login handler sets.
func (m *JWTManager) GenerateToken(username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT string and extracts the user claims.
//
// Validation covers the HMAC-SHA256 signature, the signing algorithm
// (rejecting algorithm confusion with RS256 or none), expiry, NotBefore,
// and the issuer and audience registered claims. Time-based checks use
// server time.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// TokenTTL returns the configured token lifetime. Login handlers use it
// to align the cookie Max-Age with the token expiry.
func (m *JWTManager) TokenTTL() time.Duration {
	return m.ttl
}
