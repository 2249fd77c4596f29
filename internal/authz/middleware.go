// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

package authz

import (
	"net"
	"net/http"
	"time"

	"github.com/tomtom215/viridis/internal/auth"
	"github.com/tomtom215/viridis/internal/logging"
)

// Middleware provides HTTP authorization using the Casbin enforcer.
// It reads authenticated claims from the request context (set by the
// auth middleware) and evaluates them against the loaded policy.
type Middleware struct {
	enforcer *Enforcer
	authMode string
	audit    *AuditLogger
}

// NewMiddleware creates authorization middleware. authMode mirrors the
// auth middleware setting: in "none" mode unauthenticated requests are
// allowed through, otherwise they are rejected. audit may be nil.
func NewMiddleware(enforcer *Enforcer, authMode string, audit *AuditLogger) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		authMode: authMode,
		audit:    audit,
	}
}

// Authorize enforces a fixed object/action pair for all requests.
func (m *Middleware) Authorize(object, action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.authorize(w, r, object, action, next)
	}
}

// AuthorizeRequest derives the object from the request path and the
// action from the HTTP method.
func (m *Middleware) AuthorizeRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.authorize(w, r, r.URL.Path, methodToAction(r.Method), next)
	}
}

// Handler adapts AuthorizeRequest to the standard middleware shape
// used by the router.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.authorize(w, r, r.URL.Path, methodToAction(r.Method), next.ServeHTTP)
	})
}

// authorize evaluates the policy for the request's claims.
func (m *Middleware) authorize(w http.ResponseWriter, r *http.Request, object, action string, next http.HandlerFunc) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		// Open deployments run without authentication; there is no
		// subject to authorize.
		if m.authMode == "none" {
			next(w, r)
			return
		}
		http.Error(w, "Forbidden: no authentication context", http.StatusForbidden)
		return
	}

	// Empty role falls through to the enforcer's default role.
	var roles []string
	if claims.Role != "" {
		roles = []string{claims.Role}
	}

	start := time.Now()
	allowed, err := m.enforcer.EnforceWithRoles(claims.Username, roles, object, action)
	duration := time.Since(start)

	if err != nil {
		RecordAuthzError("enforcer_error")
		logging.CtxErr(r.Context(), err).
			Str("subject", claims.Username).
			Str("object", object).
			Str("action", action).
			Msg("Authorization enforcement failed")
		http.Error(w, "Internal authorization error", http.StatusInternalServerError)
		return
	}

	RecordAuthzDecision(claims.Role, object, action, allowed, duration)
	m.logAudit(r, claims, object, action, allowed, duration)

	if !allowed {
		http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	next(w, r)
}

// logAudit queues an audit event for the decision.
func (m *Middleware) logAudit(r *http.Request, claims *auth.Claims, object, action string, allowed bool, duration time.Duration) {
	if m.audit == nil {
		return
	}

	reason := ""
	if !allowed {
		reason = "policy denied"
	}

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	m.audit.LogDecision(&AuditEvent{
		RequestID:     logging.RequestIDFromContext(r.Context()),
		ActorUsername: claims.Username,
		ActorRole:     claims.Role,
		Resource:      object,
		Action:        action,
		Decision:      allowed,
		Reason:        reason,
		Duration:      duration,
		IPAddress:     ip,
		Method:        r.Method,
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
