// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package authz provides role-based access control for the HTTP API
// using Casbin.
//
// # Model
//
// The enforcer uses an RBAC model with path pattern matching:
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[policy_effect]
//	e = some(where (p.eft == allow))
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// Subjects are matched through role inheritance (g), objects through
// keyMatch (so /api/v1/analyses/* covers every analysis), and actions
// exactly.
//
// # Roles
//
// The embedded policy defines three roles with inheritance
// (admin > operator > viewer):
//
//	viewer   - read access to layers, statistics, point queries,
//	           analyses, and the WebSocket endpoint
//	operator - viewer plus write access to statistics and point queries
//	admin    - read, write, and delete on everything under /api/v1/
//
// Actions map from HTTP methods: GET/HEAD/OPTIONS are "read",
// POST/PUT/PATCH are "write", DELETE is "delete".
//
// # Policy loading
//
// By default the model and policy are compiled into the binary via
// go:embed. Operators can override either with files; file-backed
// policies support periodic auto-reload:
//
//	cfg := authz.DefaultEnforcerConfig()
//	cfg.PolicyPath = "/etc/viridis/policy.csv"
//	enforcer, err := authz.NewEnforcer(cfg)
//
// # Caching
//
// Enforcement decisions are cached with a TTL. Role changes
// invalidate the affected subject's entries; policy reloads clear the
// cache entirely.
//
// # Auditing
//
// Decisions are queued to an asynchronous audit logger that writes
// structured log events. The queue never blocks enforcement: when the
// buffer is full, events are dropped and counted.
//
// # Usage
//
//	enforcer, err := authz.NewEnforcer(authz.EnforcerConfigFrom(&cfg.Security.Casbin))
//	if err != nil {
//		return err
//	}
//	defer enforcer.Close()
//
//	audit := authz.NewAuditLogger(authz.DefaultAuditLoggerConfig())
//	defer audit.Close()
//
//	mw := authz.NewMiddleware(enforcer, cfg.Security.AuthMode, audit)
//	r.Group(func(r chi.Router) {
//		r.Use(mw.Handler)
//		r.Post("/admin/cache/purge", h.CachePurge)
//	})
package authz
