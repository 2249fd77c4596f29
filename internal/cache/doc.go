// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package cache provides the result cache for analysis responses.
//
// Two backends implement the Store interface:
//
//   - MemoryStore: in-process map with per-entry TTL and periodic cleanup.
//     Fast, but entries are lost on restart.
//   - BadgerStore: BadgerDB-backed persistent cache. Tile URLs and monthly
//     statistics survive restarts, which matters because a cold Amazon
//     layers run costs hundreds of provider calls.
//
// Values are opaque byte slices; callers serialize payloads with JSON and
// hand the bytes back out as json.RawMessage. Keys are namespaced by
// operation ("layers:", "stats:", "point:") so the admin purge endpoint can
// invalidate one analysis family without dropping the rest.
package cache
