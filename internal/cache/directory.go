// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Cache keys for the public read endpoints.
const (
	KeyPublishedHouses = "directory:houses"
	KeyMapData         = "directory:map"
	KeyStyles          = "directory:styles"
	KeyFeatured        = "directory:featured"
)

// Directory wraps a Cache with JSON encoding for the public directory
// responses. A nil Directory is valid and disables caching, so call
// sites do not need nil checks.
type Directory struct {
	cache Cache
	ttl   time.Duration
}

// NewDirectory creates a typed directory cache. Returns nil when cache is
// nil so caching stays optional.
func NewDirectory(cache Cache, ttl time.Duration) *Directory {
	if cache == nil {
		return nil
	}
	return &Directory{cache: cache, ttl: ttl}
}

// GetJSON unmarshals the cached value at key into dest. Returns false on
// a miss or any backend error; errors other than a miss are logged.
func (d *Directory) GetJSON(ctx context.Context, key string, dest any) bool {
	if d == nil {
		return false
	}

	data, err := d.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("cache entry corrupt, dropping", "key", key, "error", err)
		_ = d.cache.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value at key. Failures are logged, never returned: a
// broken cache must not break reads.
func (d *Directory) SetJSON(ctx context.Context, key string, value any) {
	if d == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := d.cache.Set(ctx, key, data, d.ttl); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops every public directory key. Called after any write
// that changes what the public endpoints serve.
func (d *Directory) Invalidate(ctx context.Context) {
	if d == nil {
		return
	}
	for _, key := range []string{KeyPublishedHouses, KeyMapData, KeyStyles, KeyFeatured} {
		if err := d.cache.Delete(ctx, key); err != nil {
			slog.Warn("cache invalidation failed", "key", key, "error", err)
		}
	}
}

// Close closes the underlying backend.
func (d *Directory) Close() error {
	if d == nil {
		return nil
	}
	return d.cache.Close()
}
