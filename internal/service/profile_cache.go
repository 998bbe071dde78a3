package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postauth/internal/cache"
	"postauth/internal/model"
)

// DefaultProfileCacheTTL is used when no TTL is configured.
const DefaultProfileCacheTTL = 5 * time.Minute

// ProfileCache keeps resolved profiles keyed by user id. A nil cache client
// disables caching.
type ProfileCache struct {
	cache *cache.Client
	ttl   time.Duration
}

// NewProfileCache builds a ProfileCache.
func NewProfileCache(c *cache.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileCacheTTL
	}
	return &ProfileCache{cache: c, ttl: ttl}
}

func (p *ProfileCache) key(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Get returns the cached profile, if present.
func (p *ProfileCache) Get(ctx context.Context, id uint) (*model.Profile, bool) {
	if p == nil {
		return nil, false
	}
	data, _ := p.cache.Get(ctx, p.key(id))
	if data == nil {
		return nil, false
	}
	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

// Set stores a profile.
func (p *ProfileCache) Set(ctx context.Context, profile *model.Profile) {
	if p == nil || profile == nil {
		return
	}
	if payload, err := json.Marshal(profile); err == nil {
		_ = p.cache.Set(ctx, p.key(profile.ID), payload, p.ttl)
	}
}

// Invalidate drops cached profiles for the given users.
func (p *ProfileCache) Invalidate(ctx context.Context, ids ...uint) {
	if p == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, p.key(id))
	}
	_ = p.cache.Delete(ctx, keys...)
}
