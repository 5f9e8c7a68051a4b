package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pawgress/pawgress/internal/domain"
)

// TenantCache is a read-through cache for tenant-directory lookups, keyed by
// subdomain. It is an optimization only: errors degrade to cache misses so
// the directory always falls back to postgres. Entries expire after ttl and
// are explicitly invalidated on tenant writes.
type TenantCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*TenantCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &TenantCache{client: client, ttl: ttl}, nil
}

func (c *TenantCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("redis.TenantCache.Close: %w", err)
	}
	return nil
}

// tenantKey returns the cache key for a subdomain lookup.
func tenantKey(subdomain string) string {
	return "tenant:subdomain:" + subdomain
}

func (c *TenantCache) Get(ctx context.Context, subdomain string) (*domain.Tenant, bool) {
	raw, err := c.client.Get(ctx, tenantKey(subdomain)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("subdomain", subdomain).Msg("tenant cache read failed")
		}
		return nil, false
	}

	var t domain.Tenant
	if err := json.Unmarshal(raw, &t); err != nil {
		log.Warn().Err(err).Str("subdomain", subdomain).Msg("tenant cache entry corrupt, dropping")
		_ = c.client.Del(ctx, tenantKey(subdomain)).Err()
		return nil, false
	}

	return &t, true
}

func (c *TenantCache) Set(ctx context.Context, t *domain.Tenant) {
	raw, err := json.Marshal(t)
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", t.ID.String()).Msg("tenant cache encode failed")
		return
	}

	if err := c.client.Set(ctx, tenantKey(t.Subdomain), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("subdomain", t.Subdomain).Msg("tenant cache write failed")
	}
}

func (c *TenantCache) Invalidate(ctx context.Context, subdomain string) {
	if err := c.client.Del(ctx, tenantKey(subdomain)).Err(); err != nil {
		log.Warn().Err(err).Str("subdomain", subdomain).Msg("tenant cache invalidation failed")
	}
}
