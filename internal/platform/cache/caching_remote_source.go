// Package cache provides caching implementations for remote data sources.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	companyentity "stockwatch/internal/feature/companyinfo/domain/entity"
	companyusecase "stockwatch/internal/feature/companyinfo/usecase"
	intradayusecase "stockwatch/internal/feature/intraday/usecase"
	listingsusecase "stockwatch/internal/feature/listings/usecase"
	"stockwatch/internal/shared/remote"
)

// RemoteSource is the union of the remote interfaces the features consume.
type RemoteSource interface {
	listingsusecase.ListingsRemote
	intradayusecase.IntradayRemote
	companyusecase.CompanyInfoRemote
}

var _ RemoteSource = (*CachingRemoteSource)(nil)

// CachingRemoteSource decorates a RemoteSource with short-lived Redis caching.
// Only successful responses are stored; errors and absent records always
// reach the inner source on the next call.
type CachingRemoteSource struct {
	inner     RemoteSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingRemoteSource decorates a RemoteSource with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "remote".
// A nil rdb disables caching.
func NewCachingRemoteSource(rdb *redis.Client, ttl time.Duration, inner RemoteSource, namespace string) *CachingRemoteSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "remote"
	}
	return &CachingRemoteSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetListings returns the listings CSV, from cache when fresh.
func (c *CachingRemoteSource) GetListings(ctx context.Context) (io.ReadCloser, error) {
	return c.body(ctx, c.cacheKey("listings", ""), c.inner.GetListings)
}

// GetIntradayInfo returns the intraday CSV for symbol, from cache when fresh.
// A context marked with remote.WithBypassCache always reaches the API.
func (c *CachingRemoteSource) GetIntradayInfo(ctx context.Context, symbol string) (io.ReadCloser, error) {
	return c.body(ctx, c.cacheKey("intraday", symbol), func(ctx context.Context) (io.ReadCloser, error) {
		return c.inner.GetIntradayInfo(ctx, symbol)
	})
}

// GetCompanyInfo returns the company overview for symbol, from cache when fresh.
func (c *CachingRemoteSource) GetCompanyInfo(ctx context.Context, symbol string) (*companyentity.CompanyInfo, error) {
	if c.rdb == nil {
		return c.inner.GetCompanyInfo(ctx, symbol)
	}

	key := c.cacheKey("company", symbol)
	if !remote.BypassCache(ctx) {
		if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			var out companyentity.CompanyInfo
			if err := json.Unmarshal(b, &out); err == nil {
				return &out, nil
			}
			// Delete corrupted cache entry
			_ = c.rdb.Del(ctx, key).Err()
		}
	}

	out, err := c.inner.GetCompanyInfo(ctx, symbol)
	if err != nil || out == nil {
		return out, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Purge deletes every entry under the namespace.
func (c *CachingRemoteSource) Purge(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// body buffers a CSV response so it can be stored and replayed.
func (c *CachingRemoteSource) body(ctx context.Context, key string, fetch func(context.Context) (io.ReadCloser, error)) (io.ReadCloser, error) {
	if c.rdb == nil {
		return fetch(ctx)
	}

	if !remote.BypassCache(ctx) {
		if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	}

	rc, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read remote body: %w", err)
	}
	if len(b) > 0 {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// cacheKey generates a cache key for a resource, optionally scoped to a symbol.
func (c *CachingRemoteSource) cacheKey(resource, symbol string) string {
	if symbol == "" {
		return fmt.Sprintf("%s:%s", c.namespace, resource)
	}
	return fmt.Sprintf("%s:%s:%s", c.namespace, resource, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingRemoteSource) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
