// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"stockwatch/internal/platform/cache"
	"stockwatch/internal/platform/config"
	"stockwatch/internal/platform/externalapi/alphavantage"
	platformhttp "stockwatch/internal/platform/http"
)

// NewAlphaVantageClient creates a fully configured AlphaVantage client with HTTP client.
func NewAlphaVantageClient(cfg *config.Config) *alphavantage.Client {
	avCfg := alphavantage.DefaultConfig(cfg.AlphaVantageAPIKey)
	avCfg.BaseURL = cfg.AlphaVantageBaseURL
	avCfg.Timeout = cfg.HTTPTimeout
	avCfg.RequestsPerMinute = cfg.AlphaVantageRequestsPerMin

	httpClient := platformhttp.NewHTTPClient(avCfg.Timeout)
	return alphavantage.NewClient(avCfg, httpClient, nil)
}

// NewRemoteSource wraps the AlphaVantage client with the Redis payload cache.
// With a nil rdb every call goes straight to the API.
func NewRemoteSource(cfg *config.Config, client *alphavantage.Client, rdb *redis.Client) *cache.CachingRemoteSource {
	return cache.NewCachingRemoteSource(rdb, cfg.RemoteCacheTTL, client, "remote")
}
