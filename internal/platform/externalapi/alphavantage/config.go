// Package alphavantage provides a client for the AlphaVantage stock market API.
package alphavantage

import (
	"time"
)

// Config holds configuration for the AlphaVantage API client.
type Config struct {
	APIKey            string        // API key for authentication
	BaseURL           string        // Query endpoint (e.g., "https://www.alphavantage.co/query")
	Timeout           time.Duration // HTTP request timeout
	RequestsPerMinute int           // Client-side rate limit, 0 disables it
	RetryCount        int           // Retries on 408, 429 and 5xx responses and network errors
	RetryWaitTime     time.Duration // Initial backoff between retries
	RetryMaxWaitTime  time.Duration // Backoff cap
}

// DefaultConfig returns the configuration used when only the API key is known.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:            apiKey,
		BaseURL:           "https://www.alphavantage.co/query",
		Timeout:           10 * time.Second,
		RequestsPerMinute: 5,
		RetryCount:        3,
		RetryWaitTime:     1 * time.Second,
		RetryMaxWaitTime:  10 * time.Second,
	}
}
