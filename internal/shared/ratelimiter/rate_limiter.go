package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。
// 内部はトークンバケット (golang.org/x/time/rate) でバースト1です。
type RateLimiter struct {
	limiter *rate.Limiter
	limit   int
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiterは interval あたり limit 回まで許可する RateLimiter を生成します。
// limit <= 0 の場合は無制限です。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(every), 1),
		limit:   limit,
	}
}

// WaitIfNeededは上限に達していれば次の枠まで待機します。
// ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if rl.limiter.Allow() {
		return nil
	}
	slog.Debug("rate limit reached, waiting", "limit", rl.limit)
	return rl.limiter.Wait(ctx)
}
