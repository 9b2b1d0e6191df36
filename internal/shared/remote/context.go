package remote

import "context"

type bypassCacheKey struct{}

// WithBypassCache marks ctx so that caching remote sources skip cached payloads
// and fetch from the API. The fresh payload is still stored.
func WithBypassCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

// BypassCache reports whether ctx was marked by WithBypassCache.
func BypassCache(ctx context.Context) bool {
	v, _ := ctx.Value(bypassCacheKey{}).(bool)
	return v
}
