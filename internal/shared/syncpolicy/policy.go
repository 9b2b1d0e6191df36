// Package syncpolicy implements the stale-while-revalidate flow shared by every cached
// entity kind: serve what the local store has, decide whether the remote must be
// consulted, replace the local rows for the key and report every stage as an outcome.
package syncpolicy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"stockwatch/internal/shared/outcome"
	"stockwatch/internal/shared/remote"
)

// User-facing messages carried by error outcomes.
const (
	MsgConnectivity = "Couldn't reach server. Check your internet connection."
	MsgCouldNotLoad = "Couldn't load data"
	MsgNotAvailable = "Data not available"
	MsgLocalStore   = "Local store unavailable"
)

const defaultRefreshTimeout = 30 * time.Second

var (
	// ErrLocalStore marks failures of the local store. Refresh implementations wrap
	// their write errors with it.
	ErrLocalStore = errors.New("local store")

	// ErrNotAvailable is returned by a refresh when the remote has no record for the key.
	ErrNotAvailable = errors.New("not available from remote")
)

// Source binds the policy to one entity kind.
type Source[T any] struct {
	// Kind names the entity kind in logs, e.g. "listings".
	Kind string

	// Local reads the cached data for key.
	Local func(ctx context.Context, key string) (T, error)

	// Exists reports whether local is worth showing as the stale read.
	Exists func(key string, local T) bool

	// ShouldFetch decides whether the remote has to be consulted.
	ShouldFetch func(key string, local T, exists, force bool) bool

	// Refresh fetches from the remote, decodes and replaces the local rows for key
	// inside one transaction.
	Refresh func(ctx context.Context, key string) error

	// RefreshKey maps a sync key to the unit of storage a refresh replaces.
	// Concurrent refreshes with the same refresh key share one remote call.
	// Nil means the sync key itself.
	RefreshKey func(key string) string
}

// Option configures a Policy.
type Option func(*options)

type options struct {
	refreshTimeout time.Duration
}

// WithRefreshTimeout bounds the shared fetch-and-replace step. It runs detached from the
// caller's cancellation so a replace is never abandoned halfway.
func WithRefreshTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.refreshTimeout = d
		}
	}
}

// Policy runs syncs for one entity kind.
type Policy[T any] struct {
	src            Source[T]
	group          singleflight.Group
	refreshTimeout time.Duration
}

// New creates a Policy for src.
func New[T any](src Source[T], opts ...Option) *Policy[T] {
	o := options{refreshTimeout: defaultRefreshTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Policy[T]{src: src, refreshTimeout: o.refreshTimeout}
}

// Sync starts a sync for key and returns its outcome sequence. The channel is closed when
// the sequence ends. Loading(true) always comes first; Loading(false), when emitted, is
// always last. Cancelling ctx stops emission and closes the channel.
func (p *Policy[T]) Sync(ctx context.Context, key string, force bool) <-chan outcome.Outcome[T] {
	out := make(chan outcome.Outcome[T])
	go func() {
		defer close(out)
		p.run(ctx, key, force, out)
	}()
	return out
}

func (p *Policy[T]) run(ctx context.Context, key string, force bool, out chan<- outcome.Outcome[T]) {
	emit := func(o outcome.Outcome[T]) bool {
		select {
		case out <- o:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit(outcome.Loading[T](true)) {
		return
	}

	local, err := p.src.Local(ctx, key)
	if err != nil {
		slog.Error("failed to read local store", "kind", p.src.Kind, "key", key, "error", err)
		emit(outcome.Error[T](MsgLocalStore, nil))
		return
	}

	var stale *T
	exists := p.src.Exists(key, local)
	if exists {
		if !emit(outcome.Success(local)) {
			return
		}
		stale = &local
	}

	if !p.src.ShouldFetch(key, local, exists, force) {
		emit(outcome.Loading[T](false))
		return
	}
	if ctx.Err() != nil {
		return
	}

	rctx := ctx
	if force {
		// 強制更新はリモートのキャッシュを読まない
		rctx = remote.WithBypassCache(ctx)
	}
	if err := p.refresh(rctx, key); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("remote refresh failed", "kind", p.src.Kind, "key", key, "error", err)
		emit(outcome.Error(Describe(err), stale))
		return
	}

	fresh, err := p.src.Local(ctx, key)
	if err != nil {
		slog.Error("failed to re-read local store", "kind", p.src.Kind, "key", key, "error", err)
		emit(outcome.Error(MsgLocalStore, stale))
		return
	}
	if !emit(outcome.Success(fresh)) {
		return
	}
	emit(outcome.Loading[T](false))
}

// refresh runs the shared fetch-and-replace for key and waits for it or for ctx.
func (p *Policy[T]) refresh(ctx context.Context, key string) error {
	rk := key
	if p.src.RefreshKey != nil {
		rk = p.src.RefreshKey(key)
	}

	ch := p.group.DoChan(rk, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.refreshTimeout)
		defer cancel()
		return nil, p.src.Refresh(rctx, key)
	})

	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("joined in-flight refresh", "kind", p.src.Kind, "key", rk)
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Describe maps a refresh failure to the message shown to the user.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrLocalStore):
		return MsgLocalStore
	case errors.Is(err, ErrNotAvailable):
		return MsgNotAvailable
	case remote.IsConnectivity(err):
		return MsgConnectivity
	default:
		return MsgCouldNotLoad
	}
}
