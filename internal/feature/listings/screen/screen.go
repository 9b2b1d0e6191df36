package screen

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"stockwatch/internal/feature/listings/domain/entity"
	"stockwatch/internal/shared/outcome"
	"stockwatch/internal/shared/statebus"
)

// Syncer は銘柄一覧の同期です。usecase.ListingsUsecase が実装します。
type Syncer interface {
	Sync(ctx context.Context, query string, force bool) <-chan outcome.Outcome[[]entity.CompanyListing]
}

// Screen は1つの画面セッションです。状態は Subscribe で購読します。
// 新しい読み込みを始めると、前の読み込みの出力は状態に反映されなくなります。
type Screen struct {
	syncer    Syncer
	bus       *statebus.Bus[State]
	debouncer *Debouncer

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
	gen    atomic.Uint64
}

// New は Screen を生成し、ローカルの一覧の読み込みを開始します。
func New(ctx context.Context, syncer Syncer, debounce time.Duration) *Screen {
	ctx, stop := context.WithCancel(ctx)
	s := &Screen{
		syncer:    syncer,
		bus:       statebus.New(State{}),
		debouncer: NewDebouncer(debounce),
		ctx:       ctx,
		stop:      stop,
	}
	s.load(false)
	return s
}

// Subscribe は状態の購読を開始します。
func (s *Screen) Subscribe() *statebus.Subscription[State] {
	return s.bus.Subscribe()
}

// Unsubscribe は購読を解除します。
func (s *Screen) Unsubscribe(sub *statebus.Subscription[State]) {
	s.bus.Unsubscribe(sub)
}

// State は現在の状態を返します。
func (s *Screen) State() State {
	return s.bus.Latest()
}

// OnSearchQueryChange は検索語を更新し、入力が落ち着いてから検索します。
func (s *Screen) OnSearchQueryChange(query string) {
	s.bus.Update(func(st State) State {
		st.SearchQuery = query
		return st
	})
	s.debouncer.Trigger(func() { s.load(false) })
}

// Refresh はリモートから取り直します。
func (s *Screen) Refresh() {
	s.load(true)
}

// Stats は配信した状態の数と、購読者が読む前に置き換えられた状態の数を返します。
func (s *Screen) Stats() (published, dropped int64) {
	return s.bus.Stats()
}

// Close は保留中の検索と読み込みを止め、購読者のチャネルを閉じます。
func (s *Screen) Close() {
	s.debouncer.Stop()
	s.mu.Lock()
	s.stop()
	s.mu.Unlock()
	s.wg.Wait()
	s.bus.Close()

	published, dropped := s.bus.Stats()
	slog.Debug("listings screen closed", "published", published, "dropped", dropped)
}

func (s *Screen) load(force bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	gen := s.gen.Add(1)

	query := strings.ToLower(s.bus.Update(func(st State) State {
		st.IsLoading = true
		st.Error = ""
		return st
	}).SearchQuery)

	ch := s.syncer.Sync(ctx, query, force)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for o := range ch {
			s.bus.Update(func(st State) State {
				if s.gen.Load() != gen {
					return st
				}
				return Reduce(st, o)
			})
		}
	}()
}
