// Package statebus は最新値だけを配信するインメモリの Pub/Sub です。
// 購読者が遅い場合、途中の状態は捨てられ最新の状態だけが届きます。
package statebus

import (
	"log/slog"
	"sync"
)

// Subscription は状態の購読を表します。C は Unsubscribe か Close で閉じられます。
type Subscription[S any] struct {
	C <-chan S
	c chan S
}

// Bus は型 S の状態を購読者へ配信します。
type Bus[S any] struct {
	mu      sync.Mutex
	subs    map[*Subscription[S]]struct{}
	latest  S
	hasData bool
	closed  bool

	published int64
	dropped   int64
}

// New は初期状態 initial を持つ Bus を生成します。
func New[S any](initial S) *Bus[S] {
	return &Bus[S]{
		subs:    make(map[*Subscription[S]]struct{}),
		latest:  initial,
		hasData: true,
	}
}

// Subscribe は購読を登録し、現在の状態をすぐに送ります。
func (b *Bus[S]) Subscribe() *Subscription[S] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan S, 1)
	sub := &Subscription[S]{C: ch, c: ch}
	if b.closed {
		close(ch)
		return sub
	}
	if b.hasData {
		ch <- b.latest
	}
	b.subs[sub] = struct{}{}
	slog.Debug("statebus: new subscription", "subscribers", len(b.subs))
	return sub
}

// Unsubscribe は購読を解除してチャネルを閉じます。
func (b *Bus[S]) Unsubscribe(sub *Subscription[S]) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.c)
}

// publish は状態を記録して全購読者に配信します。ブロックしません。
// 未読の古い状態が残っていれば捨てて置き換えます。
func (b *Bus[S]) publish(s S) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publishLocked(s)
}

// Update は現在の状態に fn を適用した結果を配信し、その状態を返します。
// fn はロック中に呼ばれるため、Bus のメソッドを呼んではいけません。
func (b *Bus[S]) Update(fn func(S) S) S {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := fn(b.latest)
	b.publishLocked(next)
	return next
}

func (b *Bus[S]) publishLocked(s S) {
	if b.closed {
		return
	}
	b.latest = s
	b.hasData = true
	b.published++

	for sub := range b.subs {
		// 未読があれば落とす
		select {
		case <-sub.c:
			b.dropped++
		default:
		}
		sub.c <- s
	}
}

// Latest は最後に配信された状態を返します。
func (b *Bus[S]) Latest() S {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// Stats は配信数と捨てられた状態の数を返します。
func (b *Bus[S]) Stats() (published, dropped int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published, b.dropped
}

// Close は全購読者のチャネルを閉じ、以降の配信を無視します。
func (b *Bus[S]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.c)
	}
	b.subs = nil
}
