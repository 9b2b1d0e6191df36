package screen

import (
	"sync"
	"time"
)

// Debouncer は連続した呼び出しをまとめ、最後の呼び出しから delay 経過後に1回だけ実行します。
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer はDebouncerの新しいインスタンスを生成します。
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger は保留中の実行を取り消し、fn を delay 後に実行するよう予約し直します。
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop は保留中の実行を取り消します。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
