package frame

import (
	"sync"
	"time"
)

// CounterFence is a CompletionFence driven from the cpu side. Signal is
// safe to call from any goroutine, for example from a gpu completion callback.
type CounterFence struct {
	mu      sync.Mutex
	value   uint64
	changed chan struct{}
}

func NewCounterFence() *CounterFence {
	return &CounterFence{changed: make(chan struct{})}
}

// Signal advances the fence to value. Values lower than the current
// value are ignored, the fence never moves backwards.
func (f *CounterFence) Signal(value uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if value <= f.value {
		return
	}

	f.value = value

	// wake up all waiters
	close(f.changed)
	f.changed = make(chan struct{})
}

func (f *CounterFence) Value() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.value
}

func (f *CounterFence) Wait(value uint64, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		f.mu.Lock()
		reached := f.value >= value
		changed := f.changed
		f.mu.Unlock()

		if reached {
			return true
		}

		select {
		case <-changed:
		case <-timer.C:
			return f.Value() >= value
		}
	}
}
