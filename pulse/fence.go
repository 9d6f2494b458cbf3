package pulse

import (
	"log/slog"
	"time"

	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// interval in which the device is polled while waiting for the fence
const fencePollInterval = time.Millisecond

// Fence is a frame.CompletionFence signaled by the wgpu queue once the
// work submitted before SignalOnCompletion finished executing.
type Fence struct {
	ctx     *Context
	counter *frame.CounterFence
}

func NewFence(ctx *Context) *Fence {
	return &Fence{
		ctx:     ctx,
		counter: frame.NewCounterFence(),
	}
}

// SignalOnCompletion advances the fence to value once all work submitted so far is done.
func (f *Fence) SignalOnCompletion(value uint64) {
	f.ctx.Queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
		slog.Debug("Submitted work done",
			slog.Uint64("value", value),
			slog.Any("status", status),
		)

		// even failed work must release its slot, otherwise the
		// renderer would stall on every frame
		f.counter.Signal(value)
	})
}

func (f *Fence) Value() uint64 {
	return f.counter.Value()
}

// Wait polls the device until the fence reached value. The completion
// callbacks of wgpu are only invoked while polling.
func (f *Fence) Wait(value uint64, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for {
		if f.counter.Value() >= value {
			return true
		}

		f.ctx.Device.Poll(false, nil)

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return f.counter.Value() >= value
		}

		if f.counter.Wait(value, min(remaining, fencePollInterval)) {
			return true
		}
	}
}
