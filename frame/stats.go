package frame

import (
	"time"
)

// Stats collects counters of the frame pipeline.
type Stats struct {
	// number of presented frames
	FrameCount uint64

	// frames dropped because no drawable was available
	SkippedFrames uint64

	// fence waits that ran into their timeout
	FenceTimeouts uint64

	AverageDuration time.Duration
	MaxDuration     time.Duration

	// duration of the last presented frame
	Delta time.Duration
}

func (t *Stats) update(d time.Duration) {
	const window = 64

	t.Delta = d
	t.MaxDuration = max(t.MaxDuration, d)

	if t.FrameCount < window/2 {
		t.AverageDuration = d
	} else {
		t.AverageDuration = ((window-1)*t.AverageDuration + d) / window
	}
}

func (t *Stats) FPS() float64 {
	if t.AverageDuration <= 0 {
		return 0
	}

	return 1.0 / t.AverageDuration.Seconds()
}
