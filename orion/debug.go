package orion

import (
	"log/slog"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/oliverbestmann/town/frame"
)

// debugReport periodically logs timing and memory statistics.
type debugReport struct {
	mem runtime.MemStats

	// counters of the previous report
	lastSkipped  uint64
	lastTimeouts uint64
	lastGC       uint32
}

func (d *debugReport) Log(logger *slog.Logger, times *FrameTimes, stats frame.Stats) {
	runtime.ReadMemStats(&d.mem)

	logger.Info("Frame stats",
		slog.Group("loop",
			slog.Uint64("frames", times.FrameCount),
			slog.Float64("fps", times.FPS()),
			slog.Duration("avg", times.AverageDuration),
			slog.Duration("max", times.MaxDuration),
		),
		slog.Group("render",
			slog.Uint64("presented", stats.FrameCount),
			slog.Uint64("skipped", stats.SkippedFrames-d.lastSkipped),
			slog.Uint64("fenceTimeouts", stats.FenceTimeouts-d.lastTimeouts),
			slog.Duration("avg", stats.AverageDuration),
		),
		slog.Group("mem",
			slog.String("heap", humanize.IBytes(d.mem.HeapAlloc)),
			slog.String("sys", humanize.IBytes(d.mem.Sys)),
			slog.Uint64("gc", uint64(d.mem.NumGC-d.lastGC)),
		),
	)

	d.lastSkipped = stats.SkippedFrames
	d.lastTimeouts = stats.FenceTimeouts
	d.lastGC = d.mem.NumGC
}
