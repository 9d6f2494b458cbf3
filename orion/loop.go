package orion

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/town/camera"
	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/town/glimpse"
	"github.com/oliverbestmann/town/pulse"
)

// largest time step applied to the camera, a longer stall
// must not teleport the camera through the town.
const maxCameraStep = 0.1

type loopState struct {
	window   glimpse.Window
	view     *pulse.View
	renderer *frame.Renderer
	camera   *camera.Camera
	logger   *slog.Logger

	surfaceWidth  uint32
	surfaceHeight uint32

	times FrameTimes
	debug debugReport
}

func (l *loopState) once(updateInput glimpse.UpdateInputState) error {
	// get surface size for next frame
	surfaceWidth, surfaceHeight := l.window.GetSize()

	// reconfigure surface if needed
	if l.surfaceWidth != surfaceWidth || l.surfaceHeight != surfaceHeight {
		l.logger.Debug("Resize surface",
			slog.Int("width", int(surfaceWidth)),
			slog.Int("height", int(surfaceHeight)),
		)

		if err := l.view.Configure(surfaceWidth, surfaceHeight); err != nil {
			return fmt.Errorf("resize surface: %w", err)
		}

		l.renderer.Resize(surfaceWidth, surfaceHeight)

		l.surfaceWidth = surfaceWidth
		l.surfaceHeight = surfaceHeight
	}

	// process pending events, the handlers update the camera directly
	updateInput()

	report := l.times.Tick()

	l.camera.Update(min(float32(l.times.Delta.Seconds()), maxCameraStep))

	if _, err := l.renderer.RenderFrame(); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	if report {
		l.debug.Log(l.logger, &l.times, l.renderer.Stats())
	}

	return nil
}
