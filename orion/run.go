package orion

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/town/camera"
	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/town/glimpse"
	"github.com/oliverbestmann/town/glm"
	"github.com/oliverbestmann/town/pulse"
	"github.com/oliverbestmann/town/town"
)

type RunOptions struct {
	// the town to generate. A zero config uses town.DefaultConfig
	Town town.Config

	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// bound for the wait on a frame slot, defaults to frame.DefaultFenceTimeout
	FenceTimeout time.Duration

	// validate the mesh before uploading it
	Debug bool

	Logger *slog.Logger
}

func (opts RunOptions) withDefaults() RunOptions {
	if opts.Town == (town.Config{}) {
		opts.Town = town.DefaultConfig()
	}

	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1280
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 720
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "Town"
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return opts
}

// RunTown generates the town, opens a window and renders it until the
// window is closed. Errors during startup are returned, as are fatal
// errors of the frame pipeline.
func RunTown(opts RunOptions) error {
	opts = opts.withDefaults()
	logger := opts.Logger

	scene, err := prepareScene(opts.Town, opts.Debug, logger)
	if err != nil {
		return err
	}

	cam := initialCamera(scene.town)

	var win glimpse.Window

	handler := &cameraInput{
		camera: cam,
		close:  func() { win.Close() },
	}

	// create a new window
	win, err = glimpse.NewWindow(
		opts.WindowWidth,
		opts.WindowHeight,
		opts.WindowTitle,
		handler,
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device, fails on adapters without the required limits
	ctx, err := pulse.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer ctx.Release()

	if err := checkVertexSize(ctx.Limits(), scene.mesh); err != nil {
		return err
	}

	view := pulse.NewView(ctx, true)
	defer view.Release()

	alloc := pulse.NewAllocator(ctx)
	fence := pulse.NewFence(ctx)

	submitter := pulse.NewSubmitter(view, fence, logger)
	defer submitter.Release()

	uniforms, err := frame.NewUniformArena(alloc)
	if err != nil {
		return fmt.Errorf("allocate uniforms: %w", err)
	}

	defer uniforms.Buffer().Release()

	residency := pulse.NewResidencySet("Town")
	defer residency.Release()

	geometry, err := frame.NewGeometryStore(alloc, residency, scene.mesh, uniforms.Buffer(), logger)
	if err != nil {
		return fmt.Errorf("upload geometry: %w", err)
	}

	defer geometry.Release()

	renderer, err := frame.NewRenderer(frame.Options{
		Submitter:    submitter,
		Fence:        fence,
		Geometry:     geometry,
		Uniforms:     uniforms,
		Camera:       cam,
		FenceTimeout: opts.FenceTimeout,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	loop := &loopState{
		window:   win,
		view:     view,
		renderer: renderer,
		camera:   cam,
		logger:   logger,
	}

	logger.Info("Start rendering", slog.String("town", scene.town.ID.String()))

	return win.Run(loop.once)
}

type townScene struct {
	town *town.Town
	mesh *town.Mesh
}

func prepareScene(config town.Config, validate bool, logger *slog.Logger) (townScene, error) {
	generated, err := town.Generate(config)
	if err != nil {
		return townScene{}, fmt.Errorf("generate town: %w", err)
	}

	mesh := town.BuildMesh(generated)

	if validate {
		if err := town.ValidateMesh(&mesh); err != nil {
			return townScene{}, fmt.Errorf("validate mesh: %w", err)
		}
	}

	logger.Info("Generated town",
		slog.String("id", generated.ID.String()),
		slog.Uint64("seed", config.Seed),
		slog.Any("stats", town.StatsOf(generated, &mesh)),
	)

	return townScene{town: generated, mesh: &mesh}, nil
}

// initialCamera places the camera above the southern edge of the town,
// looking at its center.
func initialCamera(generated *town.Town) *camera.Camera {
	half := generated.GroundHalfExtent()

	position := glm.Vec3f{0, 10 + half*0.4, half + 10}
	return camera.New(position, glm.Vec3f{0, 0, 0})
}

// checkVertexSize verifies that the vertex buffer fits into a single
// storage buffer binding.
func checkVertexSize(limits pulse.DeviceLimits, mesh *town.Mesh) error {
	size := uint64(len(mesh.Vertices)) * town.VertexStride
	if size > limits.MaxStorageBufferBindingSize {
		return fmt.Errorf("%w: vertex buffer of %d bytes exceeds storage binding size %d",
			pulse.ErrUnsupportedDevice, size, limits.MaxStorageBufferBindingSize)
	}

	if size == 0 {
		return errors.New("mesh has no vertices")
	}

	return nil
}
