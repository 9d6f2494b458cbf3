package frame

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/town/glm"
)

// ErrEncoderUnavailable is returned if the render encoder of a frame could
// not be created. This breaks an invariant of a correctly initialized
// pipeline and is fatal.
var ErrEncoderUnavailable = errors.New("render encoder unavailable")

const (
	// DefaultFenceTimeout bounds the wait for a slot to become free. After the
	// timeout the frame is encoded anyway, at the risk of overwriting data the
	// gpu still reads. Stalling the render loop is considered worse.
	DefaultFenceTimeout = 10 * time.Millisecond

	FieldOfView = 65.0
	NearPlane   = 0.1

	// the far plane needs to cover the extent of large towns
	FarPlane = 1000.0

	AmbientIntensity = 0.3
)

// LightDirection points from the surface towards the light.
var LightDirection = glm.Vec3f{0.4, 1.0, 0.3}.Normalize()

var ClearColor = [4]float64{0.2, 0.3, 0.4, 1.0}

// ViewSource supplies the view matrix of the current frame.
type ViewSource interface {
	ViewMatrix() glm.Mat4f
}

type Outcome uint8

const (
	// the frame was submitted and presented
	OutcomePresented Outcome = iota

	// the frame was dropped, the next frame retries
	OutcomeSkipped
)

type Options struct {
	Submitter CommandSubmitter
	Fence     CompletionFence
	Geometry  *GeometryStore
	Uniforms  *UniformArena
	Camera    ViewSource

	// defaults to a new BindingTables
	Binder ResourceBinder

	// defaults to DefaultFenceTimeout
	FenceTimeout time.Duration

	// defaults to slog.Default()
	Logger *slog.Logger

	// observes every state transition, may be nil
	OnTransition func(from, to State)
}

// Renderer drives the per frame work. Up to SlotCount frames are in flight:
// the cpu encodes frame N+2 while the gpu may still execute frame N.
// A Renderer must only be used from a single goroutine.
type Renderer struct {
	submitter CommandSubmitter
	fence     CompletionFence
	geometry  *GeometryStore
	uniforms  *UniformArena
	camera    ViewSource
	binder    ResourceBinder

	fenceTimeout time.Duration
	logger       *slog.Logger
	onTransition func(from, to State)

	state      State
	frameIndex uint64
	projection glm.Mat4f

	stats       Stats
	lastPresent time.Time
}

func NewRenderer(opts Options) (*Renderer, error) {
	switch {
	case opts.Submitter == nil:
		return nil, errors.New("submitter must not be nil")
	case opts.Fence == nil:
		return nil, errors.New("fence must not be nil")
	case opts.Geometry == nil:
		return nil, errors.New("geometry must not be nil")
	case opts.Uniforms == nil:
		return nil, errors.New("uniforms must not be nil")
	case opts.Camera == nil:
		return nil, errors.New("camera must not be nil")
	}

	if opts.Binder == nil {
		opts.Binder = &BindingTables{}
	}

	if opts.FenceTimeout <= 0 {
		opts.FenceTimeout = DefaultFenceTimeout
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	opts.Submitter.AddResidencySet(opts.Geometry.Residency())

	r := &Renderer{
		submitter:    opts.Submitter,
		fence:        opts.Fence,
		geometry:     opts.Geometry,
		uniforms:     opts.Uniforms,
		camera:       opts.Camera,
		binder:       opts.Binder,
		fenceTimeout: opts.FenceTimeout,
		logger:       opts.Logger,
		onTransition: opts.OnTransition,

		// the fence starts at zero, starting the frame index at SlotCount
		// lets the first SlotCount frames pass their wait immediately
		frameIndex: SlotCount,
		projection: glm.IdentityMat4[float32](),
	}

	return r, nil
}

// FrameIndex returns the index of the next frame.
func (r *Renderer) FrameIndex() uint64 {
	return r.frameIndex
}

func (r *Renderer) State() State {
	return r.state
}

func (r *Renderer) Stats() Stats {
	return r.stats
}

func (r *Renderer) Projection() glm.Mat4f {
	return r.projection
}

// Resize recomputes the projection for a surface of the given size.
func (r *Renderer) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		r.logger.Debug("Ignore resize to empty surface",
			slog.Int("width", int(width)),
			slog.Int("height", int(height)),
		)

		return
	}

	aspect := float32(width) / float32(height)
	r.projection = glm.Perspective[float32](glm.DegToRad[float32](FieldOfView), aspect, NearPlane, FarPlane)

	r.logger.Debug("Update projection",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
	)
}

// RenderFrame encodes, submits and presents one frame. Frames that can not
// be rendered are skipped and reported as OutcomeSkipped. An error is only
// returned for fatal conditions.
func (r *Renderer) RenderFrame() (Outcome, error) {
	slot := SlotFor(r.frameIndex)

	r.transition(StateSlotWaitComplete)
	r.waitForSlot(slot)

	r.transition(StateEncoding)

	commands, err := r.submitter.Begin(slot)
	if err != nil {
		r.transition(StateIdle)
		return OutcomeSkipped, fmt.Errorf("begin command stream for slot %d: %w", slot, err)
	}

	if err := r.writeUniforms(slot); err != nil {
		r.abortFrame(commands, nil)
		return OutcomeSkipped, err
	}

	// acquire the drawable as late as possible, we do not want to hold
	// on to the presentation surface longer than needed
	drawable := r.submitter.NextDrawable()
	if drawable == nil {
		r.skipFrame(commands, "no drawable available")
		return OutcomeSkipped, nil
	}

	pass, ok := drawable.PassDescriptor()
	if !ok {
		drawable.Release()
		r.skipFrame(commands, "no render pass descriptor available")
		return OutcomeSkipped, nil
	}

	if !pass.HasDepth {
		r.logger.Warn("No depth texture available, rendering without depth",
			slog.Uint64("frame", r.frameIndex),
		)
	}

	if err := r.encodePass(commands, pass, slot); err != nil {
		r.abortFrame(commands, drawable)
		return OutcomeSkipped, err
	}

	if residency := drawable.Residency(); residency != nil {
		commands.UseResidencySet(residency)
	}

	r.transition(StateSubmitted)

	submission := Submission{
		Commands:    commands,
		Drawable:    drawable,
		SignalValue: r.frameIndex,
	}

	if err := r.submitter.Submit(submission); err != nil {
		r.abortFrame(commands, drawable)
		return OutcomeSkipped, fmt.Errorf("submit frame %d: %w", r.frameIndex, err)
	}

	r.frameIndex += 1

	r.submitter.Present(drawable)
	r.transition(StatePresented)

	r.tick()

	r.transition(StateIdle)

	return OutcomePresented, nil
}

// waitForSlot blocks until the gpu finished the frame that last used the
// slot. The wait is bounded, a timeout is logged and otherwise ignored.
func (r *Renderer) waitForSlot(slot int) {
	waitValue := r.frameIndex - SlotCount

	if r.fence.Wait(waitValue, r.fenceTimeout) {
		return
	}

	r.stats.FenceTimeouts += 1

	r.logger.Warn("Timeout waiting for frame slot",
		slog.Int("slot", slot),
		slog.Uint64("waitValue", waitValue),
		slog.Duration("timeout", r.fenceTimeout),
	)
}

func (r *Renderer) writeUniforms(slot int) error {
	record := r.uniforms.Record(slot)
	record.Projection = r.projection
	record.View = r.camera.ViewMatrix()
	record.LightDirection = LightDirection
	record.AmbientIntensity = AmbientIntensity

	return r.uniforms.Flush(slot)
}

func (r *Renderer) encodePass(commands CommandBuffer, pass PassDescriptor, slot int) error {
	encoder, err := commands.BeginRenderPass(pass)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoderUnavailable, err)
	}

	if encoder == nil {
		return ErrEncoderUnavailable
	}

	uniforms := r.uniforms.Address(slot)

	// all addresses go into the tables before they are attached
	r.binder.SetAddress(StageVertex, BindingVertices, r.geometry.VertexAddress())
	r.binder.SetAddress(StageVertex, BindingUniforms, uniforms)
	r.binder.SetAddress(StageFragment, BindingUniforms, uniforms)

	r.binder.Attach(encoder, StageVertex)
	r.binder.Attach(encoder, StageFragment)

	err = encoder.DrawIndexed(IndexedDraw{
		Raster:     TownRasterState,
		Indices:    r.geometry.Indices(),
		IndexCount: r.geometry.IndexCount(),
	})

	if err != nil {
		return fmt.Errorf("draw town: %w", err)
	}

	if err := encoder.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	return nil
}

func (r *Renderer) skipFrame(commands CommandBuffer, reason string) {
	r.submitter.Discard(commands)
	r.stats.SkippedFrames += 1

	r.logger.Warn("Skip frame",
		slog.String("reason", reason),
		slog.Uint64("frame", r.frameIndex),
	)

	r.transition(StateIdle)
}

// abortFrame drops a frame that failed with an error. The frame index is
// not advanced, the next frame reuses the slot.
func (r *Renderer) abortFrame(commands CommandBuffer, drawable Drawable) {
	if drawable != nil {
		drawable.Release()
	}

	r.submitter.Discard(commands)
	r.transition(StateIdle)
}

func (r *Renderer) tick() {
	now := time.Now()

	if r.stats.FrameCount > 0 {
		r.stats.update(now.Sub(r.lastPresent))
	}

	r.lastPresent = now
	r.stats.FrameCount += 1
}

func (r *Renderer) transition(next State) {
	mustTransition(r.state, next)

	prev := r.state
	r.state = next

	if r.onTransition != nil {
		r.onTransition(prev, next)
	}
}
