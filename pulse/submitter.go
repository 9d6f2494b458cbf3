package pulse

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Submitter implements frame.CommandSubmitter on top of a wgpu queue and surface.
type Submitter struct {
	view   *View
	fence  *Fence
	logger *slog.Logger

	pipelines  *PipelineCache[townPipeline]
	bindGroups *bindGroupCache

	// residency sets used by all work on the queue
	residency []*ResidencySet

	// one encoder per slot, reset on Begin
	encoders [frame.SlotCount]*wgpu.CommandEncoder

	// the drawable acquired for the frame that is currently encoded
	current *drawable
}

func NewSubmitter(view *View, fence *Fence, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Submitter{
		view:       view,
		fence:      fence,
		logger:     logger,
		pipelines:  NewPipelineCache[townPipeline](view.Context),
		bindGroups: newBindGroupCache(view.Device),
	}

	// bind groups reference the layout of their pipeline
	s.pipelines.onEvict = s.bindGroups.Evict

	return s
}

func (s *Submitter) AddResidencySet(set frame.ResidencyTracker) {
	rs, ok := set.(*ResidencySet)
	if !ok {
		s.logger.Warn("Ignore residency set not created by pulse", slog.Any("set", set))
		return
	}

	s.residency = append(s.residency, rs)
}

func (s *Submitter) Begin(slot int) (frame.CommandBuffer, error) {
	s.resetSlot(slot)

	encoder, err := s.view.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: fmt.Sprintf("Town.Frame.%d", slot),
	})

	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	s.encoders[slot] = encoder

	return &commandBuffer{submitter: s, slot: slot, encoder: encoder}, nil
}

func (s *Submitter) resetSlot(slot int) {
	if s.encoders[slot] != nil {
		s.encoders[slot].Release()
		s.encoders[slot] = nil
	}
}

func (s *Submitter) Discard(commands frame.CommandBuffer) {
	if cb, ok := commands.(*commandBuffer); ok {
		s.resetSlot(cb.slot)
	}
}

func (s *Submitter) NextDrawable() frame.Drawable {
	texture, err := s.view.Surface.GetCurrentTexture()
	if err != nil {
		s.logger.Warn("Surface texture unavailable", slog.String("err", err.Error()))
		return nil
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		s.logger.Warn("Create view of surface texture", slog.String("err", err.Error()))
		return nil
	}

	s.current = &drawable{
		submitter: s,
		texture:   texture,
		view:      view,
		format:    s.view.Format(),
		depthView: s.view.DepthView(),
	}

	return s.current
}

func (s *Submitter) Submit(submission frame.Submission) error {
	cb, ok := submission.Commands.(*commandBuffer)
	if !ok {
		return errors.New("command buffer was not created by pulse")
	}

	defer s.resetSlot(cb.slot)

	buf, err := cb.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command buffer: %w", err)
	}

	defer buf.Release()

	// wgpu orders the surface acquisition before the submission,
	// no explicit wait for the drawable is needed.
	s.view.Queue.Submit(buf)

	s.fence.SignalOnCompletion(submission.SignalValue)

	return nil
}

func (s *Submitter) Present(d frame.Drawable) {
	target, ok := d.(*drawable)
	if !ok {
		return
	}

	s.view.Surface.Present()

	// the texture belongs to the surface after a successful present
	target.view.Release()
	target.view = nil
	target.texture = nil

	s.current = nil
}

// Release drops all cached gpu objects.
func (s *Submitter) Release() {
	for slot := range s.encoders {
		s.resetSlot(slot)
	}

	s.bindGroups.Purge()
	s.pipelines.Purge()
}

func (s *Submitter) isResident(buffer frame.Buffer, extra []*ResidencySet) bool {
	for _, set := range s.residency {
		if set.Contains(buffer) {
			return true
		}
	}

	for _, set := range extra {
		if set.Contains(buffer) {
			return true
		}
	}

	return false
}

type commandBuffer struct {
	submitter *Submitter
	slot      int
	encoder   *wgpu.CommandEncoder
	residency []*ResidencySet
}

func (c *commandBuffer) UseResidencySet(set frame.ResidencyTracker) {
	if rs, ok := set.(*ResidencySet); ok {
		c.residency = append(c.residency, rs)
	}
}

func (c *commandBuffer) BeginRenderPass(pass frame.PassDescriptor) (frame.RenderEncoder, error) {
	target := c.submitter.current
	if target == nil || target.view == nil {
		return nil, errors.New("no drawable acquired")
	}

	clearColor := pass.ClearColor

	desc := &wgpu.RenderPassDescriptor{
		Label: "Town.RenderPass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    target.view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: clearColor[0],
					G: clearColor[1],
					B: clearColor[2],
					A: clearColor[3],
				},
			},
		},
	}

	depthFormat := wgpu.TextureFormatUndefined

	if pass.HasDepth && target.depthView != nil {
		depthFormat = DepthFormat

		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:              target.depthView,
			DepthLoadOp:       wgpu.LoadOpClear,
			DepthStoreOp:      wgpu.StoreOpStore,
			DepthClearValue:   pass.ClearDepth,
			StencilLoadOp:     wgpu.LoadOpClear,
			StencilStoreOp:    wgpu.StoreOpStore,
			StencilClearValue: 0,
		}
	}

	re := &renderEncoder{
		commands:     c,
		pass:         c.encoder.BeginRenderPass(desc),
		targetFormat: target.format,
		depthFormat:  depthFormat,
	}

	return re, nil
}

type drawable struct {
	submitter *Submitter
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	format    wgpu.TextureFormat
	depthView *wgpu.TextureView
}

func (d *drawable) PassDescriptor() (frame.PassDescriptor, bool) {
	if d.view == nil {
		return frame.PassDescriptor{}, false
	}

	pass := frame.PassDescriptor{
		ClearColor: frame.ClearColor,
		ClearDepth: 1.0,
		HasDepth:   d.depthView != nil,
	}

	return pass, true
}

// Residency returns nil, the surface keeps its textures resident.
func (d *drawable) Residency() frame.ResidencyTracker {
	return nil
}

func (d *drawable) Release() {
	if d.view != nil {
		d.view.Release()
		d.view = nil
	}

	if d.texture != nil {
		d.texture.Release()
		d.texture = nil
	}

	if d.submitter.current == d {
		d.submitter.current = nil
	}
}
