package frame

import (
	"errors"
	"fmt"
	"time"

	"github.com/oliverbestmann/town/glm"
)

type fakeBuffer struct {
	label string
	usage BufferUsage
	data  []byte

	writeErr error
	released bool
}

func (b *fakeBuffer) Release() { b.released = true }

func (b *fakeBuffer) Label() string { return b.label }
func (b *fakeBuffer) Size() uint64  { return uint64(len(b.data)) }

func (b *fakeBuffer) Write(offset uint64, data []byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}

	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("write of %d bytes at %d exceeds buffer %q", len(data), offset, b.label)
	}

	copy(b.data[offset:], data)
	return nil
}

type fakeAllocator struct {
	buffers []*fakeBuffer

	// fail the allocation with the given label
	failLabel string

	// buffers created with this label fail on write
	failWrite string
}

func (a *fakeAllocator) CreateBuffer(label string, usage BufferUsage, size uint64) (Buffer, error) {
	if label == a.failLabel {
		return nil, errors.New("out of memory")
	}

	buffer := &fakeBuffer{label: label, usage: usage, data: make([]byte, size)}
	if label == a.failWrite {
		buffer.writeErr = errors.New("device lost")
	}

	a.buffers = append(a.buffers, buffer)
	return buffer, nil
}

func (a *fakeAllocator) byLabel(label string) *fakeBuffer {
	for _, buffer := range a.buffers {
		if buffer.label == label {
			return buffer
		}
	}

	return nil
}

type fakeResidency struct {
	pending   []Buffer
	committed []Buffer
	commitErr error
}

func (r *fakeResidency) Add(buffers ...Buffer) {
	r.pending = append(r.pending, buffers...)
}

func (r *fakeResidency) Commit() error {
	if r.commitErr != nil {
		return r.commitErr
	}

	r.committed = append(r.committed, r.pending...)
	r.pending = nil
	return nil
}

// fakeFence records every wait. Signals are applied by the test, either
// directly or from the onWait hook.
type fakeFence struct {
	value uint64
	waits []uint64

	// called before a wait is evaluated
	onWait func(value uint64)
}

func (f *fakeFence) Wait(value uint64, timeout time.Duration) bool {
	f.waits = append(f.waits, value)

	if f.onWait != nil {
		f.onWait(value)
	}

	return f.value >= value
}

type fakeDrawable struct {
	pass      PassDescriptor
	hasPass   bool
	residency ResidencyTracker

	released  bool
	presented bool
}

func (d *fakeDrawable) PassDescriptor() (PassDescriptor, bool) {
	return d.pass, d.hasPass
}

func (d *fakeDrawable) Residency() ResidencyTracker {
	return d.residency
}

func (d *fakeDrawable) Release() {
	d.released = true
}

type boundTable struct {
	stage Stage
	table BindingTable
}

type fakeEncoder struct {
	bindings []boundTable
	draws    []IndexedDraw
	ended    bool
}

func (e *fakeEncoder) SetBindings(stage Stage, table BindingTable) {
	e.bindings = append(e.bindings, boundTable{stage: stage, table: table})
}

func (e *fakeEncoder) DrawIndexed(draw IndexedDraw) error {
	e.draws = append(e.draws, draw)
	return nil
}

func (e *fakeEncoder) End() error {
	e.ended = true
	return nil
}

type fakeCommands struct {
	slot     int
	pass     PassDescriptor
	encoder  *fakeEncoder
	resident []ResidencyTracker

	encoderErr error
}

func (c *fakeCommands) BeginRenderPass(pass PassDescriptor) (RenderEncoder, error) {
	if c.encoderErr != nil {
		return nil, c.encoderErr
	}

	c.pass = pass
	c.encoder = &fakeEncoder{}
	return c.encoder, nil
}

func (c *fakeCommands) UseResidencySet(set ResidencyTracker) {
	c.resident = append(c.resident, set)
}

// fakeSubmitter records the calls of the renderer in order.
type fakeSubmitter struct {
	calls []string

	residencySets []ResidencyTracker
	begun         []*fakeCommands
	discarded     []*fakeCommands
	submitted     []Submission
	presented     []Drawable

	// drawables handed out by NextDrawable. nil entries simulate
	// an unavailable drawable. Once exhausted, a drawable with
	// depth is returned.
	drawables []*fakeDrawable

	encoderErr error
	submitErr  error

	// called on submit, usually to signal the fence
	onSubmit func(submission Submission)
}

func (s *fakeSubmitter) AddResidencySet(set ResidencyTracker) {
	s.calls = append(s.calls, "addResidencySet")
	s.residencySets = append(s.residencySets, set)
}

func (s *fakeSubmitter) Begin(slot int) (CommandBuffer, error) {
	s.calls = append(s.calls, fmt.Sprintf("begin(%d)", slot))

	commands := &fakeCommands{slot: slot, encoderErr: s.encoderErr}
	s.begun = append(s.begun, commands)
	return commands, nil
}

func (s *fakeSubmitter) Discard(commands CommandBuffer) {
	s.calls = append(s.calls, "discard")
	s.discarded = append(s.discarded, commands.(*fakeCommands))
}

func (s *fakeSubmitter) NextDrawable() Drawable {
	s.calls = append(s.calls, "nextDrawable")

	if len(s.drawables) == 0 {
		return newDrawable(true)
	}

	drawable := s.drawables[0]
	s.drawables = s.drawables[1:]

	if drawable == nil {
		// avoid returning a typed nil
		return nil
	}

	return drawable
}

func (s *fakeSubmitter) Submit(submission Submission) error {
	s.calls = append(s.calls, fmt.Sprintf("submit(%d)", submission.SignalValue))
	s.submitted = append(s.submitted, submission)

	if s.submitErr != nil {
		return s.submitErr
	}

	if s.onSubmit != nil {
		s.onSubmit(submission)
	}

	return nil
}

func (s *fakeSubmitter) Present(drawable Drawable) {
	s.calls = append(s.calls, "present")
	s.presented = append(s.presented, drawable)
	drawable.(*fakeDrawable).presented = true
}

func newDrawable(depth bool) *fakeDrawable {
	return &fakeDrawable{
		hasPass:   true,
		residency: &fakeResidency{},
		pass: PassDescriptor{
			ClearColor: ClearColor,
			ClearDepth: 1,
			HasDepth:   depth,
		},
	}
}

type fixedCamera struct {
	view glm.Mat4f
}

func (c fixedCamera) ViewMatrix() glm.Mat4f {
	return c.view
}
