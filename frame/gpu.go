package frame

import "time"

// BufferUsage describes how a Buffer is accessed by the gpu.
type BufferUsage uint8

const (
	// the buffer is read by shaders as vertex storage
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
)

// Buffer is a block of gpu visible memory.
type Buffer interface {
	Label() string
	Size() uint64

	// Write copies data into the buffer, starting at offset.
	Write(offset uint64, data []byte) error

	// Release frees the gpu memory. The buffer must not be used afterwards.
	Release()
}

type BufferAllocator interface {
	CreateBuffer(label string, usage BufferUsage, size uint64) (Buffer, error)
}

// ResidencyTracker keeps a set of buffers resident, so that the gpu can
// address them without checking residency on every draw.
type ResidencyTracker interface {
	Add(buffers ...Buffer)

	// Commit applies all pending additions to the set.
	Commit() error
}

// CompletionFence is a monotonic counter the gpu advances after it
// finished the work of a submitted frame.
type CompletionFence interface {
	// Wait blocks until the fence reached at least value or the timeout
	// elapsed. It reports whether the value was reached.
	Wait(value uint64, timeout time.Duration) bool
}

// PassDescriptor describes the render pass targeting a Drawable.
type PassDescriptor struct {
	ClearColor [4]float64
	ClearDepth float32

	// false if there is no depth attachment. The pass then renders
	// without clearing or testing depth.
	HasDepth bool
}

// Drawable is the presentation target of a single frame.
type Drawable interface {
	// PassDescriptor returns the render pass for this drawable,
	// or false if none is available.
	PassDescriptor() (PassDescriptor, bool)

	// Residency returns the residency set of the presentation target, or nil.
	Residency() ResidencyTracker

	// Release gives back a drawable that will not be presented.
	Release()
}

type PrimitiveTopology uint8

const (
	TopologyTriangleList PrimitiveTopology = iota
)

type CullMode uint8

const (
	CullModeNone CullMode = iota
	CullModeBack
	CullModeFront
)

type FrontFace uint8

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

type CompareFunction uint8

const (
	CompareFunctionAlways CompareFunction = iota
	CompareFunctionLess
	CompareFunctionLessEqual
)

// RasterState holds the fixed function state of a draw call.
type RasterState struct {
	Topology     PrimitiveTopology
	CullMode     CullMode
	FrontFace    FrontFace
	DepthCompare CompareFunction
	DepthWrite   bool
}

// TownRasterState renders the town mesh: triangle list, counter-clockwise
// front faces with back faces culled, depth test less with depth writes.
var TownRasterState = RasterState{
	Topology:     TopologyTriangleList,
	CullMode:     CullModeBack,
	FrontFace:    FrontFaceCCW,
	DepthCompare: CompareFunctionLess,
	DepthWrite:   true,
}

type IndexedDraw struct {
	Raster     RasterState
	Indices    Buffer
	IndexCount uint32
}

// RenderEncoder records the commands of a single render pass.
type RenderEncoder interface {
	// SetBindings attaches a snapshot of the binding table to the given stage.
	// Changes to the table after this call are not observed by the draw.
	SetBindings(stage Stage, table BindingTable)

	DrawIndexed(draw IndexedDraw) error

	// End finishes encoding of the pass.
	End() error
}

// CommandBuffer is the command stream of one frame.
type CommandBuffer interface {
	// BeginRenderPass creates the render encoder for the pass.
	BeginRenderPass(pass PassDescriptor) (RenderEncoder, error)

	// UseResidencySet declares that the commands use the given set.
	UseResidencySet(set ResidencyTracker)
}

// Submission is the finished work of one frame.
type Submission struct {
	Commands CommandBuffer
	Drawable Drawable

	// the submitter signals its completion fence with this value once the
	// gpu finished executing Commands
	SignalValue uint64
}

// CommandSubmitter owns one command encoding context per slot, the
// presentation surface and the queue work is submitted to.
type CommandSubmitter interface {
	// AddResidencySet makes the set resident for all work on the queue.
	AddResidencySet(set ResidencyTracker)

	// Begin resets the encoding context of the slot and starts a new command stream.
	Begin(slot int) (CommandBuffer, error)

	// Discard drops a command stream that will never be submitted.
	Discard(commands CommandBuffer)

	// NextDrawable returns the next presentation target, or nil if none is available.
	NextDrawable() Drawable

	// Submit waits for the drawable to become available, commits the
	// commands and signals the completion fence once they have executed.
	Submit(submission Submission) error

	// Present requests presentation of the drawable.
	Present(drawable Drawable)
}
