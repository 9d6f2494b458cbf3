package pulse

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/oliverbestmann/town/frame"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var errBufferReleased = errors.New("buffer was released")

// bufferQueue is the part of the wgpu queue a Buffer writes through.
type bufferQueue interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// Buffer is a frame.Buffer backed by a wgpu buffer. Writes go through the queue.
type Buffer struct {
	queue bufferQueue
	raw   *wgpu.Buffer
	label string
	size  uint64
	usage frame.BufferUsage
}

func (b *Buffer) Label() string {
	return b.label
}

func (b *Buffer) Size() uint64 {
	return b.size
}

func (b *Buffer) Write(offset uint64, data []byte) error {
	if b.raw == nil {
		return fmt.Errorf("write %q: %w", b.label, errBufferReleased)
	}

	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("write of %d bytes at offset %d exceeds %q", len(data), offset, b.label)
	}

	if err := b.queue.WriteBuffer(b.raw, offset, data); err != nil {
		return fmt.Errorf("write %q: %w", b.label, err)
	}

	return nil
}

func (b *Buffer) Release() {
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}

// Allocator creates gpu buffers for the frame pipeline.
type Allocator struct {
	ctx *Context
}

func NewAllocator(ctx *Context) *Allocator {
	return &Allocator{ctx: ctx}
}

func (a *Allocator) CreateBuffer(label string, usage frame.BufferUsage, size uint64) (frame.Buffer, error) {
	wgpuUsage, err := bufferUsageOf(usage)
	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", label, err)
	}

	raw, err := a.ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Usage: wgpuUsage | wgpu.BufferUsageCopyDst,
		Size:  size,
	})

	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", label, err)
	}

	slog.Debug("Created buffer",
		slog.String("label", label),
		slog.String("size", humanize.IBytes(size)),
	)

	buffer := &Buffer{
		queue: a.ctx.Queue,
		raw:   raw,
		label: label,
		size:  size,
		usage: usage,
	}

	return buffer, nil
}

// bufferUsageOf maps the usage to wgpu. The vertices are read from a
// storage buffer by the vertex shader, not through the vertex input stage.
func bufferUsageOf(usage frame.BufferUsage) (wgpu.BufferUsage, error) {
	switch usage {
	case frame.BufferUsageVertex:
		return wgpu.BufferUsageStorage, nil
	case frame.BufferUsageIndex:
		return wgpu.BufferUsageIndex, nil
	case frame.BufferUsageUniform:
		return wgpu.BufferUsageUniform, nil
	default:
		return 0, fmt.Errorf("unsupported buffer usage %d", usage)
	}
}

func rawBuffer(buffer frame.Buffer) (*wgpu.Buffer, error) {
	b, ok := buffer.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("buffer %q was not allocated by pulse", buffer.Label())
	}

	if b.raw == nil {
		return nil, fmt.Errorf("bind %q: %w", b.label, errBufferReleased)
	}

	return b.raw, nil
}
