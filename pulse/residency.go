package pulse

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/oliverbestmann/town/frame"
)

// ResidencySet tracks the buffers a command stream may address. wgpu keeps
// buffers resident as long as they are alive, so the set owns the lifetime
// of its buffers: they are released together with the set.
type ResidencySet struct {
	label    string
	pending  []frame.Buffer
	resident map[*Buffer]struct{}
}

func NewResidencySet(label string) *ResidencySet {
	return &ResidencySet{
		label:    label,
		resident: map[*Buffer]struct{}{},
	}
}

func (r *ResidencySet) Add(buffers ...frame.Buffer) {
	r.pending = append(r.pending, buffers...)
}

func (r *ResidencySet) Commit() error {
	defer func() { r.pending = nil }()

	var total uint64

	for _, buffer := range r.pending {
		b, ok := buffer.(*Buffer)
		if !ok {
			return fmt.Errorf("commit %q: buffer %q was not allocated by pulse", r.label, buffer.Label())
		}

		if b.raw == nil {
			return fmt.Errorf("commit %q: buffer %q: %w", r.label, b.label, errBufferReleased)
		}

		r.resident[b] = struct{}{}
		total += b.size
	}

	slog.Debug("Committed residency set",
		slog.String("label", r.label),
		slog.Int("buffers", len(r.resident)),
		slog.String("added", humanize.IBytes(total)),
	)

	return nil
}

// Contains reports whether the buffer was committed to this set.
func (r *ResidencySet) Contains(buffer frame.Buffer) bool {
	b, ok := buffer.(*Buffer)
	if !ok {
		return false
	}

	_, resident := r.resident[b]
	return resident
}

// Release releases all committed buffers.
func (r *ResidencySet) Release() {
	for buffer := range r.resident {
		buffer.Release()
	}

	clear(r.resident)
}
