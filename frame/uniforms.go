package frame

import (
	"fmt"
	"structs"
	"unsafe"

	"github.com/oliverbestmann/town/glm"
)

// SlotCount is the number of frames that may be in flight at once.
const SlotCount = 3

// Uniforms is the per frame data shared by the vertex and fragment shader.
type Uniforms struct {
	_ structs.HostLayout

	Projection       glm.Mat4f
	View             glm.Mat4f
	LightDirection   glm.Vec3f
	AmbientIntensity float32
}

const (
	UniformSize = uint64(unsafe.Sizeof(Uniforms{}))

	// uniform buffer offsets must be aligned to 256 bytes
	uniformAlignment = 256

	UniformStride = (UniformSize + uniformAlignment - 1) / uniformAlignment * uniformAlignment
)

// UniformArena holds one Uniforms record per slot, backed by a single
// gpu buffer with each record at a 256 byte aligned offset.
type UniformArena struct {
	buffer  Buffer
	records [SlotCount]Uniforms
}

func NewUniformArena(alloc BufferAllocator) (*UniformArena, error) {
	buffer, err := alloc.CreateBuffer("Town.Uniforms", BufferUsageUniform, UniformStride*SlotCount)
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	return &UniformArena{buffer: buffer}, nil
}

// SlotFor returns the slot used by the frame with the given index.
func SlotFor(frameIndex uint64) int {
	return int(frameIndex % SlotCount)
}

func (a *UniformArena) Buffer() Buffer {
	return a.buffer
}

// Record returns the cpu side record of the slot.
func (a *UniformArena) Record(slot int) *Uniforms {
	return &a.records[slot]
}

// Address returns the location of the slot's record within the buffer.
func (a *UniformArena) Address(slot int) BufferAddress {
	_ = a.records[slot]

	return BufferAddress{
		Buffer: a.buffer,
		Offset: uint64(slot) * UniformStride,
		Size:   UniformSize,
	}
}

// Flush copies the record of the slot into the gpu buffer.
func (a *UniformArena) Flush(slot int) error {
	address := a.Address(slot)

	if err := a.buffer.Write(address.Offset, AsByteSlice(&a.records[slot])); err != nil {
		return fmt.Errorf("write uniforms of slot %d: %w", slot, err)
	}

	return nil
}
