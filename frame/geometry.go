package frame

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/oliverbestmann/town/town"
)

// GeometryStore owns the gpu buffers holding the town mesh. It is never
// modified after creation, a new town requires a new GeometryStore.
type GeometryStore struct {
	vertices   Buffer
	indices    Buffer
	indexCount uint32
	residency  ResidencyTracker
}

// NewGeometryStore uploads the mesh and registers its buffers together with
// the uniform buffer in the residency set. On failure no buffer is leaked.
func NewGeometryStore(alloc BufferAllocator, residency ResidencyTracker, mesh *town.Mesh, uniforms Buffer, logger *slog.Logger) (*GeometryStore, error) {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, errors.New("mesh is empty")
	}

	if logger == nil {
		logger = slog.Default()
	}

	vertexBytes := SliceAsBytes(mesh.Vertices)
	indexBytes := SliceAsBytes(mesh.Indices)

	vertices, err := uploadBuffer(alloc, "Town.Vertices", BufferUsageVertex, vertexBytes)
	if err != nil {
		return nil, err
	}

	indices, err := uploadBuffer(alloc, "Town.Indices", BufferUsageIndex, indexBytes)
	if err != nil {
		vertices.Release()
		return nil, err
	}

	residency.Add(vertices, indices, uniforms)

	if err := residency.Commit(); err != nil {
		vertices.Release()
		indices.Release()
		return nil, fmt.Errorf("commit residency set: %w", err)
	}

	logger.Info("Uploaded town geometry",
		slog.Int("vertices", len(mesh.Vertices)),
		slog.Int("indices", len(mesh.Indices)),
		slog.String("size", humanize.IBytes(uint64(len(vertexBytes)+len(indexBytes)))),
	)

	store := &GeometryStore{
		vertices:   vertices,
		indices:    indices,
		indexCount: uint32(len(mesh.Indices)),
		residency:  residency,
	}

	return store, nil
}

func uploadBuffer(alloc BufferAllocator, label string, usage BufferUsage, data []byte) (Buffer, error) {
	buffer, err := alloc.CreateBuffer(label, usage, uint64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", label, err)
	}

	if err := buffer.Write(0, data); err != nil {
		buffer.Release()
		return nil, fmt.Errorf("upload buffer %q: %w", label, err)
	}

	return buffer, nil
}

// VertexAddress covers the whole vertex buffer.
func (g *GeometryStore) VertexAddress() BufferAddress {
	return BufferAddress{Buffer: g.vertices, Size: g.vertices.Size()}
}

func (g *GeometryStore) Indices() Buffer {
	return g.indices
}

func (g *GeometryStore) IndexCount() uint32 {
	return g.indexCount
}

func (g *GeometryStore) Residency() ResidencyTracker {
	return g.residency
}

// Release frees the vertex and index buffers.
func (g *GeometryStore) Release() {
	g.vertices.Release()
	g.indices.Release()
}
