package town

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidMesh = errors.New("invalid mesh")

// ValidateMesh checks that every index is in range, that normals are of
// unit length and that every triangle winds counter-clockwise around the
// normal of its first vertex.
func ValidateMesh(mesh *Mesh) error {
	if len(mesh.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidMesh, len(mesh.Indices))
	}

	vertexCount := uint32(len(mesh.Vertices))

	for idx, vi := range mesh.Indices {
		if vi >= vertexCount {
			return fmt.Errorf("%w: index %d references vertex %d of %d", ErrInvalidMesh, idx, vi, vertexCount)
		}
	}

	for idx, vertex := range mesh.Vertices {
		length := vertex.Normal.Length()
		if math.Abs(float64(length)-1) > 1e-4 {
			return fmt.Errorf("%w: normal of vertex %d has length %f", ErrInvalidMesh, idx, length)
		}
	}

	for tri := range mesh.TriangleCount() {
		a := mesh.Vertices[mesh.Indices[3*tri+0]]
		b := mesh.Vertices[mesh.Indices[3*tri+1]]
		c := mesh.Vertices[mesh.Indices[3*tri+2]]

		faceNormal := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if faceNormal.Dot(a.Normal) <= 0 {
			return fmt.Errorf("%w: triangle %d winds clockwise around its normal %v", ErrInvalidMesh, tri, a.Normal)
		}
	}

	return nil
}
