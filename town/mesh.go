package town

import (
	"structs"
	"unsafe"

	"github.com/oliverbestmann/town/glm"
)

// RoadLift is the height of road quads above the ground plane. It keeps the
// depth test from flickering between road and ground.
const RoadLift = 0.02

var (
	groundColor = glm.Vec3f{0.30, 0.36, 0.27}
	roadColor   = glm.Vec3f{0.20, 0.20, 0.22}
)

var (
	axisX = glm.Vec3f{1, 0, 0}
	axisY = glm.Vec3f{0, 1, 0}
	axisZ = glm.Vec3f{0, 0, 1}
)

// Vertex is the layout the shaders read: position at offset 0,
// normal at offset 12 and color at offset 24, 36 bytes in total.
type Vertex struct {
	_ structs.HostLayout

	Position glm.Vec3f
	Normal   glm.Vec3f
	Color    glm.Vec3f
}

const VertexStride = uint64(unsafe.Sizeof(Vertex{}))

// Mesh is an indexed triangle list. Features never share vertices.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// quadFace describes one side of a box. The tangents are chosen so
// that U x V points along the Normal.
type quadFace struct {
	Normal glm.Vec3f
	U, V   glm.Vec3f
}

var boxFaces = [6]quadFace{
	{Normal: axisX, U: axisY, V: axisZ},
	{Normal: axisX.MulScalar(-1), U: axisZ, V: axisY},
	{Normal: axisY, U: axisZ, V: axisX},
	{Normal: axisY.MulScalar(-1), U: axisX, V: axisZ},
	{Normal: axisZ, U: axisX, V: axisY},
	{Normal: axisZ.MulScalar(-1), U: axisY, V: axisX},
}

// BuildMesh assembles the triangle mesh of the town: the ground quad
// first, then one quad per road, then six quads per building.
func BuildMesh(town *Town) Mesh {
	quadCount := 1 + len(town.roads) + 6*len(town.buildings)

	mb := meshBuilder{
		mesh: Mesh{
			Vertices: make([]Vertex, 0, 4*quadCount),
			Indices:  make([]uint32, 0, 6*quadCount),
		},
	}

	// ground, the tangents span the xz plane with +y as normal
	half := town.GroundHalfExtent()
	mb.quad(glm.Vec3f{}, axisZ.MulScalar(half), axisX.MulScalar(half), axisY, groundColor)

	for _, road := range town.roads {
		mb.road(road)
	}

	for _, building := range town.buildings {
		mb.box(building)
	}

	return mb.mesh
}

type meshBuilder struct {
	mesh Mesh
}

func (mb *meshBuilder) road(road Road) {
	start := road.Start.Lift(RoadLift)
	end := road.End.Lift(RoadLift)

	center := start.Add(end).MulScalar(0.5)

	// half of the segment along the road direction
	u := end.Sub(start).MulScalar(0.5)

	// perpendicular offset on the ground plane, y x u keeps u x v pointing up
	v := axisY.Cross(u).Normalize().MulScalar(road.Width / 2)

	mb.quad(center, u, v, axisY, roadColor)
}

func (mb *meshBuilder) box(building Building) {
	half := building.Size.MulScalar(0.5)

	// the building position is at ground level
	center := building.Position.Add(glm.Vec3f{0, half[1], 0})

	for _, face := range boxFaces {
		mb.quad(
			center.Add(face.Normal.Mul(half)),
			face.U.Mul(half),
			face.V.Mul(half),
			face.Normal,
			building.Color,
		)
	}
}

// quad emits the four corners center -u -v, center +u -v, center +u +v and
// center -u +v. With u x v pointing along the normal both triangles wind
// counter-clockwise when seen from the side the normal points to.
func (mb *meshBuilder) quad(center, u, v, normal, color glm.Vec3f) {
	base := uint32(len(mb.mesh.Vertices))

	corners := [4]glm.Vec3f{
		center.Sub(u).Sub(v),
		center.Add(u).Sub(v),
		center.Add(u).Add(v),
		center.Sub(u).Add(v),
	}

	for _, corner := range corners {
		mb.mesh.Vertices = append(mb.mesh.Vertices, Vertex{
			Position: corner,
			Normal:   normal,
			Color:    color,
		})
	}

	mb.mesh.Indices = append(mb.mesh.Indices,
		base+0, base+1, base+2,
		base+0, base+2, base+3,
	)
}
