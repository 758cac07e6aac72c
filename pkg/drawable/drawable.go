// Package drawable flattens half-edge meshes into the vertex, normal
// and index buffers a renderer uploads directly.
package drawable

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/surface"
)

// Buffers is geometry in GPU layout.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices reference vertices in
// triples for triangles and pairs for line segments.
type Buffers struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...]
	Name     string    `json:"name"`     // which mesh this came from
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles in a triangle buffer.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// SegmentCount returns the number of segments in a line buffer.
func (b *Buffers) SegmentCount() int {
	return len(b.Indices) / 2
}

// IsEmpty returns true if the buffers hold no geometry.
func (b *Buffers) IsEmpty() bool {
	return len(b.Vertices) == 0
}

func appendVec3(dst []float32, p mgl64.Vec3) []float32 {
	return append(dst, float32(p[0]), float32(p[1]), float32(p[2]))
}

// Triangles flattens the mesh for smooth shading. Each live vertex
// appears once, carrying its averaged normal, and faces are fan
// triangulated against it.
func Triangles(m *surface.Mesh) *Buffers {
	b := &Buffers{}
	index := make(map[surface.Vertex]uint32, m.NumVertices())
	for _, v := range m.Vertices() {
		index[v] = uint32(len(b.Vertices) / 3)
		b.Vertices = appendVec3(b.Vertices, m.Position(v))
		b.Normals = appendVec3(b.Normals, m.VertexNormal(v))
	}
	for _, f := range m.Faces() {
		vs := m.FaceVertices(f)
		for i := 1; i+1 < len(vs); i++ {
			b.Indices = append(b.Indices, index[vs[0]], index[vs[i]], index[vs[i+1]])
		}
	}
	return b
}

// FlatTriangles flattens the mesh for flat shading. Corners are not
// shared: every triangle gets three fresh vertices carrying the face
// normal.
func FlatTriangles(m *surface.Mesh) *Buffers {
	b := &Buffers{}
	for _, f := range m.Faces() {
		n := m.FaceNormal(f)
		vs := m.FaceVertices(f)
		for i := 1; i+1 < len(vs); i++ {
			for _, v := range [3]surface.Vertex{vs[0], vs[i], vs[i+1]} {
				b.Indices = append(b.Indices, uint32(len(b.Vertices)/3))
				b.Vertices = appendVec3(b.Vertices, m.Position(v))
				b.Normals = appendVec3(b.Normals, n)
			}
		}
	}
	return b
}

// Lines flattens the mesh edges into wireframe segments.
func Lines(m *surface.Mesh) *Buffers {
	b := &Buffers{}
	index := make(map[surface.Vertex]uint32, m.NumVertices())
	for _, v := range m.Vertices() {
		index[v] = uint32(len(b.Vertices) / 3)
		b.Vertices = appendVec3(b.Vertices, m.Position(v))
	}
	for _, e := range m.Edges() {
		v0, v1 := m.EdgeVertices(e)
		b.Indices = append(b.Indices, index[v0], index[v1])
	}
	return b
}

// Points flattens the vertex positions with no connectivity.
func Points(m *surface.Mesh) *Buffers {
	b := &Buffers{}
	for _, v := range m.Vertices() {
		b.Vertices = appendVec3(b.Vertices, m.Position(v))
	}
	return b
}

// Borders extracts the boundary loops as line segments. A closed mesh
// yields empty buffers.
func Borders(m *surface.Mesh) *Buffers {
	b := &Buffers{}
	index := make(map[surface.Vertex]uint32)
	add := func(v surface.Vertex) uint32 {
		if i, ok := index[v]; ok {
			return i
		}
		i := uint32(len(b.Vertices) / 3)
		index[v] = i
		b.Vertices = appendVec3(b.Vertices, m.Position(v))
		return i
	}
	for _, loop := range m.BoundaryLoops() {
		for _, h := range loop {
			b.Indices = append(b.Indices, add(m.FromVertex(h)), add(m.ToVertex(h)))
		}
	}
	return b
}
