// Package surface implements a half-edge surface mesh for polygonal
// geometry. Vertices, halfedges, edges and faces are addressed by small
// integer handles into internal connectivity arrays; the two halfedges of
// an edge are stored adjacently so that twins are found by flipping the
// lowest index bit. Deleting elements only marks them; CollectGarbage
// compacts the arrays and remaps all handles.
//
// The mesh maintains one invariant worth knowing about: the outgoing
// halfedge stored per vertex is a boundary halfedge whenever the vertex is
// on a boundary. Boundary queries are O(1) because of it.
package surface

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Handle types. A handle is an index into the mesh's storage arrays; the
// zero index is a real element, so "no element" is represented by -1.
type (
	// Vertex is a handle to a mesh vertex.
	Vertex int
	// Halfedge is a handle to a directed halfedge.
	Halfedge int
	// Edge is a handle to an undirected edge (a halfedge pair).
	Edge int
	// Face is a handle to a polygonal face.
	Face int
)

// Invalid handles returned by failed lookups and rejected insertions.
const (
	InvalidVertex   Vertex   = -1
	InvalidHalfedge Halfedge = -1
	InvalidEdge     Edge     = -1
	InvalidFace     Face     = -1
)

// IsValid reports whether the handle refers to an element.
func (v Vertex) IsValid() bool { return v >= 0 }

// IsValid reports whether the handle refers to an element.
func (h Halfedge) IsValid() bool { return h >= 0 }

// IsValid reports whether the handle refers to an element.
func (e Edge) IsValid() bool { return e >= 0 }

// IsValid reports whether the handle refers to an element.
func (f Face) IsValid() bool { return f >= 0 }

func (v Vertex) String() string   { return fmt.Sprintf("v%d", int(v)) }
func (h Halfedge) String() string { return fmt.Sprintf("h%d", int(h)) }
func (e Edge) String() string     { return fmt.Sprintf("e%d", int(e)) }
func (f Face) String() string     { return fmt.Sprintf("f%d", int(f)) }

// vertexConn holds per-vertex connectivity: an outgoing halfedge, kept on a
// boundary halfedge whenever one exists.
type vertexConn struct {
	halfedge Halfedge
}

// halfedgeConn holds per-halfedge connectivity. vertex is the vertex the
// halfedge points to. face is invalid for boundary halfedges.
type halfedgeConn struct {
	face   Face
	vertex Vertex
	next   Halfedge
	prev   Halfedge
}

// faceConn holds per-face connectivity: one halfedge of the face ring.
type faceConn struct {
	halfedge Halfedge
}

// Mesh is a half-edge surface mesh. The zero value is not usable; create
// meshes with New. A Mesh is not safe for concurrent mutation.
type Mesh struct {
	points []mgl64.Vec3
	vconn  []vertexConn
	hconn  []halfedgeConn
	fconn  []faceConn

	vdeleted []bool
	edeleted []bool
	fdeleted []bool

	deletedVertices int
	deletedEdges    int
	deletedFaces    int
	hasGarbage      bool

	// scratch buffers reused across AddFace calls
	faceHalfedges   []Halfedge
	faceIsNew       []bool
	faceNeedsAdjust []bool
	faceNextCache   [][2]Halfedge
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// Clear removes all elements and releases the storage.
func (m *Mesh) Clear() {
	*m = Mesh{}
}

// NumVertices returns the number of live (non-deleted) vertices.
func (m *Mesh) NumVertices() int { return len(m.vconn) - m.deletedVertices }

// NumEdges returns the number of live edges.
func (m *Mesh) NumEdges() int { return len(m.edeleted) - m.deletedEdges }

// NumHalfedges returns the number of live halfedges.
func (m *Mesh) NumHalfedges() int { return 2 * m.NumEdges() }

// NumFaces returns the number of live faces.
func (m *Mesh) NumFaces() int { return len(m.fconn) - m.deletedFaces }

// IsEmpty reports whether the mesh has no live vertices.
func (m *Mesh) IsEmpty() bool { return m.NumVertices() == 0 }

// HasGarbage reports whether deleted elements are still occupying storage.
func (m *Mesh) HasGarbage() bool { return m.hasGarbage }

// IsDeletedVertex reports whether v has been deleted but not yet collected.
func (m *Mesh) IsDeletedVertex(v Vertex) bool { return m.vdeleted[v] }

// IsDeletedEdge reports whether e has been deleted but not yet collected.
func (m *Mesh) IsDeletedEdge(e Edge) bool { return m.edeleted[e] }

// IsDeletedFace reports whether f has been deleted but not yet collected.
func (m *Mesh) IsDeletedFace(f Face) bool { return m.fdeleted[f] }

// Vertices returns the handles of all live vertices in index order.
func (m *Mesh) Vertices() []Vertex {
	out := make([]Vertex, 0, m.NumVertices())
	for i := range m.vconn {
		if !m.vdeleted[i] {
			out = append(out, Vertex(i))
		}
	}
	return out
}

// Edges returns the handles of all live edges in index order.
func (m *Mesh) Edges() []Edge {
	out := make([]Edge, 0, m.NumEdges())
	for i := range m.edeleted {
		if !m.edeleted[i] {
			out = append(out, Edge(i))
		}
	}
	return out
}

// Faces returns the handles of all live faces in index order.
func (m *Mesh) Faces() []Face {
	out := make([]Face, 0, m.NumFaces())
	for i := range m.fconn {
		if !m.fdeleted[i] {
			out = append(out, Face(i))
		}
	}
	return out
}

// AddVertex appends a new vertex at position p and returns its handle.
// It always succeeds.
func (m *Mesh) AddVertex(p mgl64.Vec3) Vertex {
	v := Vertex(len(m.vconn))
	m.points = append(m.points, p)
	m.vconn = append(m.vconn, vertexConn{halfedge: InvalidHalfedge})
	m.vdeleted = append(m.vdeleted, false)
	return v
}

// Position returns the position of v.
func (m *Mesh) Position(v Vertex) mgl64.Vec3 { return m.points[v] }

// SetPosition moves v to position p.
func (m *Mesh) SetPosition(v Vertex, p mgl64.Vec3) { m.points[v] = p }

// Positions exposes the per-vertex position table, indexed by vertex
// handle. Until CollectGarbage runs, the table also contains slots for
// deleted vertices.
func (m *Mesh) Positions() []mgl64.Vec3 { return m.points }

// Halfedge returns an outgoing halfedge of v, invalid if v is isolated.
// If v is a boundary vertex, the returned halfedge is a boundary one.
func (m *Mesh) Halfedge(v Vertex) Halfedge { return m.vconn[v].halfedge }

// ToVertex returns the vertex h points to.
func (m *Mesh) ToVertex(h Halfedge) Vertex { return m.hconn[h].vertex }

// FromVertex returns the vertex h emanates from.
func (m *Mesh) FromVertex(h Halfedge) Vertex { return m.hconn[h^1].vertex }

// Next returns the next halfedge within the face (or boundary) ring of h.
func (m *Mesh) Next(h Halfedge) Halfedge { return m.hconn[h].next }

// Prev returns the previous halfedge within the face (or boundary) ring of h.
func (m *Mesh) Prev(h Halfedge) Halfedge { return m.hconn[h].prev }

// Opposite returns the twin of h.
func (m *Mesh) Opposite(h Halfedge) Halfedge { return h ^ 1 }

// RotatedCW returns the next outgoing halfedge of h's origin, rotating
// clockwise around the origin vertex.
func (m *Mesh) RotatedCW(h Halfedge) Halfedge { return m.hconn[h^1].next }

// RotatedCCW returns the next outgoing halfedge of h's origin, rotating
// counterclockwise around the origin vertex.
func (m *Mesh) RotatedCCW(h Halfedge) Halfedge { return m.hconn[h].prev ^ 1 }

// Face returns the face bound to h, invalid if h is a boundary halfedge.
func (m *Mesh) Face(h Halfedge) Face { return m.hconn[h].face }

// EdgeOf returns the edge the halfedge belongs to.
func (m *Mesh) EdgeOf(h Halfedge) Edge { return Edge(h >> 1) }

// EdgeHalfedge returns halfedge i (0 or 1) of edge e.
func (m *Mesh) EdgeHalfedge(e Edge, i int) Halfedge { return Halfedge(int(e)<<1 + i) }

// EdgeVertices returns the two endpoints of e.
func (m *Mesh) EdgeVertices(e Edge) (Vertex, Vertex) {
	h := m.EdgeHalfedge(e, 0)
	return m.FromVertex(h), m.ToVertex(h)
}

// FaceHalfedge returns a halfedge of the face ring of f.
func (m *Mesh) FaceHalfedge(f Face) Halfedge { return m.fconn[f].halfedge }

func (m *Mesh) setHalfedge(v Vertex, h Halfedge) { m.vconn[v].halfedge = h }
func (m *Mesh) setFace(h Halfedge, f Face)       { m.hconn[h].face = f }
func (m *Mesh) setVertex(h Halfedge, v Vertex)   { m.hconn[h].vertex = v }

// setNext links h -> nh and maintains the back pointer.
func (m *Mesh) setNext(h, nh Halfedge) {
	m.hconn[h].next = nh
	m.hconn[nh].prev = h
}

// newEdge allocates a halfedge pair from start to end and returns the
// halfedge pointing to end. Next/prev links are left unset.
func (m *Mesh) newEdge(start, end Vertex) Halfedge {
	h := Halfedge(len(m.hconn))
	m.hconn = append(m.hconn,
		halfedgeConn{face: InvalidFace, vertex: end, next: InvalidHalfedge, prev: InvalidHalfedge},
		halfedgeConn{face: InvalidFace, vertex: start, next: InvalidHalfedge, prev: InvalidHalfedge},
	)
	m.edeleted = append(m.edeleted, false)
	return h
}

// Bounds returns the axis-aligned bounding box of all live vertices.
// For an empty mesh both corners are the zero vector.
func (m *Mesh) Bounds() (min, max mgl64.Vec3) {
	first := true
	for i, p := range m.points {
		if m.vdeleted[i] {
			continue
		}
		if first {
			min, max = p, p
			first = false
			continue
		}
		for c := 0; c < 3; c++ {
			if p[c] < min[c] {
				min[c] = p[c]
			}
			if p[c] > max[c] {
				max[c] = p[c]
			}
		}
	}
	return min, max
}
