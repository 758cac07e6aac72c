package surface

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// quadVertices adds four corner vertices of a unit square in the z=0 plane.
func quadVertices(m *Mesh) [4]Vertex {
	return [4]Vertex{
		m.AddVertex(mgl64.Vec3{0, 0, 0}),
		m.AddVertex(mgl64.Vec3{1, 0, 0}),
		m.AddVertex(mgl64.Vec3{1, 1, 0}),
		m.AddVertex(mgl64.Vec3{0, 1, 0}),
	}
}

// tetrahedron builds a closed tetrahedron with consistently oriented faces.
func tetrahedron(m *Mesh) [4]Vertex {
	v := [4]Vertex{
		m.AddVertex(mgl64.Vec3{0, 0, 0}),
		m.AddVertex(mgl64.Vec3{1, 0, 0}),
		m.AddVertex(mgl64.Vec3{0, 1, 0}),
		m.AddVertex(mgl64.Vec3{0, 0, 1}),
	}
	m.AddTriangle(v[0], v[1], v[2])
	m.AddTriangle(v[0], v[2], v[3])
	m.AddTriangle(v[0], v[3], v[1])
	m.AddTriangle(v[1], v[3], v[2])
	return v
}

// --- Vertex and element basics ---

func TestAddVertex(t *testing.T) {
	m := New()
	if !m.IsEmpty() {
		t.Fatal("new mesh should be empty")
	}
	p := mgl64.Vec3{1, 2, 3}
	v := m.AddVertex(p)
	if !v.IsValid() {
		t.Fatal("AddVertex returned invalid handle")
	}
	if got := m.NumVertices(); got != 1 {
		t.Errorf("NumVertices() = %d, want 1", got)
	}
	if got := m.Position(v); got != p {
		t.Errorf("Position(%v) = %v, want %v", v, got, p)
	}
	if !m.IsIsolated(v) {
		t.Error("fresh vertex should be isolated")
	}
	if !m.IsBoundaryVertex(v) {
		t.Error("isolated vertex should count as boundary")
	}
}

func TestHandleValidity(t *testing.T) {
	if InvalidVertex.IsValid() || InvalidHalfedge.IsValid() || InvalidEdge.IsValid() || InvalidFace.IsValid() {
		t.Error("invalid sentinels must not be valid")
	}
	if !Vertex(0).IsValid() {
		t.Error("handle 0 must be valid")
	}
	if got, want := Vertex(7).String(), "v7"; got != want {
		t.Errorf("Vertex.String() = %q, want %q", got, want)
	}
}

// --- Single face topology ---

func TestSingleTriangle(t *testing.T) {
	m := New()
	q := quadVertices(m)
	f := m.AddTriangle(q[0], q[1], q[2])
	if !f.IsValid() {
		t.Fatal("AddTriangle failed")
	}

	if got := m.NumVertices(); got != 4 {
		t.Errorf("NumVertices() = %d, want 4", got)
	}
	if got := m.NumEdges(); got != 3 {
		t.Errorf("NumEdges() = %d, want 3", got)
	}
	if got := m.NumFaces(); got != 1 {
		t.Errorf("NumFaces() = %d, want 1", got)
	}

	h := m.FindHalfedge(q[0], q[1])
	if !h.IsValid() {
		t.Fatal("FindHalfedge(v0, v1) not found")
	}
	if got := m.ToVertex(h); got != q[1] {
		t.Errorf("ToVertex = %v, want %v", got, q[1])
	}
	if got := m.FromVertex(h); got != q[0] {
		t.Errorf("FromVertex = %v, want %v", got, q[0])
	}
	if got := m.ToVertex(m.Opposite(h)); got != q[0] {
		t.Errorf("ToVertex(Opposite) = %v, want %v", got, q[0])
	}

	// inner ring closes in three steps
	if got := m.Next(m.Next(m.Next(h))); got != h {
		t.Errorf("Next^3 = %v, want %v", got, h)
	}
	if got := m.Prev(m.Next(h)); got != h {
		t.Errorf("Prev(Next(h)) = %v, want %v", got, h)
	}

	if m.IsBoundary(h) {
		t.Error("face halfedge should not be boundary")
	}
	if !m.IsBoundary(m.Opposite(h)) {
		t.Error("outer halfedge should be boundary")
	}
	for _, v := range []Vertex{q[0], q[1], q[2]} {
		if !m.IsBoundaryVertex(v) {
			t.Errorf("%v should be a boundary vertex", v)
		}
		if m.IsIsolated(v) {
			t.Errorf("%v should not be isolated", v)
		}
		if got := m.Valence(v); got != 2 {
			t.Errorf("Valence(%v) = %d, want 2", v, got)
		}
	}
	if !m.IsIsolated(q[3]) {
		t.Error("unused vertex should stay isolated")
	}

	got := m.FaceVertices(f)
	if len(got) != 3 {
		t.Fatalf("FaceVertices len = %d, want 3", len(got))
	}
}

func TestQuadFace(t *testing.T) {
	m := New()
	q := quadVertices(m)
	f := m.AddFace(q[:])
	if !f.IsValid() {
		t.Fatal("AddFace failed")
	}
	if got := m.NumEdges(); got != 4 {
		t.Errorf("NumEdges() = %d, want 4", got)
	}
	if got := m.FaceValence(f); got != 4 {
		t.Errorf("FaceValence() = %d, want 4", got)
	}
	loops := m.BoundaryLoops()
	if len(loops) != 1 {
		t.Fatalf("BoundaryLoops() = %d loops, want 1", len(loops))
	}
	if len(loops[0]) != 4 {
		t.Errorf("boundary loop length = %d, want 4", len(loops[0]))
	}
}

func TestAddFaceTooFewVertices(t *testing.T) {
	m := New()
	q := quadVertices(m)
	for _, vs := range [][]Vertex{nil, {q[0]}, {q[0], q[1]}} {
		if f := m.AddFace(vs); f.IsValid() {
			t.Errorf("AddFace(%v) = %v, want invalid", vs, f)
		}
	}
	if got := m.NumFaces(); got != 0 {
		t.Errorf("NumFaces() = %d, want 0", got)
	}
}

// --- Shared edges and manifold violations ---

func TestTwoTrianglesSharedEdge(t *testing.T) {
	m := New()
	q := quadVertices(m)
	f0 := m.AddTriangle(q[0], q[1], q[2])
	f1 := m.AddTriangle(q[0], q[2], q[3])
	if !f0.IsValid() || !f1.IsValid() {
		t.Fatal("two triangles sharing an edge must both insert")
	}
	if got := m.NumEdges(); got != 5 {
		t.Errorf("NumEdges() = %d, want 5", got)
	}

	shared := m.FindEdge(q[0], q[2])
	if !shared.IsValid() {
		t.Fatal("shared edge not found")
	}
	if m.IsBoundaryEdge(shared) {
		t.Error("shared edge should be interior")
	}
	for _, pair := range [][2]Vertex{{q[0], q[1]}, {q[1], q[2]}, {q[2], q[3]}, {q[3], q[0]}} {
		e := m.FindEdge(pair[0], pair[1])
		if !m.IsBoundaryEdge(e) {
			t.Errorf("edge %v-%v should be boundary", pair[0], pair[1])
		}
	}

	loops := m.BoundaryLoops()
	if len(loops) != 1 || len(loops[0]) != 4 {
		t.Errorf("boundary = %d loops, want 1 loop of 4", len(loops))
	}
}

func TestComplexEdgeRejected(t *testing.T) {
	m := New()
	q := quadVertices(m)
	if f := m.AddTriangle(q[0], q[1], q[2]); !f.IsValid() {
		t.Fatal("first insert failed")
	}
	// same directed edges again: every edge already carries a face on
	// this side
	if f := m.AddTriangle(q[0], q[1], q[2]); f.IsValid() {
		t.Error("duplicate face should be rejected")
	}
	if got := m.NumFaces(); got != 1 {
		t.Errorf("NumFaces() = %d, want 1", got)
	}
	if got := m.NumEdges(); got != 3 {
		t.Errorf("NumEdges() = %d, want 3", got)
	}
}

func TestComplexVertexRejected(t *testing.T) {
	m := New()
	v := tetrahedron(m)
	if got := m.NumFaces(); got != 4 {
		t.Fatalf("tetrahedron has %d faces, want 4", got)
	}
	// every vertex is interior now; any further face is a complex vertex
	if f := m.AddTriangle(v[0], v[1], v[2]); f.IsValid() {
		t.Error("face at interior vertex should be rejected")
	}
	if got := m.NumFaces(); got != 4 {
		t.Errorf("NumFaces() = %d, want 4", got)
	}
}

func TestTetrahedronTopology(t *testing.T) {
	m := New()
	v := tetrahedron(m)
	if got := m.NumVertices(); got != 4 {
		t.Errorf("NumVertices() = %d, want 4", got)
	}
	if got := m.NumEdges(); got != 6 {
		t.Errorf("NumEdges() = %d, want 6", got)
	}
	if !m.IsClosed() {
		t.Error("tetrahedron should be closed")
	}
	for _, vi := range v {
		if m.IsBoundaryVertex(vi) {
			t.Errorf("%v should be interior", vi)
		}
		if !m.IsManifoldVertex(vi) {
			t.Errorf("%v should be manifold", vi)
		}
		if got := m.Valence(vi); got != 3 {
			t.Errorf("Valence(%v) = %d, want 3", vi, got)
		}
		if got := len(m.VertexNeighbors(vi)); got != 3 {
			t.Errorf("VertexNeighbors(%v) = %d, want 3", vi, got)
		}
	}
	s := m.Stats()
	if s.Euler != 2 {
		t.Errorf("euler characteristic = %d, want 2", s.Euler)
	}
	if s.BoundaryLoops != 0 || s.BoundaryEdges != 0 {
		t.Errorf("closed mesh reported boundary: %+v", s)
	}
	if s.Components != 1 {
		t.Errorf("Components = %d, want 1", s.Components)
	}
}

// --- Patch re-linking around multi-wedge vertices ---

// hubWithWedges builds a hub vertex with three triangle wedges that share
// only the hub, leaving gaps between them.
func hubWithWedges(m *Mesh) (hub Vertex, rim [6]Vertex) {
	hub = m.AddVertex(mgl64.Vec3{0, 0, 0})
	for i := range rim {
		rim[i] = m.AddVertex(mgl64.Vec3{float64(i + 1), 0, 0})
	}
	m.AddTriangle(hub, rim[0], rim[1])
	m.AddTriangle(hub, rim[2], rim[3])
	m.AddTriangle(hub, rim[4], rim[5])
	return hub, rim
}

func TestPatchRelink(t *testing.T) {
	m := New()
	hub, rim := hubWithWedges(m)

	// bridges two wedges across the hub; the boundary patch between the
	// old edges has to move into another gap
	f := m.AddTriangle(rim[0], hub, rim[5])
	if !f.IsValid() {
		t.Fatal("bridging face should insert")
	}
	if got := m.NumFaces(); got != 4 {
		t.Errorf("NumFaces() = %d, want 4", got)
	}
	if got := m.NumEdges(); got != 10 {
		t.Errorf("NumEdges() = %d, want 10", got)
	}
	// two wedge fans remain around the hub
	if m.IsManifoldVertex(hub) {
		t.Error("hub should be non-manifold with two separate fans")
	}
	if got := m.Stats().BoundaryEdges; got != 8 {
		t.Errorf("BoundaryEdges = %d, want 8", got)
	}
}

func TestPatchRelinkFails(t *testing.T) {
	m := New()
	hub := m.AddVertex(mgl64.Vec3{0, 0, 0})
	var rim [4]Vertex
	for i := range rim {
		rim[i] = m.AddVertex(mgl64.Vec3{float64(i + 1), 0, 0})
	}
	m.AddTriangle(hub, rim[0], rim[1])
	m.AddTriangle(hub, rim[2], rim[3])

	// closing the first wedge from behind needs a free gap at the hub,
	// but the second wedge occupies the only one
	if f := m.AddTriangle(rim[0], hub, rim[1]); f.IsValid() {
		t.Error("unlinkable face should be rejected")
	}
	if got := m.NumFaces(); got != 2 {
		t.Errorf("NumFaces() = %d, want 2", got)
	}
	if got := m.NumEdges(); got != 6 {
		t.Errorf("NumEdges() = %d, want 6", got)
	}
}

func TestTwoTrianglePillow(t *testing.T) {
	m := New()
	a := m.AddVertex(mgl64.Vec3{0, 0, 0})
	b := m.AddVertex(mgl64.Vec3{1, 0, 0})
	c := m.AddVertex(mgl64.Vec3{0, 1, 0})
	if f := m.AddTriangle(a, b, c); !f.IsValid() {
		t.Fatal("front face failed")
	}
	if f := m.AddTriangle(b, a, c); !f.IsValid() {
		t.Fatal("back face failed")
	}
	if !m.IsClosed() {
		t.Error("pillow should be closed")
	}
	if got := m.NumEdges(); got != 3 {
		t.Errorf("NumEdges() = %d, want 3", got)
	}
	if got := m.Stats().Euler; got != 2 {
		t.Errorf("euler characteristic = %d, want 2", got)
	}
}

// --- Aggregates ---

func TestStatsIsolatedAndComponents(t *testing.T) {
	m := New()
	for i := 0; i < 3; i++ {
		m.AddVertex(mgl64.Vec3{float64(i), 0, 0})
	}
	s := m.Stats()
	if s.IsolatedVertices != 3 {
		t.Errorf("IsolatedVertices = %d, want 3", s.IsolatedVertices)
	}
	if s.Components != 3 {
		t.Errorf("Components = %d, want 3", s.Components)
	}
}

func TestBounds(t *testing.T) {
	m := New()
	m.AddVertex(mgl64.Vec3{-1, 2, 0})
	m.AddVertex(mgl64.Vec3{3, -4, 5})
	min, max := m.Bounds()
	if min != (mgl64.Vec3{-1, -4, 0}) {
		t.Errorf("Bounds min = %v", min)
	}
	if max != (mgl64.Vec3{3, 2, 5}) {
		t.Errorf("Bounds max = %v", max)
	}
}

func TestClear(t *testing.T) {
	m := New()
	q := quadVertices(m)
	m.AddFace(q[:])
	m.Clear()
	if !m.IsEmpty() || m.NumEdges() != 0 || m.NumFaces() != 0 {
		t.Error("Clear() left elements behind")
	}
}
