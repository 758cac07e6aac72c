package surface

import "fmt"

// Stats summarizes element counts and topological features of a mesh.
type Stats struct {
	Vertices            int `json:"vertices"`
	Edges               int `json:"edges"`
	Faces               int `json:"faces"`
	IsolatedVertices    int `json:"isolatedVertices"`
	NonManifoldVertices int `json:"nonManifoldVertices"`
	BoundaryEdges       int `json:"boundaryEdges"`
	BoundaryLoops       int `json:"boundaryLoops"`
	Components          int `json:"components"`
	Euler               int `json:"euler"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d vertices, %d edges, %d faces, %d boundary loops, %d components, euler %d",
		s.Vertices, s.Edges, s.Faces, s.BoundaryLoops, s.Components, s.Euler)
}

// IsClosed reports whether the mesh has no boundary edges.
func (m *Mesh) IsClosed() bool {
	for i := range m.edeleted {
		if m.edeleted[i] {
			continue
		}
		if m.IsBoundaryEdge(Edge(i)) {
			return false
		}
	}
	return true
}

// BoundaryLoops returns the closed boundary cycles of the mesh, each as a
// list of boundary halfedges in cycle order.
func (m *Mesh) BoundaryLoops() [][]Halfedge {
	visited := make([]bool, len(m.hconn))
	var loops [][]Halfedge
	for i := range m.hconn {
		h := Halfedge(i)
		if visited[i] || m.edeleted[i>>1] || !m.IsBoundary(h) {
			continue
		}
		var loop []Halfedge
		hh := h
		for {
			visited[h] = true
			loop = append(loop, h)
			h = m.Next(h)
			if h == hh {
				break
			}
		}
		loops = append(loops, loop)
	}
	return loops
}

// Stats walks the mesh once and returns its summary.
func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices: m.NumVertices(),
		Edges:    m.NumEdges(),
		Faces:    m.NumFaces(),
	}
	s.Euler = s.Vertices - s.Edges + s.Faces

	for i := range m.vconn {
		if m.vdeleted[i] {
			continue
		}
		v := Vertex(i)
		if m.IsIsolated(v) {
			s.IsolatedVertices++
		}
		if !m.IsManifoldVertex(v) {
			s.NonManifoldVertices++
		}
	}
	for i := range m.edeleted {
		if !m.edeleted[i] && m.IsBoundaryEdge(Edge(i)) {
			s.BoundaryEdges++
		}
	}
	s.BoundaryLoops = len(m.BoundaryLoops())

	// connected components of the edge graph; isolated vertices count
	// as their own component
	seen := make([]bool, len(m.vconn))
	var stack []Vertex
	for i := range m.vconn {
		if m.vdeleted[i] || seen[i] {
			continue
		}
		s.Components++
		seen[i] = true
		stack = append(stack[:0], Vertex(i))
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range m.VertexNeighbors(v) {
				if !seen[w] {
					seen[w] = true
					stack = append(stack, w)
				}
			}
		}
	}
	return s
}
