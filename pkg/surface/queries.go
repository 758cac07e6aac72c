package surface

// IsBoundary reports whether h is a boundary halfedge, i.e. has no face
// bound to it.
func (m *Mesh) IsBoundary(h Halfedge) bool {
	return !m.hconn[h].face.IsValid()
}

// IsBoundaryEdge reports whether either halfedge of e is a boundary halfedge.
func (m *Mesh) IsBoundaryEdge(e Edge) bool {
	return m.IsBoundary(m.EdgeHalfedge(e, 0)) || m.IsBoundary(m.EdgeHalfedge(e, 1))
}

// IsBoundaryVertex reports whether v lies on a boundary. Relies on the
// outgoing halfedge of a boundary vertex being a boundary halfedge, so the
// check is O(1). Isolated vertices count as boundary.
func (m *Mesh) IsBoundaryVertex(v Vertex) bool {
	h := m.vconn[v].halfedge
	return !(h.IsValid() && m.hconn[h].face.IsValid())
}

// IsIsolated reports whether v has no incident edges.
func (m *Mesh) IsIsolated(v Vertex) bool {
	return !m.vconn[v].halfedge.IsValid()
}

// IsManifoldVertex reports whether the star of v is manifold: at most one
// outgoing boundary halfedge. Two or more mean the surface patches around
// v touch only at the vertex.
func (m *Mesh) IsManifoldVertex(v Vertex) bool {
	n := 0
	h := m.vconn[v].halfedge
	if h.IsValid() {
		hh := h
		for {
			if m.IsBoundary(h) {
				n++
			}
			h = m.RotatedCW(h)
			if h == hh {
				break
			}
		}
	}
	return n < 2
}

// FindHalfedge returns the halfedge from start to end, invalid if the two
// vertices are not connected by an edge.
func (m *Mesh) FindHalfedge(start, end Vertex) Halfedge {
	h := m.vconn[start].halfedge
	if h.IsValid() {
		hh := h
		for {
			if m.hconn[h].vertex == end {
				return h
			}
			h = m.RotatedCW(h)
			if h == hh {
				break
			}
		}
	}
	return InvalidHalfedge
}

// FindEdge returns the edge between a and b, invalid if none exists.
func (m *Mesh) FindEdge(a, b Vertex) Edge {
	h := m.FindHalfedge(a, b)
	if !h.IsValid() {
		return InvalidEdge
	}
	return m.EdgeOf(h)
}

// OutgoingHalfedges returns the halfedges emanating from v, starting at
// the stored outgoing halfedge and rotating clockwise. Nil for isolated
// vertices.
func (m *Mesh) OutgoingHalfedges(v Vertex) []Halfedge {
	h := m.vconn[v].halfedge
	if !h.IsValid() {
		return nil
	}
	var out []Halfedge
	hh := h
	for {
		out = append(out, h)
		h = m.RotatedCW(h)
		if h == hh {
			break
		}
	}
	return out
}

// VertexNeighbors returns the one-ring neighbor vertices of v in
// clockwise order. Nil for isolated vertices.
func (m *Mesh) VertexNeighbors(v Vertex) []Vertex {
	hs := m.OutgoingHalfedges(v)
	if hs == nil {
		return nil
	}
	out := make([]Vertex, len(hs))
	for i, h := range hs {
		out[i] = m.hconn[h].vertex
	}
	return out
}

// Valence returns the number of edges incident to v.
func (m *Mesh) Valence(v Vertex) int {
	n := 0
	h := m.vconn[v].halfedge
	if h.IsValid() {
		hh := h
		for {
			n++
			h = m.RotatedCW(h)
			if h == hh {
				break
			}
		}
	}
	return n
}

// FaceHalfedges returns the halfedge ring of f in face order.
func (m *Mesh) FaceHalfedges(f Face) []Halfedge {
	h := m.fconn[f].halfedge
	var out []Halfedge
	hh := h
	for {
		out = append(out, h)
		h = m.hconn[h].next
		if h == hh {
			break
		}
	}
	return out
}

// FaceVertices returns the vertices of f in face order.
func (m *Mesh) FaceVertices(f Face) []Vertex {
	hs := m.FaceHalfedges(f)
	out := make([]Vertex, len(hs))
	for i, h := range hs {
		out[i] = m.hconn[h].vertex
	}
	return out
}

// FaceValence returns the number of vertices of f.
func (m *Mesh) FaceValence(f Face) int {
	n := 0
	h := m.fconn[f].halfedge
	hh := h
	for {
		n++
		h = m.hconn[h].next
		if h == hh {
			break
		}
	}
	return n
}

// adjustOutgoingHalfedge rotates the outgoing halfedge of v onto a
// boundary halfedge if the star of v has one. Must be called after
// operations that may turn a vertex's stored outgoing halfedge interior.
func (m *Mesh) adjustOutgoingHalfedge(v Vertex) {
	h := m.vconn[v].halfedge
	if !h.IsValid() {
		return
	}
	hh := h
	for {
		if m.IsBoundary(h) {
			m.setHalfedge(v, h)
			return
		}
		h = m.RotatedCW(h)
		if h == hh {
			return
		}
	}
}
