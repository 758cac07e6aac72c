package surface

// DeleteFace marks f deleted and unlinks it from the halfedge structure.
// Edges left without any face and vertices left isolated are deleted with
// it. Storage is reclaimed by CollectGarbage.
func (m *Mesh) DeleteFace(f Face) {
	if m.fdeleted[f] {
		return
	}
	m.fdeleted[f] = true
	m.deletedFaces++

	// edges of f whose other side is already boundary die with the face
	var deadEdges []Edge
	var verts []Vertex

	hc := m.fconn[f].halfedge
	hend := hc
	for {
		m.setFace(hc, InvalidFace)
		if m.IsBoundary(m.Opposite(hc)) {
			deadEdges = append(deadEdges, m.EdgeOf(hc))
		}
		verts = append(verts, m.ToVertex(hc))
		hc = m.Next(hc)
		if hc == hend {
			break
		}
	}

	for _, e := range deadEdges {
		h0 := m.EdgeHalfedge(e, 0)
		v0 := m.ToVertex(h0)
		next0 := m.Next(h0)
		prev0 := m.Prev(h0)

		h1 := m.EdgeHalfedge(e, 1)
		v1 := m.ToVertex(h1)
		next1 := m.Next(h1)
		prev1 := m.Prev(h1)

		// route the boundary cycles around the dead edge
		m.setNext(prev0, next1)
		m.setNext(prev1, next0)

		if !m.edeleted[e] {
			m.edeleted[e] = true
			m.deletedEdges++
		}

		if m.Halfedge(v0) == h1 {
			if next0 == h1 {
				if !m.vdeleted[v0] {
					m.vdeleted[v0] = true
					m.deletedVertices++
				}
			} else {
				m.setHalfedge(v0, next0)
			}
		}
		if m.Halfedge(v1) == h0 {
			if next1 == h0 {
				if !m.vdeleted[v1] {
					m.vdeleted[v1] = true
					m.deletedVertices++
				}
			} else {
				m.setHalfedge(v1, next1)
			}
		}
	}

	for _, v := range verts {
		m.adjustOutgoingHalfedge(v)
	}
	m.hasGarbage = true
}

// DeleteVertex marks v deleted along with all faces incident to it.
func (m *Mesh) DeleteVertex(v Vertex) {
	if m.vdeleted[v] {
		return
	}

	var incident []Face
	for _, h := range m.OutgoingHalfedges(v) {
		if f := m.Face(h); f.IsValid() {
			incident = append(incident, f)
		}
	}
	for _, f := range incident {
		m.DeleteFace(f)
	}

	if !m.vdeleted[v] {
		m.vdeleted[v] = true
		m.deletedVertices++
		m.hasGarbage = true
	}
}

// CollectGarbage compacts the storage arrays, dropping elements marked
// deleted and remapping all connectivity. Handles held by callers are
// invalidated; positions and topology of live elements are preserved.
func (m *Mesh) CollectGarbage() {
	if !m.hasGarbage {
		return
	}

	nV := len(m.vconn)
	nE := len(m.edeleted)
	nH := 2 * nE
	nF := len(m.fconn)

	// Handle maps are swapped along with the elements. Each element takes
	// part in at most one swap, so the finished maps are their own inverse
	// and translate old handles to new positions directly.
	vmap := make([]Vertex, nV)
	hmap := make([]Halfedge, nH)
	fmap := make([]Face, nF)
	for i := range vmap {
		vmap[i] = Vertex(i)
	}
	for i := range hmap {
		hmap[i] = Halfedge(i)
	}
	for i := range fmap {
		fmap[i] = Face(i)
	}

	if nV > 0 {
		i0, i1 := 0, nV-1
		for {
			for i0 < i1 && !m.vdeleted[i0] {
				i0++
			}
			for i0 < i1 && m.vdeleted[i1] {
				i1--
			}
			if i0 >= i1 {
				break
			}
			m.points[i0], m.points[i1] = m.points[i1], m.points[i0]
			m.vconn[i0], m.vconn[i1] = m.vconn[i1], m.vconn[i0]
			m.vdeleted[i0], m.vdeleted[i1] = m.vdeleted[i1], m.vdeleted[i0]
			vmap[i0], vmap[i1] = vmap[i1], vmap[i0]
		}
		if m.vdeleted[i0] {
			nV = i0
		} else {
			nV = i0 + 1
		}
	}

	if nE > 0 {
		i0, i1 := 0, nE-1
		for {
			for i0 < i1 && !m.edeleted[i0] {
				i0++
			}
			for i0 < i1 && m.edeleted[i1] {
				i1--
			}
			if i0 >= i1 {
				break
			}
			// an edge carries its halfedge pair with it
			m.edeleted[i0], m.edeleted[i1] = m.edeleted[i1], m.edeleted[i0]
			m.hconn[2*i0], m.hconn[2*i1] = m.hconn[2*i1], m.hconn[2*i0]
			m.hconn[2*i0+1], m.hconn[2*i1+1] = m.hconn[2*i1+1], m.hconn[2*i0+1]
			hmap[2*i0], hmap[2*i1] = hmap[2*i1], hmap[2*i0]
			hmap[2*i0+1], hmap[2*i1+1] = hmap[2*i1+1], hmap[2*i0+1]
		}
		if m.edeleted[i0] {
			nE = i0
		} else {
			nE = i0 + 1
		}
		nH = 2 * nE
	}

	if nF > 0 {
		i0, i1 := 0, nF-1
		for {
			for i0 < i1 && !m.fdeleted[i0] {
				i0++
			}
			for i0 < i1 && m.fdeleted[i1] {
				i1--
			}
			if i0 >= i1 {
				break
			}
			m.fconn[i0], m.fconn[i1] = m.fconn[i1], m.fconn[i0]
			m.fdeleted[i0], m.fdeleted[i1] = m.fdeleted[i1], m.fdeleted[i0]
			fmap[i0], fmap[i1] = fmap[i1], fmap[i0]
		}
		if m.fdeleted[i0] {
			nF = i0
		} else {
			nF = i0 + 1
		}
	}

	for i := 0; i < nV; i++ {
		v := Vertex(i)
		if !m.IsIsolated(v) {
			m.setHalfedge(v, hmap[m.Halfedge(v)])
		}
	}
	for i := 0; i < nH; i++ {
		h := Halfedge(i)
		m.setVertex(h, vmap[m.ToVertex(h)])
		m.setNext(h, hmap[m.Next(h)])
		if !m.IsBoundary(h) {
			m.setFace(h, fmap[m.Face(h)])
		}
	}
	for i := 0; i < nF; i++ {
		f := Face(i)
		m.fconn[f].halfedge = hmap[m.fconn[f].halfedge]
	}

	m.points = m.points[:nV]
	m.vconn = m.vconn[:nV]
	m.vdeleted = m.vdeleted[:nV]
	m.hconn = m.hconn[:nH]
	m.edeleted = m.edeleted[:nE]
	m.fconn = m.fconn[:nF]
	m.fdeleted = m.fdeleted[:nF]

	m.deletedVertices = 0
	m.deletedEdges = 0
	m.deletedFaces = 0
	m.hasGarbage = false
}
