package surface

// AddTriangle inserts a triangle face. Shorthand for AddFace.
func (m *Mesh) AddTriangle(v0, v1, v2 Vertex) Face {
	vs := [3]Vertex{v0, v1, v2}
	return m.AddFace(vs[:])
}

// AddFace inserts a polygonal face connecting the given vertices in order
// and returns its handle. The vertices must already exist in the mesh and
// be pairwise distinct.
//
// The insertion is rejected, returning an invalid face and leaving the
// mesh topology untouched, when it would break manifoldness: a vertex
// that is no longer on the boundary (complex vertex), a directed edge
// already carrying a face (complex edge), or two adjacent old edges whose
// boundary patches cannot be re-linked around the shared vertex. Fewer
// than three vertices are also rejected.
func (m *Mesh) AddFace(vertices []Vertex) Face {
	n := len(vertices)
	if n < 3 {
		return InvalidFace
	}

	// scratch buffers persist across calls to avoid churn
	if cap(m.faceHalfedges) < n {
		m.faceHalfedges = make([]Halfedge, n)
		m.faceIsNew = make([]bool, n)
		m.faceNeedsAdjust = make([]bool, n)
	}
	halfedges := m.faceHalfedges[:n]
	isNew := m.faceIsNew[:n]
	needsAdjust := m.faceNeedsAdjust[:n]
	for i := range needsAdjust {
		needsAdjust[i] = false
	}
	nextCache := m.faceNextCache[:0]

	// test for topological errors
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		if !m.IsBoundaryVertex(vertices[i]) {
			return InvalidFace // complex vertex
		}
		halfedges[i] = m.FindHalfedge(vertices[i], vertices[ii])
		isNew[i] = !halfedges[i].IsValid()
		if !isNew[i] && !m.IsBoundary(halfedges[i]) {
			return InvalidFace // complex edge
		}
	}

	// re-link patches if necessary
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		if isNew[i] || isNew[ii] {
			continue
		}
		innerPrev := halfedges[i]
		innerNext := halfedges[ii]
		if m.Next(innerPrev) == innerNext {
			continue
		}

		// The two old edges meet at vertices[ii] but are not linked;
		// the boundary patch between them must move into a free gap
		// elsewhere around the vertex.
		outerPrev := m.Opposite(innerNext)
		boundaryPrev := outerPrev
		for {
			boundaryPrev = m.Opposite(m.Next(boundaryPrev))
			if m.IsBoundary(boundaryPrev) && boundaryPrev != innerPrev {
				break
			}
		}
		boundaryNext := m.Next(boundaryPrev)
		if boundaryNext == innerNext {
			return InvalidFace // patch re-linking failed
		}

		patchStart := m.Next(innerPrev)
		patchEnd := m.Prev(innerNext)

		m.setNext(boundaryPrev, patchStart)
		m.setNext(patchEnd, boundaryNext)
		m.setNext(innerPrev, innerNext)
	}

	// create missing edges
	for i := 0; i < n; i++ {
		if isNew[i] {
			halfedges[i] = m.newEdge(vertices[i], vertices[(i+1)%n])
		}
	}

	// create the face
	f := Face(len(m.fconn))
	m.fconn = append(m.fconn, faceConn{halfedge: halfedges[n-1]})
	m.fdeleted = append(m.fdeleted, false)

	// set up inner and outer links
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		v := vertices[ii]
		innerPrev := halfedges[i]
		innerNext := halfedges[ii]

		id := 0
		if isNew[i] {
			id |= 1
		}
		if isNew[ii] {
			id |= 2
		}

		if id != 0 {
			outerPrev := m.Opposite(innerNext)
			outerNext := m.Opposite(innerPrev)

			switch id {
			case 1: // prev is new, next is old
				boundaryPrev := m.Prev(innerNext)
				nextCache = append(nextCache, [2]Halfedge{boundaryPrev, outerNext})
				m.setHalfedge(v, outerNext)

			case 2: // next is new, prev is old
				boundaryNext := m.Next(innerPrev)
				nextCache = append(nextCache, [2]Halfedge{outerPrev, boundaryNext})
				m.setHalfedge(v, boundaryNext)

			case 3: // both are new
				if !m.Halfedge(v).IsValid() {
					m.setHalfedge(v, outerNext)
					nextCache = append(nextCache, [2]Halfedge{outerPrev, outerNext})
				} else {
					boundaryNext := m.Halfedge(v)
					boundaryPrev := m.Prev(boundaryNext)
					nextCache = append(nextCache, [2]Halfedge{boundaryPrev, outerNext})
					nextCache = append(nextCache, [2]Halfedge{outerPrev, boundaryNext})
				}
			}

			nextCache = append(nextCache, [2]Halfedge{innerPrev, innerNext})
		} else {
			needsAdjust[ii] = m.Halfedge(v) == innerNext
		}

		m.setFace(halfedges[i], f)
	}

	// deferred link fixes; applying them during the loop would confuse
	// the boundary searches above
	for _, nc := range nextCache {
		m.setNext(nc[0], nc[1])
	}
	m.faceNextCache = nextCache[:0]

	for i := 0; i < n; i++ {
		if needsAdjust[i] {
			m.adjustOutgoingHalfedge(vertices[i])
		}
	}

	return f
}
