package surface

import "github.com/go-gl/mathgl/mgl64"

// FaceNormal returns the unit normal of f, accumulated over the whole
// polygon ring so slightly non-planar faces still get a stable result.
// Degenerate faces yield the zero vector.
func (m *Mesh) FaceNormal(f Face) mgl64.Vec3 {
	var n mgl64.Vec3
	h := m.fconn[f].halfedge
	hh := h
	for {
		p := m.points[m.FromVertex(h)]
		q := m.points[m.ToVertex(h)]
		n[0] += (p[1] - q[1]) * (p[2] + q[2])
		n[1] += (p[2] - q[2]) * (p[0] + q[0])
		n[2] += (p[0] - q[0]) * (p[1] + q[1])
		h = m.hconn[h].next
		if h == hh {
			break
		}
	}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}

// VertexNormal returns the unit normal of v averaged over its incident
// faces. Isolated vertices yield the zero vector.
func (m *Mesh) VertexNormal(v Vertex) mgl64.Vec3 {
	var n mgl64.Vec3
	for _, h := range m.OutgoingHalfedges(v) {
		if f := m.Face(h); f.IsValid() {
			n = n.Add(m.FaceNormal(f))
		}
	}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}
