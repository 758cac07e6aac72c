package manifold

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plan-systems/klog"

	"github.com/ligneus/tannin/pkg/surface"
)

// Builder incrementally assembles faces into a Mesh, resolving
// non-manifold configurations by duplicating vertices. It owns the copy
// relation (original vertex to its duplicates) for the lifetime of one
// session; Begin clears it.
//
// Faces are repaired face-locally and greedily: for each edge of an
// incoming face the builder first tries to reuse an existing duplicate of
// either endpoint, and only mints a new duplicate when no recorded copy
// yields a legal edge. The trial order is part of the contract: it
// decides which vertex gets duplicated and therefore the topology of the
// repaired mesh.
type Builder struct {
	mesh Mesh

	// parallel per-face buffers: the indices as given, and the working
	// list rewritten to duplicates as defects are resolved
	inputVertices []surface.Vertex
	faceVertices  []surface.Vertex

	// original vertex -> its duplicates, ordered by creation
	copies *redblacktree.Tree

	report Report
}

// vertexCompare orders vertex handles for the copy relation tree.
func vertexCompare(a, b interface{}) int {
	va, vb := a.(surface.Vertex), b.(surface.Vertex)
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}

// NewBuilder returns a builder assembling faces into mesh. The returned
// builder is ready for a session; call Begin to start over on the same
// instance.
func NewBuilder(mesh Mesh) *Builder {
	return &Builder{
		mesh:   mesh,
		copies: redblacktree.NewWith(vertexCompare),
	}
}

// Begin starts a construction session: all counters, working buffers and
// the copy relation are reset. The underlying mesh is left untouched;
// callers building a fresh mesh should pass a fresh one to NewBuilder.
func (b *Builder) Begin() {
	b.report = Report{}
	b.inputVertices = b.inputVertices[:0]
	b.faceVertices = b.faceVertices[:0]
	b.copies.Clear()
}

// AddVertex inserts a vertex at position p. Always succeeds.
func (b *Builder) AddVertex(p mgl64.Vec3) surface.Vertex {
	return b.mesh.AddVertex(p)
}

// AddFace validates and inserts one polygonal face given as an ordered
// list of vertex indices. Indices must refer to vertices previously
// returned by AddVertex. Faces with fewer than three indices or with a
// repeated index are rejected, counted, and return an invalid handle
// without touching the mesh. Edges that would break manifoldness are
// rewritten to duplicated vertices before insertion. The returned handle
// can still be invalid if the mesh itself refuses the final face.
func (b *Builder) AddFace(indices []int) surface.Face {
	n := len(indices)
	if n < 3 {
		b.report.FacesTooFewVertices++
		return surface.InvalidFace
	}

	// all-pairs scan; faces are small polygons
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if indices[i] == indices[j] {
				b.report.FacesDuplicatedVertices++
				return surface.InvalidFace
			}
		}
	}

	if cap(b.inputVertices) < n {
		b.inputVertices = make([]surface.Vertex, n)
		b.faceVertices = make([]surface.Vertex, n)
	}
	b.inputVertices = b.inputVertices[:n]
	b.faceVertices = b.faceVertices[:n]
	for i, idx := range indices {
		v := surface.Vertex(idx)
		b.inputVertices[i] = v
		b.faceVertices[i] = v
	}

	for s := 0; s < n; s++ {
		b.findOrDuplicateEdge(s, (s+1)%n)
	}

	return b.mesh.AddFace(b.faceVertices)
}

// Finish ends the session: isolated vertices are deleted and counted,
// mesh storage is compacted, and the remaining non-manifold vertices are
// counted for reporting. The aggregate report is returned and, if any
// counter is non-zero, logged as a single warning. Note that compaction
// renumbers vertex handles when isolated vertices were removed; the copy
// relation keeps the handles from insertion time.
func (b *Builder) Finish() Report {
	for _, v := range b.mesh.Vertices() {
		if b.mesh.IsIsolated(v) {
			b.mesh.DeleteVertex(v)
			b.report.IsolatedVertices++
		}
	}
	b.mesh.CollectGarbage()

	for _, v := range b.mesh.Vertices() {
		if !b.mesh.IsManifoldVertex(v) {
			b.report.NonManifoldVertices++
		}
	}

	if b.report.HasIssues() {
		klog.Warning(b.report.String())
	}
	if klog.V(2) {
		b.logCopies()
	}
	return b.report
}

// logCopies dumps the copy relation, one line per duplicated vertex.
func (b *Builder) logCopies() {
	if b.copies.Size() == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString("vertex copies:")
	it := b.copies.Iterator()
	for it.Next() {
		fmt.Fprintf(&sb, "\n\tvertex %v copied to:", it.Key().(surface.Vertex))
		for _, c := range it.Value().([]surface.Vertex) {
			fmt.Fprintf(&sb, " %v", c)
		}
	}
	klog.Info(sb.String())
}

// CopiedVertices returns the original vertices that have duplicates, in
// ascending handle order.
func (b *Builder) CopiedVertices() []surface.Vertex {
	out := make([]surface.Vertex, 0, b.copies.Size())
	it := b.copies.Iterator()
	for it.Next() {
		out = append(out, it.Key().(surface.Vertex))
	}
	return out
}

// CopiesOf returns the duplicates recorded for original vertex v in
// creation order, nil if v was never duplicated.
func (b *Builder) CopiesOf(v surface.Vertex) []surface.Vertex {
	if val, found := b.copies.Get(v); found {
		return val.([]surface.Vertex)
	}
	return nil
}

// halfedgeLegal reports whether the directed edge s->t can be inserted
// without creating a complex configuration: the halfedge must not already
// carry a face, and neither endpoint may be a closed disk.
func (b *Builder) halfedgeLegal(s, t surface.Vertex) bool {
	h := b.mesh.FindHalfedge(s, t)
	if h.IsValid() && !b.mesh.IsBoundary(h) {
		return false
	}
	if !b.mesh.IsBoundaryVertex(s) || !b.mesh.IsBoundaryVertex(t) {
		return false
	}
	return true
}

// findOrDuplicateEdge ensures edge (s, t) of the pending face, given as
// positions into the working buffers, will be legal to insert. An illegal
// edge is counted once, then substitutes are tried in strict order:
// recorded copies of the source endpoint, copies of the target, all copy
// pairs, then fresh duplicates starting with any closed-disk endpoint.
// The order is deliberate; changing it changes which vertices get
// duplicated and thus the output topology.
func (b *Builder) findOrDuplicateEdge(s, t int) {
	if b.halfedgeLegal(b.faceVertices[s], b.faceVertices[t]) {
		return
	}
	b.report.NonManifoldEdges++

	for _, v := range b.CopiesOf(b.faceVertices[s]) {
		if b.halfedgeLegal(v, b.faceVertices[t]) {
			b.faceVertices[s] = v
			return
		}
	}
	for _, v := range b.CopiesOf(b.faceVertices[t]) {
		if b.halfedgeLegal(b.faceVertices[s], v) {
			b.faceVertices[t] = v
			return
		}
	}
	for _, vs := range b.CopiesOf(b.faceVertices[s]) {
		for _, vt := range b.CopiesOf(b.faceVertices[t]) {
			if b.halfedgeLegal(vs, vt) {
				b.faceVertices[s] = vs
				b.faceVertices[t] = vt
				return
			}
		}
	}

	// no recorded copy works; duplicate, closed-disk endpoints first
	if !b.mesh.IsBoundaryVertex(b.faceVertices[s]) {
		b.faceVertices[s] = b.copyVertex(b.inputVertices[s])
		if b.halfedgeLegal(b.faceVertices[s], b.faceVertices[t]) {
			return
		}
	}
	if !b.mesh.IsBoundaryVertex(b.faceVertices[t]) {
		b.faceVertices[t] = b.copyVertex(b.inputVertices[t])
		if b.halfedgeLegal(b.faceVertices[s], b.faceVertices[t]) {
			return
		}
	}

	// very tangled neighborhood: force fresh duplicates for both
	// endpoints that have not been substituted yet
	if b.faceVertices[s] == b.inputVertices[s] {
		b.faceVertices[s] = b.copyVertex(b.inputVertices[s])
	}
	if b.faceVertices[t] == b.inputVertices[t] {
		b.faceVertices[t] = b.copyVertex(b.inputVertices[t])
	}
}

// copyVertex mints a new vertex at the position of v and records it in
// the copy relation under v.
func (b *Builder) copyVertex(v surface.Vertex) surface.Vertex {
	nv := b.mesh.AddVertex(b.mesh.Positions()[v])
	if val, found := b.copies.Get(v); found {
		b.copies.Put(v, append(val.([]surface.Vertex), nv))
	} else {
		b.copies.Put(v, []surface.Vertex{nv})
	}
	return nv
}
