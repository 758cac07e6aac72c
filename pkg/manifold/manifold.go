// Package manifold assembles raw polygon soup into valid half-edge
// surface meshes. Soup faces may reference an edge more than twice, touch
// separate surface sheets at a single vertex, or be outright degenerate;
// a half-edge structure cannot represent those configurations. The
// Builder accepts such input anyway: it checks every edge of an incoming
// face before insertion and, where an edge would break manifoldness,
// rewrites the face to use duplicated vertices at the same positions. A
// record of every duplication is kept so consumers can relate copies back
// to their originals.
//
// A session runs Begin, any number of AddVertex and AddFace calls, then
// Finish, which removes isolated vertices, compacts mesh storage and
// returns an aggregate Report of everything repaired, rejected, or left
// unresolved. A Builder serves one session at a time and is not safe for
// concurrent use.
package manifold

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/surface"
)

// Mesh is the half-edge surface a Builder assembles faces into. It is the
// exact capability set the builder consumes; *surface.Mesh satisfies it,
// and any other half-edge structure with the same semantics can be
// substituted.
type Mesh interface {
	// AddVertex appends a vertex at p. Always succeeds.
	AddVertex(p mgl64.Vec3) surface.Vertex
	// AddFace inserts a face over existing vertices, returning an
	// invalid handle if the mesh's own invariant checks reject it.
	AddFace(vertices []surface.Vertex) surface.Face
	// FindHalfedge looks up the directed halfedge from start to end.
	FindHalfedge(start, end surface.Vertex) surface.Halfedge
	// IsBoundary reports whether h has no face bound to it.
	IsBoundary(h surface.Halfedge) bool
	// IsBoundaryVertex reports whether v lies on a boundary; isolated
	// vertices count as boundary.
	IsBoundaryVertex(v surface.Vertex) bool
	// IsManifoldVertex reports whether the star of v is manifold.
	IsManifoldVertex(v surface.Vertex) bool
	// IsIsolated reports whether v has no incident edges.
	IsIsolated(v surface.Vertex) bool
	// Vertices returns the handles of all live vertices.
	Vertices() []surface.Vertex
	// DeleteVertex removes v and all faces incident to it.
	DeleteVertex(v surface.Vertex)
	// CollectGarbage compacts storage, renumbering handles.
	CollectGarbage()
	// Positions exposes the per-vertex position table indexed by handle.
	Positions() []mgl64.Vec3
}

var _ Mesh = (*surface.Mesh)(nil)
