package manifold

import (
	"fmt"
	"strings"
)

// Report holds the defect counts of one building session. Faces rejected
// outright are counted under the two rejection categories; non-manifold
// edges are counted when detected and resolved by vertex duplication;
// non-manifold vertices are counted once at Finish and are left in the
// mesh; isolated vertices are counted as Finish removes them.
type Report struct {
	IsolatedVertices        int `json:"isolatedVertices"`
	FacesTooFewVertices     int `json:"facesTooFewVertices"`
	FacesDuplicatedVertices int `json:"facesDuplicatedVertices"`
	NonManifoldEdges        int `json:"nonManifoldEdges"`
	NonManifoldVertices     int `json:"nonManifoldVertices"`
}

// HasIssues reports whether any counter is non-zero.
func (r Report) HasIssues() bool {
	return r.IsolatedVertices > 0 ||
		r.FacesTooFewVertices > 0 ||
		r.FacesDuplicatedVertices > 0 ||
		r.NonManifoldEdges > 0 ||
		r.NonManifoldVertices > 0
}

// String renders the report as a multi-line summary listing only the
// non-zero counters.
func (r Report) String() string {
	if !r.HasIssues() {
		return "mesh has no topological issues"
	}
	var sb strings.Builder
	sb.WriteString("mesh has topological issues:")
	if r.IsolatedVertices > 0 {
		fmt.Fprintf(&sb, "\n\t%d isolated vertices (removed)", r.IsolatedVertices)
	}
	if r.FacesTooFewVertices > 0 {
		fmt.Fprintf(&sb, "\n\t%d faces with less than 3 vertices (ignored)", r.FacesTooFewVertices)
	}
	if r.FacesDuplicatedVertices > 0 {
		fmt.Fprintf(&sb, "\n\t%d faces with duplicated vertices (ignored)", r.FacesDuplicatedVertices)
	}
	if r.NonManifoldEdges > 0 {
		fmt.Fprintf(&sb, "\n\t%d non-manifold edges (fixed)", r.NonManifoldEdges)
	}
	if r.NonManifoldVertices > 0 {
		fmt.Fprintf(&sb, "\n\t%d non-manifold vertices (not fixed)", r.NonManifoldVertices)
	}
	return sb.String()
}
