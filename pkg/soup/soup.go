// Package soup holds raw, unvalidated polygon geometry: positions plus
// faces given as index lists. A Soup is the interchange currency between
// file readers, procedural generators and the manifold builder; it makes
// no topological promises at all.
package soup

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/manifold"
	"github.com/ligneus/tannin/pkg/surface"
)

// Soup is a bag of positions and faces. Faces index into Positions; the
// same position may appear many times and faces may be degenerate or
// non-manifold.
type Soup struct {
	Name      string
	Positions []mgl64.Vec3
	Faces     [][]int
}

// AddPosition appends a position and returns its index.
func (s *Soup) AddPosition(p mgl64.Vec3) int {
	s.Positions = append(s.Positions, p)
	return len(s.Positions) - 1
}

// AddFace appends one face given as vertex indices.
func (s *Soup) AddFace(indices ...int) {
	s.Faces = append(s.Faces, indices)
}

// AddTriangle appends a triangle built from three fresh positions, the
// unindexed form produced by STL files and tessellators.
func (s *Soup) AddTriangle(a, b, c mgl64.Vec3) {
	i := s.AddPosition(a)
	j := s.AddPosition(b)
	k := s.AddPosition(c)
	s.AddFace(i, j, k)
}

// VertexCount returns the number of positions.
func (s *Soup) VertexCount() int { return len(s.Positions) }

// FaceCount returns the number of faces.
func (s *Soup) FaceCount() int { return len(s.Faces) }

// IsEmpty reports whether the soup has neither positions nor faces.
func (s *Soup) IsEmpty() bool { return len(s.Positions) == 0 && len(s.Faces) == 0 }

// Weld returns a new soup with coincident positions merged and all faces
// reindexed. A tolerance of zero merges only exactly equal positions; a
// positive tolerance snaps positions to a grid of that spacing and merges
// per grid cell. The first occurrence of each position wins. Faces are
// carried over as-is, so welding can surface degenerate faces (repeated
// indices) that the manifold builder will then reject and count.
func (s *Soup) Weld(tolerance float64) *Soup {
	out := &Soup{
		Name:      s.Name,
		Positions: make([]mgl64.Vec3, 0, len(s.Positions)),
		Faces:     make([][]int, 0, len(s.Faces)),
	}
	remap := make([]int, len(s.Positions))

	if tolerance <= 0 {
		seen := make(map[mgl64.Vec3]int, len(s.Positions))
		for i, p := range s.Positions {
			j, ok := seen[p]
			if !ok {
				j = len(out.Positions)
				out.Positions = append(out.Positions, p)
				seen[p] = j
			}
			remap[i] = j
		}
	} else {
		inv := 1 / tolerance
		seen := make(map[[3]int64]int, len(s.Positions))
		for i, p := range s.Positions {
			cell := [3]int64{
				int64(math.Round(p[0] * inv)),
				int64(math.Round(p[1] * inv)),
				int64(math.Round(p[2] * inv)),
			}
			j, ok := seen[cell]
			if !ok {
				j = len(out.Positions)
				out.Positions = append(out.Positions, p)
				seen[cell] = j
			}
			remap[i] = j
		}
	}

	for _, f := range s.Faces {
		nf := make([]int, len(f))
		for k, idx := range f {
			nf[k] = remap[idx]
		}
		out.Faces = append(out.Faces, nf)
	}
	return out
}

// FromMesh flattens a half-edge mesh back into an indexed soup.
// Handles are renumbered to a contiguous range, so the soup is valid
// even when the mesh carries garbage.
func FromMesh(m *surface.Mesh) *Soup {
	s := &Soup{
		Positions: make([]mgl64.Vec3, 0, m.NumVertices()),
		Faces:     make([][]int, 0, m.NumFaces()),
	}
	index := make(map[surface.Vertex]int, m.NumVertices())
	for _, v := range m.Vertices() {
		index[v] = s.AddPosition(m.Position(v))
	}
	for _, f := range m.Faces() {
		vs := m.FaceVertices(f)
		face := make([]int, len(vs))
		for i, v := range vs {
			face[i] = index[v]
		}
		s.AddFace(face...)
	}
	return s
}

// Append copies another soup's positions and faces onto s, offsetting
// the appended face indices past the existing positions.
func (s *Soup) Append(o *Soup) {
	base := len(s.Positions)
	s.Positions = append(s.Positions, o.Positions...)
	for _, f := range o.Faces {
		nf := make([]int, len(f))
		for i, idx := range f {
			nf[i] = idx + base
		}
		s.Faces = append(s.Faces, nf)
	}
}

// PruneDegenerate removes faces that reference fewer than three
// distinct vertices. Welding zero-area polygonization artifacts
// produces such faces; pruning them keeps the builder report clean.
// It reports how many faces were removed.
func (s *Soup) PruneDegenerate() int {
	kept := s.Faces[:0]
	for _, f := range s.Faces {
		if len(f) >= 3 && distinctIndices(f) {
			kept = append(kept, f)
		}
	}
	removed := len(s.Faces) - len(kept)
	s.Faces = kept
	return removed
}

func distinctIndices(f []int) bool {
	for i, v := range f {
		for _, w := range f[:i] {
			if v == w {
				return false
			}
		}
	}
	return true
}

// Build assembles the soup into a half-edge mesh through a manifold
// builder session and returns the mesh together with the session report.
// Face indices must be within range; out-of-range indices are a caller
// bug, not an input defect the builder repairs.
func (s *Soup) Build() (*surface.Mesh, manifold.Report) {
	m := surface.New()
	b := manifold.NewBuilder(m)
	b.Begin()
	for _, p := range s.Positions {
		b.AddVertex(p)
	}
	for _, f := range s.Faces {
		b.AddFace(f)
	}
	return m, b.Finish()
}
