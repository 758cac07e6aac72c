package engine

import (
	"github.com/ligneus/tannin/pkg/manifold"
	"github.com/ligneus/tannin/pkg/surface"
)

// NamedMesh is one mesh a script defined, together with the repair
// report from its assembly.
type NamedMesh struct {
	Name   string
	Mesh   *surface.Mesh
	Report manifold.Report
}

// Scene is the ordered collection of named meshes an evaluation
// produced.
type Scene struct {
	meshes []*NamedMesh
	byName map[string]*NamedMesh
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{byName: make(map[string]*NamedMesh)}
}

// Add registers a mesh under its name. Redefining a name replaces the
// earlier mesh in place, keeping its position in definition order.
func (s *Scene) Add(nm *NamedMesh) {
	if old, ok := s.byName[nm.Name]; ok {
		for i, m := range s.meshes {
			if m == old {
				s.meshes[i] = nm
				break
			}
		}
		s.byName[nm.Name] = nm
		return
	}
	s.byName[nm.Name] = nm
	s.meshes = append(s.meshes, nm)
}

// Lookup returns the mesh registered under name, or nil.
func (s *Scene) Lookup(name string) *NamedMesh {
	return s.byName[name]
}

// Meshes returns the meshes in definition order.
func (s *Scene) Meshes() []*NamedMesh {
	return s.meshes
}

// Len returns the number of meshes in the scene.
func (s *Scene) Len() int {
	return len(s.meshes)
}

// Warnings collects one warning per mesh whose repair report recorded
// defects.
func (s *Scene) Warnings() []EvalWarning {
	var ws []EvalWarning
	for _, nm := range s.meshes {
		if nm.Report.HasIssues() {
			ws = append(ws, EvalWarning{Mesh: nm.Name, Message: nm.Report.String()})
		}
	}
	return ws
}
