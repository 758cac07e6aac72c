// Package meshio reads and writes polygon meshes in the common
// interchange formats (Wavefront OBJ, Object File Format and STL).
//
// Readers parse into a soup.Soup so that defective input can be run
// through the manifold builder before use. Writers consume a repaired
// surface.Mesh.
package meshio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ligneus/tannin/pkg/manifold"
	"github.com/ligneus/tannin/pkg/soup"
	"github.com/ligneus/tannin/pkg/surface"
)

// Format identifies a mesh interchange format.
type Format int

const (
	FormatUnknown Format = iota
	FormatOBJ
	FormatOFF
	FormatSTL
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatOFF:
		return "off"
	case FormatSTL:
		return "stl"
	}
	return "unknown"
}

// ErrUnknownFormat is returned when a file name maps to no supported
// format.
var ErrUnknownFormat = errors.New("meshio: unknown mesh format")

// DetectFormat picks the format from a file name extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".obj":
		return FormatOBJ
	case ".off":
		return FormatOFF
	case ".stl":
		return FormatSTL
	}
	return FormatUnknown
}

// Read parses a mesh of the given format.
func Read(r io.Reader, format Format) (*soup.Soup, error) {
	switch format {
	case FormatOBJ:
		return ReadOBJ(r)
	case FormatOFF:
		return ReadOFF(r)
	case FormatSTL:
		return ReadSTL(r)
	}
	return nil, ErrUnknownFormat
}

// Write serializes a mesh in the given format.
func Write(w io.Writer, m *surface.Mesh, format Format) error {
	switch format {
	case FormatOBJ:
		return WriteOBJ(w, m)
	case FormatOFF:
		return WriteOFF(w, m)
	case FormatSTL:
		return WriteSTL(w, m)
	}
	return ErrUnknownFormat
}

// Load reads the mesh file at path, picking the format from the
// extension. The soup is named after the file.
func Load(path string) (*soup.Soup, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("load %s: %w", path, ErrUnknownFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()
	s, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	base := filepath.Base(path)
	s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	return s, nil
}

// Save writes the mesh to path, picking the format from the extension.
func Save(path string, m *surface.Mesh) error {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return fmt.Errorf("save %s: %w", path, ErrUnknownFormat)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := Write(f, m, format); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// LoadMesh loads a mesh file and assembles it into a half-edge mesh,
// repairing non-manifold input along the way.
func LoadMesh(path string) (*surface.Mesh, manifold.Report, error) {
	s, err := Load(path)
	if err != nil {
		return nil, manifold.Report{}, err
	}
	m, report := s.Build()
	return m, report, nil
}
