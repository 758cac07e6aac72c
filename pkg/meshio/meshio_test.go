package meshio

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/soup"
	"github.com/ligneus/tannin/pkg/surface"
)

// --- fixtures ---

func cubeSoup() *soup.Soup {
	s := &soup.Soup{Name: "cube"}
	for _, p := range []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	} {
		s.AddPosition(p)
	}
	for _, f := range [][]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	} {
		s.AddFace(f...)
	}
	return s
}

func cubeMesh(t *testing.T) *surface.Mesh {
	t.Helper()
	m, report := cubeSoup().Build()
	if report.HasIssues() {
		t.Fatalf("cube fixture has issues: %v", report)
	}
	return m
}

func checkClosedCube(t *testing.T, s *soup.Soup) {
	t.Helper()
	if got, want := s.VertexCount(), 8; got != want {
		t.Fatalf("VertexCount() = %d, want %d", got, want)
	}
	if got, want := s.FaceCount(), 12; got != want {
		t.Fatalf("FaceCount() = %d, want %d", got, want)
	}
	m, report := s.Build()
	if report.HasIssues() {
		t.Fatalf("rebuilt cube has issues: %v", report)
	}
	if !m.IsClosed() {
		t.Error("rebuilt cube is not closed")
	}
	if got, want := m.NumEdges(), 18; got != want {
		t.Errorf("NumEdges() = %d, want %d", got, want)
	}
}

// --- format detection ---

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"model.obj", FormatOBJ},
		{"MODEL.OBJ", FormatOBJ},
		{"bunny.off", FormatOFF},
		{"part.stl", FormatSTL},
		{"scene.ply", FormatUnknown},
		{"noextension", FormatUnknown},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.name); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// --- OBJ ---

func TestReadOBJ(t *testing.T) {
	const input = `# a comment
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vn 0 0 1
f 1 2 3
f 1/2/3 3//1 2/5
f -4 -2 -1
`
	s, err := ReadOBJ(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if got, want := s.VertexCount(), 4; got != want {
		t.Fatalf("VertexCount() = %d, want %d", got, want)
	}
	want := [][]int{{0, 1, 2}, {0, 2, 1}, {0, 2, 3}}
	if !reflect.DeepEqual(s.Faces, want) {
		t.Errorf("Faces = %v, want %v", s.Faces, want)
	}
	if got := s.Positions[3]; got != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Positions[3] = %v, want (0 0 1)", got)
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad coordinate", "v a 0 0\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadOBJ(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadOBJ accepted malformed input")
			}
		})
	}
}

func TestOBJRoundTrip(t *testing.T) {
	m := cubeMesh(t)
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	s, err := ReadOBJ(&buf)
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	checkClosedCube(t, s)
}

// --- OFF ---

func TestReadOFF(t *testing.T) {
	const input = `OFF
# unit tetrahedron
4 4 0
0 0 0
1 0 0
0 1 0
0 0 1
3 0 2 1 255 0 0
3 0 1 3
3 1 2 3
3 0 3 2
`
	s, err := ReadOFF(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadOFF: %v", err)
	}
	if got, want := s.VertexCount(), 4; got != want {
		t.Fatalf("VertexCount() = %d, want %d", got, want)
	}
	if got, want := s.FaceCount(), 4; got != want {
		t.Fatalf("FaceCount() = %d, want %d", got, want)
	}
	m, report := s.Build()
	if report.HasIssues() {
		t.Fatalf("tetrahedron has issues: %v", report)
	}
	if !m.IsClosed() {
		t.Error("tetrahedron is not closed")
	}
}

func TestReadOFFErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad magic", "PLY\n4 4 0\n"},
		{"truncated header", "OFF\n4 4\n"},
		{"truncated vertices", "OFF\n4 1 0\n0 0 0\n"},
		{"index out of range", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
		{"negative count", "OFF\n-1 0 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadOFF(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadOFF accepted malformed input")
			}
		})
	}
}

func TestOFFRoundTrip(t *testing.T) {
	m := cubeMesh(t)
	var buf bytes.Buffer
	if err := WriteOFF(&buf, m); err != nil {
		t.Fatalf("WriteOFF: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "OFF\n8 12 0\n") {
		t.Errorf("unexpected OFF header: %q", buf.String()[:20])
	}
	s, err := ReadOFF(&buf)
	if err != nil {
		t.Fatalf("ReadOFF: %v", err)
	}
	checkClosedCube(t, s)
}

// --- STL ---

func TestSTLBinaryRoundTrip(t *testing.T) {
	m := cubeMesh(t)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	if got, want := buf.Len(), 84+12*50; got != want {
		t.Fatalf("binary STL size = %d, want %d", got, want)
	}
	s, err := ReadSTL(&buf)
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	checkClosedCube(t, s)
}

func TestReadSTLText(t *testing.T) {
	const input = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
endsolid tetra
`
	s, err := ReadSTL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	if got, want := s.VertexCount(), 4; got != want {
		t.Errorf("VertexCount() = %d, want %d (corners not welded)", got, want)
	}
	if got, want := s.FaceCount(), 4; got != want {
		t.Errorf("FaceCount() = %d, want %d", got, want)
	}
	m, report := s.Build()
	if report.HasIssues() {
		t.Fatalf("tetrahedron has issues: %v", report)
	}
	if !m.IsClosed() {
		t.Error("tetrahedron is not closed")
	}
}

func TestReadSTLTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short facet", "solid s\nfacet\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid s\n"},
		{"dangling vertex", "solid s\nfacet\nvertex 0 0 0\nendsolid s\n"},
		{"bad coordinate", "solid s\nfacet\nvertex 0 0 z\nendfacet\nendsolid s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadSTL(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadSTL accepted malformed input")
			}
		})
	}
}

// Binary files often carry "solid" in their header; the sniffer must
// not mistake them for text.
func TestReadSTLBinaryWithSolidHeader(t *testing.T) {
	m := cubeMesh(t)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, m); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	raw := buf.Bytes()
	copy(raw, "solid")
	s, err := ReadSTL(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadSTL: %v", err)
	}
	checkClosedCube(t, s)
}

// --- file dispatch ---

func TestLoadSaveRoundTrip(t *testing.T) {
	m := cubeMesh(t)
	dir := t.TempDir()
	for _, name := range []string{"cube.obj", "cube.off", "cube.stl"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, m); err != nil {
				t.Fatalf("Save: %v", err)
			}
			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got, want := s.Name, "cube"; got != want {
				t.Errorf("Name = %q, want %q", got, want)
			}
			checkClosedCube(t, s)

			m2, report, err := LoadMesh(path)
			if err != nil {
				t.Fatalf("LoadMesh: %v", err)
			}
			if report.HasIssues() {
				t.Errorf("LoadMesh report: %v", report)
			}
			if got, want := m2.NumVertices(), 8; got != want {
				t.Errorf("NumVertices() = %d, want %d", got, want)
			}
		})
	}
}

func TestLoadSaveUnknownFormat(t *testing.T) {
	if _, err := Load("scene.ply"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load: err = %v, want ErrUnknownFormat", err)
	}
	if err := Save("scene.ply", cubeMesh(t)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save: err = %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}
