package shape

import (
	"testing"

	"github.com/ligneus/tannin/pkg/manifold"
	"github.com/ligneus/tannin/pkg/surface"
)

// fast keeps marching cubes cheap enough for tests.
var fast = Options{Cells: 24}

func checkSolid(t *testing.T, m *surface.Mesh, report manifold.Report, err error, wantEuler int) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.HasIssues() {
		t.Fatalf("polygonized solid has issues: %v", report)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if !m.IsClosed() {
		t.Error("mesh is not closed")
	}
	st := m.Stats()
	if st.Components != 1 {
		t.Errorf("Components = %d, want 1", st.Components)
	}
	if st.Euler != wantEuler {
		t.Errorf("Euler = %d, want %d", st.Euler, wantEuler)
	}
}

func TestSphere(t *testing.T) {
	m, report, err := Sphere(1, fast)
	checkSolid(t, m, report, err, 2)

	min, max := m.Bounds()
	for c := 0; c < 3; c++ {
		if min[c] < -1.1 || max[c] > 1.1 {
			t.Errorf("bounds out of range: %v .. %v", min, max)
		}
	}
}

func TestBox(t *testing.T) {
	m, report, err := Box(2, 1, 1, fast)
	checkSolid(t, m, report, err, 2)

	// minimum corner sits at the origin
	min, max := m.Bounds()
	if min[0] < -0.2 || min[1] < -0.2 || min[2] < -0.2 {
		t.Errorf("min corner %v not at origin", min)
	}
	if max[0] > 2.2 || max[1] > 1.2 || max[2] > 1.2 {
		t.Errorf("max corner %v out of range", max)
	}
}

func TestCylinder(t *testing.T) {
	m, report, err := Cylinder(2, 0.5, fast)
	checkSolid(t, m, report, err, 2)
}

func TestTorus(t *testing.T) {
	m, report, err := Torus(2, 0.5, fast)
	checkSolid(t, m, report, err, 0)
}

func TestTorusBadRadii(t *testing.T) {
	if _, _, err := Torus(0.5, 2, fast); err == nil {
		t.Error("Torus accepted minor radius larger than major")
	}
	if _, _, err := Torus(1, 0, fast); err == nil {
		t.Error("Torus accepted zero minor radius")
	}
}

func TestFromSDFNil(t *testing.T) {
	if _, _, err := FromSDF(nil, fast); err == nil {
		t.Error("FromSDF accepted a nil field")
	}
}

func TestOptionsDefaultCells(t *testing.T) {
	if got := (Options{}).cells(); got != defaultMeshCells {
		t.Errorf("cells() = %d, want %d", got, defaultMeshCells)
	}
	if got := (Options{Cells: 24}).cells(); got != 24 {
		t.Errorf("cells() = %d, want 24", got)
	}
}
