// Package shape builds watertight half-edge meshes for common solids.
//
// Solids are modeled as signed distance fields through the
// github.com/deadsy/sdfx CAD library, polygonized with marching cubes,
// welded and assembled into a manifold surface. Any sdf.SDF3 can go
// through the same pipeline with FromSDF.
package shape

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/manifold"
	"github.com/ligneus/tannin/pkg/soup"
	"github.com/ligneus/tannin/pkg/surface"
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// Options tunes polygonization.
type Options struct {
	// Cells is the number of marching cubes cells along the longest
	// axis of the solid. Zero selects defaultMeshCells.
	Cells int
	// Tolerance is the weld distance for the polygonized triangles.
	// Zero merges only exactly coincident corners, which is what the
	// uniform marching cubes output needs.
	Tolerance float64
}

func (o Options) cells() int {
	if o.Cells > 0 {
		return o.Cells
	}
	return defaultMeshCells
}

// FromSDF polygonizes a signed distance field into a repaired
// half-edge mesh.
func FromSDF(s sdf.SDF3, opts Options) (*surface.Mesh, manifold.Report, error) {
	if s == nil {
		return nil, manifold.Report{}, fmt.Errorf("shape: nil signed distance field")
	}
	renderer := render.NewMarchingCubesUniform(opts.cells())
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, manifold.Report{}, fmt.Errorf("shape: polygonization produced no triangles")
	}

	sp := &soup.Soup{}
	for _, tri := range triangles {
		sp.AddTriangle(vec(tri[0]), vec(tri[1]), vec(tri[2]))
	}
	welded := sp.Weld(opts.Tolerance)
	welded.PruneDegenerate()
	m, report := welded.Build()
	return m, report, nil
}

func vec(v v3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Box returns a solid box with the given extents and its minimum
// corner at the origin, so placement translations work intuitively.
// sdf.Box3D centers the box, so shift by half-dimensions.
func Box(x, y, z float64, opts Options) (*surface.Mesh, manifold.Report, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, manifold.Report{}, fmt.Errorf("shape: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return FromSDF(sdf.Transform3D(s, m), opts)
}

// Sphere returns a solid sphere centered at the origin.
func Sphere(radius float64, opts Options) (*surface.Mesh, manifold.Report, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, manifold.Report{}, fmt.Errorf("shape: sphere: %w", err)
	}
	return FromSDF(s, opts)
}

// Cylinder returns a solid cylinder centered at the origin with its
// axis along Z.
func Cylinder(height, radius float64, opts Options) (*surface.Mesh, manifold.Report, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, manifold.Report{}, fmt.Errorf("shape: cylinder: %w", err)
	}
	return FromSDF(s, opts)
}

// Torus returns a solid torus in the XY plane centered at the origin.
// There is no torus primitive in sdfx, so revolve a shifted circle.
func Torus(major, minor float64, opts Options) (*surface.Mesh, manifold.Report, error) {
	if minor <= 0 || major <= minor {
		return nil, manifold.Report{}, fmt.Errorf("shape: torus radii %g, %g out of range", major, minor)
	}
	c, err := sdf.Circle2D(minor)
	if err != nil {
		return nil, manifold.Report{}, fmt.Errorf("shape: torus: %w", err)
	}
	profile := sdf.Transform2D(c, sdf.Translate2d(v2.Vec{X: major}))
	s, err := sdf.Revolve3D(profile)
	if err != nil {
		return nil, manifold.Report{}, fmt.Errorf("shape: torus: %w", err)
	}
	return FromSDF(s, opts)
}
