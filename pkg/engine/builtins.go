package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/manifold"
	"github.com/ligneus/tannin/pkg/meshio"
	"github.com/ligneus/tannin/pkg/shape"
	"github.com/ligneus/tannin/pkg/soup"
	"github.com/ligneus/tannin/pkg/surface"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Tannin Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: load-mesh -> load_mesh
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a built mesh so it can flow between builtins.
type sexpMesh struct {
	name   string
	mesh   *surface.Mesh
	report manifold.Report
}

func (m *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %q :vertices %d :faces %d)",
		m.name, m.mesh.NumVertices(), m.mesh.NumFaces())
}
func (m *sexpMesh) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toMesh extracts the mesh reference produced by a shape or load builtin.
func toMesh(s zygo.Sexp) (*sexpMesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// positionalFloats extracts exactly n leading positional numbers.
func positionalFloats(pa kwArgs, n int, op string) ([]float64, error) {
	if len(pa.positional) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments, got %d", op, n, len(pa.positional))
	}
	out := make([]float64, n)
	for i, s := range pa.positional {
		f, err := toFloat64(s)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", op, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all Tannin DSL builtins into a zygomys
// environment. The builtins populate the provided scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, scene *Scene, meshCells int) {

	// shapeOptions folds the engine-wide resolution and a per-call
	// :cells keyword into polygonization options.
	shapeOptions := func(pa kwArgs, op string) (shape.Options, error) {
		o := shape.Options{Cells: meshCells}
		if v, ok := pa.kw["cells"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return o, fmt.Errorf("%s: cells: %w", op, err)
			}
			if f < 2 {
				return o, fmt.Errorf("%s: cells must be at least 2, got %g", op, f)
			}
			o.Cells = int(f)
		}
		return o, nil
	}

	// -----------------------------------------------------------------------
	// (box 40 20 10 :cells 64)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		dims, err := positionalFloats(pa, 3, "box")
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := shapeOptions(pa, "box")
		if err != nil {
			return zygo.SexpNull, err
		}
		m, report, err := shape.Box(dims[0], dims[1], dims[2], o)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpMesh{name: "box", mesh: m, report: report}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere 10 :cells 64)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := positionalFloats(pa, 1, "sphere")
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := shapeOptions(pa, "sphere")
		if err != nil {
			return zygo.SexpNull, err
		}
		m, report, err := shape.Sphere(r[0], o)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpMesh{name: "sphere", mesh: m, report: report}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder height radius :cells 64)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		dims, err := positionalFloats(pa, 2, "cylinder")
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := shapeOptions(pa, "cylinder")
		if err != nil {
			return zygo.SexpNull, err
		}
		m, report, err := shape.Cylinder(dims[0], dims[1], o)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpMesh{name: "cylinder", mesh: m, report: report}, nil
	})

	// -----------------------------------------------------------------------
	// (torus major minor :cells 64)
	// -----------------------------------------------------------------------
	env.AddFunction("torus", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		dims, err := positionalFloats(pa, 2, "torus")
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := shapeOptions(pa, "torus")
		if err != nil {
			return zygo.SexpNull, err
		}
		m, report, err := shape.Torus(dims[0], dims[1], o)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("torus: %w", err)
		}
		return &sexpMesh{name: "torus", mesh: m, report: report}, nil
	})

	// -----------------------------------------------------------------------
	// (load-mesh "bunny.obj")
	// -----------------------------------------------------------------------
	env.AddFunction("load_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("load-mesh requires a path argument")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-mesh: path: %w", err)
		}
		s, err := meshio.Load(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-mesh: %w", err)
		}
		m, report := s.Build()
		return &sexpMesh{name: s.Name, mesh: m, report: report}, nil
	})

	// -----------------------------------------------------------------------
	// (save-mesh m "out.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("save_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("save-mesh requires a mesh and a path")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: %w", err)
		}
		path, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: path: %w", err)
		}
		if err := meshio.Save(path, m.mesh); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: %w", err)
		}
		// Return the mesh so saves can be chained into definitions.
		return m, nil
	})

	// -----------------------------------------------------------------------
	// (defmesh "name" m)
	// -----------------------------------------------------------------------
	env.AddFunction("defmesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defmesh requires a name and a mesh expression")
		}
		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defmesh: name: %w", err)
		}
		m, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defmesh: %w", err)
		}
		named := &sexpMesh{name: meshName, mesh: m.mesh, report: m.report}
		scene.Add(&NamedMesh{Name: meshName, Mesh: m.mesh, Report: m.report})
		return named, nil
	})

	// -----------------------------------------------------------------------
	// (mesh "name")
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mesh requires a name argument")
		}
		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: name: %w", err)
		}
		nm := scene.Lookup(meshName)
		if nm == nil {
			return zygo.SexpNull, fmt.Errorf("mesh: no mesh named %q", meshName)
		}
		return &sexpMesh{name: nm.Name, mesh: nm.Mesh, report: nm.Report}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh-name m)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_name", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mesh-name requires a mesh argument")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-name: %w", err)
		}
		return &zygo.SexpStr{S: m.name}, nil
	})

	// -----------------------------------------------------------------------
	// (translate m 10 0 0)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 4 {
			return zygo.SexpNull, fmt.Errorf("translate requires a mesh and 3 offsets")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		var off mgl64.Vec3
		for i := 0; i < 3; i++ {
			f, err := toFloat64(pa.positional[i+1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: offset %d: %w", i+1, err)
			}
			off[i] = f
		}

		// Rebuild rather than mutate, so the original mesh reference
		// stays usable.
		s := soup.FromMesh(m.mesh)
		for i := range s.Positions {
			s.Positions[i] = s.Positions[i].Add(off)
		}
		moved, report := s.Build()
		return &sexpMesh{name: m.name, mesh: moved, report: report}, nil
	})

	// -----------------------------------------------------------------------
	// (merge-meshes a b ... :tolerance 1e-6)
	// -----------------------------------------------------------------------
	env.AddFunction("merge_meshes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("merge-meshes requires at least one mesh")
		}
		total := &soup.Soup{}
		for i, arg := range pa.positional {
			m, err := toMesh(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("merge-meshes: argument %d: %w", i+1, err)
			}
			total.Append(soup.FromMesh(m.mesh))
		}
		tolerance := 0.0
		if v, ok := pa.kw["tolerance"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("merge-meshes: tolerance: %w", err)
			}
			tolerance = f
		}
		welded := total.Weld(tolerance)
		welded.PruneDegenerate()
		m, report := welded.Build()
		return &sexpMesh{name: "merge", mesh: m, report: report}, nil
	})

	// -----------------------------------------------------------------------
	// (stats m)
	// -----------------------------------------------------------------------
	env.AddFunction("stats", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("stats requires a mesh argument")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stats: %w", err)
		}
		return &zygo.SexpStr{S: m.mesh.Stats().String()}, nil
	})

	// -----------------------------------------------------------------------
	// (report m)
	// -----------------------------------------------------------------------
	env.AddFunction("report", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("report requires a mesh argument")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("report: %w", err)
		}
		return &zygo.SexpStr{S: m.report.String()}, nil
	})
}
