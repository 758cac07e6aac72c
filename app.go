package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/plan-systems/klog"

	"github.com/ligneus/tannin/pkg/drawable"
	"github.com/ligneus/tannin/pkg/engine"
	"github.com/ligneus/tannin/pkg/meshio"
	"github.com/ligneus/tannin/pkg/surface"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the command-line backend. The same Evaluate entry point can
// back an editor process, so everything it returns is JSON-serializable.
type App struct {
	engine *engine.Engine
}

// MeshData is the JSON-serializable mesh format sent to viewers.
type MeshData struct {
	Name     string        `json:"name"`
	Vertices []float32     `json:"vertices"`
	Normals  []float32     `json:"normals"`
	Indices  []uint32      `json:"indices"`
	Stats    surface.Stats `json:"stats"`
	Repaired bool          `json:"repaired"`
	Color    string        `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating one script.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with a fresh engine.
func NewApp() *App {
	return &App{engine: engine.NewEngine()}
}

// Evaluate takes Lisp source and returns render buffers + errors.
// Evaluation problems come back in the result, never as a panic.
func (a *App) Evaluate(source string) EvalResult {
	scene, evalErrs, err := a.engine.Evaluate(source)
	return buildResult(scene, evalErrs, err)
}

// buildResult converts an engine evaluation into the serializable
// form. All slices start non-nil so they serialize as [] rather
// than null.
func buildResult(scene *engine.Scene, evalErrs []engine.EvalError, err error) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: a fatal error (timeout, superseded request, internal
	// panic) replaces the whole result.
	if err != nil {
		klog.Errorf("evaluate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Col:     0,
			Message: err.Error(),
		})
		return result
	}

	// Step 2: convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: convert scene meshes to flat render buffers.
	for i, nm := range scene.Meshes() {
		buf := drawable.Triangles(nm.Mesh)
		result.Meshes = append(result.Meshes, MeshData{
			Name:     nm.Name,
			Vertices: buf.Vertices,
			Normals:  buf.Normals,
			Indices:  buf.Indices,
			Stats:    nm.Mesh.Stats(),
			Repaired: nm.Report.HasIssues(),
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	// Step 4: surface the repair warnings.
	for _, w := range scene.Warnings() {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: fmt.Sprintf("%s: %s", w.Mesh, w.Message),
		})
	}
	return result
}

// cliOptions holds the flag values that shape a single run.
type cliOptions struct {
	output string
	stats  bool
	asJSON bool
	cells  int
}

// runScript evaluates a script file and reports the outcome. With -o
// set the scene must hold exactly one mesh, since the mesh writers
// emit a single surface per file.
func (a *App) runScript(path string, opts cliOptions) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	if opts.cells > 0 {
		a.engine.MeshCells = opts.cells
	}

	scene, evalErrs, err := a.engine.Evaluate(string(source))
	result := buildResult(scene, evalErrs, err)
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				klog.Errorf("%s:%d: %s", path, e.Line, e.Message)
			} else {
				klog.Errorf("%s: %s", path, e.Message)
			}
		}
		return fmt.Errorf("%s: %d evaluation error(s)", path, len(result.Errors))
	}

	if opts.asJSON {
		return writeJSON(os.Stdout, result)
	}
	for _, m := range result.Meshes {
		if opts.stats {
			fmt.Printf("%s: %s\n", m.Name, m.Stats)
		} else {
			klog.Infof("mesh %q: %d vertices, %d triangles",
				m.Name, len(m.Vertices)/3, len(m.Indices)/3)
		}
	}

	if opts.output != "" {
		meshes := scene.Meshes()
		if len(meshes) != 1 {
			return fmt.Errorf("-o needs exactly one mesh in the scene, got %d", len(meshes))
		}
		if err := meshio.Save(opts.output, meshes[0].Mesh); err != nil {
			return err
		}
		klog.Infof("wrote %s", opts.output)
	}
	return nil
}

// convert loads a mesh file, runs it through the surface builder and
// optionally writes the repaired result back out.
func (a *App) convert(path string, opts cliOptions) error {
	s, err := meshio.Load(path)
	if err != nil {
		return err
	}
	m, report := s.Build()

	if opts.stats {
		fmt.Println(m.Stats())
		if report.HasIssues() {
			fmt.Println(report)
		}
	}
	if opts.asJSON {
		buf := drawable.Triangles(m)
		return writeJSON(os.Stdout, EvalResult{
			Meshes: []MeshData{{
				Name:     s.Name,
				Vertices: buf.Vertices,
				Normals:  buf.Normals,
				Indices:  buf.Indices,
				Stats:    m.Stats(),
				Repaired: report.HasIssues(),
				Color:    colorPalette[0],
			}},
			Errors:   []EvalErrorData{},
			Warnings: []EvalErrorData{},
		})
	}
	if opts.output != "" {
		if err := meshio.Save(opts.output, m); err != nil {
			return err
		}
		klog.Infof("wrote %s", opts.output)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
