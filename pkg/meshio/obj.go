package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/soup"
	"github.com/ligneus/tannin/pkg/surface"
)

// ReadOBJ parses a Wavefront OBJ model. Only vertex and face
// statements are honored; normals, texture coordinates, groups and
// materials are skipped. Face corners may use the v/vt/vn reference
// syntax and negative (relative) indices.
func ReadOBJ(r io.Reader) (*soup.Soup, error) {
	s := &soup.Soup{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", line)
			}
			var p mgl64.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				p[i] = f
			}
			s.AddPosition(p)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", line)
			}
			face := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				// keep the vertex reference, drop texture and normal
				if i := strings.IndexByte(tok, '/'); i >= 0 {
					tok = tok[:i]
				}
				idx, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				switch {
				case idx > 0:
					idx--
				case idx < 0:
					// negative references count back from the last vertex
					idx += len(s.Positions)
				default:
					return nil, fmt.Errorf("obj line %d: vertex index 0", line)
				}
				if idx < 0 || idx >= len(s.Positions) {
					return nil, fmt.Errorf("obj line %d: vertex index %s out of range", line, tok)
				}
				face = append(face, idx)
			}
			s.AddFace(face...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	return s, nil
}

// WriteOBJ writes the mesh as Wavefront OBJ.
func WriteOBJ(w io.Writer, m *surface.Mesh) error {
	bw := bufio.NewWriter(w)
	// handles are not contiguous after deletions, so remap to 1-based
	// file indices
	index := make(map[surface.Vertex]int, m.NumVertices())
	for i, v := range m.Vertices() {
		index[v] = i + 1
		p := m.Position(v)
		fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for _, f := range m.Faces() {
		bw.WriteString("f")
		for _, v := range m.FaceVertices(f) {
			fmt.Fprintf(bw, " %d", index[v])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
