package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ligneus/tannin/pkg/soup"
	"github.com/ligneus/tannin/pkg/surface"
)

var stlEndian = binary.LittleEndian

// ReadSTL parses an STL model, accepting both the binary and the text
// flavor. STL stores loose triangles, so corners with bit-identical
// coordinates are welded while reading to recover shared edges.
func ReadSTL(r io.Reader) (*soup.Soup, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(1024)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if isTextSTL(head) {
		return readSTLText(br)
	}
	return readSTLBinary(br)
}

// isTextSTL sniffs the flavor. Binary files routinely start their
// header with "solid" too, so require a facet keyword as well.
func isTextSTL(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("solid")) && bytes.Contains(head, []byte("facet"))
}

func readSTLBinary(r io.Reader) (*soup.Soup, error) {
	var header [80]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("stl header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, stlEndian, &count); err != nil {
		return nil, fmt.Errorf("stl triangle count: %w", err)
	}
	s := &soup.Soup{}
	weld := make(map[[3]float32]int)
	var buf [50]byte
	var tri [3]int
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("stl triangle %d: %w", i, err)
		}
		// corners start past the 12 normal bytes
		for c := 0; c < 3; c++ {
			var key [3]float32
			for ax := 0; ax < 3; ax++ {
				key[ax] = math.Float32frombits(stlEndian.Uint32(buf[12+c*12+ax*4:]))
			}
			tri[c] = weldCorner(s, weld, key)
		}
		s.AddFace(tri[0], tri[1], tri[2])
	}
	return s, nil
}

func readSTLText(r io.Reader) (*soup.Soup, error) {
	s := &soup.Soup{}
	weld := make(map[[3]float32]int)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var tri []int
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("stl line %d: vertex needs 3 coordinates", line)
			}
			var key [3]float32
			for ax := 0; ax < 3; ax++ {
				f, err := strconv.ParseFloat(fields[ax+1], 32)
				if err != nil {
					return nil, fmt.Errorf("stl line %d: %w", line, err)
				}
				key[ax] = float32(f)
			}
			tri = append(tri, weldCorner(s, weld, key))
		case "endfacet":
			if len(tri) != 3 {
				return nil, fmt.Errorf("stl line %d: facet with %d vertices", line, len(tri))
			}
			s.AddFace(tri[0], tri[1], tri[2])
			tri = tri[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if len(tri) != 0 {
		return nil, fmt.Errorf("stl: %d dangling vertices after last facet", len(tri))
	}
	return s, nil
}

func weldCorner(s *soup.Soup, weld map[[3]float32]int, key [3]float32) int {
	if idx, ok := weld[key]; ok {
		return idx
	}
	idx := s.AddPosition(mgl64.Vec3{float64(key[0]), float64(key[1]), float64(key[2])})
	weld[key] = idx
	return idx
}

// WriteSTL writes the mesh as binary STL. Faces with more than three
// vertices are fan triangulated.
func WriteSTL(w io.Writer, m *surface.Mesh) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "tannin mesh")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	count := uint32(0)
	for _, f := range m.Faces() {
		count += uint32(m.FaceValence(f) - 2)
	}
	if err := binary.Write(bw, stlEndian, count); err != nil {
		return err
	}
	var rec struct {
		Normal [3]float32
		Verts  [3][3]float32
		Attr   uint16
	}
	for _, f := range m.Faces() {
		n := m.FaceNormal(f)
		rec.Normal = [3]float32{float32(n[0]), float32(n[1]), float32(n[2])}
		vs := m.FaceVertices(f)
		for i := 1; i+1 < len(vs); i++ {
			for c, v := range [3]surface.Vertex{vs[0], vs[i], vs[i+1]} {
				p := m.Position(v)
				rec.Verts[c] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
			}
			if err := binary.Write(bw, stlEndian, &rec); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
