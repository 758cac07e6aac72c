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

// tokenReader hands out whitespace-separated tokens line by line,
// skipping blank lines and # comments.
type tokenReader struct {
	sc    *bufio.Scanner
	queue []string
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next() (string, error) {
	for len(t.queue) == 0 {
		if !t.sc.Scan() {
			if err := t.sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		line := t.sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		t.queue = strings.Fields(line)
	}
	tok := t.queue[0]
	t.queue = t.queue[1:]
	return tok, nil
}

func (t *tokenReader) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok)
}

func (t *tokenReader) nextFloat() (float64, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(tok, 64)
}

// skipLine drops any tokens left on the current line.
func (t *tokenReader) skipLine() { t.queue = t.queue[:0] }

// ReadOFF parses an Object File Format mesh. The edge count in the
// header and any per-face color values are ignored.
func ReadOFF(r io.Reader) (*soup.Soup, error) {
	tok := newTokenReader(r)
	magic, err := tok.next()
	if err != nil {
		return nil, fmt.Errorf("off: %w", err)
	}
	if magic != "OFF" {
		return nil, fmt.Errorf("off: bad magic %q", magic)
	}
	nv, err := tok.nextInt()
	if err != nil {
		return nil, fmt.Errorf("off header: %w", err)
	}
	nf, err := tok.nextInt()
	if err != nil {
		return nil, fmt.Errorf("off header: %w", err)
	}
	if _, err := tok.nextInt(); err != nil {
		return nil, fmt.Errorf("off header: %w", err)
	}
	if nv < 0 || nf < 0 {
		return nil, fmt.Errorf("off header: negative element count")
	}
	s := &soup.Soup{}
	for i := 0; i < nv; i++ {
		var p mgl64.Vec3
		for c := 0; c < 3; c++ {
			f, err := tok.nextFloat()
			if err != nil {
				return nil, fmt.Errorf("off vertex %d: %w", i, err)
			}
			p[c] = f
		}
		s.AddPosition(p)
	}
	for i := 0; i < nf; i++ {
		k, err := tok.nextInt()
		if err != nil {
			return nil, fmt.Errorf("off face %d: %w", i, err)
		}
		if k < 0 {
			return nil, fmt.Errorf("off face %d: negative vertex count", i)
		}
		face := make([]int, k)
		for j := 0; j < k; j++ {
			idx, err := tok.nextInt()
			if err != nil {
				return nil, fmt.Errorf("off face %d: %w", i, err)
			}
			if idx < 0 || idx >= nv {
				return nil, fmt.Errorf("off face %d: vertex index %d out of range", i, idx)
			}
			face[j] = idx
		}
		s.AddFace(face...)
		tok.skipLine()
	}
	return s, nil
}

// WriteOFF writes the mesh in Object File Format.
func WriteOFF(w io.Writer, m *surface.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "OFF\n%d %d 0\n", m.NumVertices(), m.NumFaces())
	index := make(map[surface.Vertex]int, m.NumVertices())
	for i, v := range m.Vertices() {
		index[v] = i
		p := m.Position(v)
		fmt.Fprintf(bw, "%g %g %g\n", p[0], p[1], p[2])
	}
	for _, f := range m.Faces() {
		vs := m.FaceVertices(f)
		fmt.Fprintf(bw, "%d", len(vs))
		for _, v := range vs {
			fmt.Fprintf(bw, " %d", index[v])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
