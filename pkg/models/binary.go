package models

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/taigrr/pinhole/pkg/logging"
	"github.com/taigrr/pinhole/pkg/math3d"
)

// ErrTruncated reports a binary mesh stream that ended early.
var ErrTruncated = errors.New("truncated mesh data")

// maxElements bounds vertex and triangle counts read from a stream.
const maxElements = 1 << 26

// countingWriter tracks bytes written for io.WriterTo.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// WriteTo encodes the mesh in the little-endian binary layout:
//
//	uint32 vertex count
//	3 flag bytes: colors, normals, texcoords
//	positions, then colors and normals if flagged, count×3×float32 each
//	texcoords if flagged, count×2×float32
//	uint32 triangle count, then count×3×uint32 indices
func (m *TriangleMesh) WriteTo(w io.Writer) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	n := len(m.Vertices)
	fields := []any{
		uint32(n),
		[3]uint8{flag(m.HasColors()), flag(m.HasNormals()), flag(m.HasTexCoords())},
		vec3s(m.Vertices),
	}
	if m.HasColors() {
		fields = append(fields, vec3s(m.Colors))
	}
	if m.HasNormals() {
		fields = append(fields, vec3s(m.Normals))
	}
	if m.HasTexCoords() {
		fields = append(fields, vec2s(m.TexCoords))
	}
	fields = append(fields, uint32(m.TriangleCount()), m.Triangles)

	for _, v := range fields {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return cw.n, err
		}
	}
	err := bw.Flush()
	return cw.n, err
}

// ReadFrom replaces the mesh contents with a mesh decoded from r. The name is
// left unchanged.
func (m *TriangleMesh) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	br := bufio.NewReader(cr)

	read := func(v any) error {
		err := binary.Read(br, binary.LittleEndian, v)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return err
	}

	var count uint32
	if err := read(&count); err != nil {
		return cr.n, err
	}
	if count > maxElements {
		return cr.n, fmt.Errorf("%w: %d vertices", ErrInvalidMesh, count)
	}
	var flags [3]uint8
	if err := read(&flags); err != nil {
		return cr.n, err
	}
	for _, f := range flags {
		if f > 1 {
			return cr.n, fmt.Errorf("%w: bad attribute flag %d", ErrInvalidMesh, f)
		}
	}

	out := TriangleMesh{Name: m.Name}
	var err error
	if out.Vertices, err = readVec3s(read, int(count)); err != nil {
		return cr.n, err
	}
	if flags[0] == 1 {
		if out.Colors, err = readVec3s(read, int(count)); err != nil {
			return cr.n, err
		}
	}
	if flags[1] == 1 {
		if out.Normals, err = readVec3s(read, int(count)); err != nil {
			return cr.n, err
		}
	}
	if flags[2] == 1 {
		raw := make([]float32, 2*count)
		if err := read(raw); err != nil {
			return cr.n, err
		}
		out.TexCoords = make([]math3d.Vec2, count)
		for i := range out.TexCoords {
			out.TexCoords[i] = math3d.V2(float64(raw[2*i]), float64(raw[2*i+1]))
		}
	}

	var triangles uint32
	if err := read(&triangles); err != nil {
		return cr.n, err
	}
	if triangles > maxElements {
		return cr.n, fmt.Errorf("%w: %d triangles", ErrInvalidMesh, triangles)
	}
	out.Triangles = make([]uint32, 3*triangles)
	if err := read(out.Triangles); err != nil {
		return cr.n, err
	}
	if err := out.Validate(); err != nil {
		return cr.n, err
	}

	*m = out
	// bufio may have read ahead; report what the mesh itself consumed.
	return cr.n - int64(br.Buffered()), nil
}

// SaveBinary writes the mesh to path.
func (m *TriangleMesh) SaveBinary(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write mesh %s: %w", path, err)
	}
	return f.Close()
}

// LoadBinary reads a mesh written by SaveBinary.
func LoadBinary(path string) (*TriangleMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := NewTriangleMesh(filepath.Base(path))
	if _, err := m.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read mesh %s: %w", path, err)
	}
	logging.Logger().Info("loaded mesh", "path", path,
		"vertices", m.VertexCount(), "triangles", m.TriangleCount())
	return m, nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func vec3s(vs []math3d.Vec3) []float32 {
	out := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, float32(v.X), float32(v.Y), float32(v.Z))
	}
	return out
}

func vec2s(vs []math3d.Vec2) []float32 {
	out := make([]float32, 0, 2*len(vs))
	for _, v := range vs {
		out = append(out, float32(v.X), float32(v.Y))
	}
	return out
}

func readVec3s(read func(any) error, count int) ([]math3d.Vec3, error) {
	raw := make([]float32, 3*count)
	if err := read(raw); err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, count)
	for i := range out {
		out[i] = math3d.V3(float64(raw[3*i]), float64(raw[3*i+1]), float64(raw[3*i+2]))
	}
	return out, nil
}
