package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/pinhole/pkg/logging"
	"github.com/taigrr/pinhole/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into a TriangleMesh.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*TriangleMesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file. All triangle primitives of all meshes are
// merged into one TriangleMesh.
func (l *GLTFLoader) Load(path string) (*TriangleMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := l.fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	logging.Logger().Info("loaded gltf", "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return mesh, nil
}

func (l *GLTFLoader) fromDocument(doc *gltf.Document, name string) (*TriangleMesh, error) {
	mesh := NewTriangleMesh(name)
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			part, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
			}
			if part == nil {
				logging.Logger().Debug("skipped gltf primitive", "mesh", m.Name, "mode", prim.Mode)
				continue
			}
			mesh.Append(part)
		}
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// readPrimitive extracts one triangle primitive. Non-triangle primitives and
// primitives without positions yield nil.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*TriangleMesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	part := &TriangleMesh{}
	var err error
	if part.Vertices, err = readVec3Accessor(doc, posIdx); err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if part.Normals, err = readVec3Accessor(doc, idx); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if part.Colors, err = readColorAccessor(doc, idx); err != nil {
			return nil, fmt.Errorf("read colors: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := readVec2Accessor(doc, idx)
		if err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
		// GLTF puts V=0 at the top; textures here are indexed bottom-up.
		for i := range uvs {
			uvs[i].Y = 1 - uvs[i].Y
		}
		part.TexCoords = uvs
	}

	if prim.Indices != nil {
		if part.Triangles, err = readIndices(doc, *prim.Indices); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		part.Triangles = part.Triangles[:len(part.Triangles)/3*3]
	} else {
		// No indices, assume sequential triangles
		for i := 0; i+2 < len(part.Vertices); i += 3 {
			part.AddTriangle(uint32(i), uint32(i+1), uint32(i+2))
		}
	}
	return part, nil
}

// accessorView returns the bytes of an accessor and its element stride.
func accessorView(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bufferView.ByteOffset + accessor.ByteOffset
	end := start
	if accessor.Count > 0 {
		end = start + (accessor.Count-1)*stride + elemSize
	}
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor overruns buffer: %d > %d", end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

func readFloats(doc *gltf.Document, accessorIdx int, want gltf.AccessorType, n int) ([][]float64, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != want {
		return nil, fmt.Errorf("expected %v, got %v", want, accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", accessor.ComponentType)
	}
	data, stride, err := accessorView(doc, accessor, 4*n)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, accessor.Count)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[i*stride+4*j:])
			out[i][j] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	floats, err := readFloats(doc, accessorIdx, gltf.AccessorVec3, 3)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(f[0], f[1], f[2])
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	floats, err := readFloats(doc, accessorIdx, gltf.AccessorVec2, 2)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(f[0], f[1])
	}
	return result, nil
}

// readColorAccessor reads float RGB or RGBA colors; alpha is dropped.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	n := 3
	if accessor.Type == gltf.AccessorVec4 {
		n = 4
	}
	floats, err := readFloats(doc, accessorIdx, accessor.Type, n)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(f[0], f[1], f[2])
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorView(doc, accessor, size)
	if err != nil {
		return nil, err
	}
	result := make([]uint32, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = uint32(b[0])
		case 2:
			result[i] = uint32(binary.LittleEndian.Uint16(b))
		case 4:
			result[i] = binary.LittleEndian.Uint32(b)
		}
	}
	return result, nil
}

// SaveGLB writes the mesh as a single-primitive binary glTF. Positions,
// normals, colors, texture coordinates and uint32 indices are stored as
// float32 accessors in one embedded buffer.
func (m *TriangleMesh) SaveGLB(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	doc := &gltf.Document{
		Asset: gltf.Asset{Version: "2.0", Generator: "pinhole"},
	}
	addView := func(data any, typ gltf.AccessorType, ct gltf.ComponentType, count int) int {
		offset := buf.Len()
		_ = binary.Write(&buf, binary.LittleEndian, data)
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     0,
			ByteOffset: offset,
			ByteLength: buf.Len() - offset,
		})
		view := len(doc.BufferViews) - 1
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    &view,
			ComponentType: ct,
			Count:         count,
			Type:          typ,
		})
		return len(doc.Accessors) - 1
	}

	n := len(m.Vertices)
	attrs := map[string]int{
		gltf.POSITION: addView(vec3s(m.Vertices), gltf.AccessorVec3, gltf.ComponentFloat, n),
	}
	lo, hi := m.Bounds()
	pos := doc.Accessors[attrs[gltf.POSITION]]
	pos.Min = []float64{float64(float32(lo.X)), float64(float32(lo.Y)), float64(float32(lo.Z))}
	pos.Max = []float64{float64(float32(hi.X)), float64(float32(hi.Y)), float64(float32(hi.Z))}

	if m.HasNormals() {
		attrs[gltf.NORMAL] = addView(vec3s(m.Normals), gltf.AccessorVec3, gltf.ComponentFloat, n)
	}
	if m.HasColors() {
		attrs[gltf.COLOR_0] = addView(vec3s(m.Colors), gltf.AccessorVec3, gltf.ComponentFloat, n)
	}
	if m.HasTexCoords() {
		flipped := make([]math3d.Vec2, n)
		for i, uv := range m.TexCoords {
			flipped[i] = math3d.V2(uv.X, 1-uv.Y)
		}
		attrs[gltf.TEXCOORD_0] = addView(vec2s(flipped), gltf.AccessorVec2, gltf.ComponentFloat, n)
	}
	indices := addView(m.Triangles, gltf.AccessorScalar, gltf.ComponentUint, len(m.Triangles))

	doc.Buffers = []*gltf.Buffer{{ByteLength: buf.Len(), Data: buf.Bytes()}}
	meshIdx, sceneIdx := 0, 0
	doc.Meshes = []*gltf.Mesh{{
		Name: m.Name,
		Primitives: []*gltf.Primitive{{
			Attributes: attrs,
			Indices:    &indices,
			Mode:       gltf.PrimitiveTriangles,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: &meshIdx}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = &sceneIdx

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	logging.Logger().Info("saved glb", "path", path, "triangles", m.TriangleCount())
	return nil
}

// LoadGLTFWithTextures loads a GLTF file and extracts embedded textures.
// Returns the mesh and a map of image index to encoded image data.
func LoadGLTFWithTextures(path string) (*TriangleMesh, map[int][]byte, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := NewGLTFLoader().fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	textures := make(map[int][]byte)
	for i, img := range doc.Images {
		if img.BufferView != nil {
			data, err := bufferViewBytes(doc, *img.BufferView)
			if err != nil {
				logging.Logger().Warn("skipping texture", "image", i, "err", err)
				continue
			}
			if data != nil {
				textures[i] = data
			}
		} else if img.URI != "" {
			data, err := os.ReadFile(filepath.Join(filepath.Dir(path), img.URI))
			if err == nil {
				textures[i] = data
			}
		}
	}

	return mesh, textures, nil
}

// bufferViewBytes returns the bytes of buffer view idx, or nil when its buffer
// has no data loaded.
func bufferViewBytes(doc *gltf.Document, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", idx)
	}
	bv := doc.BufferViews[idx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data := doc.Buffers[bv.Buffer].Data
	if data == nil {
		return nil, nil
	}
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(data) {
		return nil, fmt.Errorf("buffer view %d spans [%d,%d) of a %d byte buffer", idx, bv.ByteOffset, end, len(data))
	}
	return data[bv.ByteOffset:end], nil
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// decodable embedded texture, which may be nil.
func LoadGLBWithTexture(path string) (*TriangleMesh, image.Image, error) {
	mesh, textures, err := LoadGLTFWithTextures(path)
	if err != nil {
		return nil, nil, err
	}

	for _, i := range slices.Sorted(maps.Keys(textures)) {
		data := textures[i]
		if len(data) == 0 {
			continue
		}
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return mesh, img, nil
		}
	}
	return mesh, nil, nil
}
