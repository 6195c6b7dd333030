package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/hares/pkg/math3d"
)

// ErrNothingToExport is returned by SaveGLB when no node carries geometry.
var ErrNothingToExport = errors.New("no meshes to export")

// GLTFLoader loads GLTF/GLB files into Mesh format.
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
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns all of its meshes merged into one.
// Node transforms are applied so the merged mesh matches the exported scene.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	for _, mat := range doc.Materials {
		mesh.Materials = append(mesh.Materials, readMaterial(mat))
	}

	placed := make(map[int]bool)
	for _, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		t := node.Translation
		transform := math3d.Translate(math3d.V3(t[0], t[1], t[2]))
		m := doc.Meshes[*node.Mesh]
		if err := l.processMesh(doc, m, mesh, transform); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		placed[*node.Mesh] = true
	}

	// Meshes not referenced by any node are loaded untransformed
	for i, m := range doc.Meshes {
		if placed[i] {
			continue
		}
		if err := l.processMesh(doc, m, mesh, math3d.Identity()); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}

	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()

	return mesh, nil
}

func readMaterial(mat *gltf.Material) Material {
	out := Material{Name: mat.Name, BaseColor: [4]float64{1, 1, 1, 1}}
	if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		out.BaseColor = *pbr.BaseColorFactor
	}
	out.Emissive = mat.EmissiveFactor
	return out
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, transform math3d.Mat4) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		baseVertex := len(mesh.Vertices)

		for i := range positions {
			v := MeshVertex{
				Position: transform.MulVec3(positions[i]),
			}
			if i < len(normals) {
				v.Normal = transform.MulVec3Dir(normals[i]).Normalize()
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// GLTF is counter-clockwise; AddTriangle stores the reversed winding
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.AddTriangle(baseVertex+indices[i], baseVertex+indices[i+1], baseVertex+indices[i+2])
			mesh.Faces[len(mesh.Faces)-1].Material = material
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](in []T) []int {
	out := make([]int, len(in))
	for i, x := range in {
		out[i] = int(x)
	}
	return out
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	// Embedded GLB and data-URI buffers are decoded on open; external files are not
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer %d has no data", bufferView.Buffer)
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// ExportNode is one placed mesh in an exported scene.
type ExportNode struct {
	Name        string
	Mesh        *Mesh
	Translation math3d.Vec3
	Material    Material
}

// BuildDocument converts nodes into a glTF document with one mesh, material
// and node per entry. Nodes without geometry are skipped.
func BuildDocument(nodes []ExportNode) (*gltf.Document, error) {
	doc := gltf.NewDocument()

	for _, n := range nodes {
		if n.Mesh == nil || n.Mesh.TriangleCount() == 0 {
			continue
		}

		positions := make([][3]float32, len(n.Mesh.Vertices))
		normals := make([][3]float32, len(n.Mesh.Vertices))
		for i, v := range n.Mesh.Vertices {
			positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
			normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
		}

		indices := make([]uint32, 0, n.Mesh.TriangleCount()*3)
		for i := range n.Mesh.Faces {
			for _, vi := range n.Mesh.CCW(i) {
				indices = append(indices, uint32(vi))
			}
		}

		color := n.Material.BaseColor
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: n.Material.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &color,
			},
			EmissiveFactor: n.Material.Emissive,
		})
		materialIdx := len(doc.Materials) - 1

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: n.Name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: gltf.PrimitiveAttributes{
					gltf.POSITION: modeler.WritePosition(doc, positions),
					gltf.NORMAL:   modeler.WriteNormal(doc, normals),
				},
				Material: gltf.Index(materialIdx),
			}},
		})

		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        n.Name,
			Mesh:        gltf.Index(len(doc.Meshes) - 1),
			Translation: [3]float64{n.Translation.X, n.Translation.Y, n.Translation.Z},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if len(doc.Meshes) == 0 {
		return nil, ErrNothingToExport
	}
	return doc, nil
}

// SaveGLB writes nodes as a binary glTF file.
func SaveGLB(path string, nodes []ExportNode) error {
	doc, err := BuildDocument(nodes)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}
