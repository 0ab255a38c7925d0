package utils

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/voxelsplace/schem2vox/vox"
)

// RunVOX2GLB converts a .vox file into a binary glTF preview.
func RunVOX2GLB(inPath, outPath string) error {
	f, err := vox.ReadFile(inPath)
	if err != nil {
		return err
	}
	doc := MeshDocument(f.Model())
	if err := gltf.SaveBinary(doc, outPath); err != nil {
		return fmt.Errorf("%w: save %s: %w", vox.ErrIO, outPath, err)
	}
	return nil
}

// EncodeGLB returns the binary glTF encoding of m's greedy mesh.
func EncodeGLB(m *vox.Model) ([]byte, error) {
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(MeshDocument(m)); err != nil {
		return nil, fmt.Errorf("encode glb: %w", err)
	}
	return out.Bytes(), nil
}

// MeshDocument builds a glTF document holding one mesh node for m. Vertex
// colours come from the model palette.
func MeshDocument(m *vox.Model) *gltf.Document {
	mesh := vox.GenerateMesh(m)

	doc := gltf.NewDocument()
	doc.Asset.Generator = "schem2vox"
	if len(mesh.Indices) == 0 {
		return doc
	}

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]uint8, len(mesh.Vertices))
	hasAlpha := false
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		c := m.Palette.At(v.Color)
		colors[i] = [4]uint8{c.R, c.G, c.B, c.A}
		if c.A < 255 {
			hasAlpha = true
		}
	}

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			gltf.COLOR_0:  modeler.WriteColor(doc, colors),
		},
		Indices:  gltf.Index(modeler.WriteIndices(doc, mesh.Indices)),
		Material: gltf.Index(0),
	}

	material := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}
	doc.Meshes = []*gltf.Mesh{{Name: "VoxModel", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}
