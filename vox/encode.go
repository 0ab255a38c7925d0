package vox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"sort"
)

// chunkBuffer accumulates little-endian chunk content.
type chunkBuffer struct {
	bytes.Buffer
}

func (b *chunkBuffer) int32(v int32) {
	_ = binary.Write(b, binary.LittleEndian, v)
}

func (b *chunkBuffer) str(s string) {
	b.int32(int32(len(s)))
	b.WriteString(s)
}

func (b *chunkBuffer) dict(d Dict) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.int32(int32(len(keys)))
	for _, k := range keys {
		b.str(k)
		b.str(d[k])
	}
}

// writeChunk appends a complete chunk with the given content and children.
func writeChunk(dst *bytes.Buffer, id string, content, children []byte) {
	dst.WriteString(id)
	_ = binary.Write(dst, binary.LittleEndian, uint32(len(content)))
	_ = binary.Write(dst, binary.LittleEndian, uint32(len(children)))
	dst.Write(content)
	dst.Write(children)
}

// toFileAxes converts a model coordinate (Y up) into .vox axes (Z up).
func toFileAxes(c Coord) Coord { return Coord{c.X, c.Z, c.Y} }

// fromFileAxes is the inverse of toFileAxes.
func fromFileAxes(c Coord) Coord { return Coord{c.X, c.Z, c.Y} }

func encodeSize(size Coord) []byte {
	var b chunkBuffer
	s := toFileAxes(size)
	b.int32(int32(s.X))
	b.int32(int32(s.Y))
	b.int32(int32(s.Z))
	return b.Bytes()
}

// encodeXYZI writes voxels relative to origin. Every local coordinate must
// fit in a byte.
func encodeXYZI(vs []Voxel, origin Coord) []byte {
	var b chunkBuffer
	b.int32(int32(len(vs)))
	for _, v := range vs {
		l := toFileAxes(Coord{v.X - origin.X, v.Y - origin.Y, v.Z - origin.Z})
		b.Write([]byte{byte(l.X), byte(l.Y), byte(l.Z), v.Index})
	}
	return b.Bytes()
}

// encodeRGBA writes the 256 palette entries; file entry k holds colour index
// k+1 and the last entry is always transparent.
func encodeRGBA(p *Palette) []byte {
	var b chunkBuffer
	for k := 0; k < PaletteSize; k++ {
		var c color.RGBA
		if k+1 < PaletteSize {
			c = p.At(uint8(k + 1))
		}
		b.Write([]byte{c.R, c.G, c.B, c.A})
	}
	return b.Bytes()
}

func encodeTransform(id int32, attrs Dict, child int32, layer int32, frame Dict) []byte {
	var b chunkBuffer
	b.int32(id)
	b.dict(attrs)
	b.int32(child)
	b.int32(-1) // reserved
	b.int32(layer)
	b.int32(1)
	b.dict(frame)
	return b.Bytes()
}

func encodeGroup(id int32, children []int32) []byte {
	var b chunkBuffer
	b.int32(id)
	b.dict(nil)
	b.int32(int32(len(children)))
	for _, c := range children {
		b.int32(c)
	}
	return b.Bytes()
}

func encodeShape(id int32, model int32) []byte {
	var b chunkBuffer
	b.int32(id)
	b.dict(nil)
	b.int32(1)
	b.int32(model)
	b.dict(nil)
	return b.Bytes()
}

// groupCentre is the translation MagicaVoxel expects for a shape: the centre
// of its box in file axes, rounded down.
func groupCentre(box Box) Coord {
	lo, size := toFileAxes(box.Min), toFileAxes(box.Size())
	return Coord{lo.X + size.X/2, lo.Y + size.Y/2, lo.Z + size.Z/2}
}

func formatTranslation(c Coord) string {
	return fmt.Sprintf("%d %d %d", c.X, c.Y, c.Z)
}
