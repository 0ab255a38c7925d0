package vox

import (
	"image/color"
	"sort"
)

// MaxSize is the largest extent a .vox model may have along any axis.
const MaxSize = 256

// Coord is a voxel position. Y is the vertical axis.
type Coord struct {
	X, Y, Z int
}

func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// Box is an axis aligned region, Min inclusive and Max exclusive.
type Box struct {
	Min, Max Coord
}

// Size returns the extent of the box along each axis.
func (b Box) Size() Coord {
	return Coord{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

func (b Box) Empty() bool {
	s := b.Size()
	return s.X <= 0 || s.Y <= 0 || s.Z <= 0
}

func (b Box) Contains(c Coord) bool {
	return c.X >= b.Min.X && c.X < b.Max.X &&
		c.Y >= b.Min.Y && c.Y < b.Max.Y &&
		c.Z >= b.Min.Z && c.Z < b.Max.Z
}

// Voxel pairs a coordinate with its palette index.
type Voxel struct {
	Coord
	Index uint8
}

// Model is a sparse set of coloured unit cubes. Index 0 is never stored.
type Model struct {
	voxels  map[Coord]uint8
	Palette *Palette
}

func NewModel() *Model {
	return &Model{voxels: make(map[Coord]uint8), Palette: NewPalette()}
}

// Len returns the number of stored voxels.
func (m *Model) Len() int { return len(m.voxels) }

// Set stores a voxel with the given palette index. Index 0 removes it.
func (m *Model) Set(c Coord, index uint8) {
	if index == 0 {
		delete(m.voxels, c)
		return
	}
	m.voxels[c] = index
}

// SetColor stores a voxel, allocating a palette entry for col if needed.
func (m *Model) SetColor(c Coord, col color.RGBA) {
	m.Set(c, m.Palette.Add(col))
}

func (m *Model) Get(c Coord) (uint8, bool) {
	i, ok := m.voxels[c]
	return i, ok
}

func (m *Model) Has(c Coord) bool {
	_, ok := m.voxels[c]
	return ok
}

func (m *Model) Delete(c Coord) { delete(m.voxels, c) }

// Color returns the RGBA colour of the voxel at c.
func (m *Model) Color(c Coord) (color.RGBA, bool) {
	i, ok := m.Get(c)
	if !ok {
		return color.RGBA{}, false
	}
	return m.Palette.At(i), true
}

// Each calls fn for every voxel in unspecified order.
func (m *Model) Each(fn func(c Coord, index uint8)) {
	for c, i := range m.voxels {
		fn(c, i)
	}
}

// Voxels returns all voxels sorted by (Y, Z, X).
func (m *Model) Voxels() []Voxel {
	out := make([]Voxel, 0, len(m.voxels))
	for c, i := range m.voxels {
		out = append(out, Voxel{Coord: c, Index: i})
	}
	sort.Slice(out, func(a, b int) bool {
		va, vb := out[a], out[b]
		if va.Y != vb.Y {
			return va.Y < vb.Y
		}
		if va.Z != vb.Z {
			return va.Z < vb.Z
		}
		return va.X < vb.X
	})
	return out
}

// Bounds returns the tight bounding box of the stored voxels. An empty model
// has a 1x1x1 box at the origin.
func (m *Model) Bounds() Box {
	if len(m.voxels) == 0 {
		return Box{Max: Coord{1, 1, 1}}
	}
	first := true
	var b Box
	for c := range m.voxels {
		if first {
			b = Box{Min: c, Max: c.Add(Coord{1, 1, 1})}
			first = false
			continue
		}
		b.Min.X = min(b.Min.X, c.X)
		b.Min.Y = min(b.Min.Y, c.Y)
		b.Min.Z = min(b.Min.Z, c.Z)
		b.Max.X = max(b.Max.X, c.X+1)
		b.Max.Y = max(b.Max.Y, c.Y+1)
		b.Max.Z = max(b.Max.Z, c.Z+1)
	}
	return b
}

// CountIn returns how many voxels fall inside b.
func (m *Model) CountIn(b Box) int {
	n := 0
	for c := range m.voxels {
		if b.Contains(c) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy with its own palette.
func (m *Model) Clone() *Model {
	out := &Model{voxels: make(map[Coord]uint8, len(m.voxels)), Palette: m.Palette.Clone()}
	for c, i := range m.voxels {
		out.voxels[c] = i
	}
	return out
}
