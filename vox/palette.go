package vox

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of slots in a .vox palette. Slot 0 means "no voxel".
const PaletteSize = 256

// Palette maps colour indices 1..255 to RGBA colours. Adding a colour that is
// already present returns its index. When all 255 slots are taken, new colours
// resolve to the nearest existing entry in CIE-Lab space, lowest index first
// on ties.
type Palette struct {
	colors [PaletteSize]color.RGBA
	n      int // highest used slot
	used   int // slots holding a colour, excluding slot 0
	set    [PaletteSize]bool
	index  map[color.RGBA]uint8
	lab    [PaletteSize]colorful.Color
}

func NewPalette() *Palette {
	return &Palette{index: make(map[color.RGBA]uint8)}
}

// Len returns the number of slots holding a colour. Palettes loaded from a
// file may leave gaps, so Len can be lower than the highest used index.
func (p *Palette) Len() int { return p.used }

// Full reports whether every usable slot is taken.
func (p *Palette) Full() bool { return p.n == PaletteSize-1 }

// At returns the colour at index i. Index 0 is transparent black.
func (p *Palette) At(i uint8) color.RGBA { return p.colors[i] }

// Colors returns a copy of all 256 slots.
func (p *Palette) Colors() [PaletteSize]color.RGBA { return p.colors }

// Add returns the index for col, allocating a slot if one is free.
func (p *Palette) Add(col color.RGBA) uint8 {
	if i, ok := p.index[col]; ok {
		return i
	}
	if p.Full() {
		i := p.Nearest(col)
		p.index[col] = i
		return i
	}
	p.n++
	i := uint8(p.n)
	p.used++
	p.set[i] = true
	p.colors[i] = col
	p.lab[i] = toColorful(col)
	p.index[col] = i
	return i
}

// SetAt places col at slot i directly, used when loading a palette from a
// file. Slot 0 is ignored.
func (p *Palette) SetAt(i uint8, col color.RGBA) {
	if i == 0 {
		return
	}
	if !p.set[i] {
		p.set[i] = true
		p.used++
	}
	p.colors[i] = col
	p.lab[i] = toColorful(col)
	if _, ok := p.index[col]; !ok {
		p.index[col] = i
	}
	if int(i) > p.n {
		p.n = int(i)
	}
}

// Nearest returns the used index whose colour is closest to col.
func (p *Palette) Nearest(col color.RGBA) uint8 {
	if p.n == 0 {
		return 0
	}
	target := toColorful(col)
	best := uint8(1)
	bestD := math.Inf(1)
	for i := 1; i <= p.n; i++ {
		if !p.set[i] {
			continue
		}
		d := target.DistanceLab(p.lab[i])
		if d < bestD {
			bestD = d
			best = uint8(i)
		}
	}
	return best
}

func (p *Palette) Clone() *Palette {
	out := &Palette{colors: p.colors, n: p.n, used: p.used, set: p.set, lab: p.lab, index: make(map[color.RGBA]uint8, len(p.index))}
	for c, i := range p.index {
		out.index[c] = i
	}
	return out
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
