package vox

import "fmt"

// Ways accepted by Transform.
const (
	WayIdentity = 0
	WaySwapXZ   = 1
)

// Remap applies the axis permutation selected by way to c.
func Remap(c Coord, way int) Coord {
	if way == WaySwapXZ {
		return Coord{c.Z, c.Y, c.X}
	}
	return c
}

// Transform returns a new model with way applied to every coordinate and each
// voxel expanded into a scale×scale×scale block of the same colour. The input
// model is left untouched.
func Transform(m *Model, way, scale int) (*Model, error) {
	if way != WayIdentity && way != WaySwapXZ {
		return nil, fmt.Errorf("%w: way must be 0 or 1, got %d", ErrArgument, way)
	}
	if scale < 1 {
		return nil, fmt.Errorf("%w: scale must be positive, got %d", ErrArgument, scale)
	}
	if m.Len() > 0 {
		size := m.Bounds().Size()
		if size.X*scale > MaxSize || size.Y*scale > MaxSize || size.Z*scale > MaxSize {
			return nil, fmt.Errorf("%w: extent %dx%dx%d at scale %d exceeds %d",
				ErrCapacity, size.X, size.Y, size.Z, scale, MaxSize)
		}
	}

	if way == WayIdentity && scale == 1 {
		return m.Clone(), nil
	}

	out := &Model{voxels: make(map[Coord]uint8, m.Len()*scale*scale*scale), Palette: m.Palette.Clone()}
	for c, i := range m.voxels {
		r := Remap(c, way)
		if scale == 1 {
			out.voxels[r] = i
			continue
		}
		base := Coord{r.X * scale, r.Y * scale, r.Z * scale}
		for dy := 0; dy < scale; dy++ {
			for dz := 0; dz < scale; dz++ {
				for dx := 0; dx < scale; dx++ {
					out.voxels[base.Add(Coord{dx, dy, dz})] = i
				}
			}
		}
	}
	return out, nil
}
