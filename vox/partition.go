package vox

// DefaultMaxChunkVoxels is the default voxel ceiling for a single shape.
const DefaultMaxChunkVoxels = 126 * 126 * 126

// Partition splits box into non-overlapping sub-boxes that together cover it,
// such that count(sub) <= limit for each one. Boxes are halved along their
// longest axis until they fit; a unit box is never split. Boxes holding no
// voxels are dropped, but at least one box is always returned.
func Partition(box Box, count func(Box) int, limit int) []Box {
	if limit < 1 {
		limit = 1
	}
	var out []Box
	var split func(b Box, n int)
	split = func(b Box, n int) {
		if n == 0 {
			return
		}
		size := b.Size()
		if n <= limit || (size.X <= 1 && size.Y <= 1 && size.Z <= 1) {
			out = append(out, b)
			return
		}
		lo, hi := b, b
		switch {
		case size.X >= size.Y && size.X >= size.Z:
			mid := b.Min.X + size.X/2
			lo.Max.X, hi.Min.X = mid, mid
		case size.Y >= size.Z:
			mid := b.Min.Y + size.Y/2
			lo.Max.Y, hi.Min.Y = mid, mid
		default:
			mid := b.Min.Z + size.Z/2
			lo.Max.Z, hi.Min.Z = mid, mid
		}
		nlo := count(lo)
		split(lo, nlo)
		split(hi, n-nlo)
	}
	split(box, count(box))
	if len(out) == 0 {
		out = append(out, box)
	}
	return out
}

// PartitionModel partitions the bounds of m by voxel count.
func PartitionModel(m *Model, limit int) []Box {
	return Partition(m.Bounds(), m.CountIn, limit)
}
