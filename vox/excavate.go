package vox

// faceNeighbours are the six axis-aligned offsets of a voxel's faces.
var faceNeighbours = [6]Coord{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Excavate removes every voxel whose six face neighbours are all occupied.
// Decisions are taken against the occupancy before the pass, so the result
// does not depend on iteration order. It returns the number of removed voxels.
func Excavate(m *Model) int {
	var hidden []Coord
	for c := range m.voxels {
		if enclosed(m, c) {
			hidden = append(hidden, c)
		}
	}
	for _, c := range hidden {
		m.Delete(c)
	}
	return len(hidden)
}

func enclosed(m *Model, c Coord) bool {
	for _, d := range faceNeighbours {
		if !m.Has(c.Add(d)) {
			return false
		}
	}
	return true
}
