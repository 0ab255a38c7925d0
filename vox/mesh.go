package vox

// Vertex is a mesh corner carrying the normal and palette index of its face.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    uint8
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

type dirSpec struct {
	normal [3]float32
	u, v   int
	du, dv [3]int
}

var directions = []dirSpec{
	{[3]float32{1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{-1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, -1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 0, 1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
	{[3]float32{0, 0, -1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
}

// denseGrid is a flat copy of a model's bounding box, indexed x-fastest.
type denseGrid struct {
	dims  [3]int
	cells []uint8
}

func newDenseGrid(m *Model) *denseGrid {
	b := m.Bounds()
	s := b.Size()
	g := &denseGrid{dims: [3]int{s.X, s.Y, s.Z}, cells: make([]uint8, s.X*s.Y*s.Z)}
	m.Each(func(c Coord, i uint8) {
		x, y, z := c.X-b.Min.X, c.Y-b.Min.Y, c.Z-b.Min.Z
		g.cells[(z*s.Y+y)*s.X+x] = i
	})
	return g
}

func (g *denseGrid) at(pos [3]int) uint8 {
	for a := 0; a < 3; a++ {
		if pos[a] < 0 || pos[a] >= g.dims[a] {
			return 0
		}
	}
	return g.cells[(pos[2]*g.dims[1]+pos[1])*g.dims[0]+pos[0]]
}

func addQuad(mesh *Mesh, dir dirSpec, start [3]int, w, h int, color uint8, perp int) {
	base := [3]float32{}
	base[perp] = float32(start[0])
	if dir.normal[perp] > 0 {
		base[perp] += 1
	}
	base[dir.u] = float32(start[1])
	base[dir.v] = float32(start[2])

	corner := func(hu, wv int) [3]float32 {
		return [3]float32{
			base[0] + float32(dir.du[0]*hu+dir.dv[0]*wv),
			base[1] + float32(dir.du[1]*hu+dir.dv[1]*wv),
			base[2] + float32(dir.du[2]*hu+dir.dv[2]*wv),
		}
	}
	verts := [4]Vertex{
		{Position: base, Normal: dir.normal, Color: color},
		{Position: corner(h, 0), Normal: dir.normal, Color: color},
		{Position: corner(h, w), Normal: dir.normal, Color: color},
		{Position: corner(0, w), Normal: dir.normal, Color: color},
	}

	swap := (dir.normal[perp] < 0) != (perp == 1)
	if swap {
		verts[1], verts[3] = verts[3], verts[1]
	}

	baseIdx := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, verts[:]...)
	mesh.Indices = append(mesh.Indices, baseIdx, baseIdx+1, baseIdx+2, baseIdx, baseIdx+2, baseIdx+3)
}

// GenerateMesh builds a greedy mesh of the visible faces of m. Adjacent faces
// of the same colour in a slice are merged into one rectangle. Positions are
// relative to the minimum corner of the model's bounds.
func GenerateMesh(m *Model) *Mesh {
	mesh := &Mesh{}
	if m.Len() == 0 {
		return mesh
	}
	grid := newDenseGrid(m)
	dims := grid.dims

	for _, dir := range directions {
		perp := 3 - dir.u - dir.v
		mask := make([][]uint8, dims[dir.u])
		visited := make([][]bool, dims[dir.u])
		for i := range mask {
			mask[i] = make([]uint8, dims[dir.v])
			visited[i] = make([]bool, dims[dir.v])
		}

		for p := 0; p < dims[perp]; p++ {
			for u := range mask {
				clear(mask[u])
				clear(visited[u])
			}
			for u := 0; u < dims[dir.u]; u++ {
				for v := 0; v < dims[dir.v]; v++ {
					pos := [3]int{}
					pos[dir.u] = u
					pos[dir.v] = v
					pos[perp] = p

					voxel := grid.at(pos)
					if voxel == 0 {
						continue
					}
					adj := pos
					if dir.normal[perp] < 0 {
						adj[perp] = p - 1
					} else {
						adj[perp] = p + 1
					}
					if grid.at(adj) == 0 {
						mask[u][v] = voxel
					}
				}
			}

			for u := 0; u < dims[dir.u]; u++ {
				for v := 0; v < dims[dir.v]; {
					if mask[u][v] == 0 || visited[u][v] {
						v++
						continue
					}
					color := mask[u][v]
					width := 1
					for w := v + 1; w < dims[dir.v] && mask[u][w] == color && !visited[u][w]; w++ {
						width++
					}
					height := 1
					stop := false
					for h := u + 1; h < dims[dir.u] && !stop; h++ {
						for w := v; w < v+width; w++ {
							if mask[h][w] != color || visited[h][w] {
								stop = true
								break
							}
						}
						if !stop {
							height++
						}
					}
					for hu := u; hu < u+height; hu++ {
						for hv := v; hv < v+width; hv++ {
							visited[hu][hv] = true
						}
					}
					addQuad(mesh, dir, [3]int{p, u, v}, width, height, color, perp)
					v += width
				}
			}
		}
	}
	return mesh
}
