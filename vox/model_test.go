package vox

import (
	"errors"
	"image/color"
	"testing"
)

var (
	red   = color.RGBA{200, 30, 30, 255}
	green = color.RGBA{30, 200, 30, 255}
	blue  = color.RGBA{30, 30, 200, 255}
)

func cube(n int, col color.RGBA) *Model {
	m := NewModel()
	for y := 0; y < n; y++ {
		for z := 0; z < n; z++ {
			for x := 0; x < n; x++ {
				m.SetColor(Coord{x, y, z}, col)
			}
		}
	}
	return m
}

func TestModelSetAndBounds(t *testing.T) {
	m := NewModel()
	if b := m.Bounds(); b != (Box{Max: Coord{1, 1, 1}}) {
		t.Fatalf("empty bounds = %v", b)
	}
	m.SetColor(Coord{2, 3, 4}, red)
	m.SetColor(Coord{-1, 0, 5}, green)
	m.SetColor(Coord{2, 3, 4}, blue)
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if c, _ := m.Color(Coord{2, 3, 4}); c != blue {
		t.Fatalf("overwritten colour = %v, want %v", c, blue)
	}
	want := Box{Min: Coord{-1, 0, 4}, Max: Coord{3, 4, 6}}
	if b := m.Bounds(); b != want {
		t.Fatalf("Bounds = %v, want %v", b, want)
	}
	m.Set(Coord{2, 3, 4}, 0)
	if m.Has(Coord{2, 3, 4}) {
		t.Fatalf("index 0 should delete the voxel")
	}
}

func TestPaletteDedup(t *testing.T) {
	p := NewPalette()
	a := p.Add(red)
	b := p.Add(green)
	if a != 1 || b != 2 {
		t.Fatalf("indices = %d, %d, want 1, 2", a, b)
	}
	if p.Add(red) != a {
		t.Fatalf("re-adding a colour allocated a new slot")
	}
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
}

func TestPaletteOverflowUsesNearest(t *testing.T) {
	p := NewPalette()
	for i := 1; i < PaletteSize; i++ {
		p.Add(color.RGBA{uint8(i), 0, 0, 255})
	}
	if !p.Full() {
		t.Fatalf("palette with %d colours should be full", p.Len())
	}
	i := p.Add(color.RGBA{10, 0, 0, 128})
	if i != 10 {
		t.Fatalf("overflow colour mapped to %d, want 10", i)
	}
	if p.Len() != PaletteSize-1 {
		t.Fatalf("Len = %d after overflow", p.Len())
	}
}

func TestExcavateSolidCube(t *testing.T) {
	m := cube(3, red)
	before := m.Clone()
	if n := Excavate(m); n != 1 {
		t.Fatalf("removed %d voxels, want 1", n)
	}
	if m.Has(Coord{1, 1, 1}) {
		t.Fatalf("centre voxel survived")
	}
	m.Each(func(c Coord, _ uint8) {
		if !before.Has(c) {
			t.Fatalf("voxel %v was not in the input", c)
		}
	})
	if n := Excavate(m); n != 0 {
		t.Fatalf("second pass removed %d voxels", n)
	}
}

func TestExcavateLargeCubeKeepsShell(t *testing.T) {
	m := cube(5, red)
	Excavate(m)
	// 5^3 minus the 3^3 interior
	if m.Len() != 125-27 {
		t.Fatalf("Len = %d, want %d", m.Len(), 125-27)
	}
}

func TestExcavateThinShapes(t *testing.T) {
	m := NewModel()
	for x := 0; x < 10; x++ {
		m.SetColor(Coord{x, 0, 0}, red)
	}
	if n := Excavate(m); n != 0 {
		t.Fatalf("removed %d voxels from a line", n)
	}
}

func TestTransformIdentity(t *testing.T) {
	m := cube(2, red)
	m.SetColor(Coord{5, 0, 1}, green)
	out, err := Transform(m, WayIdentity, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.Fingerprint() != m.Fingerprint() {
		t.Fatalf("identity transform changed the model")
	}
	out.SetColor(Coord{9, 9, 9}, blue)
	if m.Has(Coord{9, 9, 9}) || m.Palette.Len() != 2 {
		t.Fatalf("transform result shares state with its input")
	}
}

func TestTransformSwapIsSelfInverse(t *testing.T) {
	m := NewModel()
	m.SetColor(Coord{1, 2, 3}, red)
	m.SetColor(Coord{7, 0, 0}, green)
	once, err := Transform(m, WaySwapXZ, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !once.Has(Coord{3, 2, 1}) || !once.Has(Coord{0, 0, 7}) {
		t.Fatalf("swap did not exchange X and Z")
	}
	twice, err := Transform(once, WaySwapXZ, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if twice.Fingerprint() != m.Fingerprint() {
		t.Fatalf("swapping twice did not restore the model")
	}
}

func TestTransformScale(t *testing.T) {
	m := NewModel()
	m.SetColor(Coord{1, 0, 0}, red)
	m.SetColor(Coord{0, 0, 0}, green)
	out, err := Transform(m, WayIdentity, 2)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.Len() != 16 {
		t.Fatalf("Len = %d, want 16", out.Len())
	}
	for _, c := range []Coord{{2, 0, 0}, {3, 1, 1}, {2, 1, 0}} {
		if col, _ := out.Color(c); col != red {
			t.Fatalf("voxel %v = %v, want red", c, col)
		}
	}
	if col, _ := out.Color(Coord{1, 1, 1}); col != green {
		t.Fatalf("voxel (1,1,1) = %v, want green", col)
	}
}

func TestTransformCapacity(t *testing.T) {
	m := NewModel()
	m.SetColor(Coord{0, 0, 0}, red)
	m.SetColor(Coord{127, 0, 0}, red)
	if _, err := Transform(m, WayIdentity, 2); err != nil {
		t.Fatalf("128*2 should fit: %v", err)
	}
	if _, err := Transform(m, WayIdentity, 3); !errors.Is(err, ErrCapacity) {
		t.Fatalf("err = %v, want ErrCapacity", err)
	}
}

func TestTransformArguments(t *testing.T) {
	m := cube(1, red)
	if _, err := Transform(m, 2, 1); !errors.Is(err, ErrArgument) {
		t.Fatalf("way 2: err = %v, want ErrArgument", err)
	}
	if _, err := Transform(m, WayIdentity, 0); !errors.Is(err, ErrArgument) {
		t.Fatalf("scale 0: err = %v, want ErrArgument", err)
	}
}

func TestPartitionCoversModel(t *testing.T) {
	m := cube(10, red)
	m.SetColor(Coord{30, 0, 0}, green)
	boxes := PartitionModel(m, 100)
	if len(boxes) < 11 {
		t.Fatalf("got %d boxes for 1001 voxels at limit 100", len(boxes))
	}
	total := 0
	for _, b := range boxes {
		n := m.CountIn(b)
		if n == 0 || n > 100 {
			t.Fatalf("box %v holds %d voxels", b, n)
		}
		total += n
	}
	if total != m.Len() {
		t.Fatalf("boxes hold %d voxels, model has %d", total, m.Len())
	}
	m.Each(func(c Coord, _ uint8) {
		hits := 0
		for _, b := range boxes {
			if b.Contains(c) {
				hits++
			}
		}
		if hits != 1 {
			t.Fatalf("voxel %v is in %d boxes", c, hits)
		}
	})
}

func TestPartitionSingleBox(t *testing.T) {
	m := cube(4, red)
	boxes := PartitionModel(m, DefaultMaxChunkVoxels)
	if len(boxes) != 1 || boxes[0] != m.Bounds() {
		t.Fatalf("boxes = %v, want the model bounds", boxes)
	}
	empty := Partition(Box{Max: Coord{1, 1, 1}}, func(Box) int { return 0 }, 10)
	if len(empty) != 1 {
		t.Fatalf("empty partition returned %d boxes", len(empty))
	}
}

func TestMortonRoundTrip(t *testing.T) {
	for _, c := range [][3]uint32{{0, 0, 0}, {1, 2, 3}, {255, 0, 17}, {100, 200, 255}} {
		x, y, z := MortonDecode3D64(Morton3D64(c[0], c[1], c[2]))
		if x != c[0] || y != c[1] || z != c[2] {
			t.Fatalf("decode(encode(%v)) = %d %d %d", c, x, y, z)
		}
	}
}

func TestFingerprintIgnoresPaletteLayout(t *testing.T) {
	a := NewModel()
	a.SetColor(Coord{0, 0, 0}, red)
	a.SetColor(Coord{1, 0, 0}, green)
	b := NewModel()
	b.SetColor(Coord{1, 0, 0}, green)
	b.SetColor(Coord{0, 0, 0}, red)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ for equal models")
	}
	b.SetColor(Coord{0, 0, 0}, blue)
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("fingerprints equal for different colours")
	}
}

func TestGenerateMeshCube(t *testing.T) {
	m := cube(2, red)
	mesh := GenerateMesh(m)
	// one merged quad per face
	if len(mesh.Vertices) != 6*4 || len(mesh.Indices) != 6*6 {
		t.Fatalf("mesh has %d vertices, %d indices", len(mesh.Vertices), len(mesh.Indices))
	}
	if len(GenerateMesh(NewModel()).Indices) != 0 {
		t.Fatalf("empty model produced triangles")
	}
}
