package vox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func roundTrip(t *testing.T, m *Model, opts WriteOptions) (*File, *Model) {
	t.Helper()
	data, err := Marshal(m, opts)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	f, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return f, f.Model()
}

func TestWriteReadRoundTrip(t *testing.T) {
	m := cube(3, red)
	m.SetColor(Coord{0, 3, 0}, green)
	m.SetColor(Coord{2, 5, 1}, blue)

	f, got := roundTrip(t, m, WriteOptions{})
	if f.Version != Version {
		t.Fatalf("Version = %d", f.Version)
	}
	if len(f.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(f.Shapes))
	}
	if got.Len() != m.Len() || got.Fingerprint() != m.Fingerprint() {
		t.Fatalf("read-back differs: %d voxels vs %d", got.Len(), m.Len())
	}
}

func TestWriteUsesZUp(t *testing.T) {
	m := NewModel()
	m.SetColor(Coord{0, 0, 0}, red)
	m.SetColor(Coord{0, 5, 0}, green)
	f, _ := roundTrip(t, m, WriteOptions{})
	if s := f.Shapes[0].Size; s != (Coord{1, 1, 6}) {
		t.Fatalf("SIZE = %v, want 1x1x6", s)
	}
	found := false
	for _, v := range f.Shapes[0].Voxels {
		if v.Coord == (Coord{0, 0, 5}) {
			found = true
			if f.Palette[v.Index] != green {
				t.Fatalf("top voxel colour = %v", f.Palette[v.Index])
			}
		}
	}
	if !found {
		t.Fatalf("model Y=5 was not written as file Z=5: %v", f.Shapes[0].Voxels)
	}
}

func TestWriteEmptyModel(t *testing.T) {
	f, got := roundTrip(t, NewModel(), WriteOptions{})
	if len(f.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(f.Shapes))
	}
	if s := f.Shapes[0]; s.Size != (Coord{1, 1, 1}) || len(s.Voxels) != 0 {
		t.Fatalf("shape = %+v, want empty 1x1x1", s)
	}
	for i, c := range f.Palette {
		if c != (color.RGBA{}) {
			t.Fatalf("palette entry %d = %v, want transparent", i, c)
		}
	}
	if got.Len() != 0 {
		t.Fatalf("read back %d voxels", got.Len())
	}
}

func TestWritePartitionedModel(t *testing.T) {
	m := cube(10, red)
	for x := 0; x < 10; x++ {
		m.SetColor(Coord{x, 9, 9}, green)
	}
	f, got := roundTrip(t, m, WriteOptions{MaxChunkVoxels: 100})
	if len(f.Shapes) < 10 {
		t.Fatalf("got %d shapes, want at least 10", len(f.Shapes))
	}
	for i, s := range f.Shapes {
		if len(s.Voxels) > 100 {
			t.Fatalf("shape %d holds %d voxels", i, len(s.Voxels))
		}
	}
	if len(f.Translations) != len(f.Shapes) {
		t.Fatalf("%d translations for %d shapes", len(f.Translations), len(f.Shapes))
	}
	if got.Fingerprint() != m.Fingerprint() {
		t.Fatalf("union of shapes differs from the model")
	}
}

func TestWriteAppliesWayAndScale(t *testing.T) {
	m := NewModel()
	m.SetColor(Coord{0, 0, 0}, red)
	m.SetColor(Coord{3, 1, 0}, green)
	want, err := Transform(m, WaySwapXZ, 2)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	_, got := roundTrip(t, m, WriteOptions{Way: WaySwapXZ, Scale: 2})
	if got.Fingerprint() != want.Fingerprint() {
		t.Fatalf("written model differs from the transformed model")
	}
}

func TestWriteKeepsAbsolutePosition(t *testing.T) {
	m := NewModel()
	m.SetColor(Coord{0, 5, 0}, red)
	m.SetColor(Coord{1, 6, 0}, green)
	m.SetColor(Coord{-3, 7, 40}, blue)

	for _, limit := range []int{0, 1} {
		_, got := roundTrip(t, m, WriteOptions{MaxChunkVoxels: limit})
		if got.Len() != m.Len() {
			t.Fatalf("limit %d: read back %d voxels, want %d", limit, got.Len(), m.Len())
		}
		m.Each(func(c Coord, _ uint8) {
			want, _ := m.Color(c)
			if col, ok := got.Color(c); !ok || col != want {
				t.Fatalf("limit %d: voxel %v read back as %v, %v", limit, c, col, ok)
			}
		})
		if got.Has(Coord{0, 0, 0}) {
			t.Fatalf("limit %d: model was moved to the origin", limit)
		}
	}
}

func TestReadPaletteCountsUsedColors(t *testing.T) {
	m := NewModel()
	m.Palette.SetAt(200, red)
	m.Set(Coord{}, 200)
	_, got := roundTrip(t, m, WriteOptions{})
	if got.Len() != 1 || got.Palette.Len() != 1 {
		t.Fatalf("read back %d voxels and %d colours, want 1 and 1", got.Len(), got.Palette.Len())
	}
	if c, _ := got.Color(Coord{}); c != red {
		t.Fatalf("colour = %v, want %v", c, red)
	}
	if i := got.Palette.Add(green); i != 201 {
		t.Fatalf("next free slot = %d, want 201", i)
	}
}

func TestWriteKeepsFullPalette(t *testing.T) {
	m := NewModel()
	for i := 0; i < PaletteSize-1; i++ {
		m.SetColor(Coord{X: i % 16, Y: i / 16}, color.RGBA{uint8(i), uint8(255 - i), 7, 255})
	}
	_, got := roundTrip(t, m, WriteOptions{})
	if got.Palette.Len() != PaletteSize-1 || got.Fingerprint() != m.Fingerprint() {
		t.Fatalf("read back %d colours, fingerprint match %v", got.Palette.Len(), got.Fingerprint() == m.Fingerprint())
	}
}

func TestWriteCapacity(t *testing.T) {
	m := NewModel()
	m.SetColor(Coord{0, 0, 0}, red)
	m.SetColor(Coord{200, 0, 0}, red)
	if _, err := Marshal(m, WriteOptions{Scale: 2}); !IsCapacity(err) {
		t.Fatalf("err = %v, want ErrCapacity", err)
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.vox")
	m := cube(2, blue)
	if err := WriteFile(path, m, WayIdentity, 1); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Model().Fingerprint() != m.Fingerprint() {
		t.Fatalf("file content differs from the model")
	}

	bad := filepath.Join(t.TempDir(), "missing", "model.vox")
	if err := WriteFile(bad, m, WayIdentity, 1); !errors.Is(err, ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.vox"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func voxFile(chunks func(b *bytes.Buffer)) []byte {
	var out bytes.Buffer
	out.WriteString(Magic)
	_ = binary.Write(&out, binary.LittleEndian, int32(Version))
	chunks(&out)
	return out.Bytes()
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"bad magic", []byte("VOX!\x96\x00\x00\x00")},
		{"short", []byte("VOX ")},
		{"top-level tag", voxFile(func(b *bytes.Buffer) {
			writeChunk(b, "PACK", make([]byte, 4), nil)
		})},
		{"trailing chunk", voxFile(func(b *bytes.Buffer) {
			writeChunk(b, chunkMain, nil, nil)
			writeChunk(b, chunkMain, nil, nil)
		})},
		{"size chunk length", voxFile(func(b *bytes.Buffer) {
			var kids bytes.Buffer
			writeChunk(&kids, chunkSize, make([]byte, 8), nil)
			writeChunk(b, chunkMain, nil, kids.Bytes())
		})},
		{"xyzi count", voxFile(func(b *bytes.Buffer) {
			var kids bytes.Buffer
			writeChunk(&kids, chunkSize, encodeSize(Coord{1, 1, 1}), nil)
			writeChunk(&kids, chunkXYZI, []byte{2, 0, 0, 0, 0, 0, 0, 1}, nil)
			writeChunk(b, chunkMain, nil, kids.Bytes())
		})},
		{"xyzi without size", voxFile(func(b *bytes.Buffer) {
			var kids bytes.Buffer
			writeChunk(&kids, chunkXYZI, []byte{0, 0, 0, 0}, nil)
			writeChunk(b, chunkMain, nil, kids.Bytes())
		})},
		{"rgba length", voxFile(func(b *bytes.Buffer) {
			var kids bytes.Buffer
			writeChunk(&kids, chunkRGBA, make([]byte, 16), nil)
			writeChunk(b, chunkMain, nil, kids.Bytes())
		})},
	}
	for _, tc := range tests {
		if _, err := Unmarshal(tc.data); !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: err = %v, want ErrFormat", tc.name, err)
		}
	}
}

func TestUnmarshalOverrunningChunk(t *testing.T) {
	data, err := Marshal(cube(2, red), WriteOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// MAIN children size sits at bytes 16..20
	binary.LittleEndian.PutUint32(data[16:], uint32(len(data)))
	if _, err := Unmarshal(data); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestUnmarshalSkipsUnknownChunks(t *testing.T) {
	data := voxFile(func(b *bytes.Buffer) {
		var kids bytes.Buffer
		writeChunk(&kids, "NOTE", []byte("hello"), nil)
		writeChunk(&kids, chunkSize, encodeSize(Coord{1, 1, 1}), nil)
		writeChunk(&kids, chunkXYZI, []byte{1, 0, 0, 0, 0, 0, 0, 1}, nil)
		writeChunk(b, chunkMain, nil, kids.Bytes())
	})
	f, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(f.Shapes) != 1 || f.VoxelCount() != 1 {
		t.Fatalf("got %d shapes, %d voxels", len(f.Shapes), f.VoxelCount())
	}
}

func TestWriteFileOntoDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.vox")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	err := WriteFile(path, cube(1, red), WayIdentity, 1)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}
