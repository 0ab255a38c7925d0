package vox

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Shape is one SIZE/XYZI pair as stored in the file, in file axes (Z up)
// and with coordinates local to the shape.
type Shape struct {
	Size   Coord
	Voxels []Voxel
}

// File is the parsed content of a .vox file.
type File struct {
	Version int
	Shapes  []Shape
	// Palette is indexed by colour index; slot 0 is unused.
	Palette [PaletteSize]color.RGBA
	// Translations holds the accumulated scene graph translation of each
	// shape, in file axes, keyed by shape index.
	Translations map[int]Coord
}

// ReadFile parses the .vox file at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return Unmarshal(data)
}

// Unmarshal parses a .vox file held in memory.
func Unmarshal(data []byte) (*File, error) {
	if len(data) < 8 || string(data[:4]) != Magic {
		return nil, fmt.Errorf("%w: not a .vox file", ErrFormat)
	}
	file := &File{
		Version:      int(int32(binary.LittleEndian.Uint32(data[4:8]))),
		Translations: make(map[int]Coord),
	}
	h, _, children, rest, err := readChunk(data[8:])
	if err != nil {
		return nil, err
	}
	if h.ID != chunkMain {
		return nil, fmt.Errorf("%w: unrecognized top-level chunk %q", ErrFormat, h.ID)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d bytes after MAIN chunk", ErrFormat, len(rest))
	}

	g := sceneGraph{
		transforms: make(map[int32]transformNode),
		groups:     make(map[int32][]int32),
		shapes:     make(map[int32][]int32),
	}
	var pendingSize *Coord
	for len(children) > 0 {
		h, content, _, next, err := readChunk(children)
		if err != nil {
			return nil, err
		}
		children = next
		switch h.ID {
		case chunkSize:
			if len(content) != 12 {
				return nil, fmt.Errorf("%w: SIZE chunk has %d bytes", ErrFormat, len(content))
			}
			s := Coord{
				int(int32(binary.LittleEndian.Uint32(content[0:]))),
				int(int32(binary.LittleEndian.Uint32(content[4:]))),
				int(int32(binary.LittleEndian.Uint32(content[8:]))),
			}
			pendingSize = &s
		case chunkXYZI:
			if pendingSize == nil {
				return nil, fmt.Errorf("%w: XYZI chunk without SIZE", ErrFormat)
			}
			vs, err := decodeXYZI(content)
			if err != nil {
				return nil, err
			}
			file.Shapes = append(file.Shapes, Shape{Size: *pendingSize, Voxels: vs})
			pendingSize = nil
		case chunkRGBA:
			if len(content) != 4*PaletteSize {
				return nil, fmt.Errorf("%w: RGBA chunk has %d bytes", ErrFormat, len(content))
			}
			for k := 0; k+1 < PaletteSize; k++ {
				o := 4 * k
				file.Palette[k+1] = color.RGBA{content[o], content[o+1], content[o+2], content[o+3]}
			}
		case chunkTrans, chunkGroup, chunkShape:
			if err := g.add(h.ID, content); err != nil {
				return nil, err
			}
		}
	}
	g.resolve(file)
	return file, nil
}

// readChunk splits one chunk off the front of b.
func readChunk(b []byte) (h chunkHeader, content, children, rest []byte, err error) {
	if len(b) < chunkHeaderLen {
		return h, nil, nil, nil, fmt.Errorf("%w: truncated chunk header", ErrFormat)
	}
	h = chunkHeader{
		ID:       string(b[:4]),
		Content:  binary.LittleEndian.Uint32(b[4:8]),
		Children: binary.LittleEndian.Uint32(b[8:12]),
	}
	body := b[chunkHeaderLen:]
	if uint64(h.Content)+uint64(h.Children) > uint64(len(body)) {
		return h, nil, nil, nil, fmt.Errorf("%w: chunk %q declares %d+%d bytes, %d available",
			ErrFormat, h.ID, h.Content, h.Children, len(body))
	}
	content = body[:h.Content]
	children = body[h.Content : h.Content+h.Children]
	rest = body[h.Content+h.Children:]
	return h, content, children, rest, nil
}

func decodeXYZI(content []byte) ([]Voxel, error) {
	if len(content) < 4 {
		return nil, fmt.Errorf("%w: XYZI chunk too short", ErrFormat)
	}
	n := binary.LittleEndian.Uint32(content)
	if uint64(len(content)) != 4+4*uint64(n) {
		return nil, fmt.Errorf("%w: XYZI declares %d voxels in %d bytes", ErrFormat, n, len(content))
	}
	vs := make([]Voxel, n)
	for i := range vs {
		o := 4 + 4*i
		vs[i] = Voxel{Coord: Coord{int(content[o]), int(content[o+1]), int(content[o+2])}, Index: content[o+3]}
	}
	return vs, nil
}

// Model rebuilds a model in model axes (Y up) from the parsed shapes.
func (f *File) Model() *Model {
	m := NewModel()
	used := make(map[uint8]bool)
	for i, s := range f.Shapes {
		lo := f.shapeMin(i)
		for _, v := range s.Voxels {
			if v.Index == 0 {
				continue
			}
			c := fromFileAxes(lo.Add(v.Coord))
			m.voxels[c] = v.Index
			used[v.Index] = true
		}
	}
	for i := range used {
		m.Palette.SetAt(i, f.Palette[i])
	}
	return m
}

// VoxelCount returns the total number of voxels over all shapes.
func (f *File) VoxelCount() int {
	n := 0
	for _, s := range f.Shapes {
		n += len(s.Voxels)
	}
	return n
}

// shapeMin returns the minimum corner of shape i in file axes. Shapes with no
// transform sit at the origin.
func (f *File) shapeMin(i int) Coord {
	t, ok := f.Translations[i]
	if !ok {
		return Coord{}
	}
	s := f.Shapes[i].Size
	return Coord{t.X - s.X/2, t.Y - s.Y/2, t.Z - s.Z/2}
}

type transformNode struct {
	child       int32
	translation Coord
}

type sceneGraph struct {
	transforms map[int32]transformNode
	groups     map[int32][]int32
	shapes     map[int32][]int32
}

func (g *sceneGraph) add(id string, content []byte) error {
	r := &chunkReader{b: content}
	node := r.int32()
	r.dict()
	switch id {
	case chunkTrans:
		child := r.int32()
		r.int32() // reserved
		r.int32() // layer
		frames := r.int32()
		var t Coord
		for i := int32(0); i < frames && r.err == nil; i++ {
			fd := r.dict()
			if i == 0 {
				t = parseTranslation(fd["_t"])
			}
		}
		g.transforms[node] = transformNode{child: child, translation: t}
	case chunkGroup:
		n := r.int32()
		var kids []int32
		for i := int32(0); i < n && r.err == nil; i++ {
			kids = append(kids, r.int32())
		}
		g.groups[node] = kids
	case chunkShape:
		n := r.int32()
		var models []int32
		for i := int32(0); i < n && r.err == nil; i++ {
			models = append(models, r.int32())
			r.dict()
		}
		g.shapes[node] = models
	}
	if r.err != nil {
		return fmt.Errorf("%w: %s chunk: %w", ErrFormat, id, r.err)
	}
	if len(r.b) != 0 {
		return fmt.Errorf("%w: %s chunk has %d trailing bytes", ErrFormat, id, len(r.b))
	}
	return nil
}

// resolve walks the graph from node 0 and records each shape's translation.
func (g *sceneGraph) resolve(f *File) {
	seen := make(map[int32]bool)
	var walk func(node int32, offset Coord)
	walk = func(node int32, offset Coord) {
		if seen[node] {
			return
		}
		seen[node] = true
		if t, ok := g.transforms[node]; ok {
			walk(t.child, offset.Add(t.translation))
			return
		}
		if kids, ok := g.groups[node]; ok {
			for _, k := range kids {
				walk(k, offset)
			}
			return
		}
		for _, model := range g.shapes[node] {
			f.Translations[int(model)] = offset
		}
	}
	walk(0, Coord{})
}

func parseTranslation(s string) Coord {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return Coord{}
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Coord{}
		}
		v[i] = n
	}
	return Coord{v[0], v[1], v[2]}
}

// chunkReader consumes little-endian values, remembering the first underflow.
type chunkReader struct {
	b   []byte
	err error
}

func (r *chunkReader) int32() int32 {
	if r.err != nil {
		return 0
	}
	if len(r.b) < 4 {
		r.err = io.ErrUnexpectedEOF
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(r.b))
	r.b = r.b[4:]
	return v
}

func (r *chunkReader) str() string {
	n := r.int32()
	if r.err != nil {
		return ""
	}
	if n < 0 || int(n) > len(r.b) {
		r.err = io.ErrUnexpectedEOF
		return ""
	}
	s := string(r.b[:n])
	r.b = r.b[n:]
	return s
}

func (r *chunkReader) dict() Dict {
	n := r.int32()
	d := make(Dict)
	for i := int32(0); i < n && r.err == nil; i++ {
		k := r.str()
		d[k] = r.str()
	}
	return d
}
