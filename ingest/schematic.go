package ingest

import (
	"fmt"
	"io"
	"sort"

	"github.com/Tnze/go-mc/nbt"
	"github.com/voxelsplace/schem2vox/logging"
	"github.com/voxelsplace/schem2vox/vox"
)

// schematicTag is the root compound of a classic (MCEdit) schematic.
type schematicTag struct {
	Width     int16  `nbt:"Width"`
	Height    int16  `nbt:"Height"`
	Length    int16  `nbt:"Length"`
	Materials string `nbt:"Materials"`
	Blocks    []byte `nbt:"Blocks"`
	Data      []byte `nbt:"Data"`
	AddBlocks []byte `nbt:"AddBlocks"`
	Add       []byte `nbt:"Add"`
}

type schematicIngestor struct{}

func (schematicIngestor) Kind() Kind { return KindSchematic }

// Decode reads a compressed schematic. Layers outside [MinY, MaxY] and air
// blocks are skipped; unknown block ids get FallbackColor.
func (schematicIngestor) Decode(r io.Reader, opts Options) (*vox.Model, error) {
	zr, err := openContainer(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var s schematicTag
	if _, err := nbt.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: schematic nbt: %w", vox.ErrFormat, err)
	}
	return s.model(opts)
}

func (s *schematicTag) model(opts Options) (*vox.Model, error) {
	w, h, l := int(s.Width), int(s.Height), int(s.Length)
	if w < 0 || h < 0 || l < 0 {
		return nil, fmt.Errorf("%w: negative schematic size %dx%dx%d", vox.ErrFormat, w, h, l)
	}
	n := w * h * l
	if len(s.Blocks) != n {
		return nil, fmt.Errorf("%w: Blocks has %d entries, want %d", vox.ErrFormat, len(s.Blocks), n)
	}
	if len(s.Data) != n {
		return nil, fmt.Errorf("%w: Data has %d entries, want %d", vox.ErrFormat, len(s.Data), n)
	}
	if len(s.AddBlocks) != 0 && len(s.AddBlocks) != (n+1)/2 {
		return nil, fmt.Errorf("%w: AddBlocks has %d entries, want %d", vox.ErrFormat, len(s.AddBlocks), (n+1)/2)
	}
	if len(s.Add) != 0 && len(s.Add) != n {
		return nil, fmt.Errorf("%w: Add has %d entries, want %d", vox.ErrFormat, len(s.Add), n)
	}

	minY, maxY := max(opts.MinY, 0), min(opts.MaxY, h-1)
	if w > vox.MaxSize || l > vox.MaxSize {
		return nil, fmt.Errorf("%w: schematic is %dx%d blocks wide", vox.ErrDimension, w, l)
	}
	if maxY-minY+1 > vox.MaxSize {
		return nil, fmt.Errorf("%w: %d layers selected", vox.ErrDimension, maxY-minY+1)
	}

	table := opts.Blocks
	if table == nil {
		table = DefaultBlocks()
	}
	m := vox.NewModel()
	counts := make(map[int]int)
	for y := minY; y <= maxY; y++ {
		for z := 0; z < l; z++ {
			for x := 0; x < w; x++ {
				i := (y*l+z)*w + x
				id := s.blockID(i)
				if id == 0 {
					continue
				}
				c, _ := table.Lookup(id, s.Data[i]&0x0f)
				counts[id]++
				m.SetColor(vox.Coord{X: x, Y: y, Z: z}, c)
			}
		}
	}
	logBlockCounts(table, counts)
	return finish(m, opts), nil
}

func logBlockCounts(table *BlockTable, counts map[int]int) {
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if table.Known(id) {
			logging.Debugf("block %s (%d): %d", table.Name(id), id, counts[id])
		} else {
			logging.Debugf("unknown block id %d used %d times, using fallback colour", id, counts[id])
		}
	}
}

// blockID combines the base id with the high bits from AddBlocks, where each
// byte packs two entries and even indices use the high nibble.
func (s *schematicTag) blockID(i int) int {
	id := int(s.Blocks[i])
	switch {
	case len(s.AddBlocks) > 0:
		add := s.AddBlocks[i>>1]
		if i&1 == 0 {
			add >>= 4
		}
		id |= int(add&0x0f) << 8
	case len(s.Add) > 0:
		id |= int(s.Add[i]) << 8
	}
	return id
}
