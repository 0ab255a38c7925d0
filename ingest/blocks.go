package ingest

import (
	_ "embed"
	"fmt"
	"image/color"

	"gopkg.in/yaml.v3"
)

//go:embed blocks.yaml
var blocksYAML []byte

// FallbackColor is used for block ids missing from the table.
var FallbackColor = color.RGBA{160, 160, 160, 255}

type blockEntry struct {
	ID    int    `yaml:"id"`
	Data  *int   `yaml:"data"`
	Name  string `yaml:"name"`
	Color []int  `yaml:"color"`
}

// BlockTable maps a block id and data value to a colour.
type BlockTable struct {
	exact map[[2]int]color.RGBA
	byID  map[int]color.RGBA
	names map[int]string
}

// ParseBlockTable reads a YAML list of {id, data, name, color} entries.
// Colours are [r, g, b] or [r, g, b, a].
func ParseBlockTable(data []byte) (*BlockTable, error) {
	var entries []blockEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse block table: %w", err)
	}
	t := &BlockTable{
		exact: make(map[[2]int]color.RGBA),
		byID:  make(map[int]color.RGBA),
		names: make(map[int]string),
	}
	for _, e := range entries {
		if len(e.Color) != 3 && len(e.Color) != 4 {
			return nil, fmt.Errorf("block %d (%s): color needs 3 or 4 components", e.ID, e.Name)
		}
		comp := [4]uint8{0, 0, 0, 255}
		for i, v := range e.Color {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("block %d (%s): color component %d out of range", e.ID, e.Name, v)
			}
			comp[i] = uint8(v)
		}
		c := color.RGBA{comp[0], comp[1], comp[2], comp[3]}
		if e.Data != nil {
			t.exact[[2]int{e.ID, *e.Data}] = c
			if _, ok := t.byID[e.ID]; !ok {
				t.byID[e.ID] = c
			}
		} else {
			t.byID[e.ID] = c
		}
		if _, ok := t.names[e.ID]; !ok {
			t.names[e.ID] = e.Name
		}
	}
	return t, nil
}

// Lookup returns the colour for (id, data). ok is false when the id is
// unknown and FallbackColor was returned.
func (t *BlockTable) Lookup(id int, data uint8) (c color.RGBA, ok bool) {
	if c, ok := t.exact[[2]int{id, int(data)}]; ok {
		return c, true
	}
	if c, ok := t.byID[id]; ok {
		return c, true
	}
	return FallbackColor, false
}

// Known reports whether the table has a colour for id.
func (t *BlockTable) Known(id int) bool {
	_, ok := t.byID[id]
	return ok
}

func (t *BlockTable) Name(id int) string {
	if n, ok := t.names[id]; ok {
		return n
	}
	return fmt.Sprintf("block_%d", id)
}

var defaultBlocks = mustParseBlockTable(blocksYAML)

func mustParseBlockTable(data []byte) *BlockTable {
	t, err := ParseBlockTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultBlocks returns the built-in block colour table.
func DefaultBlocks() *BlockTable { return defaultBlocks }
