// Package ingest turns schematics, heightmap images and ASCII elevation grids
// into vox.Model values.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxelsplace/schem2vox/vox"
)

// Kind selects an ingestion strategy.
type Kind int

const (
	KindUnknown Kind = iota
	KindSchematic
	KindHeightmap
	KindGrid
)

func (k Kind) String() string {
	switch k {
	case KindSchematic:
		return "schematic"
	case KindHeightmap:
		return "heightmap"
	case KindGrid:
		return "grid"
	}
	return "unknown"
}

// Options carries every ingestion setting. It is passed by value and never
// modified by an ingestor.
type Options struct {
	// MinY and MaxY bound the schematic layers kept, both inclusive.
	MinY, MaxY int
	Excavate   bool
	// HeightScale is the heightmap height for a full-white pixel.
	HeightScale int
	Color       bool
	TopOnly     bool
	// Blocks overrides the schematic colour table.
	Blocks *BlockTable
}

// DefaultOptions returns options that keep every layer.
func DefaultOptions() Options {
	return Options{MinY: -1, MaxY: 256, HeightScale: 1}
}

// Ingestor decodes one input format into a model.
type Ingestor interface {
	Kind() Kind
	Decode(r io.Reader, opts Options) (*vox.Model, error)
}

var ingestors = map[Kind]Ingestor{
	KindSchematic: schematicIngestor{},
	KindHeightmap: heightmapIngestor{},
	KindGrid:      gridIngestor{},
}

// For returns the ingestor for k.
func For(k Kind) (Ingestor, error) {
	in, ok := ingestors[k]
	if !ok {
		return nil, fmt.Errorf("%w: no ingestor for %s input", vox.ErrArgument, k)
	}
	return in, nil
}

// KindFromPath selects a strategy from the file extension.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".schematic":
		return KindSchematic
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return KindHeightmap
	case ".asc":
		return KindGrid
	}
	return KindUnknown
}

// File ingests the file at path with the strategy its extension selects.
func File(path string, opts Options) (*vox.Model, error) {
	in, err := For(KindFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decodeFile(in, path, opts)
}

func decodeFile(in Ingestor, path string, opts Options) (*vox.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", vox.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", vox.ErrIO, path, err)
	}
	defer f.Close()
	m, err := in.Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Schematic loads a block schematic.
func Schematic(path string, opts Options) (*vox.Model, error) {
	return decodeFile(schematicIngestor{}, path, opts)
}

// Heightmap loads a heightmap image.
func Heightmap(path string, opts Options) (*vox.Model, error) {
	return decodeFile(heightmapIngestor{}, path, opts)
}

// Grid loads an ASCII elevation grid.
func Grid(path string, opts Options) (*vox.Model, error) {
	return decodeFile(gridIngestor{}, path, opts)
}

// DecodeSchematic reads a compressed schematic from r.
func DecodeSchematic(r io.Reader, opts Options) (*vox.Model, error) {
	return schematicIngestor{}.Decode(r, opts)
}

// DecodeHeightmap reads a heightmap image from r.
func DecodeHeightmap(r io.Reader, opts Options) (*vox.Model, error) {
	return heightmapIngestor{}.Decode(r, opts)
}

// DecodeGrid reads an ASCII elevation grid from r.
func DecodeGrid(r io.Reader, opts Options) (*vox.Model, error) {
	return gridIngestor{}.Decode(r, opts)
}

func finish(m *vox.Model, opts Options) *vox.Model {
	if opts.Excavate {
		vox.Excavate(m)
	}
	return m
}
