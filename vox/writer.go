package vox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// WriteOptions controls how a model is laid out in a .vox file.
type WriteOptions struct {
	Way   int
	Scale int
	// MaxChunkVoxels caps the voxel count of a single shape. Zero means
	// DefaultMaxChunkVoxels.
	MaxChunkVoxels int
}

// WriteFile transforms m by way and scale and writes it to path.
func WriteFile(path string, m *Model, way, scale int) error {
	return WriteFileOptions(path, m, WriteOptions{Way: way, Scale: scale})
}

func WriteFileOptions(path string, m *Model, opts WriteOptions) (err error) {
	data, err := Marshal(m, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrIO, path, cerr)
		}
	}()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	return nil
}

// Marshal returns the .vox encoding of m after applying opts.Way and
// opts.Scale. Models with more voxels than opts.MaxChunkVoxels are split into
// several shapes, each placed by its own transform node.
func Marshal(m *Model, opts WriteOptions) ([]byte, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	t, err := Transform(m, opts.Way, scale)
	if err != nil {
		return nil, err
	}
	bounds := t.Bounds()
	size := bounds.Size()
	if size.X > MaxSize || size.Y > MaxSize || size.Z > MaxSize {
		return nil, fmt.Errorf("%w: extent %dx%dx%d exceeds %d", ErrCapacity, size.X, size.Y, size.Z, MaxSize)
	}

	limit := opts.MaxChunkVoxels
	if limit <= 0 {
		limit = DefaultMaxChunkVoxels
	}
	// Shapes keep their absolute position through the _t of their transform
	// node; XYZI holds coordinates local to each box.
	boxes := PartitionModel(t, limit)
	groups := assignGroups(t, boxes)

	var children bytes.Buffer
	for i, box := range boxes {
		sortMorton(groups[i], box.Min)
		writeChunk(&children, chunkSize, encodeSize(box.Size()), nil)
		writeChunk(&children, chunkXYZI, encodeXYZI(groups[i], box.Min), nil)
	}

	shapeNodes := make([]int32, len(boxes))
	for i := range boxes {
		shapeNodes[i] = int32(2 + 2*i)
	}
	writeChunk(&children, chunkTrans, encodeTransform(0, nil, 1, -1, nil), nil)
	writeChunk(&children, chunkGroup, encodeGroup(1, shapeNodes), nil)
	for i, box := range boxes {
		attrs := Dict{"_name": fmt.Sprintf("chunk_%d", i)}
		frame := Dict{"_t": formatTranslation(groupCentre(box))}
		writeChunk(&children, chunkTrans, encodeTransform(shapeNodes[i], attrs, shapeNodes[i]+1, 0, frame), nil)
		writeChunk(&children, chunkShape, encodeShape(shapeNodes[i]+1, int32(i)), nil)
	}
	writeChunk(&children, chunkRGBA, encodeRGBA(t.Palette), nil)

	var out bytes.Buffer
	out.WriteString(Magic)
	_ = binary.Write(&out, binary.LittleEndian, int32(Version))
	writeChunk(&out, chunkMain, nil, children.Bytes())
	return out.Bytes(), nil
}

// assignGroups buckets every voxel of m into the box that contains it.
func assignGroups(m *Model, boxes []Box) [][]Voxel {
	groups := make([][]Voxel, len(boxes))
	m.Each(func(c Coord, i uint8) {
		for g, b := range boxes {
			if b.Contains(c) {
				groups[g] = append(groups[g], Voxel{Coord: c, Index: i})
				return
			}
		}
	})
	return groups
}

// IsCapacity reports whether err is a capacity failure, which callers may
// want to handle by lowering the scale.
func IsCapacity(err error) bool { return errors.Is(err, ErrCapacity) }
