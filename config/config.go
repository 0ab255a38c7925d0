// Package config loads converter settings from a TOML file. Every value has a
// default, so the file and each of its sections are optional.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/voxelsplace/schem2vox/ingest"
	"github.com/voxelsplace/schem2vox/logging"
	"github.com/voxelsplace/schem2vox/vox"
)

// Convert is the [convert] section. Field names follow the CLI flags.
type Convert struct {
	Way            int  `toml:"way"`
	Scale          int  `toml:"scale"`
	MinY           int  `toml:"min_y"`
	MaxY           int  `toml:"max_y"`
	Excavate       bool `toml:"excavate"`
	Heightmap      int  `toml:"heightmap"`
	Color          bool `toml:"color"`
	Top            bool `toml:"top"`
	MaxChunkVoxels int  `toml:"max_chunk_voxels"`
	Verify         bool `toml:"verify"`
}

type Config struct {
	Convert Convert           `toml:"convert"`
	Logging logging.LogConfig `toml:"logging"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Convert: Convert{
			Scale:          1,
			MinY:           -1,
			MaxY:           vox.MaxSize,
			Heightmap:      1,
			MaxChunkVoxels: vox.DefaultMaxChunkVoxels,
		},
		Logging: logging.LogConfig{Level: "info"},
	}
}

// Load decodes the TOML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("%w: config %s", vox.ErrNotFound, path)
	}
	if err != nil {
		return c, fmt.Errorf("%w: read config %s: %w", vox.ErrIO, path, err)
	}
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return c, fmt.Errorf("%w: decode config %s: %w", vox.ErrFormat, path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		logging.Warningf("config %s: ignoring unknown keys %v", path, undec)
	}
	if err := c.Convert.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the ranges the converter accepts.
func (c Convert) Validate() error {
	switch {
	case c.MinY < -1:
		return fmt.Errorf("%w: min y %d below -1", vox.ErrArgument, c.MinY)
	case c.MaxY > vox.MaxSize:
		return fmt.Errorf("%w: max y %d above %d", vox.ErrArgument, c.MaxY, vox.MaxSize)
	case c.Scale < 1:
		return fmt.Errorf("%w: scale %d below 1", vox.ErrArgument, c.Scale)
	case c.Heightmap < 1:
		return fmt.Errorf("%w: heightmap %d below 1", vox.ErrArgument, c.Heightmap)
	case c.Color && c.Heightmap == 1:
		return fmt.Errorf("%w: color needs a heightmap scale other than 1", vox.ErrArgument)
	case c.Way != vox.WayIdentity && c.Way != vox.WaySwapXZ:
		return fmt.Errorf("%w: unknown way %d", vox.ErrArgument, c.Way)
	case c.MaxChunkVoxels < 0:
		return fmt.Errorf("%w: max chunk voxels %d is negative", vox.ErrArgument, c.MaxChunkVoxels)
	}
	return nil
}

// Options returns the ingestion settings for c. Scale is a write setting and
// only reaches the writer through WriteOptions.
func (c Convert) Options() ingest.Options {
	return ingest.Options{
		MinY:        c.MinY,
		MaxY:        c.MaxY,
		Excavate:    c.Excavate,
		HeightScale: c.Heightmap,
		Color:       c.Color,
		TopOnly:     c.Top,
	}
}

// WriteOptions returns the .vox layout settings for c.
func (c Convert) WriteOptions() vox.WriteOptions {
	return vox.WriteOptions{Way: c.Way, Scale: c.Scale, MaxChunkVoxels: c.MaxChunkVoxels}
}
