package api

import (
	"bytes"
	"fmt"

	"github.com/voxelsplace/schem2vox/config"
	"github.com/voxelsplace/schem2vox/ingest"
	"github.com/voxelsplace/schem2vox/utils"
	"github.com/voxelsplace/schem2vox/vox"
)

// ConvertBytes ingests data of the given kind ("schematic", "heightmap" or
// "grid") and returns the .vox encoding.
func ConvertBytes(kind string, data []byte, c config.Convert) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	k, err := parseKind(kind)
	if err != nil {
		return nil, err
	}
	in, err := ingest.For(k)
	if err != nil {
		return nil, err
	}
	m, err := in.Decode(bytes.NewReader(data), c.Options())
	if err != nil {
		return nil, err
	}
	return vox.Marshal(m, c.WriteOptions())
}

// ConvertNamed is ConvertBytes with the kind taken from a file name.
func ConvertNamed(name string, data []byte, c config.Convert) ([]byte, error) {
	return ConvertBytes(ingest.KindFromPath(name).String(), data, c)
}

// VOXToGLB takes .vox file bytes and returns a .glb of the model's greedy mesh.
func VOXToGLB(voxBytes []byte) ([]byte, error) {
	f, err := vox.Unmarshal(voxBytes)
	if err != nil {
		return nil, err
	}
	return utils.EncodeGLB(f.Model())
}

// VOXInfo summarises .vox file bytes.
func VOXInfo(voxBytes []byte) (string, error) {
	f, err := vox.Unmarshal(voxBytes)
	if err != nil {
		return "", err
	}
	m := f.Model()
	s := m.Bounds().Size()
	return fmt.Sprintf("%d shapes, %d voxels, %dx%dx%d", len(f.Shapes), m.Len(), s.X, s.Y, s.Z), nil
}

func parseKind(kind string) (ingest.Kind, error) {
	for _, k := range []ingest.Kind{ingest.KindSchematic, ingest.KindHeightmap, ingest.KindGrid} {
		if k.String() == kind {
			return k, nil
		}
	}
	return ingest.KindUnknown, fmt.Errorf("%w: unknown input kind %q", vox.ErrArgument, kind)
}
