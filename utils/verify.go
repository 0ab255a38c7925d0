package utils

import (
	"errors"
	"fmt"

	"github.com/voxelsplace/schem2vox/logging"
	"github.com/voxelsplace/schem2vox/vox"
)

// ErrMismatch reports a written file that does not read back as the model it
// was written from.
var ErrMismatch = errors.New("read-back mismatch")

// RunVerify reads the .vox file at path and compares it with want, voxel
// positions included.
func RunVerify(path string, want *vox.Model) error {
	f, err := vox.ReadFile(path)
	if err != nil {
		return err
	}
	got := f.Model()
	if got.Len() != want.Len() {
		return fmt.Errorf("%w: %s holds %d voxels, want %d", ErrMismatch, path, got.Len(), want.Len())
	}
	if g, w := got.Fingerprint(), want.Fingerprint(); g != w {
		if c, ok := firstDifference(got, want); ok {
			gc, _ := got.Color(c)
			wc, _ := want.Color(c)
			return fmt.Errorf("%w: %s voxel %v is %v, want %v", ErrMismatch, path, c, gc, wc)
		}
		return fmt.Errorf("%w: %s fingerprint %016x, want %016x", ErrMismatch, path, g, w)
	}
	logging.Infof("verified %s: %d voxels in %d shapes", path, got.Len(), len(f.Shapes))
	return nil
}

// firstDifference returns the first voxel of want, in (Y, Z, X) order, whose
// colour differs in got.
func firstDifference(got, want *vox.Model) (vox.Coord, bool) {
	for _, v := range want.Voxels() {
		wc, _ := want.Color(v.Coord)
		if gc, ok := got.Color(v.Coord); !ok || gc != wc {
			return v.Coord, true
		}
	}
	return vox.Coord{}, false
}

// Info summarises a .vox file.
type Info struct {
	Version     int
	Shapes      int
	Voxels      int
	Colors      int
	Bounds      vox.Box
	Fingerprint uint64
}

// RunVoxInfo reads the .vox file at path and summarises it.
func RunVoxInfo(path string) (Info, error) {
	f, err := vox.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	m := f.Model()
	return Info{
		Version:     f.Version,
		Shapes:      len(f.Shapes),
		Voxels:      m.Len(),
		Colors:      m.Palette.Len(),
		Bounds:      m.Bounds(),
		Fingerprint: m.Fingerprint(),
	}, nil
}

func (i Info) String() string {
	s := i.Bounds.Size()
	return fmt.Sprintf("version %d, %d shapes, %d voxels, %d colours, %dx%dx%d, fingerprint %016x",
		i.Version, i.Shapes, i.Voxels, i.Colors, s.X, s.Y, s.Z, i.Fingerprint)
}
