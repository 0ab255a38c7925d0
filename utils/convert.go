package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/voxelsplace/schem2vox/config"
	"github.com/voxelsplace/schem2vox/ingest"
	"github.com/voxelsplace/schem2vox/logging"
	"github.com/voxelsplace/schem2vox/vox"
)

// VoxPath appends the .vox extension when path lacks it.
func VoxPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".vox") {
		return path
	}
	return path + ".vox"
}

// RunConvert ingests inPath and writes it as a .vox file. It returns the path
// actually written.
func RunConvert(inPath, outPath string, c config.Convert) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	outPath = VoxPath(outPath)

	kind := ingest.KindFromPath(inPath)
	logging.Infof("reading %s as %s", inPath, kind)
	m, err := ingest.File(inPath, c.Options())
	if err != nil {
		return "", err
	}
	logging.Infof("%s: %s voxels, %d colours", inPath, humanize.Comma(int64(m.Len())), m.Palette.Len())

	opts := c.WriteOptions()
	if err := vox.WriteFileOptions(outPath, m, opts); err != nil {
		return "", err
	}
	if st, err := os.Stat(outPath); err == nil {
		logging.Infof("wrote %s (%s)", outPath, humanize.Bytes(uint64(st.Size())))
	}

	if c.Verify {
		want, err := vox.Transform(m, opts.Way, opts.Scale)
		if err != nil {
			return "", err
		}
		if err := RunVerify(outPath, want); err != nil {
			return "", err
		}
	}
	return outPath, nil
}

// RunBatch converts every input into outDir, naming each output after its
// input. Inputs are processed in order; the first failure stops the batch.
func RunBatch(inPaths []string, outDir string, c config.Convert) ([]string, error) {
	if len(inPaths) == 0 {
		return nil, fmt.Errorf("%w: no inputs", vox.ErrArgument)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", vox.ErrIO, outDir, err)
	}
	written := make([]string, 0, len(inPaths))
	for i, in := range inPaths {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out, err := RunConvert(in, filepath.Join(outDir, base+".vox"), c)
		if err != nil {
			return written, err
		}
		logging.Debugf("batch %d/%d done", i+1, len(inPaths))
		written = append(written, out)
	}
	return written, nil
}
