package ingest

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/voxelsplace/schem2vox/vox"
)

// GridHeader is the six line header of an ASCII elevation grid.
type GridHeader struct {
	NCols, NRows int
	XLL, YLL     float64
	CellSize     float64
	NoData       float64
}

var headerKeys = []string{"ncols", "nrows", "xll", "yll", "cellsize", "nodata_value"}

// Terrain colours at the lowest and highest cell of a grid.
var (
	gridLow  = colorful.Color{R: 0.22, G: 0.42, B: 0.16}
	gridHigh = colorful.Color{R: 0.90, G: 0.88, B: 0.84}
)

// gridShades limits how many palette entries one grid may take.
const gridShades = 64

type gridIngestor struct{}

func (gridIngestor) Kind() Kind { return KindGrid }

// Decode parses the header and rows, then raises one column per cell. The
// lowest value sits at y=0; NODATA cells produce no column.
func (gridIngestor) Decode(r io.Reader, opts Options) (*vox.Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	hdr, err := readGridHeader(sc)
	if err != nil {
		return nil, err
	}
	if hdr.NCols > vox.MaxSize || hdr.NRows > vox.MaxSize {
		return nil, fmt.Errorf("%w: grid is %dx%d cells", vox.ErrDimension, hdr.NCols, hdr.NRows)
	}

	cells := make([][]float64, 0, hdr.NRows)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(cells) == hdr.NRows {
			return nil, fmt.Errorf("%w: more than %d rows", vox.ErrFormat, hdr.NRows)
		}
		if len(fields) != hdr.NCols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", vox.ErrFormat, len(cells)+1, len(fields), hdr.NCols)
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", vox.ErrFormat, len(cells)+1, err)
			}
			row[i] = v
		}
		cells = append(cells, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read grid: %w", vox.ErrIO, err)
	}
	if len(cells) != hdr.NRows {
		return nil, fmt.Errorf("%w: %d rows, want %d", vox.ErrFormat, len(cells), hdr.NRows)
	}
	return finish(gridModel(hdr, cells), opts), nil
}

func readGridHeader(sc *bufio.Scanner) (GridHeader, error) {
	var hdr GridHeader
	seen := make(map[string]float64, len(headerKeys))
	for len(seen) < len(headerKeys) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return hdr, fmt.Errorf("%w: read grid header: %w", vox.ErrIO, err)
			}
			return hdr, fmt.Errorf("%w: grid header has %d of %d lines", vox.ErrFormat, len(seen), len(headerKeys))
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return hdr, fmt.Errorf("%w: header line %q", vox.ErrFormat, sc.Text())
		}
		key := normalizeHeaderKey(fields[0])
		if key == "" {
			return hdr, fmt.Errorf("%w: unknown header key %q", vox.ErrFormat, fields[0])
		}
		if _, dup := seen[key]; dup {
			return hdr, fmt.Errorf("%w: duplicate header key %q", vox.ErrFormat, fields[0])
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return hdr, fmt.Errorf("%w: header %s: %w", vox.ErrFormat, fields[0], err)
		}
		seen[key] = v
	}
	hdr = GridHeader{
		NCols:    int(seen["ncols"]),
		NRows:    int(seen["nrows"]),
		XLL:      seen["xll"],
		YLL:      seen["yll"],
		CellSize: seen["cellsize"],
		NoData:   seen["nodata_value"],
	}
	if hdr.NCols <= 0 || hdr.NRows <= 0 || float64(hdr.NCols) != seen["ncols"] || float64(hdr.NRows) != seen["nrows"] {
		return hdr, fmt.Errorf("%w: bad grid size %vx%v", vox.ErrFormat, seen["ncols"], seen["nrows"])
	}
	return hdr, nil
}

func normalizeHeaderKey(k string) string {
	switch k = strings.ToLower(k); k {
	case "xllcorner", "xllcenter":
		return "xll"
	case "yllcorner", "yllcenter":
		return "yll"
	case "ncols", "nrows", "cellsize", "nodata_value":
		return k
	}
	return ""
}

// GridHeight maps an elevation to a voxel height given the observed range.
// Ranges up to 255 units keep one voxel per unit; wider ones are compressed.
func GridHeight(v, lo, hi float64) int {
	k := 1.0
	if hi-lo > vox.MaxSize-1 {
		k = (vox.MaxSize - 1) / (hi - lo)
	}
	return int(math.Floor((v - lo) * k))
}

func gridModel(hdr GridHeader, cells [][]float64) *vox.Model {
	m := vox.NewModel()
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range cells {
		for _, v := range row {
			if v == hdr.NoData {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return m
	}
	top := GridHeight(hi, lo, hi)
	for z, row := range cells {
		for x, v := range row {
			if v == hdr.NoData {
				continue
			}
			h := GridHeight(v, lo, hi)
			c := gridShade(h, top)
			for y := 0; y <= h; y++ {
				m.SetColor(vox.Coord{X: x, Y: y, Z: z}, c)
			}
		}
	}
	return m
}

func gridShade(h, top int) color.RGBA {
	t := 0.0
	if top > 0 {
		t = math.Round(float64(h)/float64(top)*(gridShades-1)) / (gridShades - 1)
	}
	r, g, b := gridLow.BlendLab(gridHigh, t).Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}
