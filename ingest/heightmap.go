package ingest

import (
	"fmt"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/voxelsplace/schem2vox/vox"

	_ "golang.org/x/image/webp"
)

type heightmapIngestor struct{}

func (heightmapIngestor) Kind() Kind { return KindHeightmap }

// Luminance is the integer weighted grey value of an 8-bit RGB colour.
func Luminance(r, g, b uint8) int {
	return (299*int(r) + 587*int(g) + 114*int(b)) / 1000
}

// Decode rasterises an image into voxel columns. Pixel (px, py) becomes the
// column at x=px, z=py whose height is lum*HeightScale/255.
func (heightmapIngestor) Decode(r io.Reader, opts Options) (*vox.Model, error) {
	if opts.HeightScale < 1 {
		return nil, fmt.Errorf("%w: heightmap scale must be positive, got %d", vox.ErrArgument, opts.HeightScale)
	}
	if opts.HeightScale >= vox.MaxSize {
		return nil, fmt.Errorf("%w: heightmap scale %d leaves no room below %d", vox.ErrDimension, opts.HeightScale, vox.MaxSize)
	}
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", vox.ErrFormat, err)
	}
	b := src.Bounds()
	if b.Dx() > vox.MaxSize || b.Dy() > vox.MaxSize {
		return nil, fmt.Errorf("%w: image is %dx%d pixels", vox.ErrDimension, b.Dx(), b.Dy())
	}

	img := imaging.Clone(src)
	m := vox.NewModel()
	for py := 0; py < img.Rect.Dy(); py++ {
		for px := 0; px < img.Rect.Dx(); px++ {
			o := img.PixOffset(px, py)
			pr, pg, pb := img.Pix[o], img.Pix[o+1], img.Pix[o+2]
			lum := Luminance(pr, pg, pb)
			height := lum * opts.HeightScale / 255

			c := color.RGBA{uint8(lum), uint8(lum), uint8(lum), 255}
			if opts.Color {
				c = color.RGBA{pr, pg, pb, 255}
			}
			if opts.TopOnly {
				m.SetColor(vox.Coord{X: px, Y: height, Z: py}, c)
				continue
			}
			for y := 0; y <= height; y++ {
				m.SetColor(vox.Coord{X: px, Y: y, Z: py}, c)
			}
		}
	}
	return finish(m, opts), nil
}
