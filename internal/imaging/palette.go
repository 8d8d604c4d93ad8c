// Package imaging extracts a small dominant-color palette from uploaded
// image bytes. It sniffs the format before decoding and samples pixels on a
// coarse grid; this is deliberately cheap color analysis, not vision.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/atelier-cloud/curator/internal/domain"
	"github.com/atelier-cloud/curator/internal/domain/color"
)

// sampleGrid is the number of sample points per axis. 32x32 = at most 1024
// sampled pixels regardless of image size.
const sampleGrid = 32

// quantStep buckets each channel into 32-value bands before counting, so
// near-identical shades collapse into one palette entry.
const quantStep = 32

// Extractor turns raw image bytes into a ranked dominant palette.
type Extractor struct {
	paletteSize int
}

// NewExtractor creates a palette extractor producing at most paletteSize colors.
func NewExtractor(paletteSize int) *Extractor {
	return &Extractor{paletteSize: paletteSize}
}

// Palette returns the dominant colors of the image, most frequent first.
func (e *Extractor) Palette(data []byte) ([]color.RGB, error) {
	if err := sniff(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", domain.ErrInvalidImage, err)
	}

	return e.dominantColors(img), nil
}

// sniff rejects bytes that are not a supported raster format before the
// decoder sees them.
func sniff(data []byte) error {
	kind, err := filetype.Match(data)
	if err != nil {
		return fmt.Errorf("%w: sniff: %w", domain.ErrInvalidImage, err)
	}
	switch kind {
	case matchers.TypeJpeg, matchers.TypePng, matchers.TypeGif:
		return nil
	default:
		return fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidImage, kind.Extension)
	}
}

// dominantColors samples the image on a coarse grid, quantizes each sample,
// and returns the most frequent buckets.
func (e *Extractor) dominantColors(img image.Image) []color.RGB {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	stepX, stepY := w/sampleGrid, h/sampleGrid
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	counts := make(map[color.RGB]int)
	var order []color.RGB
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, _ := img.At(x, y).RGBA()
			q := quantize(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			if counts[q] == 0 {
				order = append(order, q)
			}
			counts[q]++
		}
	}

	// Selection sort over the bucket list: palette sizes are tiny and the
	// first-seen order breaks count ties deterministically.
	top := make([]color.RGB, 0, e.paletteSize)
	for len(top) < e.paletteSize && len(order) > 0 {
		best := 0
		for i := 1; i < len(order); i++ {
			if counts[order[i]] > counts[order[best]] {
				best = i
			}
		}
		top = append(top, order[best])
		order = append(order[:best], order[best+1:]...)
	}
	return top
}

// quantize snaps each channel to the center of its band.
func quantize(r, g, b uint8) color.RGB {
	snap := func(v uint8) uint8 {
		band := v / quantStep
		center := uint16(band)*quantStep + quantStep/2
		if center > 255 {
			center = 255
		}
		return uint8(center)
	}
	return color.RGB{R: snap(r), G: snap(g), B: snap(b)}
}
