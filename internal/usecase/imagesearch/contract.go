package imagesearch

import (
	"context"

	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/color"
)

// PaletteExtractor reduces an uploaded image to its dominant colors.
type PaletteExtractor interface {
	Palette(data []byte) ([]color.RGB, error)
}

// Repository serves the palette corpus: artworks that carry stored
// dominant colors.
type Repository interface {
	ArtworksWithPalettes(ctx context.Context, limit int) ([]catalog.Artwork, error)
}
