package catalog

import (
	"context"

	domcat "github.com/atelier-cloud/curator/internal/domain/catalog"
)

// Repository is the consumer interface for catalog writes and lookups.
type Repository interface {
	UpsertArtwork(ctx context.Context, a domcat.Artwork) error
	UpsertArtist(ctx context.Context, a domcat.Artist) error
	UpsertCatalogue(ctx context.Context, c domcat.Catalogue) error
	GetArtwork(ctx context.Context, id string) (domcat.Artwork, error)
}
