package preference

import (
	"context"

	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/taste"
)

// ProfileStore is the consumer interface for taste persistence: the profile
// document plus the two append-only event logs.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (taste.Profile, error)
	UpsertProfile(ctx context.Context, p taste.Profile) error
	AppendInteraction(ctx context.Context, event taste.Interaction) error
	RecentInteractions(ctx context.Context, userID string, n int) ([]taste.Interaction, error)
	AppendEvolutionEvent(ctx context.Context, userID string, ev taste.EvolutionEvent) error
}

// CatalogReader resolves interaction targets and fetches recommendation
// candidates.
type CatalogReader interface {
	GetArtwork(ctx context.Context, id string) (catalog.Artwork, error)
	QueryArtworks(ctx context.Context, f catalog.Filters, limit int) ([]catalog.Artwork, error)
}
