// Package catalog maintains the searchable entity corpus: artworks,
// artists, and curated catalogues.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/atelier-cloud/curator/internal/domain"
	domcat "github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/color"
)

// Service handles catalog ingestion.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// UpsertArtwork validates and stores an artwork. Malformed palette entries
// are rejected up front so visual search never sees them.
func (s *Service) UpsertArtwork(ctx context.Context, a domcat.Artwork) error {
	if a.ID == "" || a.Title == "" {
		return fmt.Errorf("%w: artwork id and title are required", domain.ErrInvalidEntity)
	}
	if a.Price < 0 {
		return fmt.Errorf("%w: artwork price must be >= 0", domain.ErrInvalidEntity)
	}
	for _, hex := range a.Colors {
		if _, err := color.ParseHex(hex); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidEntity, err)
		}
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	return s.repo.UpsertArtwork(ctx, a)
}

// UpsertArtist validates and stores an artist.
func (s *Service) UpsertArtist(ctx context.Context, a domcat.Artist) error {
	if a.ID == "" || a.Name == "" {
		return fmt.Errorf("%w: artist id and name are required", domain.ErrInvalidEntity)
	}
	return s.repo.UpsertArtist(ctx, a)
}

// UpsertCatalogue validates and stores a curated catalogue.
func (s *Service) UpsertCatalogue(ctx context.Context, c domcat.Catalogue) error {
	if c.ID == "" || c.Title == "" {
		return fmt.Errorf("%w: catalogue id and title are required", domain.ErrInvalidEntity)
	}
	return s.repo.UpsertCatalogue(ctx, c)
}

// GetArtwork returns one artwork by ID.
func (s *Service) GetArtwork(ctx context.Context, id string) (domcat.Artwork, error) {
	return s.repo.GetArtwork(ctx, id)
}
