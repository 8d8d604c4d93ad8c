package search

import (
	"context"

	"github.com/atelier-cloud/curator/internal/domain/catalog"
	domsearch "github.com/atelier-cloud/curator/internal/domain/search"
)

// Repository defines the catalog read contract for multi-source search.
type Repository interface {
	QueryArtworks(ctx context.Context, f catalog.Filters, limit int) ([]catalog.Artwork, error)
	QueryArtists(ctx context.Context, f catalog.Filters, limit int) ([]catalog.Artist, error)
	QueryCatalogues(ctx context.Context, f catalog.Filters, limit int) ([]catalog.Catalogue, error)
}

// ResultCache absorbs repeated identical queries. Implementations are free
// to evict at any time; the repository stays the source of truth.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) ([]domsearch.Result, domsearch.Diagnostics, bool)
	Put(ctx context.Context, fingerprint string, results []domsearch.Result, diag domsearch.Diagnostics)
}
