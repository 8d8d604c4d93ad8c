// Package catalog persists and reads the searchable marketplace records as
// JSON documents. Reads are simple scan + filter + limit; the intelligence
// layer never depends on anything fancier than that.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atelier-cloud/curator/internal/db"
	"github.com/atelier-cloud/curator/internal/domain"
	domcat "github.com/atelier-cloud/curator/internal/domain/catalog"
)

// store is the consumer interface for catalog records (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the catalog read/write contracts of the search and
// preference usecases.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a catalog repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) artworkKey(id string) string   { return r.keyPrefix + "artwork:" + id }
func (r *Repo) artistKey(id string) string    { return r.keyPrefix + "artist:" + id }
func (r *Repo) catalogueKey(id string) string { return r.keyPrefix + "catalogue:" + id }

// UpsertArtwork stores an artwork record.
func (r *Repo) UpsertArtwork(ctx context.Context, a domcat.Artwork) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artwork: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.artworkKey(a.ID), "$", data); err != nil {
		return fmt.Errorf("%w: json.set artwork %s: %w", domain.ErrStoreUnavailable, a.ID, err)
	}
	return nil
}

// UpsertArtist stores an artist record.
func (r *Repo) UpsertArtist(ctx context.Context, a domcat.Artist) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artist: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.artistKey(a.ID), "$", data); err != nil {
		return fmt.Errorf("%w: json.set artist %s: %w", domain.ErrStoreUnavailable, a.ID, err)
	}
	return nil
}

// UpsertCatalogue stores a catalogue record.
func (r *Repo) UpsertCatalogue(ctx context.Context, c domcat.Catalogue) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalogue: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.catalogueKey(c.ID), "$", data); err != nil {
		return fmt.Errorf("%w: json.set catalogue %s: %w", domain.ErrStoreUnavailable, c.ID, err)
	}
	return nil
}

// GetArtwork returns one artwork by ID.
func (r *Repo) GetArtwork(ctx context.Context, id string) (domcat.Artwork, error) {
	raw, err := r.store.JSONGet(ctx, r.artworkKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcat.Artwork{}, domain.ErrArtworkNotFound
		}
		return domcat.Artwork{}, fmt.Errorf("json.get artwork %s: %w", id, err)
	}
	var a domcat.Artwork
	if err := json.Unmarshal(raw, &a); err != nil {
		return domcat.Artwork{}, fmt.Errorf("unmarshal artwork %s: %w", id, err)
	}
	return a, nil
}

// QueryArtworks returns up to limit artworks matching the filters.
func (r *Repo) QueryArtworks(ctx context.Context, f domcat.Filters, limit int) ([]domcat.Artwork, error) {
	docs, err := r.loadAll(ctx, r.keyPrefix+"artwork:*")
	if err != nil {
		return nil, fmt.Errorf("query artworks: %w", err)
	}
	out := make([]domcat.Artwork, 0, limit)
	for _, raw := range docs {
		var a domcat.Artwork
		if err := json.Unmarshal(raw, &a); err != nil {
			continue // tolerate one malformed record, not the whole page
		}
		if !f.MatchArtwork(a) {
			continue
		}
		out = append(out, a)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// QueryArtists returns up to limit artists matching the filters.
func (r *Repo) QueryArtists(ctx context.Context, f domcat.Filters, limit int) ([]domcat.Artist, error) {
	docs, err := r.loadAll(ctx, r.keyPrefix+"artist:*")
	if err != nil {
		return nil, fmt.Errorf("query artists: %w", err)
	}
	out := make([]domcat.Artist, 0, limit)
	for _, raw := range docs {
		var a domcat.Artist
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		if !f.MatchArtist(a) {
			continue
		}
		out = append(out, a)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// QueryCatalogues returns up to limit catalogues matching the filters.
func (r *Repo) QueryCatalogues(ctx context.Context, f domcat.Filters, limit int) ([]domcat.Catalogue, error) {
	docs, err := r.loadAll(ctx, r.keyPrefix+"catalogue:*")
	if err != nil {
		return nil, fmt.Errorf("query catalogues: %w", err)
	}
	out := make([]domcat.Catalogue, 0, limit)
	for _, raw := range docs {
		var c domcat.Catalogue
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		if !f.MatchCatalogue(c) {
			continue
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ArtworksWithPalettes returns up to limit artworks that carry a stored
// dominant palette, for visual search.
func (r *Repo) ArtworksWithPalettes(ctx context.Context, limit int) ([]domcat.Artwork, error) {
	docs, err := r.loadAll(ctx, r.keyPrefix+"artwork:*")
	if err != nil {
		return nil, fmt.Errorf("load palette corpus: %w", err)
	}
	out := make([]domcat.Artwork, 0, limit)
	for _, raw := range docs {
		var a domcat.Artwork
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		if len(a.Colors) == 0 {
			continue
		}
		out = append(out, a)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// loadAll scans keys by pattern and pipelines the JSON reads. Nil entries
// (keys deleted between SCAN and GET) are dropped.
func (r *Repo) loadAll(ctx context.Context, pattern string) ([][]byte, error) {
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.get multi: %w", err)
	}
	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}
