package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/atelier-cloud/curator/internal/db"
	"github.com/atelier-cloud/curator/internal/domain"
	domcat "github.com/atelier-cloud/curator/internal/domain/catalog"
)

// --- upserts ---

func TestUpsertArtwork(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey, gotPath string
	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		gotKey, gotPath = key, path
		var back domcat.Artwork
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("stored document is not valid JSON: %v", err)
		}
		if back.Title != "Dusk" {
			t.Errorf("stored title = %s", back.Title)
		}
		return nil
	}

	err := repo.UpsertArtwork(context.Background(), domcat.Artwork{ID: "a1", Title: "Dusk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "curator:artwork:a1" {
		t.Errorf("key = %s", gotKey)
	}
	if gotPath != "$" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestUpsertArtist_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.jsonSetFn = func(_ context.Context, _ string, _ string, _ []byte) error {
		return errors.New("OOM")
	}

	err := repo.UpsertArtist(context.Background(), domcat.Artist{ID: "ar1"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

// --- GetArtwork ---

func TestGetArtwork(t *testing.T) {
	repo, ms := newTestRepo(t)

	data, _ := json.Marshal(domcat.Artwork{ID: "a1", Title: "Dusk", Price: 900})
	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		if key != "curator:artwork:a1" {
			t.Errorf("unexpected key: %s", key)
		}
		return data, nil
	}

	a, err := repo.GetArtwork(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Title != "Dusk" || a.Price != 900 {
		t.Errorf("artwork round-trip lost data: %+v", a)
	}
}

func TestGetArtwork_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := repo.GetArtwork(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrArtworkNotFound) {
		t.Fatalf("error = %v, want ErrArtworkNotFound", err)
	}
}

// --- queries ---

func TestQueryArtworks_FilterAndLimit(t *testing.T) {
	repo, ms := newTestRepo(t)
	seedArtworks(t, ms,
		domcat.Artwork{ID: "a1", Title: "One", Medium: "oil", Price: 500},
		domcat.Artwork{ID: "a2", Title: "Two", Medium: "bronze", Price: 700},
		domcat.Artwork{ID: "a3", Title: "Three", Medium: "oil", Price: 900},
		domcat.Artwork{ID: "a4", Title: "Four", Medium: "oil", Price: 1100},
	)

	oilFilter, err := domcat.NewFilters([]string{"oil"}, nil, nil, nil, nil, nil, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.QueryArtworks(context.Background(), oilFilter, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want limit 2", len(got))
	}
	for _, a := range got {
		if a.Medium != "oil" {
			t.Errorf("medium = %s, want oil", a.Medium)
		}
	}
}

func TestQueryArtworks_SkipsCorruptDocuments(t *testing.T) {
	repo, ms := newTestRepo(t)

	good, _ := json.Marshal(domcat.Artwork{ID: "a1", Title: "One"})
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"curator:artwork:a1", "curator:artwork:a2"}, nil
	}
	ms.jsonGetMultiFn = func(_ context.Context, _ []string) ([][]byte, error) {
		return [][]byte{good, []byte("{broken")}, nil
	}

	got, err := repo.QueryArtworks(context.Background(), domcat.Filters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("results = %+v, want just the parseable record", got)
	}
}

func TestQueryArtworks_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, errors.New("LOADING")
	}

	if _, err := repo.QueryArtworks(context.Background(), domcat.Filters{}, 10); err == nil {
		t.Fatal("expected error on SCAN failure")
	}
}

func TestQueryArtists(t *testing.T) {
	repo, ms := newTestRepo(t)

	a1, _ := json.Marshal(domcat.Artist{ID: "ar1", Name: "Eva Marsh", Mediums: []string{"oil"}})
	a2, _ := json.Marshal(domcat.Artist{ID: "ar2", Name: "Theo Brandt", Mediums: []string{"bronze"}})
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "curator:artist:*" {
			t.Errorf("unexpected scan pattern: %s", pattern)
		}
		return []string{"curator:artist:ar1", "curator:artist:ar2"}, nil
	}
	ms.jsonGetMultiFn = func(_ context.Context, _ []string) ([][]byte, error) {
		return [][]byte{a1, a2}, nil
	}

	oilFilter, err := domcat.NewFilters([]string{"oil"}, nil, nil, nil, nil, nil, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.QueryArtists(context.Background(), oilFilter, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ar1" {
		t.Fatalf("results = %+v, want only the oil painter", got)
	}
}

func TestArtworksWithPalettes(t *testing.T) {
	repo, ms := newTestRepo(t)
	seedArtworks(t, ms,
		domcat.Artwork{ID: "a1", Title: "One", Colors: []string{"#ff0000"}},
		domcat.Artwork{ID: "a2", Title: "Two"}, // no stored palette
		domcat.Artwork{ID: "a3", Title: "Three", Colors: []string{"#00ff00", "#0000ff"}},
	)

	got, err := repo.ArtworksWithPalettes(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want only artworks carrying palettes", len(got))
	}
	for _, a := range got {
		if len(a.Colors) == 0 {
			t.Errorf("artwork %s has no palette", a.ID)
		}
	}
}

func TestLoadAll_DropsNilDocuments(t *testing.T) {
	repo, ms := newTestRepo(t)

	good, _ := json.Marshal(domcat.Artwork{ID: "a1", Title: "One"})
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"curator:artwork:a1", "curator:artwork:gone"}, nil
	}
	ms.jsonGetMultiFn = func(_ context.Context, _ []string) ([][]byte, error) {
		// second key deleted between SCAN and GET
		return [][]byte{good, nil}, nil
	}

	got, err := repo.QueryArtworks(context.Background(), domcat.Filters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want nil entry dropped", len(got))
	}
}
