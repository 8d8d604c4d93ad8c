package catalog

import (
	"context"
	"encoding/json"
	"testing"

	domcat "github.com/atelier-cloud/curator/internal/domain/catalog"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn      func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn      func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonGetMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, nil
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.jsonGetMultiFn != nil {
		return m.jsonGetMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "curator:"), ms
}

// seedArtworks wires Scan and JSONGetMulti so the repo sees the given
// documents as the full artwork keyspace.
func seedArtworks(t *testing.T, ms *mockStore, artworks ...domcat.Artwork) {
	t.Helper()
	keys := make([]string, 0, len(artworks))
	docs := make([][]byte, 0, len(artworks))
	for _, a := range artworks {
		b, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("marshal seed artwork: %v", err)
		}
		keys = append(keys, "curator:artwork:"+a.ID)
		docs = append(docs, b)
	}
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "curator:artwork:*" {
			t.Errorf("unexpected scan pattern: %s", pattern)
		}
		return keys, nil
	}
	ms.jsonGetMultiFn = func(_ context.Context, _ []string) ([][]byte, error) {
		return docs, nil
	}
}
