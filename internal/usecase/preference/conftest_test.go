package preference

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/config"
	"github.com/atelier-cloud/curator/internal/domain"
	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/taste"
	"github.com/atelier-cloud/curator/internal/usecase/relevance"
)

// fakeProfiles is an in-memory ProfileStore.
type fakeProfiles struct {
	profiles  map[string]taste.Profile
	log       map[string][]taste.Interaction
	evolution map[string][]taste.EvolutionEvent

	getErr    error
	upsertErr error
	appendErr error
	recentErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles:  map[string]taste.Profile{},
		log:       map[string][]taste.Interaction{},
		evolution: map[string][]taste.EvolutionEvent{},
	}
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (taste.Profile, error) {
	if f.getErr != nil {
		return taste.Profile{}, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return taste.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, p taste.Profile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeProfiles) AppendInteraction(_ context.Context, event taste.Interaction) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.log[event.UserID] = append(f.log[event.UserID], event)
	return nil
}

func (f *fakeProfiles) RecentInteractions(_ context.Context, userID string, n int) ([]taste.Interaction, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	events := f.log[userID]
	if len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}

func (f *fakeProfiles) AppendEvolutionEvent(_ context.Context, userID string, ev taste.EvolutionEvent) error {
	f.evolution[userID] = append(f.evolution[userID], ev)
	return nil
}

// fakeCatalog is an in-memory CatalogReader.
type fakeCatalog struct {
	artworks map[string]catalog.Artwork
	queryErr error
}

func newFakeCatalog(arts ...catalog.Artwork) *fakeCatalog {
	f := &fakeCatalog{artworks: map[string]catalog.Artwork{}}
	for _, a := range arts {
		f.artworks[a.ID] = a
	}
	return f
}

func (f *fakeCatalog) GetArtwork(_ context.Context, id string) (catalog.Artwork, error) {
	a, ok := f.artworks[id]
	if !ok {
		return catalog.Artwork{}, domain.ErrArtworkNotFound
	}
	return a, nil
}

func (f *fakeCatalog) QueryArtworks(_ context.Context, filt catalog.Filters, limit int) ([]catalog.Artwork, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]catalog.Artwork, 0, limit)
	for _, a := range f.artworks {
		if !filt.MatchArtwork(a) {
			continue
		}
		out = append(out, a)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(profiles *fakeProfiles, cat *fakeCatalog) *Service {
	var cfg config.Config
	cfg.ApplyDefaults()
	svc := New(profiles, cat, relevance.New(cfg.Scoring), cfg.Preference, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}
