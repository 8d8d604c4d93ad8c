package taste

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/atelier-cloud/curator/internal/db"
	"github.com/atelier-cloud/curator/internal/domain"
	domtaste "github.com/atelier-cloud/curator/internal/domain/taste"
)

// --- GetProfile ---

func TestGetProfile(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	stored := domtaste.DefaultProfile("u1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	stored.BehavioralPatterns.TotalInteractions = 7
	data, _ := json.Marshal(stored)

	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		if key != "curator:taste:profile:u1" {
			t.Errorf("unexpected key: %s", key)
		}
		return data, nil
	}

	p, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != "u1" || p.BehavioralPatterns.TotalInteractions != 7 {
		t.Errorf("profile round-trip lost data: %+v", p)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := repo.GetProfile(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("error = %v, want ErrProfileNotFound", err)
	}
}

func TestGetProfile_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	_, err := repo.GetProfile(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error on store failure")
	}
	if errors.Is(err, domain.ErrProfileNotFound) {
		t.Error("store failure must not read as not-found")
	}
}

func TestGetProfile_CorruptDocument(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.jsonGetFn = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	if _, err := repo.GetProfile(context.Background(), "u1"); err == nil {
		t.Fatal("expected error on corrupt profile document")
	}
}

// --- UpsertProfile ---

func TestUpsertProfile(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey, gotPath string
	var gotData []byte
	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		gotKey, gotPath, gotData = key, path, data
		return nil
	}

	p := domtaste.DefaultProfile("u2", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := repo.UpsertProfile(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "curator:taste:profile:u2" {
		t.Errorf("key = %s", gotKey)
	}
	if gotPath != "$" {
		t.Errorf("path = %s", gotPath)
	}
	var back domtaste.Profile
	if err := json.Unmarshal(gotData, &back); err != nil {
		t.Fatalf("stored document is not valid JSON: %v", err)
	}
	if back.UserID != "u2" {
		t.Errorf("stored user = %s", back.UserID)
	}
}

// --- interaction log ---

func TestAppendInteraction(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotValues [][]byte
	ms.rpushFn = func(_ context.Context, key string, values ...[]byte) error {
		gotKey, gotValues = key, values
		return nil
	}

	ev := domtaste.Interaction{
		ID: "ev-1", UserID: "u1", Type: domtaste.InteractionLike,
		TargetType: "artwork", TargetID: "a1",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.AppendInteraction(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "curator:taste:log:u1" {
		t.Errorf("key = %s", gotKey)
	}
	if len(gotValues) != 1 {
		t.Fatalf("values = %d, want 1", len(gotValues))
	}
	var back domtaste.Interaction
	if err := json.Unmarshal(gotValues[0], &back); err != nil {
		t.Fatalf("logged event is not valid JSON: %v", err)
	}
	if back.ID != "ev-1" || back.Type != domtaste.InteractionLike {
		t.Errorf("event round-trip lost data: %+v", back)
	}
}

func TestRecentInteractions(t *testing.T) {
	repo, ms := newTestRepo(t)

	mk := func(id string) []byte {
		b, _ := json.Marshal(domtaste.Interaction{ID: id, UserID: "u1", Type: domtaste.InteractionView})
		return b
	}
	ms.lrangeFn = func(_ context.Context, key string, start, stop int64) ([][]byte, error) {
		if key != "curator:taste:log:u1" {
			t.Errorf("unexpected key: %s", key)
		}
		if start != -3 || stop != -1 {
			t.Errorf("range = [%d,%d], want tail window [-3,-1]", start, stop)
		}
		return [][]byte{mk("e1"), []byte("corrupt"), mk("e3")}, nil
	}

	events, err := repo.RecentInteractions(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 (corrupt entry skipped)", len(events))
	}
	if events[0].ID != "e1" || events[1].ID != "e3" {
		t.Errorf("order lost: %+v", events)
	}
}

func TestAppendEvolutionEvent(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	ms.rpushFn = func(_ context.Context, key string, _ ...[]byte) error {
		gotKey = key
		return nil
	}

	ev := domtaste.EvolutionEvent{
		PreferenceType: "medium", OldValue: "oil", NewValue: "sculpture", Confidence: 0.9,
	}
	if err := repo.AppendEvolutionEvent(context.Background(), "u1", ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "curator:taste:evolution:u1" {
		t.Errorf("key = %s", gotKey)
	}
}

func TestAppendInteraction_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.rpushFn = func(_ context.Context, _ string, _ ...[]byte) error {
		return errors.New("OOM")
	}

	err := repo.AppendInteraction(context.Background(), domtaste.Interaction{UserID: "u1"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}
