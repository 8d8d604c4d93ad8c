// Package taste persists the per-collector taste model: the profile as a
// JSON document plus two append-only event logs (interactions, evolution).
package taste

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atelier-cloud/curator/internal/db"
	"github.com/atelier-cloud/curator/internal/domain"
	domtaste "github.com/atelier-cloud/curator/internal/domain/taste"
)

// store is the consumer interface for taste persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
}

// Repo implements the preference usecase's profile and event-log contracts.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a taste repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) profileKey(userID string) string   { return r.keyPrefix + "taste:profile:" + userID }
func (r *Repo) logKey(userID string) string       { return r.keyPrefix + "taste:log:" + userID }
func (r *Repo) evolutionKey(userID string) string { return r.keyPrefix + "taste:evolution:" + userID }

// GetProfile returns the stored profile, or domain.ErrProfileNotFound.
func (r *Repo) GetProfile(ctx context.Context, userID string) (domtaste.Profile, error) {
	raw, err := r.store.JSONGet(ctx, r.profileKey(userID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domtaste.Profile{}, domain.ErrProfileNotFound
		}
		return domtaste.Profile{}, fmt.Errorf("json.get profile %s: %w", userID, err)
	}
	var p domtaste.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return domtaste.Profile{}, fmt.Errorf("unmarshal profile %s: %w", userID, err)
	}
	return p, nil
}

// UpsertProfile stores a profile.
func (r *Repo) UpsertProfile(ctx context.Context, p domtaste.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.profileKey(p.UserID), "$", data); err != nil {
		return fmt.Errorf("%w: json.set profile %s: %w", domain.ErrStoreUnavailable, p.UserID, err)
	}
	return nil
}

// AppendInteraction appends one event to the user's interaction log.
// The log is append-only; events are never edited or removed here.
func (r *Repo) AppendInteraction(ctx context.Context, event domtaste.Interaction) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}
	if err := r.store.RPush(ctx, r.logKey(event.UserID), data); err != nil {
		return fmt.Errorf("%w: append interaction for %s: %w", domain.ErrStoreUnavailable, event.UserID, err)
	}
	return nil
}

// RecentInteractions returns the newest n events for a user, newest last.
func (r *Repo) RecentInteractions(ctx context.Context, userID string, n int) ([]domtaste.Interaction, error) {
	raw, err := r.store.LRange(ctx, r.logKey(userID), int64(-n), -1)
	if err != nil {
		return nil, fmt.Errorf("read interaction log for %s: %w", userID, err)
	}
	out := make([]domtaste.Interaction, 0, len(raw))
	for _, b := range raw {
		var ev domtaste.Interaction
		if err := json.Unmarshal(b, &ev); err != nil {
			continue // skip one corrupt entry, keep the window
		}
		out = append(out, ev)
	}
	return out, nil
}

// AppendEvolutionEvent appends one taste-shift event to the user's
// evolution log. Events are immutable once written.
func (r *Repo) AppendEvolutionEvent(ctx context.Context, userID string, ev domtaste.EvolutionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal evolution event: %w", err)
	}
	if err := r.store.RPush(ctx, r.evolutionKey(userID), data); err != nil {
		return fmt.Errorf("%w: append evolution event for %s: %w", domain.ErrStoreUnavailable, userID, err)
	}
	return nil
}
