// Package preference is the taste-learning engine: it ingests collector
// interactions, maintains the per-user taste profile, detects taste shifts,
// and scores purchase intent and recommendations.
package preference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/config"
	"github.com/atelier-cloud/curator/internal/domain"
	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/taste"
	"github.com/atelier-cloud/curator/internal/metrics"
	"github.com/atelier-cloud/curator/internal/usecase/relevance"
)

// Experience-level promotion thresholds.
const (
	intermediateInteractions = 25
	advancedInteractions     = 100
	intermediatePurchases    = 3
	advancedPurchases        = 10
)

// Service is the preference-learning engine. Writes to one user's profile
// are serialized through striped locks; reads are lock-free.
type Service struct {
	profiles ProfileStore
	catalog  CatalogReader
	scorer   *relevance.Scorer
	cfg      config.PreferenceConfig
	logger   *zap.Logger
	locks    *userLocks
	now      func() time.Time
}

// New creates a preference service.
func New(profiles ProfileStore, cat CatalogReader, scorer *relevance.Scorer, cfg config.PreferenceConfig, logger *zap.Logger) *Service {
	return &Service{
		profiles: profiles,
		catalog:  cat,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logger,
		locks:    newUserLocks(64),
		now:      time.Now,
	}
}

// RecordInteraction appends the event to the user's interaction log, then
// folds it into the taste profile under a per-user lock. Both writes
// propagate failures: a dropped interaction silently corrupts the model, so
// the caller must be able to retry.
func (s *Service) RecordInteraction(ctx context.Context, event taste.Interaction) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if err := s.profiles.AppendInteraction(ctx, event); err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}

	obs := s.observe(ctx, event, map[string]*catalog.Artwork{})

	unlock := s.locks.lock(event.UserID)
	defer unlock()

	profile, err := s.loadOrInit(ctx, event.UserID)
	if err != nil {
		return err
	}
	s.applyInteraction(&profile, event, obs)
	profile.UpdatedAt = s.now()

	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("persist profile %s: %w", event.UserID, err)
	}
	metrics.InteractionsIngestedTotal.WithLabelValues(string(event.Type)).Inc()
	return nil
}

// Profile returns the user's taste profile, lazily defaulted when none is
// stored yet. The default is not persisted until the first interaction.
func (s *Service) Profile(ctx context.Context, userID string) (taste.Profile, error) {
	return s.loadOrInit(ctx, userID)
}

func (s *Service) loadOrInit(ctx context.Context, userID string) (taste.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return taste.DefaultProfile(userID, s.now()), nil
	}
	if err != nil {
		return taste.Profile{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
	profile.FillDefaults(s.now())
	return profile, nil
}

// observation is what an interaction tells us about the collector's taste:
// the target's attributes, resolved from the catalog when the target is an
// artwork, with event metadata filling any gaps.
type observation struct {
	medium string
	style  string
	colors []string
	price  float64
	width  float64
	height float64
}

// observe resolves the event target's attributes. Lookup failures degrade to
// metadata-only: the event itself was already persisted and must still count.
func (s *Service) observe(ctx context.Context, event taste.Interaction, cache map[string]*catalog.Artwork) observation {
	var obs observation
	if event.TargetType == "artwork" {
		art, ok := cache[event.TargetID]
		if !ok {
			if a, err := s.catalog.GetArtwork(ctx, event.TargetID); err == nil {
				art = &a
			} else {
				s.logger.Debug("interaction target not resolvable",
					zap.String("target_id", event.TargetID), zap.Error(err))
			}
			cache[event.TargetID] = art
		}
		if art != nil {
			obs.medium = art.Medium
			obs.style = art.Genre
			obs.colors = art.Colors
			obs.price = art.Price
			obs.width = art.Dimensions.WidthCM
			obs.height = art.Dimensions.HeightCM
		}
	}
	if v := event.Metadata["medium"]; v != "" {
		obs.medium = v
	}
	if v := event.Metadata["style"]; v != "" {
		obs.style = v
	}
	if v := event.Metadata["color"]; v != "" {
		obs.colors = append(obs.colors, v)
	}
	if v := event.Metadata["price"]; v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil && p > 0 {
			obs.price = p
		}
	}
	return obs
}

// applyInteraction folds one event into the profile: weighted preference
// lists, budget band, size window, behavioral counters, experience level.
func (s *Service) applyInteraction(p *taste.Profile, event taste.Interaction, obs observation) {
	weight := s.cfg.InteractionWeights[string(event.Type)]

	prefs := &p.AestheticPreferences
	if obs.medium != "" {
		prefs.MediumPreferences = s.mergeWeighted(prefs.MediumPreferences, []string{obs.medium}, weight)
	}
	if obs.style != "" {
		prefs.StyleAffinities = s.mergeWeighted(prefs.StyleAffinities, []string{obs.style}, weight)
	}
	if len(obs.colors) > 0 {
		prefs.ColorPalette = s.mergeWeighted(prefs.ColorPalette, obs.colors, weight)
	}
	if obs.price > 0 {
		s.updateBudget(&p.Budget, obs.price)
	}
	if obs.width > 0 && obs.height > 0 {
		widenSize(&prefs.SizePreferences, obs.width, obs.height)
	}

	p.BehavioralPatterns.TotalInteractions++
	p.BehavioralPatterns.LastInteractionAt = event.Timestamp
	switch event.Type {
	case taste.InteractionPurchase:
		p.BehavioralPatterns.PurchaseCount++
	case taste.InteractionReject:
		p.BehavioralPatterns.RejectCount++
	}
	updateExperience(p)
}

// mergeWeighted folds observed values into a ranked preference list:
// existing entries gain a +1 presence count, new values enter with the
// interaction weight. The list is re-sorted descending and truncated, so
// stale preferences decay by being crowded out rather than by timestamp.
func (s *Service) mergeWeighted(list []taste.WeightedValue, values []string, weight float64) []taste.WeightedValue {
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		found := false
		for i := range list {
			if list[i].Value == v {
				list[i].Weight++
				found = true
				break
			}
		}
		if !found {
			list = append(list, taste.WeightedValue{Value: v, Weight: weight})
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Weight > list[j].Weight })
	if len(list) > s.cfg.PreferenceListCap {
		list = list[:s.cfg.PreferenceListCap]
	}
	return list
}

// updateBudget widens the band toward price*0.8 / price*1.2 — a single
// observation never shrinks it — and nudges confidence up when the price
// landed inside the existing band, down when it landed outside.
func (s *Service) updateBudget(b *taste.BudgetProfile, price float64) {
	inside := price >= b.Min && price <= b.Max
	if low := price * s.cfg.BudgetWidenLow; low < b.Min {
		b.Min = low
	}
	if high := price * s.cfg.BudgetWidenHigh; high > b.Max {
		b.Max = high
	}
	if inside {
		b.Confidence = math.Min(1, b.Confidence+s.cfg.ConfidenceStepUp)
	} else {
		b.Confidence = math.Max(0, b.Confidence-s.cfg.ConfidenceStepDown)
	}
	if b.TypicalRange == 0 {
		b.TypicalRange = price
	} else {
		b.TypicalRange = 0.8*b.TypicalRange + 0.2*price
	}
}

// widenSize grows the preferred size window to include the observed piece.
func widenSize(sp *taste.SizePreferences, width, height float64) {
	sp.MinWidthCM = math.Min(sp.MinWidthCM, width)
	sp.MaxWidthCM = math.Max(sp.MaxWidthCM, width)
	sp.MinHeightCM = math.Min(sp.MinHeightCM, height)
	sp.MaxHeightCM = math.Max(sp.MaxHeightCM, height)
}

func updateExperience(p *taste.Profile) {
	bp := p.BehavioralPatterns
	switch {
	case bp.TotalInteractions >= advancedInteractions || bp.PurchaseCount >= advancedPurchases:
		p.ExperienceLevel = taste.ExperienceAdvanced
	case bp.TotalInteractions >= intermediateInteractions || bp.PurchaseCount >= intermediatePurchases:
		p.ExperienceLevel = taste.ExperienceIntermediate
	}
}
