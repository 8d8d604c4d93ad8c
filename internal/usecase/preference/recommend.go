package preference

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/taste"
)

// reasonThreshold is the sub-score level at which a dimension is named in
// the recommendation's reasons.
const reasonThreshold = 0.7

// RecommendContext carries caller-supplied recommendation hints.
type RecommendContext struct {
	Occasion  string
	BudgetMin *float64
	BudgetMax *float64
	Limit     int
}

// Recommend builds explained recommendations: profile + recent window →
// candidate fetch biased by the profile's top preferences → purchase-intent
// scoring → reasons naming the dominant sub-scores → top-N. Recommendations
// are best-effort: any failure yields an empty list and a logged error.
func (s *Service) Recommend(ctx context.Context, userID string, rctx RecommendContext) []taste.Recommendation {
	recs, err := s.recommend(ctx, userID, rctx)
	if err != nil {
		s.logger.Error("recommendation generation failed",
			zap.String("user_id", userID), zap.Error(err))
		return []taste.Recommendation{}
	}
	return recs
}

func (s *Service) recommend(ctx context.Context, userID string, rctx RecommendContext) ([]taste.Recommendation, error) {
	profile, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}
	window, err := s.profiles.RecentInteractions(ctx, userID, s.cfg.RecentWindowSize)
	if err != nil {
		return nil, fmt.Errorf("load interaction window: %w", err)
	}

	candidates, err := s.fetchCandidates(ctx, profile, rctx)
	if err != nil {
		return nil, err
	}

	purchased := purchasedTargets(window)
	limit := rctx.Limit
	if limit <= 0 || limit > s.cfg.RecommendationLimit {
		limit = s.cfg.RecommendationLimit
	}

	recs := make([]taste.Recommendation, 0, len(candidates))
	for _, art := range candidates {
		if purchased[art.ID] {
			continue
		}
		intent := s.scoreIntent(ctx, profile, window, art)
		recs = append(recs, taste.Recommendation{
			ArtworkID:           art.ID,
			ConfidenceScore:     intent.Score,
			Reasons:             recommendationReasons(intent.Breakdown),
			Breakdown:           intent.Breakdown,
			PersonalizedMessage: personalizedMessage(profile, art, rctx.Occasion),
			Source:              intent.Source,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ConfidenceScore > recs[j].ConfidenceScore
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// fetchCandidates queries artworks matching the profile's top preferences
// and the caller's budget override. When the biased query finds nothing,
// it falls back to an unfiltered page so a sparse profile still gets
// recommendations.
func (s *Service) fetchCandidates(ctx context.Context, profile taste.Profile, rctx RecommendContext) ([]catalog.Artwork, error) {
	prefs := profile.AestheticPreferences
	priceMin, priceMax := rctx.BudgetMin, rctx.BudgetMax
	if priceMax == nil && profile.Budget.Max > 0 {
		budgetMax := profile.Budget.Max
		priceMax = &budgetMax
	}

	filters, err := catalog.NewFilters(
		topValues(prefs.MediumPreferences, 3),
		topValues(prefs.StyleAffinities, 3),
		nil,
		topValues(prefs.ColorPalette, 3),
		priceMin, priceMax,
		nil, nil,
		"",
	)
	if err != nil {
		return nil, fmt.Errorf("build candidate filters: %w", err)
	}

	candidates, err := s.catalog.QueryArtworks(ctx, filters, s.cfg.CandidatePoolSize)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	if len(candidates) == 0 && !filters.IsEmpty() {
		candidates, err = s.catalog.QueryArtworks(ctx, catalog.Filters{}, s.cfg.CandidatePoolSize)
		if err != nil {
			return nil, fmt.Errorf("fetch fallback candidates: %w", err)
		}
	}
	return candidates, nil
}

func topValues(list []taste.WeightedValue, n int) []string {
	out := make([]string, 0, n)
	for _, entry := range list {
		if entry.Weight <= 0 {
			continue
		}
		out = append(out, entry.Value)
		if len(out) >= n {
			break
		}
	}
	return out
}

func purchasedTargets(window []taste.Interaction) map[string]bool {
	out := map[string]bool{}
	for _, ev := range window {
		if ev.Type == taste.InteractionPurchase {
			out[ev.TargetID] = true
		}
	}
	return out
}

// recommendationReasons names the sub-scores that dominate the prediction.
func recommendationReasons(bd taste.IntentBreakdown) []string {
	var reasons []string
	if bd.StyleMatch >= reasonThreshold {
		reasons = append(reasons, "Matches your style")
	}
	if bd.BudgetFit >= reasonThreshold {
		reasons = append(reasons, "Fits your budget")
	}
	if bd.NoveltyFactor >= reasonThreshold {
		reasons = append(reasons, "Something new for you")
	}
	if bd.SocialProof >= reasonThreshold {
		reasons = append(reasons, "Popular with collectors")
	}
	if bd.UrgencyFactor >= reasonThreshold {
		reasons = append(reasons, "Limited availability")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Selected for your collection")
	}
	return reasons
}

func personalizedMessage(profile taste.Profile, art catalog.Artwork, occasion string) string {
	if occasion != "" {
		return fmt.Sprintf("A thoughtful choice for %s", occasion)
	}
	if mediums := profile.AestheticPreferences.MediumPreferences; len(mediums) > 0 && art.Medium != "" {
		return fmt.Sprintf("Picked for your interest in %s works", mediums[0].Value)
	}
	if art.ArtistName != "" {
		return fmt.Sprintf("A piece by %s we think you'll enjoy", art.ArtistName)
	}
	return "Curated to help you discover new artists"
}
