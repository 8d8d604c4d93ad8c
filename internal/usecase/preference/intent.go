package preference

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/taste"
)

// Purchase-intent formula weights (reference values).
const (
	styleWeight   = 0.30
	budgetWeight  = 0.25
	noveltyWeight = 0.20
	socialWeight  = 0.15
	urgencyWeight = 0.10
)

// Deterministic sub-score constants. Scores must be reproducible; a real
// model slots in behind ScoreSource.
const (
	// neutralAffinity is the style score when the profile has no ranked
	// preferences yet.
	neutralAffinity = 0.5
	// socialProofScale normalizes likes+saves into [0,1].
	socialProofScale = 100.0
	// editionUrgency / saleUrgency are the scarcity and deadline halves of
	// the urgency sub-score.
	editionUrgency = 0.5
	saleUrgency    = 0.5
	// saleUrgencyWindow is how close a sale end must be to count as urgent.
	saleUrgencyWindow = 7 * 24 * time.Hour
)

// IntentScore is a scored purchase-intent prediction with its sub-scores
// and the scorer that produced it.
type IntentScore struct {
	Score     float64               `json:"score"` // 0..100
	Breakdown taste.IntentBreakdown `json:"breakdown"`
	Source    taste.ScoreSource     `json:"source"`
}

// PredictPurchaseIntent scores how likely the user is to purchase the given
// artwork, 0..100. The artwork must exist; the profile is lazily defaulted.
func (s *Service) PredictPurchaseIntent(ctx context.Context, artworkID, userID string) (IntentScore, error) {
	art, err := s.catalog.GetArtwork(ctx, artworkID)
	if err != nil {
		return IntentScore{}, fmt.Errorf("load artwork %s: %w", artworkID, err)
	}
	profile, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return IntentScore{}, err
	}
	window, err := s.profiles.RecentInteractions(ctx, userID, s.cfg.RecentWindowSize)
	if err != nil {
		// The window only feeds novelty; score without it rather than fail.
		s.logger.Warn("interaction window unavailable for intent scoring",
			zap.String("user_id", userID), zap.Error(err))
		window = nil
	}
	return s.scoreIntent(ctx, profile, window, art), nil
}

// scoreIntent evaluates the weighted purchase-intent formula for one
// candidate.
func (s *Service) scoreIntent(ctx context.Context, profile taste.Profile, window []taste.Interaction, art catalog.Artwork) IntentScore {
	bd := taste.IntentBreakdown{
		StyleMatch:    styleMatch(profile.AestheticPreferences, art),
		BudgetFit:     s.scorer.BudgetFit(art.Price, profile.Budget.Max),
		NoveltyFactor: s.novelty(ctx, window, art),
		SocialProof:   math.Min(1, (float64(art.Likes)+float64(art.Saves))/socialProofScale),
		UrgencyFactor: urgency(art, s.now()),
	}
	total := bd.StyleMatch*styleWeight +
		bd.BudgetFit*budgetWeight +
		bd.NoveltyFactor*noveltyWeight +
		bd.SocialProof*socialWeight +
		bd.UrgencyFactor*urgencyWeight
	return IntentScore{
		Score:     math.Max(0, math.Min(100, total*100)),
		Breakdown: bd,
		Source:    taste.SourceHeuristic,
	}
}

// styleMatch is the mean of the candidate's rank-normalized affinity in the
// medium and style preference lists. An empty profile scores neutral.
func styleMatch(prefs taste.AestheticPreferences, art catalog.Artwork) float64 {
	if len(prefs.MediumPreferences) == 0 && len(prefs.StyleAffinities) == 0 {
		return neutralAffinity
	}
	return (rankedAffinity(prefs.MediumPreferences, art.Medium) +
		rankedAffinity(prefs.StyleAffinities, art.Genre)) / 2
}

// rankedAffinity is the value's weight relative to the list's top weight,
// in [0,1]. An empty list is neutral; an absent value scores 0.
func rankedAffinity(list []taste.WeightedValue, value string) float64 {
	if len(list) == 0 {
		return neutralAffinity
	}
	top := list[0].Weight
	if top <= 0 {
		return 0
	}
	for _, entry := range list {
		if strings.EqualFold(entry.Value, value) {
			return math.Min(1, entry.Weight/top)
		}
	}
	return 0
}

// novelty is inversely related to how often similar attributes appeared in
// the recent window: 1 means the user has seen nothing like it lately.
func (s *Service) novelty(ctx context.Context, window []taste.Interaction, art catalog.Artwork) float64 {
	if len(window) == 0 {
		return 1
	}
	cache := map[string]*catalog.Artwork{}
	similar := 0
	for _, ev := range window {
		if ev.TargetID == art.ID {
			similar++
			continue
		}
		obs := s.observe(ctx, ev, cache)
		if obs.medium != "" && strings.EqualFold(obs.medium, art.Medium) {
			similar++
		}
	}
	return 1 - float64(similar)/float64(len(window))
}

// urgency reflects scarcity (limited edition) and deadline (sale ending
// within the window) signals on the candidate.
func urgency(art catalog.Artwork, now time.Time) float64 {
	var u float64
	if art.Edition != "" {
		u += editionUrgency
	}
	if art.SaleEndsAt != nil {
		remaining := art.SaleEndsAt.Sub(now)
		if remaining > 0 && remaining <= saleUrgencyWindow {
			u += saleUrgency
		}
	}
	return math.Min(1, u)
}
