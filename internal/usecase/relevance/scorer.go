// Package relevance computes the additive, explainable relevance score for
// a single candidate against a parsed query. Every signal contributes a
// configured weight band and a human-readable reason, so each can be tuned
// and tested in isolation.
package relevance

import (
	"math"
	"strings"
	"time"

	"github.com/atelier-cloud/curator/internal/config"
	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/query"
)

// Options are the caller-supplied scoring knobs.
type Options struct {
	// PriceSensitivity in [0,1]: 0 = budget-focused, 1 = price-insensitive.
	PriceSensitivity float64
	// DiscoveryMode in [0,1] biases low-popularity candidates upward when it
	// exceeds the configured threshold. This is the only explicit
	// exploration control; it stays a parameter, never a constant.
	DiscoveryMode float64
	// Now anchors the recency window; zero means time.Now().
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Scorer scores catalog candidates. Stateless; safe for concurrent use.
type Scorer struct {
	cfg config.ScoringConfig
}

// New creates a scorer with the given weights.
func New(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// ScoreArtwork scores one artwork against the parsed query.
func (s *Scorer) ScoreArtwork(a catalog.Artwork, ents query.Entities, rawQuery string, opts Options) (float64, []string) {
	var score float64
	var reasons []string

	score += s.textSignal(a.Title+" "+a.Description, rawQuery, &reasons)

	attrs := 0
	attrs += matches(ents.Mediums, a.Medium)
	attrs += matches(ents.Genres, a.Genre)
	attrs += matchesAny(ents.Subjects, a.Subjects)
	if n := matchesAny(ents.Colors, a.Colors); n > 0 {
		attrs += n
		reasons = append(reasons, "Matches your preferred colors")
	}
	if attrs > 0 {
		score += float64(attrs) * s.cfg.AttributeBonus
		reasons = append(reasons, "Matches what you asked for")
	}

	if n := tokenMatches(rawQuery, a.ArtistName); n > 0 {
		score += float64(n) * s.cfg.ArtistTokenBonus
		reasons = append(reasons, "By an artist you searched for")
	}

	if fit := s.PriceFit(a.Price, opts.PriceSensitivity); fit > 0 {
		score += fit * s.cfg.PriceFitWeight
		reasons = append(reasons, "Within your budget")
	}

	pop := s.popularity(a.Views, a.Likes)
	if capped := math.Min(s.cfg.PopularityCap, pop); capped > 0 {
		score += capped
		if capped >= s.cfg.PopularityCap/2 {
			reasons = append(reasons, "Popular with collectors")
		}
	}

	if opts.now().Sub(a.CreatedAt) <= time.Duration(s.cfg.RecencyWindowDays)*24*time.Hour {
		score += s.cfg.RecencyBonus
		reasons = append(reasons, "Recently added")
	}

	if opts.DiscoveryMode > s.cfg.DiscoveryThreshold {
		bonus := (1 - math.Min(pop, 100)/100) * opts.DiscoveryMode * s.cfg.DiscoveryWeight
		if bonus > 0 {
			score += bonus
			reasons = append(reasons, "A fresh discovery")
		}
	}

	return clamp(score), reasons
}

// ScoreArtist scores one artist against the parsed query.
func (s *Scorer) ScoreArtist(a catalog.Artist, ents query.Entities, rawQuery string, opts Options) (float64, []string) {
	var score float64
	var reasons []string

	score += s.textSignal(a.Name+" "+a.Bio, rawQuery, &reasons)

	attrs := matchesAny(ents.Mediums, a.Mediums) + matchesAny(ents.Genres, a.Genres)
	if attrs > 0 {
		score += float64(attrs) * s.cfg.AttributeBonus
		reasons = append(reasons, "Works in what you asked for")
	}

	if n := tokenMatches(rawQuery, a.Name); n > 0 {
		score += float64(n) * s.cfg.ArtistTokenBonus
		reasons = append(reasons, "Name matches your search")
	}

	if pop := math.Min(s.cfg.PopularityCap, float64(a.Followers)/s.cfg.PopularityScale); pop > 0 {
		score += pop
	}

	return clamp(score), reasons
}

// ScoreCatalogue scores one catalogue against the parsed query.
func (s *Scorer) ScoreCatalogue(c catalog.Catalogue, ents query.Entities, rawQuery string, opts Options) (float64, []string) {
	var score float64
	var reasons []string

	score += s.textSignal(c.Title+" "+c.Description, rawQuery, &reasons)

	attrs := matchesAny(ents.Genres, c.Themes) + matchesAny(ents.Subjects, c.Themes)
	if attrs > 0 {
		score += float64(attrs) * s.cfg.AttributeBonus
		reasons = append(reasons, "A collection on your theme")
	}

	if opts.now().Sub(c.CreatedAt) <= time.Duration(s.cfg.RecencyWindowDays)*24*time.Hour {
		score += s.cfg.RecencyBonus
		reasons = append(reasons, "Recently added")
	}

	return clamp(score), reasons
}

// PriceFit is the shared price-affinity formula: max(0, 1 - price/maxBudget)
// with maxBudget = sensitivity * BudgetUpperBound. A zero budget degrades
// to a binary low-price check.
func (s *Scorer) PriceFit(price, sensitivity float64) float64 {
	return s.BudgetFit(price, sensitivity*s.cfg.BudgetUpperBound)
}

// BudgetFit applies the price-affinity formula against an explicit budget
// ceiling, e.g. a taste profile's budget range.
func (s *Scorer) BudgetFit(price, maxBudget float64) float64 {
	if maxBudget == 0 {
		if price <= s.cfg.LowPriceThreshold {
			return 1
		}
		return 0
	}
	return math.Max(0, 1-price/maxBudget)
}

// popularity is the uncapped engagement signal (views + likes*3) / scale.
func (s *Scorer) popularity(views, likes int) float64 {
	return (float64(views) + float64(likes)*3) / s.cfg.PopularityScale
}

// textSignal awards the full-match bonus when the raw query occurs in the
// candidate text, otherwise the per-token partial bonus.
func (s *Scorer) textSignal(text, rawQuery string, reasons *[]string) float64 {
	q := strings.TrimSpace(strings.ToLower(rawQuery))
	if q == "" {
		return 0
	}
	hay := strings.ToLower(text)
	if strings.Contains(hay, q) {
		*reasons = append(*reasons, "Matches your search terms")
		return s.cfg.TextMatchBonus
	}
	if n := tokenMatches(rawQuery, text); n > 0 {
		*reasons = append(*reasons, "Matches some of your search terms")
		return float64(n) * s.cfg.KeywordTokenBonus
	}
	return 0
}

// tokenMatches counts query tokens of at least 3 characters occurring in
// the candidate text.
func tokenMatches(rawQuery, text string) int {
	hay := strings.ToLower(text)
	n := 0
	for _, tok := range strings.Fields(strings.ToLower(rawQuery)) {
		if len(tok) < 3 {
			continue
		}
		if strings.Contains(hay, tok) {
			n++
		}
	}
	return n
}

func matches(terms []string, value string) int {
	v := strings.ToLower(value)
	for _, t := range terms {
		if t == v {
			return 1
		}
	}
	return 0
}

func matchesAny(terms, values []string) int {
	n := 0
	for _, t := range terms {
		for _, v := range values {
			if strings.EqualFold(t, v) {
				n++
				break
			}
		}
	}
	return n
}

// clamp keeps the final score non-negative and finite.
func clamp(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return math.Max(0, score)
}
