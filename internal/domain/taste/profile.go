// Package taste holds the persisted per-collector preference model and the
// events that feed it.
package taste

import "time"

// Experience levels a collector can be classified at.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// WeightedValue is one entry of a ranked preference list: an observed
// attribute value and its accumulated interaction weight.
type WeightedValue struct {
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

// BudgetProfile tracks the price band a collector acts in. Confidence is an
// exponentially-smoothed stability signal, not a statistical posterior.
type BudgetProfile struct {
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	TypicalRange     float64 `json:"typical_range"`
	Confidence       float64 `json:"confidence"`        // 0..1
	PriceSensitivity float64 `json:"price_sensitivity"` // 0 = budget-focused, 1 = price-insensitive
}

// SizePreferences is the physical size window the collector gravitates to.
type SizePreferences struct {
	MinWidthCM  float64 `json:"min_width_cm"`
	MinHeightCM float64 `json:"min_height_cm"`
	MaxWidthCM  float64 `json:"max_width_cm"`
	MaxHeightCM float64 `json:"max_height_cm"`
}

// AestheticPreferences holds the ranked preference lists, most heavily
// weighted first.
type AestheticPreferences struct {
	ColorPalette      []WeightedValue `json:"color_palette"`
	StyleAffinities   []WeightedValue `json:"style_affinities"`
	MediumPreferences []WeightedValue `json:"medium_preferences"`
	SizePreferences   SizePreferences `json:"size_preferences"`
}

// BehavioralPatterns summarizes observed interaction habits.
type BehavioralPatterns struct {
	TotalInteractions int       `json:"total_interactions"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
	PurchaseCount     int       `json:"purchase_count"`
	RejectCount       int       `json:"reject_count"`
}

// LearningInsights carries the meta-signals derived from the interaction
// history rather than from any single event.
type LearningInsights struct {
	TasteEvolution      []EvolutionEvent `json:"taste_evolution"`
	PreferenceStability float64          `json:"preference_stability"` // 0..1
	MarketAwareness     float64          `json:"market_awareness"`     // 0..1
}

// Profile is the taste model for one collector, keyed 1:1 by user ID.
// Created lazily with DefaultProfile on first access; mutated only by the
// preference engine; deleted only by an explicit external operation.
type Profile struct {
	UserID               string               `json:"user_id"`
	ExperienceLevel      string               `json:"experience_level"`
	CollectingFocus      string               `json:"collecting_focus"`
	Budget               BudgetProfile        `json:"budget"`
	AestheticPreferences AestheticPreferences `json:"aesthetic_preferences"`
	BehavioralPatterns   BehavioralPatterns   `json:"behavioral_patterns"`
	LearningInsights     LearningInsights     `json:"learning_insights"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// DefaultProfile returns the documented lazy-creation defaults for a user.
func DefaultProfile(userID string, now time.Time) Profile {
	return Profile{
		UserID:          userID,
		ExperienceLevel: ExperienceBeginner,
		CollectingFocus: "mixed",
		Budget: BudgetProfile{
			Min:              0,
			Max:              100000,
			Confidence:       0.5,
			PriceSensitivity: 0.5,
		},
		AestheticPreferences: AestheticPreferences{
			SizePreferences: SizePreferences{
				MinWidthCM:  10,
				MinHeightCM: 10,
				MaxWidthCM:  200,
				MaxHeightCM: 200,
			},
		},
		LearningInsights: LearningInsights{
			PreferenceStability: 0.5,
			MarketAwareness:     0.5,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FillDefaults repairs a profile whose stored form is missing expected
// fields (older writes), instead of treating it as corrupt.
func (p *Profile) FillDefaults(now time.Time) {
	def := DefaultProfile(p.UserID, now)
	if p.ExperienceLevel == "" {
		p.ExperienceLevel = def.ExperienceLevel
	}
	if p.CollectingFocus == "" {
		p.CollectingFocus = def.CollectingFocus
	}
	if p.Budget.Max == 0 {
		p.Budget = def.Budget
	}
	if p.AestheticPreferences.SizePreferences == (SizePreferences{}) {
		p.AestheticPreferences.SizePreferences = def.AestheticPreferences.SizePreferences
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
}
