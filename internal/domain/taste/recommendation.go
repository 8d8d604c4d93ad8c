package taste

// ScoreSource tags where a recommendation score came from, so a real model
// can later replace the heuristics behind the same interface.
type ScoreSource string

const (
	// SourceHeuristic marks the deterministic weighted-linear scorer.
	SourceHeuristic ScoreSource = "heuristic"
)

// ModelSource builds a ScoreSource for a named model.
func ModelSource(modelID string) ScoreSource {
	return ScoreSource("model:" + modelID)
}

// IntentBreakdown exposes the sub-scores of the purchase-intent formula,
// each in [0, 1].
type IntentBreakdown struct {
	StyleMatch    float64 `json:"style_match"`
	BudgetFit     float64 `json:"budget_fit"`
	NoveltyFactor float64 `json:"novelty_factor"`
	SocialProof   float64 `json:"social_proof"`
	UrgencyFactor float64 `json:"urgency_factor"`
}

// Recommendation is one ephemeral, explained recommendation.
type Recommendation struct {
	ArtworkID           string          `json:"artwork_id"`
	ConfidenceScore     float64         `json:"confidence_score"` // 0..100
	Reasons             []string        `json:"reasons"`
	Breakdown           IntentBreakdown `json:"breakdown"`
	PersonalizedMessage string          `json:"personalized_message,omitempty"`
	Source              ScoreSource     `json:"source"`
}

// Shift is one detected taste shift, returned to callers and appended to
// the profile's evolution log.
type Shift struct {
	PreferenceType string  `json:"preference_type"`
	OldValue       string  `json:"old_value"`
	NewValue       string  `json:"new_value"`
	Confidence     float64 `json:"confidence"`
}
