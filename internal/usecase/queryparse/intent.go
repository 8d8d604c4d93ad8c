package queryparse

import (
	"strings"

	"github.com/atelier-cloud/curator/internal/domain/query"
)

// intentRule maps trigger phrases to an intent. Rules are evaluated in
// order; the first rule with any matching phrase wins.
type intentRule struct {
	intent  query.Intent
	phrases []string
}

// defaultIntentRules is the ordered rule table. Artist references outrank
// catalogue references, which outrank similarity, style, and mood cues.
var defaultIntentRules = []intentRule{
	{query.IntentSearchArtist, []string{
		"artist", "painter", "sculptor", "photographer", "by the artist", "artists like", "who makes", "who paints",
	}},
	{query.IntentSearchCatalogue, []string{
		"catalogue", "catalog", "collection", "curated", "exhibition", "series of works",
	}},
	{query.IntentDiscoverSimilar, []string{
		"similar to", "like this", "more like", "in the style of this", "related to",
	}},
	{query.IntentFindByStyle, []string{
		"style", "technique", "brushwork", "in the manner of", "movement",
	}},
	{query.IntentFindByMood, []string{
		"mood", "feeling", "feels", "calm", "calming", "energetic", "moody",
		"serene", "dramatic", "peaceful", "vibrant", "melancholic",
	}},
}

// Classifier labels queries with an intent using the ordered rule table.
type Classifier struct {
	rules []intentRule
}

// NewClassifier creates a classifier with the default rule table.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultIntentRules}
}

// Classify returns the first matching intent, defaulting to artwork search.
// Deterministic: no state, no randomness.
func (c *Classifier) Classify(rawQuery string) query.Intent {
	q := strings.ToLower(rawQuery)
	for _, rule := range c.rules {
		for _, phrase := range rule.phrases {
			if strings.Contains(q, phrase) {
				return rule.intent
			}
		}
	}
	return query.IntentSearchArtwork
}
