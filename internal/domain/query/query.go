// Package query holds the structured representation of a parsed search query.
package query

// Intent labels what a free-text query is asking for.
type Intent string

const (
	IntentSearchArtwork   Intent = "search_artwork"
	IntentSearchArtist    Intent = "search_artist"
	IntentSearchCatalogue Intent = "search_catalogue"
	IntentDiscoverSimilar Intent = "discover_similar"
	IntentFindByStyle     Intent = "find_by_style"
	IntentFindByMood      Intent = "find_by_mood"
)

// PriceRange is an inclusive price window in whole currency units.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TimePeriod is an inclusive creation-year window.
type TimePeriod struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

// Entities is the structured output of entity extraction. Absent signals are
// nil/empty — extraction never fails, it just omits what it cannot find.
// Overlapping vocabulary hits may populate several fields at once.
type Entities struct {
	Mediums    []string    `json:"mediums,omitempty"`
	Genres     []string    `json:"genres,omitempty"`
	Subjects   []string    `json:"subjects,omitempty"`
	Colors     []string    `json:"colors,omitempty"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
	TimePeriod *TimePeriod `json:"time_period,omitempty"`
}

// IsEmpty reports whether extraction found nothing structured.
func (e Entities) IsEmpty() bool {
	return len(e.Mediums) == 0 && len(e.Genres) == 0 && len(e.Subjects) == 0 &&
		len(e.Colors) == 0 && e.PriceRange == nil && e.TimePeriod == nil
}
