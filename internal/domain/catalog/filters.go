package catalog

import (
	"fmt"
	"strings"

	"github.com/atelier-cloud/curator/internal/domain"
)

// MaxFilterTerms bounds each term list in a filter.
const MaxFilterTerms = 16

// Filters is a validated, enumerated filter set for catalog reads. It
// replaces the loosely-typed filter maps the persistence layer used to
// accept: every field is explicit and normalized at construction.
type Filters struct {
	mediums  []string
	genres   []string
	subjects []string
	colors   []string
	priceMin *float64
	priceMax *float64
	yearMin  *int
	yearMax  *int
	text     string
}

// NewFilters validates and normalizes a filter set. Term lists are
// lower-cased; empty terms are rejected. Validation failures wrap
// domain.ErrInvalidFilter.
func NewFilters(
	mediums, genres, subjects, colors []string,
	priceMin, priceMax *float64,
	yearMin, yearMax *int,
	text string,
) (Filters, error) {
	lists := map[string][]string{
		"mediums": mediums, "genres": genres, "subjects": subjects, "colors": colors,
	}
	for name, terms := range lists {
		if len(terms) > MaxFilterTerms {
			return Filters{}, fmt.Errorf("%w: too many %s terms (max %d)", domain.ErrInvalidFilter, name, MaxFilterTerms)
		}
		for _, term := range terms {
			if strings.TrimSpace(term) == "" {
				return Filters{}, fmt.Errorf("%w: empty term in %s", domain.ErrInvalidFilter, name)
			}
		}
	}
	if priceMin != nil && *priceMin < 0 {
		return Filters{}, fmt.Errorf("%w: price_min must be >= 0", domain.ErrInvalidFilter)
	}
	if priceMin != nil && priceMax != nil && *priceMax < *priceMin {
		return Filters{}, fmt.Errorf("%w: price_max < price_min", domain.ErrInvalidFilter)
	}
	if yearMin != nil && yearMax != nil && *yearMax < *yearMin {
		return Filters{}, fmt.Errorf("%w: year_max < year_min", domain.ErrInvalidFilter)
	}
	return Filters{
		mediums:  lower(mediums),
		genres:   lower(genres),
		subjects: lower(subjects),
		colors:   lower(colors),
		priceMin: priceMin,
		priceMax: priceMax,
		yearMin:  yearMin,
		yearMax:  yearMax,
		text:     strings.ToLower(strings.TrimSpace(text)),
	}, nil
}

func lower(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// Mediums returns the medium terms.
func (f Filters) Mediums() []string { return f.mediums }

// Genres returns the genre terms.
func (f Filters) Genres() []string { return f.genres }

// Subjects returns the subject terms.
func (f Filters) Subjects() []string { return f.subjects }

// Colors returns the color terms.
func (f Filters) Colors() []string { return f.colors }

// PriceMin returns the inclusive lower price bound.
func (f Filters) PriceMin() *float64 { return f.priceMin }

// PriceMax returns the inclusive upper price bound.
func (f Filters) PriceMax() *float64 { return f.priceMax }

// YearMin returns the inclusive lower year bound.
func (f Filters) YearMin() *int { return f.yearMin }

// YearMax returns the inclusive upper year bound.
func (f Filters) YearMax() *int { return f.yearMax }

// Text returns the normalized free-text fragment.
func (f Filters) Text() string { return f.text }

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return len(f.mediums) == 0 && len(f.genres) == 0 && len(f.subjects) == 0 &&
		len(f.colors) == 0 && f.priceMin == nil && f.priceMax == nil &&
		f.yearMin == nil && f.yearMax == nil && f.text == ""
}

// CacheKey is a deterministic serialization of the filter set, used to key
// cached result pages.
func (f Filters) CacheKey() string {
	var b strings.Builder
	writeList := func(name string, terms []string) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.Join(terms, ","))
		b.WriteByte(';')
	}
	writeList("m", f.mediums)
	writeList("g", f.genres)
	writeList("s", f.subjects)
	writeList("c", f.colors)
	if f.priceMin != nil {
		fmt.Fprintf(&b, "pmin=%g;", *f.priceMin)
	}
	if f.priceMax != nil {
		fmt.Fprintf(&b, "pmax=%g;", *f.priceMax)
	}
	if f.yearMin != nil {
		fmt.Fprintf(&b, "ymin=%d;", *f.yearMin)
	}
	if f.yearMax != nil {
		fmt.Fprintf(&b, "ymax=%d;", *f.yearMax)
	}
	b.WriteString("t=" + f.text)
	return b.String()
}

// MatchArtwork reports whether an artwork passes the filter set.
func (f Filters) MatchArtwork(a Artwork) bool {
	if len(f.mediums) > 0 && !containsFold(f.mediums, a.Medium) {
		return false
	}
	if len(f.genres) > 0 && !containsFold(f.genres, a.Genre) {
		return false
	}
	if len(f.subjects) > 0 && !intersectsFold(f.subjects, a.Subjects) {
		return false
	}
	if len(f.colors) > 0 && !intersectsFold(f.colors, a.Colors) {
		return false
	}
	if f.priceMin != nil && a.Price < *f.priceMin {
		return false
	}
	if f.priceMax != nil && a.Price > *f.priceMax {
		return false
	}
	if f.yearMin != nil && a.Year < *f.yearMin {
		return false
	}
	if f.yearMax != nil && a.Year > *f.yearMax {
		return false
	}
	if f.text != "" {
		hay := strings.ToLower(a.Title + " " + a.Description + " " + a.ArtistName)
		if !strings.Contains(hay, f.text) {
			return false
		}
	}
	return true
}

// MatchArtist reports whether an artist passes the filter set. Price and
// year bounds do not apply to artists.
func (f Filters) MatchArtist(a Artist) bool {
	if len(f.mediums) > 0 && !intersectsFold(f.mediums, a.Mediums) {
		return false
	}
	if len(f.genres) > 0 && !intersectsFold(f.genres, a.Genres) {
		return false
	}
	if f.text != "" {
		hay := strings.ToLower(a.Name + " " + a.Bio)
		if !strings.Contains(hay, f.text) {
			return false
		}
	}
	return true
}

// MatchCatalogue reports whether a catalogue passes the filter set. Only
// genre/subject themes and free text apply.
func (f Filters) MatchCatalogue(c Catalogue) bool {
	if len(f.genres) > 0 && !intersectsFold(f.genres, c.Themes) {
		return false
	}
	if len(f.subjects) > 0 && !intersectsFold(f.subjects, c.Themes) {
		return false
	}
	if f.text != "" {
		hay := strings.ToLower(c.Title + " " + c.Description)
		if !strings.Contains(hay, f.text) {
			return false
		}
	}
	return true
}

func containsFold(terms []string, v string) bool {
	v = strings.ToLower(v)
	for _, t := range terms {
		if t == v {
			return true
		}
	}
	return false
}

func intersectsFold(terms, values []string) bool {
	for _, v := range values {
		if containsFold(terms, v) {
			return true
		}
	}
	return false
}
