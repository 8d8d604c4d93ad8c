// Package queryparse turns free-text queries into structured entities and
// an intent label. Both passes are pure functions over fixed vocabulary and
// rule tables: identical input always yields identical output.
package queryparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/atelier-cloud/curator/internal/domain/query"
)

var (
	// "under $2000", "under 5k", "below $1,500"
	underPriceRegex = regexp.MustCompile(`(?:under|below|less than)\s*\$?\s*([\d,]+(?:\.\d+)?)\s*(k?)`)
	// "500 to 2000 dollars", "$500 to $2k" -- the currency marker is part of
	// the pattern so bare year ranges are not mistaken for prices
	rangePriceRegex = regexp.MustCompile(`(\$\s*([\d,]+(?:\.\d+)?)\s*(k?)\s*(?:to|-)\s*\$?\s*([\d,]+(?:\.\d+)?)\s*(k?))|(([\d,]+(?:\.\d+)?)\s*(k?)\s*(?:to|-)\s*([\d,]+(?:\.\d+)?)\s*(k?)\s*(?:dollars|usd))`)
	yearRegex       = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
)

// Extractor extracts structured entities from raw query text.
type Extractor struct {
	vocab Vocabulary
}

// NewExtractor creates an extractor over the given vocabulary.
func NewExtractor(vocab Vocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

// Extract parses a raw query into entities. Total: it never fails, a
// pattern that does not occur simply leaves its field unset. Terms that
// exist in several vocabulary lists ("rose" is both a color and a subject)
// populate every list they occur in.
func (e *Extractor) Extract(rawQuery string) query.Entities {
	q := strings.ToLower(rawQuery)

	ents := query.Entities{
		Mediums:  matchTerms(q, e.vocab.Mediums),
		Genres:   matchTerms(q, e.vocab.Genres),
		Subjects: matchTerms(q, e.vocab.Subjects),
		Colors:   matchTerms(q, e.vocab.Colors),
	}
	ents.PriceRange = extractPrice(q)
	ents.TimePeriod = extractPeriod(maskPrices(q))
	return ents
}

// maskPrices blanks the spans consumed by the price patterns so that
// digits inside a price ("under $2000") are not re-read as years.
func maskPrices(q string) string {
	for _, re := range []*regexp.Regexp{rangePriceRegex, underPriceRegex} {
		for _, loc := range re.FindAllStringIndex(q, -1) {
			q = q[:loc[0]] + strings.Repeat(" ", loc[1]-loc[0]) + q[loc[1]:]
		}
	}
	return q
}

// matchTerms keeps vocabulary terms occurring as substrings of the query.
func matchTerms(q string, vocab []string) []string {
	var out []string
	for _, term := range vocab {
		if strings.Contains(q, term) {
			out = append(out, term)
		}
	}
	return out
}

func extractPrice(q string) *query.PriceRange {
	if m := rangePriceRegex.FindStringSubmatch(q); m != nil {
		// Groups 2-5 are the "$N to M" alternative, 7-10 the "N to M dollars" one.
		lo, hi := parseAmount(m[2], m[3]), parseAmount(m[4], m[5])
		if m[2] == "" {
			lo, hi = parseAmount(m[7], m[8]), parseAmount(m[9], m[10])
		}
		if lo >= 0 && hi >= lo {
			return &query.PriceRange{Min: lo, Max: hi}
		}
	}
	if m := underPriceRegex.FindStringSubmatch(q); m != nil {
		max := parseAmount(m[1], m[2])
		if max > 0 {
			return &query.PriceRange{Min: 0, Max: max}
		}
	}
	return nil
}

// parseAmount converts "2,500" + optional "k" suffix into a float. The "k"
// suffix multiplies by 1000.
func parseAmount(num, suffix string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return -1
	}
	if suffix == "k" {
		v *= 1000
	}
	return v
}

// extractPeriod finds up to two 4-digit years. A single year opens a
// decade-long window (start+10).
func extractPeriod(q string) *query.TimePeriod {
	years := yearRegex.FindAllString(q, 2)
	if len(years) == 0 {
		return nil
	}
	start, _ := strconv.Atoi(years[0])
	end := start + 10
	if len(years) == 2 {
		if y, err := strconv.Atoi(years[1]); err == nil && y >= start {
			end = y
		}
	}
	return &query.TimePeriod{StartYear: start, EndYear: end}
}
