package catalog

import (
	"errors"
	"testing"

	"github.com/atelier-cloud/curator/internal/domain"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestNewFilters_Normalizes(t *testing.T) {
	f, err := NewFilters(
		[]string{" Oil ", "ACRYLIC"}, nil, nil, nil,
		nil, nil, nil, nil,
		"  Ocean DREAMS ",
	)
	if err != nil {
		t.Fatalf("NewFilters: %v", err)
	}
	if got := f.Mediums(); len(got) != 2 || got[0] != "oil" || got[1] != "acrylic" {
		t.Errorf("mediums = %v, want lower-cased trimmed terms", got)
	}
	if f.Text() != "ocean dreams" {
		t.Errorf("text = %q, want %q", f.Text(), "ocean dreams")
	}
}

func TestNewFilters_InvalidWrapsSentinel(t *testing.T) {
	tooMany := make([]string, MaxFilterTerms+1)
	for i := range tooMany {
		tooMany[i] = "oil"
	}

	tests := []struct {
		name string
		call func() (Filters, error)
	}{
		{"too many terms", func() (Filters, error) {
			return NewFilters(tooMany, nil, nil, nil, nil, nil, nil, nil, "")
		}},
		{"empty term", func() (Filters, error) {
			return NewFilters(nil, []string{" "}, nil, nil, nil, nil, nil, nil, "")
		}},
		{"negative price_min", func() (Filters, error) {
			return NewFilters(nil, nil, nil, nil, fptr(-1), nil, nil, nil, "")
		}},
		{"inverted price range", func() (Filters, error) {
			return NewFilters(nil, nil, nil, nil, fptr(100), fptr(50), nil, nil, "")
		}},
		{"inverted year range", func() (Filters, error) {
			return NewFilters(nil, nil, nil, nil, nil, nil, iptr(1990), iptr(1950), "")
		}},
	}
	for _, tt := range tests {
		_, err := tt.call()
		if !errors.Is(err, domain.ErrInvalidFilter) {
			t.Errorf("%s: err = %v, want ErrInvalidFilter", tt.name, err)
		}
	}
}
