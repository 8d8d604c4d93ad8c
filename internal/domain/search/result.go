// Package search defines the ranked outputs of the search paths.
package search

import (
	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/query"
)

// Result is a single ranked hit from text search, spanning all three
// catalog entity types. Built per request, never persisted.
type Result struct {
	ID             string             `json:"id"`
	Type           catalog.EntityType `json:"type"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	ImageURL       string             `json:"image_url,omitempty"`
	RelevanceScore float64            `json:"relevance_score"`
	Reasons        []string           `json:"reasons,omitempty"`
	Metadata       map[string]string  `json:"metadata,omitempty"`
}

// VisualMatches breaks an image hit down by visual dimension, each in
// [0, 1]. Only color carries real signal today; the other three are fixed
// at NeutralVisualScore until a vision model is wired in, so the output
// contract stays stable.
type VisualMatches struct {
	Color       float64 `json:"color_similarity"`
	Composition float64 `json:"composition_similarity"`
	Style       float64 `json:"style_similarity"`
	Subject     float64 `json:"subject_similarity"`
}

// NeutralVisualScore is the placeholder value for visual dimensions that
// have no real model behind them yet.
const NeutralVisualScore = 0.5

// ImageResult is a single ranked hit from visual search.
type ImageResult struct {
	ArtworkID       string            `json:"artwork_id"`
	SimilarityScore float64           `json:"similarity_score"` // 0..100
	VisualMatches   VisualMatches     `json:"visual_matches"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Diagnostics reports how a search was understood and whether any
// sub-source degraded, so callers can observe partial results without
// receiving errors.
type Diagnostics struct {
	Intent        query.Intent `json:"intent"`
	FailedSources int          `json:"failed_sources"`
}
