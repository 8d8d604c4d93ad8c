// Package imagesearch ranks the catalog against an uploaded image by
// comparing dominant color palettes.
package imagesearch

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/config"
	"github.com/atelier-cloud/curator/internal/domain/color"
	domsearch "github.com/atelier-cloud/curator/internal/domain/search"
)

// Service handles visual search over stored artwork palettes.
type Service struct {
	repo      Repository
	extractor PaletteExtractor
	cfg       config.ImageSearchConfig
	logger    *zap.Logger
}

func New(repo Repository, extractor PaletteExtractor, cfg config.ImageSearchConfig, logger *zap.Logger) *Service {
	return &Service{repo: repo, extractor: extractor, cfg: cfg, logger: logger}
}

// SearchByImage extracts the query palette, scores every artwork in the
// palette corpus by color similarity, and returns hits at or above the
// similarity floor, sorted descending and capped at the configured maximum.
// Only the color dimension carries real signal; composition, style, and
// subject report the neutral placeholder.
func (s *Service) SearchByImage(ctx context.Context, imageData []byte) ([]domsearch.ImageResult, error) {
	queryPalette, err := s.extractor.Palette(imageData)
	if err != nil {
		return nil, fmt.Errorf("extract query palette: %w", err)
	}

	// A corpus read failure degrades to an empty page: visual search is a
	// read path and must never take the request down with it.
	corpus, err := s.repo.ArtworksWithPalettes(ctx, s.cfg.ScanLimit)
	if err != nil {
		s.logger.Error("Palette corpus load failed, degrading to empty results", zap.Error(err))
		return []domsearch.ImageResult{}, nil
	}

	results := make([]domsearch.ImageResult, 0, len(corpus))
	for _, art := range corpus {
		palette := color.ParsePalette(art.Colors)
		if len(palette) == 0 {
			continue
		}
		sim := color.PaletteSimilarity(queryPalette, palette)
		score := sim * 100
		if score < s.cfg.MinSimilarity {
			continue
		}
		results = append(results, domsearch.ImageResult{
			ArtworkID:       art.ID,
			SimilarityScore: score,
			VisualMatches: domsearch.VisualMatches{
				Color:       sim,
				Composition: domsearch.NeutralVisualScore,
				Style:       domsearch.NeutralVisualScore,
				Subject:     domsearch.NeutralVisualScore,
			},
			Metadata: map[string]string{
				"title":       art.Title,
				"artist_name": art.ArtistName,
				"price":       strconv.FormatFloat(art.Price, 'f', 2, 64),
			},
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	if len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}

	s.logger.Debug("image search scored",
		zap.Int("corpus", len(corpus)),
		zap.Int("hits", len(results)),
	)
	return results, nil
}
