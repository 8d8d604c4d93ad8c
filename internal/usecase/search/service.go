// Package search orchestrates the multi-source text search: parse once,
// fan out one bounded read per entity type, score, merge, truncate.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/config"
	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/query"
	domsearch "github.com/atelier-cloud/curator/internal/domain/search"
	"github.com/atelier-cloud/curator/internal/metrics"
	"github.com/atelier-cloud/curator/internal/repository/querycache"
	"github.com/atelier-cloud/curator/internal/usecase/queryparse"
	"github.com/atelier-cloud/curator/internal/usecase/relevance"
)

// Service handles ranked search across artworks, artists, and catalogues.
type Service struct {
	repo       Repository
	extractor  *queryparse.Extractor
	classifier *queryparse.Classifier
	scorer     *relevance.Scorer
	cache      ResultCache
	cfg        config.SearchConfig
	logger     *zap.Logger
}

// New creates a search service. cache may be nil to disable result caching.
func New(
	repo Repository,
	extractor *queryparse.Extractor,
	classifier *queryparse.Classifier,
	scorer *relevance.Scorer,
	cache ResultCache,
	cfg config.SearchConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		extractor:  extractor,
		classifier: classifier,
		scorer:     scorer,
		cache:      cache,
		cfg:        cfg,
		logger:     logger,
	}
}

// Options are per-request search knobs forwarded to the scorer.
type Options struct {
	PriceSensitivity float64
	DiscoveryMode    float64
}

// Search runs the full pipeline. A sub-search failure degrades that entity
// type to zero results; the error is logged and counted, never returned.
// The returned slice is sorted by relevance descending and has at most
// limit entries.
func (s *Service) Search(
	ctx context.Context, rawQuery string, filters catalog.Filters, limit int, opts Options,
) ([]domsearch.Result, domsearch.Diagnostics, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	fingerprint := querycache.Fingerprint(rawQuery, []byte(filters.CacheKey()), limit)
	if s.cache != nil {
		if results, diag, ok := s.cache.Get(ctx, fingerprint); ok {
			return results, diag, nil
		}
	}

	ents := s.extractor.Extract(rawQuery)
	intent := s.classifier.Classify(rawQuery)
	scoreOpts := relevance.Options{
		PriceSensitivity: opts.PriceSensitivity,
		DiscoveryMode:    opts.DiscoveryMode,
	}

	subCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.SubSearchTimeoutMS)*time.Millisecond)
	defer cancel()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		merged []domsearch.Result
		failed int
	)

	collect := func(source string, fetch func(context.Context) ([]domsearch.Result, error)) {
		defer wg.Done()
		results, err := fetch(subCtx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed++
			metrics.SubSearchFailuresTotal.WithLabelValues(source).Inc()
			s.logger.Warn("Sub-search failed, degrading to zero results",
				zap.String("source", source),
				zap.Error(err),
			)
			return
		}
		merged = append(merged, results...)
	}

	wg.Add(3)
	go collect("artworks", func(ctx context.Context) ([]domsearch.Result, error) {
		return s.searchArtworks(ctx, filters, rawQuery, ents, scoreOpts, subLimit(limit, s.cfg.ArtworkShare))
	})
	go collect("artists", func(ctx context.Context) ([]domsearch.Result, error) {
		return s.searchArtists(ctx, filters, rawQuery, ents, scoreOpts, subLimit(limit, s.cfg.ArtistShare))
	})
	go collect("catalogues", func(ctx context.Context) ([]domsearch.Result, error) {
		return s.searchCatalogues(ctx, filters, rawQuery, ents, scoreOpts, subLimit(limit, s.cfg.CatalogueShare))
	})
	wg.Wait()

	// Drop zero scores, sort, truncate.
	ranked := merged[:0]
	for _, r := range merged {
		if r.RelevanceScore > 0 {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	diag := domsearch.Diagnostics{Intent: intent, FailedSources: failed}

	// Cache only fully-healthy pages so a degraded response does not mask
	// recovered sources for the TTL window.
	if s.cache != nil && failed == 0 {
		s.cache.Put(ctx, fingerprint, ranked, diag)
	}

	return ranked, diag, nil
}

func (s *Service) searchArtworks(
	ctx context.Context, filters catalog.Filters, rawQuery string,
	ents query.Entities, opts relevance.Options, limit int,
) ([]domsearch.Result, error) {
	artworks, err := s.repo.QueryArtworks(ctx, filters, limit)
	if err != nil {
		return nil, fmt.Errorf("query artworks: %w", err)
	}
	out := make([]domsearch.Result, 0, len(artworks))
	for _, a := range artworks {
		score, reasons := s.scorer.ScoreArtwork(a, ents, rawQuery, opts)
		out = append(out, domsearch.Result{
			ID:             a.ID,
			Type:           catalog.TypeArtwork,
			Title:          a.Title,
			Description:    a.Description,
			ImageURL:       a.ImageURL,
			RelevanceScore: score,
			Reasons:        reasons,
			Metadata: map[string]string{
				"artist_name": a.ArtistName,
				"medium":      a.Medium,
				"price":       strconv.FormatFloat(a.Price, 'f', 2, 64),
			},
		})
	}
	return out, nil
}

func (s *Service) searchArtists(
	ctx context.Context, filters catalog.Filters, rawQuery string,
	ents query.Entities, opts relevance.Options, limit int,
) ([]domsearch.Result, error) {
	artists, err := s.repo.QueryArtists(ctx, filters, limit)
	if err != nil {
		return nil, fmt.Errorf("query artists: %w", err)
	}
	out := make([]domsearch.Result, 0, len(artists))
	for _, a := range artists {
		score, reasons := s.scorer.ScoreArtist(a, ents, rawQuery, opts)
		out = append(out, domsearch.Result{
			ID:             a.ID,
			Type:           catalog.TypeArtist,
			Title:          a.Name,
			Description:    a.Bio,
			ImageURL:       a.ImageURL,
			RelevanceScore: score,
			Reasons:        reasons,
			Metadata: map[string]string{
				"followers": strconv.Itoa(a.Followers),
			},
		})
	}
	return out, nil
}

func (s *Service) searchCatalogues(
	ctx context.Context, filters catalog.Filters, rawQuery string,
	ents query.Entities, opts relevance.Options, limit int,
) ([]domsearch.Result, error) {
	catalogues, err := s.repo.QueryCatalogues(ctx, filters, limit)
	if err != nil {
		return nil, fmt.Errorf("query catalogues: %w", err)
	}
	out := make([]domsearch.Result, 0, len(catalogues))
	for _, c := range catalogues {
		score, reasons := s.scorer.ScoreCatalogue(c, ents, rawQuery, opts)
		out = append(out, domsearch.Result{
			ID:             c.ID,
			Type:           catalog.TypeCatalogue,
			Title:          c.Title,
			Description:    c.Description,
			ImageURL:       c.ImageURL,
			RelevanceScore: score,
			Reasons:        reasons,
			Metadata: map[string]string{
				"artworks": strconv.Itoa(len(c.ArtworkIDs)),
			},
		})
	}
	return out, nil
}

// subLimit slices the requested total by a per-type share, rounded up.
func subLimit(limit int, share float64) int {
	return int(math.Ceil(float64(limit) * share))
}
