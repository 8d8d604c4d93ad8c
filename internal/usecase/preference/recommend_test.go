package preference

import (
	"context"
	"errors"
	"testing"

	"github.com/atelier-cloud/curator/internal/domain/taste"
)

func TestRecommend_SortedAndCapped(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")

	popular := oilArtwork("hit", 500)
	popular.Likes = 90
	popular.Saves = 40
	quiet := oilArtwork("quiet", 500)
	cat := newFakeCatalog(popular, quiet)
	svc := newTestService(profiles, cat)

	recs := svc.Recommend(context.Background(), "u1", RecommendContext{Limit: 2})
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].ArtworkID != "hit" {
		t.Errorf("top recommendation = %q, want the high-social-proof piece", recs[0].ArtworkID)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].ConfidenceScore > recs[i-1].ConfidenceScore {
			t.Errorf("recommendations not sorted descending at %d", i)
		}
	}
	for _, rec := range recs {
		if rec.Source != taste.SourceHeuristic {
			t.Errorf("source = %q, want heuristic", rec.Source)
		}
		if len(rec.Reasons) == 0 {
			t.Errorf("recommendation %q has no reasons", rec.ArtworkID)
		}
		if rec.PersonalizedMessage == "" {
			t.Errorf("recommendation %q has no message", rec.ArtworkID)
		}
	}
}

func TestRecommend_LimitDefaultsAndCaps(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")

	cat := newFakeCatalog()
	for i := 0; i < 30; i++ {
		cat.artworks[string(rune('a'+i))] = oilArtwork(string(rune('a'+i)), 500)
	}
	svc := newTestService(profiles, cat)

	recs := svc.Recommend(context.Background(), "u1", RecommendContext{})
	if len(recs) != svc.cfg.RecommendationLimit {
		t.Errorf("got %d recommendations, want default limit %d", len(recs), svc.cfg.RecommendationLimit)
	}

	recs = svc.Recommend(context.Background(), "u1", RecommendContext{Limit: 1000})
	if len(recs) > svc.cfg.RecommendationLimit {
		t.Errorf("got %d recommendations, caller limit must not exceed %d",
			len(recs), svc.cfg.RecommendationLimit)
	}
}

func TestRecommend_SkipsPurchased(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")
	profiles.log["u1"] = []taste.Interaction{
		{UserID: "u1", Type: taste.InteractionPurchase, TargetType: "artwork", TargetID: "owned", Timestamp: testNow},
	}

	cat := newFakeCatalog(oilArtwork("owned", 500), oilArtwork("fresh", 600))
	svc := newTestService(profiles, cat)

	recs := svc.Recommend(context.Background(), "u1", RecommendContext{})
	for _, rec := range recs {
		if rec.ArtworkID == "owned" {
			t.Fatal("already-purchased artwork must not be recommended")
		}
	}
	if len(recs) != 1 || recs[0].ArtworkID != "fresh" {
		t.Fatalf("recs = %+v, want only the un-owned piece", recs)
	}
}

func TestRecommend_BudgetOverride(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")

	cheap := oilArtwork("cheap", 300)
	dear := oilArtwork("dear", 90000)
	cat := newFakeCatalog(cheap, dear)
	svc := newTestService(profiles, cat)

	maxBudget := 1000.0
	recs := svc.Recommend(context.Background(), "u1", RecommendContext{BudgetMax: &maxBudget})
	if len(recs) != 1 || recs[0].ArtworkID != "cheap" {
		t.Fatalf("recs = %+v, want only the piece within the caller's budget", recs)
	}
}

func TestRecommend_FailureDegradesToEmpty(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")
	cat := newFakeCatalog(oilArtwork("a1", 500))
	cat.queryErr = errors.New("store down")
	svc := newTestService(profiles, cat)

	recs := svc.Recommend(context.Background(), "u1", RecommendContext{})
	if recs == nil || len(recs) != 0 {
		t.Fatalf("recs = %v, want an empty (non-nil) list on failure", recs)
	}
}

func TestRecommend_FallsBackWhenBiasedQueryEmpty(t *testing.T) {
	// The profile prefers a medium nothing in stock matches; the engine
	// should still recommend from the general pool.
	profiles := newFakeProfiles()
	p := oilLoverProfile("u1")
	p.AestheticPreferences.MediumPreferences = []taste.WeightedValue{{Value: "fresco", Weight: 10}}
	p.AestheticPreferences.StyleAffinities = nil
	profiles.profiles["u1"] = p

	cat := newFakeCatalog(oilArtwork("a1", 500))
	svc := newTestService(profiles, cat)

	recs := svc.Recommend(context.Background(), "u1", RecommendContext{})
	if len(recs) != 1 || recs[0].ArtworkID != "a1" {
		t.Fatalf("recs = %+v, want the fallback pool result", recs)
	}
}

func TestRecommendationReasons(t *testing.T) {
	bd := taste.IntentBreakdown{
		StyleMatch:    0.9,
		BudgetFit:     0.95,
		NoveltyFactor: 0.2,
		SocialProof:   0.1,
		UrgencyFactor: 0,
	}
	reasons := recommendationReasons(bd)
	want := map[string]bool{"Matches your style": true, "Fits your budget": true}
	if len(reasons) != len(want) {
		t.Fatalf("reasons = %v, want exactly the dominant dimensions", reasons)
	}
	for _, r := range reasons {
		if !want[r] {
			t.Errorf("unexpected reason %q", r)
		}
	}

	if got := recommendationReasons(taste.IntentBreakdown{}); len(got) != 1 {
		t.Errorf("weak breakdown reasons = %v, want a single generic fallback", got)
	}
}
