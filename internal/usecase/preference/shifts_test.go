package preference

import (
	"context"
	"testing"

	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/taste"
)

func sculpture(id string, price float64) catalog.Artwork {
	return catalog.Artwork{
		ID:     id,
		Medium: "sculpture",
		Genre:  "figurative",
		Price:  price,
	}
}

func TestIdentifyTasteShifts_MediumShift(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")
	cat := newFakeCatalog(sculpture("s1", 900), sculpture("s2", 1100))
	svc := newTestService(profiles, cat)

	// Every recent event points at sculpture while the profile still says oil.
	for _, id := range []string{"s1", "s2", "s1", "s2"} {
		profiles.log["u1"] = append(profiles.log["u1"], taste.Interaction{
			UserID: "u1", Type: taste.InteractionSave,
			TargetType: "artwork", TargetID: id, Timestamp: testNow,
		})
	}

	shifts, err := svc.IdentifyTasteShifts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("IdentifyTasteShifts: %v", err)
	}

	var medium *taste.Shift
	for i := range shifts {
		if shifts[i].PreferenceType == "medium" {
			medium = &shifts[i]
		}
	}
	if medium == nil {
		t.Fatalf("shifts = %+v, want a medium shift", shifts)
	}
	if medium.OldValue != "oil" || medium.NewValue != "sculpture" {
		t.Errorf("medium shift = %q -> %q, want oil -> sculpture", medium.OldValue, medium.NewValue)
	}
	if medium.Confidence <= 0.7 {
		t.Errorf("confidence = %v, want above the 0.7 threshold", medium.Confidence)
	}

	// Shifts are appended to the evolution log and mirrored on the profile.
	if len(profiles.evolution["u1"]) != len(shifts) {
		t.Errorf("evolution log has %d events, want %d", len(profiles.evolution["u1"]), len(shifts))
	}
	p := profiles.profiles["u1"]
	if len(p.LearningInsights.TasteEvolution) != len(shifts) {
		t.Errorf("profile evolution has %d events, want %d", len(p.LearningInsights.TasteEvolution), len(shifts))
	}
	if p.LearningInsights.PreferenceStability >= 0.5 {
		t.Errorf("stability = %v, want lowered after shifts", p.LearningInsights.PreferenceStability)
	}
	for _, ev := range profiles.evolution["u1"] {
		if ev.TriggerEvent != shiftTrigger {
			t.Errorf("trigger = %q, want %q", ev.TriggerEvent, shiftTrigger)
		}
	}
}

func TestIdentifyTasteShifts_StableTasteNoShift(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")
	cat := newFakeCatalog(oilArtwork("a1", 800))
	svc := newTestService(profiles, cat)

	for i := 0; i < 4; i++ {
		profiles.log["u1"] = append(profiles.log["u1"], taste.Interaction{
			UserID: "u1", Type: taste.InteractionSave,
			TargetType: "artwork", TargetID: "a1", Timestamp: testNow,
		})
	}

	shifts, err := svc.IdentifyTasteShifts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("IdentifyTasteShifts: %v", err)
	}
	if len(shifts) != 0 {
		t.Fatalf("shifts = %+v, want none when the window matches the profile", shifts)
	}
	if len(profiles.evolution["u1"]) != 0 {
		t.Errorf("evolution log must stay empty without shifts")
	}
}

func TestIdentifyTasteShifts_EmptyWindow(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles["u1"] = oilLoverProfile("u1")
	svc := newTestService(profiles, newFakeCatalog())

	shifts, err := svc.IdentifyTasteShifts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("IdentifyTasteShifts: %v", err)
	}
	if len(shifts) != 0 {
		t.Fatalf("shifts = %+v, want none without interactions", shifts)
	}
}

func TestIdentifyTasteShifts_PriceShift(t *testing.T) {
	profiles := newFakeProfiles()
	p := oilLoverProfile("u1")
	p.Budget.Min = 0
	p.Budget.Max = 1000
	profiles.profiles["u1"] = p

	cat := newFakeCatalog(oilArtwork("lux", 5000))
	svc := newTestService(profiles, cat)

	for i := 0; i < 3; i++ {
		profiles.log["u1"] = append(profiles.log["u1"], taste.Interaction{
			UserID: "u1", Type: taste.InteractionInquiry,
			TargetType: "artwork", TargetID: "lux", Timestamp: testNow,
		})
	}

	shifts, err := svc.IdentifyTasteShifts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("IdentifyTasteShifts: %v", err)
	}
	var price *taste.Shift
	for i := range shifts {
		if shifts[i].PreferenceType == "price" {
			price = &shifts[i]
		}
	}
	if price == nil {
		t.Fatalf("shifts = %+v, want a price shift", shifts)
	}
	if price.OldValue != "0-1000" || price.NewValue != "5000" {
		t.Errorf("price shift = %q -> %q, want 0-1000 -> 5000", price.OldValue, price.NewValue)
	}
	if price.Confidence != 1 {
		t.Errorf("confidence = %v, want 1 with every price out of band", price.Confidence)
	}
}

func TestDominantValue(t *testing.T) {
	window := []weightedObservation{
		{observation: observation{medium: "oil"}, weight: 10},
		{observation: observation{medium: "oil"}, weight: 6},
		{observation: observation{medium: "print"}, weight: 4},
		{observation: observation{medium: "print"}, weight: -2}, // negative weights ignored
	}
	pick := func(o weightedObservation) []string {
		if o.medium == "" {
			return nil
		}
		return []string{o.medium}
	}
	top, confidence := dominantValue(window, pick)
	if top != "oil" {
		t.Fatalf("top = %q, want oil", top)
	}
	if confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8 (16 of 20)", confidence)
	}
}
