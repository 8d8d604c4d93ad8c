package preference

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/domain/catalog"
	"github.com/atelier-cloud/curator/internal/domain/taste"
	"github.com/atelier-cloud/curator/internal/metrics"
)

// Tracked shift dimensions.
const (
	dimensionMedium = "medium"
	dimensionStyle  = "style"
	dimensionColor  = "color"
	dimensionPrice  = "price"
)

const shiftTrigger = "interaction_window"

// IdentifyTasteShifts compares the recent interaction window against the
// persisted profile per dimension (medium, style, color, price). Shifts
// whose confidence exceeds the configured threshold are reported and
// appended to the evolution log as immutable events; the profile's own
// evolution history and stability signal are updated under the user lock.
func (s *Service) IdentifyTasteShifts(ctx context.Context, userID string) ([]taste.Shift, error) {
	events, err := s.profiles.RecentInteractions(ctx, userID, s.cfg.RecentWindowSize)
	if err != nil {
		return nil, fmt.Errorf("load interaction window for %s: %w", userID, err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	window := s.windowObservations(ctx, events)

	unlock := s.locks.lock(userID)
	defer unlock()

	profile, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	shifts := detectShifts(profile, window, s.cfg.ShiftThreshold)
	if len(shifts) == 0 {
		return nil, nil
	}

	now := s.now()
	for _, shift := range shifts {
		ev := taste.EvolutionEvent{
			Timestamp:      now,
			PreferenceType: shift.PreferenceType,
			OldValue:       shift.OldValue,
			NewValue:       shift.NewValue,
			Confidence:     shift.Confidence,
			TriggerEvent:   shiftTrigger,
		}
		if err := s.profiles.AppendEvolutionEvent(ctx, userID, ev); err != nil {
			return nil, fmt.Errorf("append evolution event for %s: %w", userID, err)
		}
		profile.LearningInsights.TasteEvolution = append(profile.LearningInsights.TasteEvolution, ev)
		metrics.TasteShiftsTotal.Inc()
	}
	stability := profile.LearningInsights.PreferenceStability - 0.1*float64(len(shifts))
	if stability < 0 {
		stability = 0
	}
	profile.LearningInsights.PreferenceStability = stability
	profile.UpdatedAt = now

	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("persist profile %s: %w", userID, err)
	}

	s.logger.Info("taste shifts detected",
		zap.String("user_id", userID), zap.Int("shifts", len(shifts)))
	return shifts, nil
}

// weightedObservation carries one window event's attributes together with
// its interaction weight.
type weightedObservation struct {
	observation
	weight float64
}

func (s *Service) windowObservations(ctx context.Context, events []taste.Interaction) []weightedObservation {
	cache := map[string]*catalog.Artwork{}
	out := make([]weightedObservation, 0, len(events))
	for _, ev := range events {
		out = append(out, weightedObservation{
			observation: s.observe(ctx, ev, cache),
			weight:      s.cfg.InteractionWeights[string(ev.Type)],
		})
	}
	return out
}

// detectShifts runs the per-dimension comparison. A categorical dimension
// shifts when the window's dominant value differs from the profile's ranked
// top, with confidence = that value's share of the window's positive weight.
// Price shifts when the window median falls outside the budget band, with
// confidence = the fraction of observed prices outside it.
func detectShifts(profile taste.Profile, window []weightedObservation, threshold float64) []taste.Shift {
	var shifts []taste.Shift

	categorical := []struct {
		dimension string
		current   []taste.WeightedValue
		pick      func(weightedObservation) []string
	}{
		{dimensionMedium, profile.AestheticPreferences.MediumPreferences,
			func(o weightedObservation) []string {
				if o.medium == "" {
					return nil
				}
				return []string{o.medium}
			}},
		{dimensionStyle, profile.AestheticPreferences.StyleAffinities,
			func(o weightedObservation) []string {
				if o.style == "" {
					return nil
				}
				return []string{o.style}
			}},
		{dimensionColor, profile.AestheticPreferences.ColorPalette,
			func(o weightedObservation) []string { return o.colors }},
	}
	for _, dim := range categorical {
		if len(dim.current) == 0 {
			continue // nothing persisted to shift away from
		}
		top, confidence := dominantValue(window, dim.pick)
		if top == "" || top == dim.current[0].Value {
			continue
		}
		if confidence > threshold {
			shifts = append(shifts, taste.Shift{
				PreferenceType: dim.dimension,
				OldValue:       dim.current[0].Value,
				NewValue:       top,
				Confidence:     confidence,
			})
		}
	}

	if shift, ok := priceShift(profile.Budget, window, threshold); ok {
		shifts = append(shifts, shift)
	}
	return shifts
}

// dominantValue returns the window's top value for one dimension and its
// share of the dimension's total positive weight.
func dominantValue(window []weightedObservation, pick func(weightedObservation) []string) (string, float64) {
	sums := map[string]float64{}
	var total float64
	for _, obs := range window {
		if obs.weight <= 0 {
			continue
		}
		for _, v := range pick(obs) {
			sums[v] += obs.weight
			total += obs.weight
		}
	}
	if total == 0 {
		return "", 0
	}
	var top string
	var topWeight float64
	for v, w := range sums {
		if w > topWeight || (w == topWeight && v < top) {
			top, topWeight = v, w
		}
	}
	return top, topWeight / total
}

func priceShift(budget taste.BudgetProfile, window []weightedObservation, threshold float64) (taste.Shift, bool) {
	var prices []float64
	outside := 0
	for _, obs := range window {
		if obs.price <= 0 {
			continue
		}
		prices = append(prices, obs.price)
		if obs.price < budget.Min || obs.price > budget.Max {
			outside++
		}
	}
	if len(prices) == 0 {
		return taste.Shift{}, false
	}
	sort.Float64s(prices)
	median := prices[len(prices)/2]
	if median >= budget.Min && median <= budget.Max {
		return taste.Shift{}, false
	}
	confidence := float64(outside) / float64(len(prices))
	if confidence <= threshold {
		return taste.Shift{}, false
	}
	return taste.Shift{
		PreferenceType: dimensionPrice,
		OldValue:       fmt.Sprintf("%.0f-%.0f", budget.Min, budget.Max),
		NewValue:       fmt.Sprintf("%.0f", median),
		Confidence:     confidence,
	}, true
}
