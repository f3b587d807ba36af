package scoring

import "github.com/FACorreiaa/go-itinerary-compare/internal/types"

// Fallback scores used when the user's type has no preference entry.
// The asymmetry between stays and moves is inherited product behaviour.
const (
	FallbackStaySatisfaction = 3.0
	FallbackMoveSatisfaction = 5.0
	FallbackLevel            = 3
)

// Profile is the preference data that applies to one user.
type Profile struct {
	UserType  string
	POI       map[string]float64
	Transport map[types.TransportMode]float64
}

// ProfileFor selects the preference columns for userType out of the reference set.
func ProfileFor(ref *types.ReferenceSet, userType string) Profile {
	p := Profile{UserType: userType}
	if ref == nil {
		return p
	}
	p.POI = ref.POIPreferences[userType]
	p.Transport = ref.TransportPreferences[userType]
	return p
}

// Penalty is linear in congestion and zero at 50: roughly -1.5..+1.5 over 0..100.
func Penalty(congestion int) float64 {
	return float64(congestion-50) / 100 * 3
}

// Satisfaction scores a non-anchor slot on a 0..10 scale.
func Satisfaction(slot types.ItinerarySlot, profile Profile, congestion int) float64 {
	score, _ := SlotScore(slot, profile, congestion)
	return score
}

// SlotScore returns the 0..10 satisfaction of a non-anchor slot together with
// its 1..5 level. Fallback scores always carry FallbackLevel.
func SlotScore(slot types.ItinerarySlot, profile Profile, congestion int) (float64, int) {
	score, ok := preferenceScore(slot, profile, congestion)
	if !ok {
		return score, FallbackLevel
	}
	return score, SatisfactionLevel(score)
}

// preferenceScore reports false when the fallback score was used.
func preferenceScore(slot types.ItinerarySlot, profile Profile, congestion int) (float64, bool) {
	if slot.IsMove {
		base, ok := profile.Transport[types.NormalizeTransport(slot.RawTransport)]
		if !ok {
			return FallbackMoveSatisfaction, false
		}
		return max(0, base-Penalty(congestion)), true
	}

	if slot.POI == nil {
		return FallbackStaySatisfaction, false
	}
	base, ok := profile.POI[slot.POI.ID]
	if !ok {
		return FallbackStaySatisfaction, false
	}
	return max(0, base-Penalty(congestion)), true
}

// SatisfactionLevel discretises a 0..10 score into five levels, lower bounds inclusive.
func SatisfactionLevel(score float64) int {
	switch {
	case score >= 8:
		return 5
	case score >= 6:
		return 4
	case score >= 4:
		return 3
	case score >= 2:
		return 2
	default:
		return 1
	}
}

// InverseSatisfaction derives a 1..5 satisfaction directly from congestion.
// It is strictly non-increasing in congestion.
func InverseSatisfaction(congestion int) int {
	switch {
	case congestion >= 70:
		return 1
	case congestion >= 55:
		return 2
	case congestion >= 40:
		return 3
	case congestion >= 25:
		return 4
	default:
		return 5
	}
}
