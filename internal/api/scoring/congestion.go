// Package scoring holds the congestion and satisfaction models and the two
// comparison strategies built on them. Everything here is pure.
package scoring

import "github.com/FACorreiaa/go-itinerary-compare/internal/types"

const (
	AnchorCongestion   = 0
	PeakCongestion     = 65
	ShoulderCongestion = 45
	OffPeakCongestion  = 25
	// NeutralCongestion is used for non-anchor slots whose label carries no slot number.
	NeutralCongestion = 25
)

// IsPeakHour reports whether hour falls in the midday peak, 10:00-15:00 inclusive.
func IsPeakHour(hour int) bool {
	return hour >= 10 && hour <= 15
}

// CongestionForHour is the time-of-day tier table.
func CongestionForHour(hour int) int {
	switch {
	case IsPeakHour(hour):
		return PeakCongestion
	case (hour >= 8 && hour < 10) || (hour > 15 && hour <= 18):
		return ShoulderCongestion
	default:
		return OffPeakCongestion
	}
}

// Congestion scores a slot in [0,100]. It depends on nothing but the slot itself.
func Congestion(slot types.ItinerarySlot) int {
	if slot.IsAnchor {
		return AnchorCongestion
	}
	if slot.Hour == nil {
		return NeutralCongestion
	}
	return CongestionForHour(*slot.Hour)
}

// CongestionTier buckets congestion into five display tiers (1 = empty, 5 = crowded).
// Upper bounds are exclusive: 20 is tier 2, 80 is tier 5.
func CongestionTier(congestion int) int {
	switch {
	case congestion < 20:
		return 1
	case congestion < 40:
		return 2
	case congestion < 60:
		return 3
	case congestion < 80:
		return 4
	default:
		return 5
	}
}

func clampCongestion(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
