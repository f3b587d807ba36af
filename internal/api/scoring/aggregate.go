package scoring

import (
	"math"

	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

// Total sums satisfaction over every non-anchor slot, fallbacks included.
func Total(slots []types.ScoredSlot) float64 {
	var sum float64
	for _, s := range slots {
		if s.IsAnchor || s.Satisfaction == nil {
			continue
		}
		sum += *s.Satisfaction
	}
	return sum
}

// TotalCongestion sums congestion over every non-anchor slot.
func TotalCongestion(slots []types.ScoredSlot) (total, count int) {
	for _, s := range slots {
		if s.IsAnchor || s.Congestion == nil {
			continue
		}
		total += *s.Congestion
		count++
	}
	return total, count
}

func Round1(v float64) float64 { return math.Round(v*10) / 10 }

func Round2(v float64) float64 { return math.Round(v*100) / 100 }
