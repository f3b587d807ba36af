package scoring

import "github.com/FACorreiaa/go-itinerary-compare/internal/types"

// GapFor is the minimum desired-minus-proposal congestion difference at hour.
func GapFor(hour, peakGap, offPeakGap int) int {
	if IsPeakHour(hour) {
		return peakGap
	}
	return offPeakGap
}

// EnforceGap aligns the two scored itineraries by hour and makes sure the
// desired side is at least the gap more congested than the proposal at every
// shared hour. Desired is raised first (capped at 100); if that is not enough
// the proposal is lowered. Satisfaction and icons follow the corrected
// congestion. Slots are modified in place and the number of corrected slot
// pairs is returned. Running it again on its own output changes nothing.
//
// When several slots share an hour, every desired slot at that hour is held
// apart from every proposal slot at that hour. Pairs are visited in slice
// order; a correction only raises desired or lowers proposal, so a pair that
// already holds never breaks again.
func EnforceGap(desired, proposal []types.ScoredSlot, peakGap, offPeakGap int) int {
	p := indexByHour(proposal)

	corrections := 0
	for di := range desired {
		if !gapEligible(desired[di]) {
			continue
		}
		hour := *desired[di].Hour
		need := GapFor(hour, peakGap, offPeakGap)
		for _, pi := range p[hour] {
			dc, pc := *desired[di].Congestion, *proposal[pi].Congestion
			if dc-pc >= need {
				continue
			}
			dc = min(100, pc+need)
			if dc-pc < need {
				pc = max(0, dc-need)
			}
			rescore(&desired[di], dc)
			rescore(&proposal[pi], pc)
			corrections++
		}
	}
	return corrections
}

func gapEligible(s types.ScoredSlot) bool {
	return !s.IsAnchor && s.Hour != nil && s.Congestion != nil
}

// indexByHour lists slot indexes per hour in slice order.
func indexByHour(slots []types.ScoredSlot) map[int][]int {
	out := make(map[int][]int, len(slots))
	for i, s := range slots {
		if !gapEligible(s) {
			continue
		}
		out[*s.Hour] = append(out[*s.Hour], i)
	}
	return out
}

func rescore(s *types.ScoredSlot, congestion int) {
	level := InverseSatisfaction(congestion)
	sat := float64(level)
	s.Congestion = &congestion
	s.Satisfaction = &sat
	s.SatisfactionLevel = &level
	s.CongestionIcon = CongestionIcon(congestion)
	s.SatisfactionIcon = SatisfactionIcon(level)
}
