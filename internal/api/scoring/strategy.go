package scoring

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/poi"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

const (
	StrategyAuto       = "auto"
	StrategyPreference = "preference"
	StrategySynthetic  = "synthetic"
)

// Input is one desired/proposal pair for a single user.
type Input struct {
	Desired  []types.ItinerarySlot
	Proposal []types.ItinerarySlot
	Profile  Profile
}

// Comparison is the scored pair.
type Comparison struct {
	Desired        types.ScoredItinerary
	Proposal       types.ScoredItinerary
	GapCorrections int
}

// Strategy scores both itineraries of a comparison.
type Strategy interface {
	Name() string
	// NameMatch is the POI name lookup the itineraries should be normalised with.
	NameMatch() poi.MatchMode
	Score(in Input) Comparison
}

var (
	_ Strategy = PreferenceStrategy{}
	_ Strategy = SyntheticBiasStrategy{}
)

// PreferenceStrategy scores each itinerary independently against the user's
// real preference tables. Nothing is adjusted between the two.
type PreferenceStrategy struct{}

func (PreferenceStrategy) Name() string             { return StrategyPreference }
func (PreferenceStrategy) NameMatch() poi.MatchMode { return poi.MatchExact }

func (PreferenceStrategy) Score(in Input) Comparison {
	return Comparison{
		Desired:  newItinerary(scoreByPreference(in.Desired, in.Profile)),
		Proposal: newItinerary(scoreByPreference(in.Proposal, in.Profile)),
	}
}

// ScoreItinerary scores a single itinerary by preference.
func (PreferenceStrategy) ScoreItinerary(slots []types.ItinerarySlot, profile Profile) types.ScoredItinerary {
	return newItinerary(scoreByPreference(slots, profile))
}

func scoreByPreference(slots []types.ItinerarySlot, profile Profile) []types.ScoredSlot {
	out := make([]types.ScoredSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsAnchor {
			out = append(out, anchorSlot(slot))
			continue
		}
		c := Congestion(slot)
		s, level := SlotScore(slot, profile, c)
		out = append(out, scoredSlot(slot, c, s, level))
	}
	return out
}

// SyntheticBiasStrategy is used when no preference data exists. It shifts
// congestion by a fixed bias per side, derives satisfaction from congestion
// alone and then enforces a minimum gap at every shared hour.
type SyntheticBiasStrategy struct {
	DesiredBias  int
	ProposalBias int
	PeakGap      int
	OffPeakGap   int
}

func NewSyntheticBiasStrategy() SyntheticBiasStrategy {
	return SyntheticBiasStrategy{
		DesiredBias:  15,
		ProposalBias: -15,
		PeakGap:      12,
		OffPeakGap:   6,
	}
}

func (SyntheticBiasStrategy) Name() string             { return StrategySynthetic }
func (SyntheticBiasStrategy) NameMatch() poi.MatchMode { return poi.MatchContains }

func (s SyntheticBiasStrategy) Score(in Input) Comparison {
	desired := scoreWithBias(in.Desired, s.DesiredBias)
	proposal := scoreWithBias(in.Proposal, s.ProposalBias)
	n := EnforceGap(desired, proposal, s.PeakGap, s.OffPeakGap)
	return Comparison{
		Desired:        newItinerary(desired),
		Proposal:       newItinerary(proposal),
		GapCorrections: n,
	}
}

func scoreWithBias(slots []types.ItinerarySlot, bias int) []types.ScoredSlot {
	out := make([]types.ScoredSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsAnchor {
			out = append(out, anchorSlot(slot))
			continue
		}
		c := clampCongestion(Congestion(slot) + bias)
		level := InverseSatisfaction(c)
		out = append(out, scoredSlot(slot, c, float64(level), level))
	}
	return out
}

// Select resolves a configured strategy name. "auto" picks the preference
// strategy when preference tables are loaded and the synthetic one otherwise.
func Select(name string, hasPreferences bool, synthetic SyntheticBiasStrategy) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyAuto:
		if hasPreferences {
			return PreferenceStrategy{}, nil
		}
		return synthetic, nil
	case StrategyPreference:
		return PreferenceStrategy{}, nil
	case StrategySynthetic:
		return synthetic, nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy %q", name)
	}
}

func scoredSlot(slot types.ItinerarySlot, congestion int, satisfaction float64, level int) types.ScoredSlot {
	return types.ScoredSlot{
		ItinerarySlot:     slot,
		TimeDisplay:       timeDisplay(slot),
		DisplayLabel:      displayLabel(slot),
		Congestion:        &congestion,
		Satisfaction:      &satisfaction,
		SatisfactionLevel: &level,
		CongestionIcon:    CongestionIcon(congestion),
		SatisfactionIcon:  SatisfactionIcon(level),
	}
}

func newItinerary(slots []types.ScoredSlot) types.ScoredItinerary {
	return types.ScoredItinerary{
		Slots:             slots,
		TotalSatisfaction: Round1(Total(slots)),
	}
}
