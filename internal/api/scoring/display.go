package scoring

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

const (
	DepartureLabel = "departure"
	ArrivalLabel   = "arrival"
)

var congestionIcons = [...]string{
	"/static/img/congestion/empty.png",
	"/static/img/congestion/quiet.png",
	"/static/img/congestion/moderate.png",
	"/static/img/congestion/busy.png",
	"/static/img/congestion/crowded.png",
}

var satisfactionIcons = [...]string{
	"/static/img/satisfaction/angry.png",
	"/static/img/satisfaction/upset.png",
	"/static/img/satisfaction/neutral.png",
	"/static/img/satisfaction/satisfied.png",
	"/static/img/satisfaction/very_satisfied.png",
}

var modeLabels = map[string]string{
	"walking":        "Walk",
	"walk":           "Walk",
	"rental bicycle": "Rental bicycle",
	"bike":           "Bicycle",
	"city bus":       "City bus",
	"bus":            "Bus",
	"loop bus":       "Loop bus",
	"taxi":           "Taxi",
	"car":            "Private car",
	"stay":           "Stay",
	"move":           "Move",
}

// CongestionIcon returns the icon for the congestion tier.
func CongestionIcon(congestion int) string {
	return congestionIcons[CongestionTier(congestion)-1]
}

// SatisfactionIcon returns the icon for a 1..5 level. Out of range levels clamp.
func SatisfactionIcon(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(satisfactionIcons) {
		level = len(satisfactionIcons)
	}
	return satisfactionIcons[level-1]
}

// ModeLabel is the display name for a raw transport string.
func ModeLabel(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := modeLabels[key]; ok {
		return label
	}
	if key == "" {
		return modeLabels["move"]
	}
	return raw
}

func timeDisplay(slot types.ItinerarySlot) string {
	if slot.Hour == nil {
		return ""
	}
	return fmt.Sprintf("%02d:00", *slot.Hour)
}

// anchorSlot builds the unscored display record for a start or return slot.
func anchorSlot(slot types.ItinerarySlot) types.ScoredSlot {
	label := DepartureLabel
	if slot.Label == types.SlotReturn {
		label = ArrivalLabel
	}
	return types.ScoredSlot{
		ItinerarySlot: slot,
		TimeDisplay:   label,
		DisplayLabel:  slot.PlaceName,
	}
}

func displayLabel(slot types.ItinerarySlot) string {
	if slot.IsMove {
		return ModeLabel(slot.RawTransport)
	}
	return slot.PlaceName
}
