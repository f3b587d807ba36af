// Package itinerary turns raw plan rows into canonical, time-ordered slots.
package itinerary

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/poi"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

// DefaultHourOffset maps slot1 to 09:00.
const DefaultHourOffset = 8

var slotDigits = regexp.MustCompile(`\d+`)

var moveMarkers = map[string]struct{}{
	"move": {},
	"移動":   {},
}

// SlotNumber extracts the first run of digits from a slot label.
func SlotNumber(label string) (int, bool) {
	m := slotDigits.FindString(label)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsAnchor reports whether a normalised label is the start or return slot.
func IsAnchor(label string) bool {
	return label == types.SlotStart || label == types.SlotReturn
}

// IsMoveMarker reports whether a place cell marks a travel leg.
func IsMoveMarker(place string) bool {
	_, ok := moveMarkers[strings.ToLower(strings.TrimSpace(place))]
	return ok
}

// Normalizer resolves plan rows against a POI master.
type Normalizer struct {
	resolver   poi.Resolver
	match      poi.MatchMode
	hourOffset int
	logger     *slog.Logger
}

func NewNormalizer(resolver poi.Resolver, match poi.MatchMode, hourOffset int, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		resolver:   resolver,
		match:      match,
		hourOffset: hourOffset,
		logger:     logger,
	}
}

// Normalize converts one row. It fails with ErrUnresolvableSlot when the row
// has no slot label, or is a non-anchor row with neither a place nor a move marker.
// An unknown place name is not an error: the slot keeps the name with no POI.
func (n *Normalizer) Normalize(row types.PlanRow) (types.ItinerarySlot, error) {
	label := strings.ToLower(strings.TrimSpace(row.Slot))
	if label == "" {
		return types.ItinerarySlot{}, fmt.Errorf("%w: empty slot label", types.ErrUnresolvableSlot)
	}
	place := strings.TrimSpace(row.Place)
	slot := types.ItinerarySlot{
		Label:        label,
		IsAnchor:     IsAnchor(label),
		PlaceName:    place,
		Category:     types.DefaultCategory,
		RawTransport: strings.ToLower(strings.TrimSpace(row.Transport)),
	}

	if !slot.IsAnchor {
		if place == "" {
			return types.ItinerarySlot{}, fmt.Errorf("%w: slot %q has no place or move marker", types.ErrUnresolvableSlot, label)
		}
		if num, ok := SlotNumber(label); ok {
			hour := n.hourOffset + num
			slot.SlotNumber = &num
			slot.Hour = &hour
		}
		slot.IsMove = IsMoveMarker(place)
	}

	if !slot.IsMove && place != "" {
		if p, ok := n.resolver.Lookup(n.match, place); ok {
			slot.POI = &p
			slot.Category = p.Category
		}
	}
	return slot, nil
}

// NormalizeAll converts rows in order, skipping rows that cannot be resolved.
func (n *Normalizer) NormalizeAll(rows []types.PlanRow) []types.ItinerarySlot {
	slots := make([]types.ItinerarySlot, 0, len(rows))
	for _, row := range rows {
		slot, err := n.Normalize(row)
		if err != nil {
			n.logger.Debug("Skipping itinerary row", slog.Any("error", err), slog.String("slot", row.Slot))
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}
