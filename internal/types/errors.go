package types

import "errors"

var (
	// ErrMissingReferenceData is returned when a required table or file is absent.
	ErrMissingReferenceData = errors.New("reference data not available")
	// ErrInvalidUserSelector is returned for user identifiers that are non-numeric or out of range.
	ErrInvalidUserSelector = errors.New("invalid user selector")
	// ErrUnresolvableSlot marks an itinerary row that cannot become a canonical slot.
	ErrUnresolvableSlot = errors.New("unresolvable itinerary slot")
	// ErrUnresolvablePOI marks a place name or id missing from the POI master.
	ErrUnresolvablePOI = errors.New("point of interest not found")
)
