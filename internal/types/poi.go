package types

import (
	"strconv"
	"strings"
)

// DefaultCategory is used when the POI master has no category column or an empty cell.
const DefaultCategory = "Other"

// PointOfInterest is one row of the POI master after column resolution.
type PointOfInterest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// CanonicalPOIID normalises identifiers read from heterogeneous sources so
// that "12", " 12 " and "12.0" all address the same POI.
func CanonicalPOIID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(id, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return id
}
