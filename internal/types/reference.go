package types

import "time"

// PoiPreferenceTable maps user type -> POI id -> base satisfaction (0..10).
type PoiPreferenceTable map[string]map[string]float64

// TransportPreferenceTable maps user type -> canonical mode -> base satisfaction (0..10).
type TransportPreferenceTable map[string]map[TransportMode]float64

// ReferenceSet is the static data a comparison reads. It is never mutated
// once built.
type ReferenceSet struct {
	POIs                 []PointOfInterest
	UserTypes            map[string]string
	POIPreferences       PoiPreferenceTable
	TransportPreferences TransportPreferenceTable
	PersuasiveTexts      map[string]string
	LoadedAt             time.Time
}

// HasPreferences reports whether any preference table was loaded.
func (r *ReferenceSet) HasPreferences() bool {
	return len(r.POIPreferences) > 0 || len(r.TransportPreferences) > 0
}

// UserType returns the type label for user, or def when the user is unknown.
func (r *ReferenceSet) UserType(user, def string) string {
	if t, ok := r.UserTypes[user]; ok && t != "" {
		return t
	}
	return def
}

// RouteSummary is the per-user, per-route aggregate written by the summary export.
type RouteSummary struct {
	UserID            string  `json:"user_id"`
	RouteType         string  `json:"route_type"`
	TotalSatisfaction float64 `json:"total_satisfaction"`
	TotalCongestion   float64 `json:"total_congestion"`
	AvgSatisfaction   float64 `json:"avg_satisfaction"`
	AvgCongestion     float64 `json:"avg_congestion"`
	NumSlots          int     `json:"num_slots"`
}
