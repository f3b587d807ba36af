// Package reference loads the static tables a comparison reads: the POI
// master, user types, preference tables, persuasive texts and the desired and
// proposed itinerary rows.
package reference

import (
	"context"
	"strings"

	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

// Repository is a source of reference data. Implementations return an error
// wrapping types.ErrMissingReferenceData when a table does not exist at all.
type Repository interface {
	LoadPOIs(ctx context.Context) ([]types.PointOfInterest, error)
	LoadUserTypes(ctx context.Context) (map[string]string, error)
	LoadPOIPreferences(ctx context.Context) (types.PoiPreferenceTable, error)
	LoadTransportPreferences(ctx context.Context) (types.TransportPreferenceTable, error)
	LoadPersuasiveTexts(ctx context.Context) (map[string]string, error)
	// LoadItineraryRows returns the raw rows of one variant for user, in source order.
	LoadItineraryRows(ctx context.Context, variant types.Variant, user string) ([]types.PlanRow, error)
}

// UserKey turns a bare user id ("3") into the "User_3" form used everywhere else.
func UserKey(id string) string {
	id = types.CanonicalPOIID(id)
	if id == "" || strings.HasPrefix(id, "User_") {
		return id
	}
	return "User_" + id
}
