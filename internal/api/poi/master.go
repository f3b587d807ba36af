package poi

import (
	"strconv"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/tabular"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

// Header spellings accepted for each logical POI master column, in priority order.
var (
	IDColumns        = []string{"PoI_ID", "poi_id", "id"}
	NameColumns      = []string{"施設名", "name", "名称"}
	CategoryColumns  = []string{"カテゴリ", "category"}
	LatitudeColumns  = []string{"Latitude", "latitude", "lat", "緯度"}
	LongitudeColumns = []string{"Longitude", "longitude", "lng", "経度"}
)

// ParseMaster turns a POI master table into records. Rows without a name or
// with missing/unparsable coordinates are dropped rather than reported.
func ParseMaster(t *tabular.Table) []types.PointOfInterest {
	idCol, hasID := t.Column(IDColumns...)
	nameCol, hasName := t.Column(NameColumns...)
	catCol, hasCat := t.Column(CategoryColumns...)
	latCol, hasLat := t.Column(LatitudeColumns...)
	lngCol, hasLng := t.Column(LongitudeColumns...)
	if !hasName || !hasLat || !hasLng {
		return nil
	}
	if !hasID {
		idCol = -1
	}
	if !hasCat {
		catCol = -1
	}

	pois := make([]types.PointOfInterest, 0, len(t.Rows))
	for _, row := range t.Rows {
		p, ok := buildPOI(
			tabular.Cell(row, idCol),
			tabular.Cell(row, nameCol),
			tabular.Cell(row, catCol),
			tabular.Cell(row, latCol),
			tabular.Cell(row, lngCol),
		)
		if !ok {
			continue
		}
		pois = append(pois, p)
	}
	return pois
}

func buildPOI(id, name, category, lat, lng string) (types.PointOfInterest, bool) {
	if name == "" || lat == "" || lng == "" {
		return types.PointOfInterest{}, false
	}
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return types.PointOfInterest{}, false
	}
	longitude, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return types.PointOfInterest{}, false
	}
	if category == "" {
		category = types.DefaultCategory
	}
	return types.PointOfInterest{
		ID:        types.CanonicalPOIID(id),
		Name:      name,
		Category:  category,
		Latitude:  latitude,
		Longitude: longitude,
	}, true
}
