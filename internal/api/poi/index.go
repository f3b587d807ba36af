package poi

import (
	"strings"

	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

// MatchMode selects how a place name from an itinerary is matched against the master.
type MatchMode string

const (
	// MatchExact requires the itinerary name to equal a stored POI name.
	MatchExact MatchMode = "exact"
	// MatchContains accepts the first stored POI whose name contains the itinerary name.
	MatchContains MatchMode = "contains"
)

var _ Resolver = (*Index)(nil)

// Resolver looks up POIs by id or by name.
type Resolver interface {
	ByID(id string) (types.PointOfInterest, bool)
	ByExactName(name string) (types.PointOfInterest, bool)
	ByNameContains(name string) (types.PointOfInterest, bool)
	Lookup(mode MatchMode, name string) (types.PointOfInterest, bool)
	All() []types.PointOfInterest
}

// Index is an immutable in-memory resolver over a POI master.
type Index struct {
	pois   []types.PointOfInterest
	byID   map[string]int
	byName map[string]int
}

// NewIndex builds an Index. On duplicate ids or names the later row wins;
// contains-matching walks rows in source order.
func NewIndex(pois []types.PointOfInterest) *Index {
	ix := &Index{
		pois:   make([]types.PointOfInterest, len(pois)),
		byID:   make(map[string]int, len(pois)),
		byName: make(map[string]int, len(pois)),
	}
	copy(ix.pois, pois)
	for i, p := range ix.pois {
		if p.ID != "" {
			ix.byID[p.ID] = i
		}
		ix.byName[p.Name] = i
	}
	return ix
}

func (ix *Index) ByID(id string) (types.PointOfInterest, bool) {
	i, ok := ix.byID[types.CanonicalPOIID(id)]
	if !ok {
		return types.PointOfInterest{}, false
	}
	return ix.pois[i], true
}

func (ix *Index) ByExactName(name string) (types.PointOfInterest, bool) {
	i, ok := ix.byName[name]
	if !ok {
		return types.PointOfInterest{}, false
	}
	return ix.pois[i], true
}

func (ix *Index) ByNameContains(name string) (types.PointOfInterest, bool) {
	if name == "" {
		return types.PointOfInterest{}, false
	}
	for _, p := range ix.pois {
		if strings.Contains(p.Name, name) {
			return p, true
		}
	}
	return types.PointOfInterest{}, false
}

// Lookup dispatches to the lookup strategy named by mode. Unknown modes use exact matching.
func (ix *Index) Lookup(mode MatchMode, name string) (types.PointOfInterest, bool) {
	if mode == MatchContains {
		return ix.ByNameContains(name)
	}
	return ix.ByExactName(name)
}

// All returns a copy of the master in source order.
func (ix *Index) All() []types.PointOfInterest {
	out := make([]types.PointOfInterest, len(ix.pois))
	copy(out, ix.pois)
	return out
}

// Len is the number of POIs in the index.
func (ix *Index) Len() int { return len(ix.pois) }
