package types

import (
	"time"

	"github.com/google/uuid"
)

// Variant identifies which of the two compared itineraries a row belongs to.
type Variant string

const (
	VariantDesired  Variant = "desired"
	VariantProposal Variant = "proposal"
)

const (
	SlotStart  = "start"
	SlotReturn = "return"
)

// PlanRow is a raw itinerary row as read from a plan source.
type PlanRow struct {
	User      string `json:"user"`
	Slot      string `json:"slot"`
	Place     string `json:"place"`
	Transport string `json:"transport"`
}

// ItinerarySlot is one leg of a trip after normalisation. Stay slots carry a
// place name (and the resolved POI when the master knows it); move slots carry
// a transport mode. Anchors (start/return) have no hour.
type ItinerarySlot struct {
	Label        string           `json:"slot"`
	SlotNumber   *int             `json:"slot_number,omitempty"`
	IsAnchor     bool             `json:"is_anchor"`
	IsMove       bool             `json:"is_move"`
	PlaceName    string           `json:"poi_name"`
	POI          *PointOfInterest `json:"poi,omitempty"`
	Category     string           `json:"category"`
	RawTransport string           `json:"mode"`
	Hour         *int             `json:"hour,omitempty"`
}

// ScoredSlot is an ItinerarySlot with congestion and satisfaction attached.
// Congestion and Satisfaction are both set or both nil.
type ScoredSlot struct {
	ItinerarySlot
	TimeDisplay       string   `json:"time_display"`
	DisplayLabel      string   `json:"display_label"`
	Congestion        *int     `json:"congestion"`
	Satisfaction      *float64 `json:"satisfaction"`
	SatisfactionLevel *int     `json:"satisfaction_level"`
	CongestionIcon    string   `json:"congestion_img,omitempty"`
	SatisfactionIcon  string   `json:"satisfaction_img,omitempty"`
}

// ScoredItinerary is the ordered list of scored slots for one trip variant.
type ScoredItinerary struct {
	Slots             []ScoredSlot `json:"slots"`
	TotalSatisfaction float64      `json:"total_satisfaction"`
}

// ComparisonResult is what the comparison view renders.
type ComparisonResult struct {
	ID                        uuid.UUID       `json:"id"`
	User                      string          `json:"user"`
	UserType                  string          `json:"user_type"`
	Strategy                  string          `json:"strategy"`
	Desired                   ScoredItinerary `json:"desired"`
	Proposal                  ScoredItinerary `json:"proposal"`
	DesiredTotalSatisfaction  float64         `json:"desired_total_satisfaction"`
	ProposalTotalSatisfaction float64         `json:"proposal_total_satisfaction"`
	GapCorrections            int             `json:"gap_corrections"`
	PersuasiveText            string          `json:"persuasive_text"`
	GeneratedAt               time.Time       `json:"generated_at"`
}
