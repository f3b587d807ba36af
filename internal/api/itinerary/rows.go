package itinerary

import (
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/tabular"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

// RowsFromTable extracts plan rows for user from a Solution/User/Slot/POI/Transport
// table. ok is false when the table lacks the Slot, POI or Transport columns.
// When user is empty or the table has no User column every row is returned.
func RowsFromTable(t *tabular.Table, user string) (rows []types.PlanRow, ok bool) {
	slotCol, hasSlot := t.Column("Slot")
	placeCol, hasPlace := t.Column("POI")
	transportCol, hasTransport := t.Column("Transport")
	if !hasSlot || !hasPlace || !hasTransport {
		return nil, false
	}
	userCol, hasUser := t.Column("User")
	if !hasUser {
		userCol = -1
	}

	rows = make([]types.PlanRow, 0, len(t.Rows))
	for _, rec := range t.Rows {
		r := types.PlanRow{
			User:      tabular.Cell(rec, userCol),
			Slot:      tabular.Cell(rec, slotCol),
			Place:     tabular.Cell(rec, placeCol),
			Transport: tabular.Cell(rec, transportCol),
		}
		if user != "" && hasUser && r.User != user {
			continue
		}
		rows = append(rows, r)
	}
	return rows, true
}
