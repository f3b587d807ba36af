package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/tabular"
)

// UnspecifiedPlace names a stay row whose place cell is blank.
const UnspecifiedPlace = "(unspecified)"

const planFile = "best.json"

// Item is one entry of a per-user plan file.
type Item struct {
	Slot    int    `json:"slot"`
	Mode    string `json:"mode"`
	POIName string `json:"poi_name,omitempty"`
}

// Plan is the document stored at <plans dir>/<user number>/best.json.
type Plan struct {
	Items []Item `json:"items"`
}

// BuildStats reports how many rows were read and used.
type BuildStats struct {
	Rows  int
	Used  int
	Users int
}

// NormMode maps a raw transport cell onto stay/walk/bicycle/bus/car.
// Any row whose place is not the move marker is a stay.
func NormMode(transport, place string) string {
	t := strings.ToLower(strings.TrimSpace(transport))
	if t == "stay" || !itinerary.IsMoveMarker(place) {
		return "stay"
	}
	switch t {
	case "walking", "walk":
		return "walk"
	case "rental bicycle", "bicycle", "bike", "cycling":
		return "bicycle"
	case "bus", "transit", "public", "public_transit":
		return "bus"
	case "car", "drive", "driving":
		return "car"
	case "":
		return "walk"
	default:
		return t
	}
}

func firstNumber(s string) (int, bool) {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	return n, err == nil
}

// BuildPlans groups the rows of one solution by user number. solution is the
// bare number ("1" selects "Solution_1").
func BuildPlans(t *tabular.Table, solution string) (map[int]Plan, BuildStats, error) {
	cols := map[string]int{}
	for _, name := range []string{"Solution", "User", "Slot", "POI", "Transport"} {
		i, ok := t.Column(name)
		if !ok {
			return nil, BuildStats{}, fmt.Errorf("column %q not found in %v", name, t.Header)
		}
		cols[name] = i
	}
	pick := "solution_" + strings.TrimLeft(strings.TrimSpace(solution), "0")

	plans := map[int]Plan{}
	stats := BuildStats{}
	for _, row := range t.Rows {
		stats.Rows++
		if strings.ToLower(tabular.Cell(row, cols["Solution"])) != pick {
			continue
		}
		uid, okUser := firstNumber(tabular.Cell(row, cols["User"]))
		slot, okSlot := firstNumber(tabular.Cell(row, cols["Slot"]))
		if !okUser || !okSlot {
			continue
		}
		place := tabular.Cell(row, cols["POI"])
		item := Item{Slot: slot, Mode: NormMode(tabular.Cell(row, cols["Transport"]), place)}
		if item.Mode == "stay" {
			item.POIName = place
			if place == "" || itinerary.IsMoveMarker(place) {
				item.POIName = UnspecifiedPlace
			}
		}
		p := plans[uid]
		p.Items = append(p.Items, item)
		plans[uid] = p
		stats.Used++
	}

	for uid, p := range plans {
		sort.SliceStable(p.Items, func(i, j int) bool { return p.Items[i].Slot < p.Items[j].Slot })
		plans[uid] = p
	}
	stats.Users = len(plans)
	return plans, stats, nil
}

// WritePlans writes one best.json per user under dir.
func WritePlans(dir string, plans map[int]Plan) error {
	for uid, p := range plans {
		userDir := filepath.Join(dir, strconv.Itoa(uid))
		if err := os.MkdirAll(userDir, 0o755); err != nil {
			return fmt.Errorf("failed to create plan dir: %w", err)
		}
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode plan for user %d: %w", uid, err)
		}
		if err := os.WriteFile(filepath.Join(userDir, planFile), b, 0o644); err != nil {
			return fmt.Errorf("failed to write plan for user %d: %w", uid, err)
		}
	}
	return nil
}
