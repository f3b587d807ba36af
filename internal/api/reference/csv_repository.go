package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/poi"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/tabular"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

var _ Repository = (*CSVRepository)(nil)

const (
	userIDColumn        = "User_ID"
	userTypeColumn      = "User_Type"
	poiIDColumn         = "PoI_ID"
	transportModeColumn = "transport mode"
)

// Paths locates each reference file. Empty optional paths are treated as absent.
type Paths struct {
	POIs                 string
	Desired              string
	Proposal             string
	UserTypes            string
	POIPreferences       string
	TransportPreferences string
	PersuasiveTexts      string
}

// CSVRepository reads reference data from CSV files plus one JSON file of texts.
type CSVRepository struct {
	paths  Paths
	logger *slog.Logger
}

func NewCSVRepository(paths Paths, logger *slog.Logger) *CSVRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVRepository{paths: paths, logger: logger}
}

func (r *CSVRepository) readTable(path, name string) (*tabular.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%s: no path configured: %w", name, types.ErrMissingReferenceData)
	}
	t, err := tabular.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s %s: %w", name, path, types.ErrMissingReferenceData)
		}
		return nil, err
	}
	return t, nil
}

func (r *CSVRepository) LoadPOIs(_ context.Context) ([]types.PointOfInterest, error) {
	t, err := r.readTable(r.paths.POIs, "poi master")
	if err != nil {
		return nil, err
	}
	return poi.ParseMaster(t), nil
}

func (r *CSVRepository) LoadUserTypes(_ context.Context) (map[string]string, error) {
	t, err := r.readTable(r.paths.UserTypes, "user types")
	if err != nil {
		return nil, err
	}
	idCol, okID := t.Column(userIDColumn)
	typeCol, okType := t.Column(userTypeColumn)
	if !okID || !okType {
		return nil, fmt.Errorf("user types: need %s and %s columns", userIDColumn, userTypeColumn)
	}
	out := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		id := tabular.Cell(row, idCol)
		if id == "" {
			continue
		}
		out[UserKey(id)] = tabular.Cell(row, typeCol)
	}
	return out, nil
}

func (r *CSVRepository) LoadPOIPreferences(_ context.Context) (types.PoiPreferenceTable, error) {
	t, err := r.readTable(r.paths.POIPreferences, "poi preferences")
	if err != nil {
		return nil, err
	}
	keyCol, ok := t.Column(poiIDColumn)
	if !ok {
		return nil, fmt.Errorf("poi preferences: missing %s column", poiIDColumn)
	}
	out := types.PoiPreferenceTable{}
	for col, userType := range t.Header {
		if col == keyCol || userType == "" {
			continue
		}
		scores := map[string]float64{}
		for _, row := range t.Rows {
			id := types.CanonicalPOIID(tabular.Cell(row, keyCol))
			v, err := strconv.ParseFloat(tabular.Cell(row, col), 64)
			if id == "" || err != nil {
				continue
			}
			scores[id] = v
		}
		out[userType] = scores
	}
	return out, nil
}

func (r *CSVRepository) LoadTransportPreferences(_ context.Context) (types.TransportPreferenceTable, error) {
	t, err := r.readTable(r.paths.TransportPreferences, "transport preferences")
	if err != nil {
		return nil, err
	}
	keyCol, ok := t.Column(transportModeColumn)
	if !ok {
		return nil, fmt.Errorf("transport preferences: missing %q column", transportModeColumn)
	}
	out := types.TransportPreferenceTable{}
	for col, userType := range t.Header {
		if col == keyCol || userType == "" {
			continue
		}
		scores := map[types.TransportMode]float64{}
		for _, row := range t.Rows {
			mode := tabular.Cell(row, keyCol)
			v, err := strconv.ParseFloat(tabular.Cell(row, col), 64)
			if mode == "" || err != nil {
				continue
			}
			scores[types.NormalizeTransport(mode)] = v
		}
		out[userType] = scores
	}
	return out, nil
}

func (r *CSVRepository) LoadPersuasiveTexts(_ context.Context) (map[string]string, error) {
	if r.paths.PersuasiveTexts == "" {
		return nil, fmt.Errorf("persuasive texts: no path configured: %w", types.ErrMissingReferenceData)
	}
	b, err := os.ReadFile(r.paths.PersuasiveTexts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("persuasive texts %s: %w", r.paths.PersuasiveTexts, types.ErrMissingReferenceData)
		}
		return nil, fmt.Errorf("failed to read persuasive texts: %w", err)
	}
	var texts map[string]string
	if err := json.Unmarshal(b, &texts); err != nil {
		return nil, fmt.Errorf("failed to decode persuasive texts: %w", err)
	}
	return texts, nil
}

func (r *CSVRepository) LoadItineraryRows(_ context.Context, variant types.Variant, user string) ([]types.PlanRow, error) {
	path := r.paths.Desired
	if variant == types.VariantProposal {
		path = r.paths.Proposal
	}
	t, err := r.readTable(path, string(variant)+" itinerary")
	if err != nil {
		return nil, err
	}
	rows, ok := itinerary.RowsFromTable(t, user)
	if !ok {
		r.logger.Warn("Itinerary table lacks Slot/POI/Transport columns",
			slog.String("variant", string(variant)), slog.String("path", path))
		return nil, nil
	}
	return rows, nil
}
