// Package summary computes per-user route aggregates and hands them to sinks.
package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/reference"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/scoring"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

const (
	RouteDesired   = "desired"
	RouteOptimized = "optimized"
)

// Sink persists one export run.
type Sink interface {
	Write(ctx context.Context, runID uuid.UUID, rows []types.RouteSummary) error
}

type Options struct {
	DefaultUserType string
	HourOffset      int
}

type Exporter struct {
	store  *reference.Store
	sinks  []Sink
	opts   Options
	logger *slog.Logger
}

func NewExporter(store *reference.Store, opts Options, logger *slog.Logger, sinks ...Sink) *Exporter {
	if opts.HourOffset == 0 {
		opts.HourOffset = itinerary.DefaultHourOffset
	}
	return &Exporter{store: store, sinks: sinks, opts: opts, logger: logger}
}

// Summaries scores both routes of every user with the preference model.
// Users are returned in the order given, desired before optimized.
func (e *Exporter) Summaries(ctx context.Context, users []string) ([]types.RouteSummary, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	repo := e.store.Repository()
	strategy := scoring.PreferenceStrategy{}
	norm := itinerary.NewNormalizer(snap.Index, strategy.NameMatch(), e.opts.HourOffset, e.logger)

	out := make([]types.RouteSummary, 0, 2*len(users))
	for _, raw := range users {
		user := reference.UserKey(raw)
		profile := scoring.ProfileFor(snap.Set, snap.Set.UserType(user, e.opts.DefaultUserType))
		for _, route := range []struct {
			name    string
			variant types.Variant
		}{
			{RouteDesired, types.VariantDesired},
			{RouteOptimized, types.VariantProposal},
		} {
			rows, err := repo.LoadItineraryRows(ctx, route.variant, user)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s route for %s: %w", route.name, user, err)
			}
			scored := strategy.ScoreItinerary(norm.NormalizeAll(rows), profile)
			out = append(out, Summarize(user, route.name, scored.Slots))
		}
	}
	return out, nil
}

// Summarize aggregates one scored route. Averages divide by the number of
// non-anchor slots and are zero for an empty route.
func Summarize(user, routeType string, slots []types.ScoredSlot) types.RouteSummary {
	n := 0
	for _, s := range slots {
		if !s.IsAnchor {
			n++
		}
	}
	sat := scoring.Total(slots)
	cong, _ := scoring.TotalCongestion(slots)
	sum := types.RouteSummary{
		UserID:            user,
		RouteType:         routeType,
		TotalSatisfaction: scoring.Round2(sat),
		TotalCongestion:   float64(cong),
		NumSlots:          n,
	}
	if n > 0 {
		sum.AvgSatisfaction = scoring.Round2(sat / float64(n))
		sum.AvgCongestion = scoring.Round2(float64(cong) / float64(n))
	}
	return sum
}

// Export computes summaries for users and writes them to every sink under
// a fresh run id.
func (e *Exporter) Export(ctx context.Context, users []string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("SummaryExporter").Start(ctx, "Export")
	defer span.End()

	rows, err := e.Summaries(ctx, users)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summaries failed")
		return uuid.Nil, err
	}

	runID := uuid.New()
	span.SetAttributes(attribute.String("run_id", runID.String()), attribute.Int("rows", len(rows)))
	for _, sink := range e.sinks {
		if err := sink.Write(ctx, runID, rows); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sink failed")
			return runID, err
		}
	}
	e.logger.InfoContext(ctx, "Route summaries exported",
		slog.String("run_id", runID.String()),
		slog.Int("users", len(users)),
		slog.Int("rows", len(rows)),
		slog.Int("sinks", len(e.sinks)))
	return runID, nil
}
