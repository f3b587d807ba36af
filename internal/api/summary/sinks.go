package summary

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	database "github.com/FACorreiaa/go-itinerary-compare/app/db"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

var csvHeader = []string{
	"user_id", "route_type", "total_satisfaction", "total_congestion",
	"avg_satisfaction", "avg_congestion", "num_slots",
}

var (
	_ Sink = (*CSVSink)(nil)
	_ Sink = (*PostgresSink)(nil)
)

// CSVSink overwrites Path with the latest run.
type CSVSink struct {
	Path string
}

func (s CSVSink) Write(_ context.Context, _ uuid.UUID, rows []types.RouteSummary) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.UserID,
			r.RouteType,
			formatFloat(r.TotalSatisfaction),
			formatFloat(r.TotalCongestion),
			formatFloat(r.AvgSatisfaction),
			formatFloat(r.AvgCongestion),
			strconv.Itoa(r.NumSlots),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PostgresSink appends a run to route_summaries in one transaction.
type PostgresSink struct {
	pgpool database.PgxIface
	logger *slog.Logger
}

func NewPostgresSink(pgpool database.PgxIface, logger *slog.Logger) *PostgresSink {
	return &PostgresSink{pgpool: pgpool, logger: logger}
}

func (s *PostgresSink) Write(ctx context.Context, runID uuid.UUID, rows []types.RouteSummary) error {
	tx, err := s.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO route_summaries
				(run_id, user_id, route_type, total_satisfaction, total_congestion, avg_satisfaction, avg_congestion, num_slots)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			runID, r.UserID, r.RouteType, r.TotalSatisfaction, r.TotalCongestion, r.AvgSatisfaction, r.AvgCongestion, r.NumSlots)
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.WarnContext(ctx, "Rollback failed", slog.Any("error", rbErr))
			}
			return fmt.Errorf("failed to insert route summary for %s: %w", r.UserID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit route summaries: %w", err)
	}
	s.logger.DebugContext(ctx, "Route summaries stored", slog.String("run_id", runID.String()), slog.Int("rows", len(rows)))
	return nil
}
