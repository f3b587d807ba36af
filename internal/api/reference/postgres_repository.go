package reference

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	database "github.com/FACorreiaa/go-itinerary-compare/app/db"
	"github.com/FACorreiaa/go-itinerary-compare/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository reads the same tables as CSVRepository from Postgres.
type PostgresRepository struct {
	logger *slog.Logger
	pgpool database.PgxIface
}

func NewPostgresRepository(pgpool database.PgxIface, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pgpool}
}

func (r *PostgresRepository) query(ctx context.Context, name, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx, sql, args...)
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("query", name))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
		r.logger.ErrorContext(ctx, "Query failed", slog.String("query", name), slog.Any("error", err))
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	return rows, nil
}

func (r *PostgresRepository) LoadPOIs(ctx context.Context) ([]types.PointOfInterest, error) {
	rows, err := r.query(ctx, "poi_master", `
		SELECT id, name, category, latitude, longitude
		FROM poi_master
		ORDER BY ordinal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []types.PointOfInterest
	for rows.Next() {
		var p types.PointOfInterest
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan poi row: %w", err)
		}
		if p.Category == "" {
			p.Category = types.DefaultCategory
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poi rows: %w", err)
	}
	if len(pois) == 0 {
		return nil, fmt.Errorf("poi_master is empty: %w", types.ErrMissingReferenceData)
	}
	return pois, nil
}

func (r *PostgresRepository) LoadUserTypes(ctx context.Context) (map[string]string, error) {
	rows, err := r.query(ctx, "user_types", `SELECT user_id, user_type FROM user_types`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var id, userType string
		if err := rows.Scan(&id, &userType); err != nil {
			return nil, fmt.Errorf("failed to scan user type row: %w", err)
		}
		out[UserKey(id)] = userType
	}
	return out, rows.Err()
}

func (r *PostgresRepository) LoadPOIPreferences(ctx context.Context) (types.PoiPreferenceTable, error) {
	rows, err := r.query(ctx, "poi_preferences", `SELECT user_type, poi_id, score FROM poi_preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := types.PoiPreferenceTable{}
	for rows.Next() {
		var userType, poiID string
		var score float64
		if err := rows.Scan(&userType, &poiID, &score); err != nil {
			return nil, fmt.Errorf("failed to scan poi preference row: %w", err)
		}
		if out[userType] == nil {
			out[userType] = map[string]float64{}
		}
		out[userType][types.CanonicalPOIID(poiID)] = score
	}
	return out, rows.Err()
}

func (r *PostgresRepository) LoadTransportPreferences(ctx context.Context) (types.TransportPreferenceTable, error) {
	rows, err := r.query(ctx, "transport_preferences", `SELECT user_type, mode, score FROM transport_preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := types.TransportPreferenceTable{}
	for rows.Next() {
		var userType, mode string
		var score float64
		if err := rows.Scan(&userType, &mode, &score); err != nil {
			return nil, fmt.Errorf("failed to scan transport preference row: %w", err)
		}
		if out[userType] == nil {
			out[userType] = map[types.TransportMode]float64{}
		}
		out[userType][types.NormalizeTransport(mode)] = score
	}
	return out, rows.Err()
}

func (r *PostgresRepository) LoadPersuasiveTexts(ctx context.Context) (map[string]string, error) {
	rows, err := r.query(ctx, "persuasive_texts", `SELECT user_id, body FROM persuasive_texts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var user, body string
		if err := rows.Scan(&user, &body); err != nil {
			return nil, fmt.Errorf("failed to scan persuasive text row: %w", err)
		}
		out[user] = body
	}
	return out, rows.Err()
}

func (r *PostgresRepository) LoadItineraryRows(ctx context.Context, variant types.Variant, user string) ([]types.PlanRow, error) {
	rows, err := r.query(ctx, "itinerary_rows", `
		SELECT user_id, slot, place, transport
		FROM itinerary_rows
		WHERE variant = $1 AND ($2 = '' OR user_id = $2)
		ORDER BY user_id, ordinal`, string(variant), user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.PlanRow
	for rows.Next() {
		var row types.PlanRow
		if err := rows.Scan(&row.User, &row.Slot, &row.Place, &row.Transport); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
