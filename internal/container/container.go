package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-itinerary-compare/app/db"
	"github.com/FACorreiaa/go-itinerary-compare/config"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/comparison"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/persuasion"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/plan"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/reference"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/scoring"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/summary"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	Pool              *pgxpool.Pool
	Store             *reference.Store
	Exporter          *summary.Exporter
	ComparisonHandler *comparison.HandlerImpl
	PlanHandler       *plan.HandlerImpl
}

// NewContainer initializes and returns a new dependency container. The
// database is only opened when the postgres repository is enabled.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	synthetic := scoring.SyntheticBiasStrategy{
		DesiredBias:  cfg.Scoring.DesiredBias,
		ProposalBias: cfg.Scoring.ProposalBias,
		PeakGap:      cfg.Scoring.PeakGap,
		OffPeakGap:   cfg.Scoring.OffPeakGap,
	}
	if _, err := scoring.Select(cfg.Scoring.Strategy, true, synthetic); err != nil {
		return nil, fmt.Errorf("invalid scoring.strategy: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger}

	if cfg.Repositories.Postgres.Enabled {
		pool, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
	}

	repo, err := c.repository()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = reference.NewStore(repo, cfg.Cache.ReferenceTTL, cfg.Cache.CleanupEvery, logger)

	drafter, err := newDrafter(ctx, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	var override comparison.OverrideSource
	if cfg.Comparison.UseMockOverride {
		logger.Warn("Mock comparison override is enabled", slog.String("path", cfg.Data.MockCompare))
		override = comparison.FileOverride{Path: cfg.Data.MockCompare}
	}

	comparisonService := comparison.NewServiceImpl(c.Store, override, comparison.FileOverride{Path: cfg.Data.MockCompare}, drafter,
		comparison.Options{
			DefaultUser:     cfg.Comparison.DefaultUser,
			DefaultUserType: cfg.Comparison.DefaultUserType,
			Strategy:        cfg.Scoring.Strategy,
			Synthetic:       synthetic,
			HourOffset:      cfg.Scoring.HourOffset,
		}, logger)
	c.ComparisonHandler = comparison.NewHandlerImpl(comparisonService, logger)

	planService := plan.NewServiceImpl(cfg.Data.PlansDir, cfg.Comparison.MaxPlanUser, logger)
	c.PlanHandler = plan.NewHandlerImpl(planService, logger)

	var sinks []summary.Sink
	if cfg.Export.CSVPath != "" {
		sinks = append(sinks, summary.CSVSink{Path: cfg.Export.CSVPath})
	}
	if cfg.Export.Postgres && c.Pool != nil {
		sinks = append(sinks, summary.NewPostgresSink(c.Pool, logger))
	}
	c.Exporter = summary.NewExporter(c.Store, summary.Options{
		DefaultUserType: cfg.Comparison.DefaultUserType,
		HourOffset:      cfg.Scoring.HourOffset,
	}, logger, sinks...)

	return c, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, err
	}
	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, errors.New("database not ready")
	}
	return pool, nil
}

func (c *Container) repository() (reference.Repository, error) {
	switch c.Config.Data.Source {
	case SourcePostgres:
		if c.Pool == nil {
			return nil, errors.New("data.source is postgres but repositories.postgres is disabled")
		}
		return reference.NewPostgresRepository(c.Pool, c.Logger), nil
	case SourceCSV, "":
		d := c.Config.Data
		return reference.NewCSVRepository(reference.Paths{
			POIs:                 d.POIs,
			Desired:              d.Desired,
			Proposal:             d.Proposal,
			UserTypes:            d.UserTypes,
			POIPreferences:       d.POIPreferences,
			TransportPreferences: d.TransportPreferences,
			PersuasiveTexts:      d.PersuasiveTexts,
		}, c.Logger), nil
	default:
		return nil, fmt.Errorf("unknown data.source %q", c.Config.Data.Source)
	}
}

func newDrafter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (persuasion.Drafter, error) {
	p := cfg.Persuasion
	if !p.Enabled {
		return nil, nil
	}
	if p.APIKey == "" {
		logger.Warn("Persuasion drafting enabled without an API key, disabling it")
		return nil, nil
	}
	client, err := persuasion.NewGeminiClient(ctx, p.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return persuasion.NewGeminiDrafter(client.Models, p.Model, p.Temperature, p.Timeout, cfg.Cache.PersuasionTTL, logger), nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
