package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-itinerary-compare/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/poi"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

const snapshotKey = "reference"

// Snapshot is an immutable view of the reference data plus the POI index built over it.
type Snapshot struct {
	Set   *types.ReferenceSet
	Index *poi.Index
}

// Store owns the loaded reference data. The first Snapshot call loads it;
// concurrent callers share that load. With a zero TTL the snapshot lives until
// Invalidate is called.
type Store struct {
	repo   Repository
	cache  *cache.Cache
	group  singleflight.Group
	logger *slog.Logger
}

func NewStore(repo Repository, ttl, cleanup time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:   repo,
		cache:  cache.New(ttl, cleanup),
		logger: logger,
	}
}

// Repository exposes the backing repository for callers that read itinerary rows.
func (s *Store) Repository() Repository { return s.repo }

// Snapshot returns the cached reference data, loading it when absent.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	if v, ok := s.cache.Get(snapshotKey); ok {
		return v.(*Snapshot), nil
	}
	v, err, _ := s.group.Do(snapshotKey, func() (any, error) {
		if v, ok := s.cache.Get(snapshotKey); ok {
			return v, nil
		}
		// Waiters share this load, so it must outlive the caller that started it.
		snap, err := s.Load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(snapshotKey, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot; the next Snapshot call reloads.
func (s *Store) Invalidate() {
	s.cache.Delete(snapshotKey)
}

// Load reads every table without touching the cache. The POI master is
// required. The other tables are optional: a failure is logged, counted and
// the table is treated as absent.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	ctx, span := otel.Tracer("ReferenceStore").Start(ctx, "Load")
	defer span.End()
	start := time.Now()

	pois, err := s.repo.LoadPOIs(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "poi master unavailable")
		if !errors.Is(err, types.ErrMissingReferenceData) {
			err = fmt.Errorf("%w: %w", types.ErrMissingReferenceData, err)
		}
		return nil, err
	}

	set := &types.ReferenceSet{POIs: pois}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.LoadUserTypes(gctx)
		s.optional(gctx, "user_types", err)
		set.UserTypes = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.LoadPOIPreferences(gctx)
		s.optional(gctx, "poi_preferences", err)
		set.POIPreferences = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.LoadTransportPreferences(gctx)
		s.optional(gctx, "transport_preferences", err)
		set.TransportPreferences = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.LoadPersuasiveTexts(gctx)
		s.optional(gctx, "persuasive_texts", err)
		set.PersuasiveTexts = v
		return nil
	})
	_ = g.Wait()

	set.LoadedAt = time.Now()
	metrics.Get().ReferenceLoadDurationSecond.Record(ctx, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("reference.pois", len(pois)),
		attribute.Bool("reference.has_preferences", set.HasPreferences()),
	)
	s.logger.InfoContext(ctx, "Reference data loaded",
		slog.Int("pois", len(pois)),
		slog.Int("user_types", len(set.UserTypes)),
		slog.Bool("has_preferences", set.HasPreferences()),
		slog.Duration("took", time.Since(start)))

	return &Snapshot{Set: set, Index: poi.NewIndex(pois)}, nil
}

func (s *Store) optional(ctx context.Context, table string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, types.ErrMissingReferenceData) {
		s.logger.DebugContext(ctx, "Optional reference table absent", slog.String("table", table))
	} else {
		s.logger.WarnContext(ctx, "Optional reference table failed to load, treating as absent",
			slog.String("table", table), slog.Any("error", err))
	}
	metrics.Get().ReferenceLoadFailuresTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("table", table)))
}
