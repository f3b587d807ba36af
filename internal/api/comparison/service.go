package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-itinerary-compare/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/persuasion"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/reference"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/scoring"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

var (
	// ErrNoRows is returned when an ad-hoc comparison carries no rows at all.
	ErrNoRows          = errors.New("desired and proposal rows are both empty")
	ErrUnknownStrategy = errors.New("unknown scoring strategy")
)

var userPattern = regexp.MustCompile(`^(?:User_)?(\d+)$`)

// NormalizeUser accepts "User_3" or "3" and returns "User_3". Empty selects def.
func NormalizeUser(raw, def string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = def
	}
	m := userPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidUserSelector, raw)
	}
	return "User_" + m[1], nil
}

// Options are the comparison settings taken from configuration.
type Options struct {
	DefaultUser     string
	DefaultUserType string
	Strategy        string
	Synthetic       scoring.SyntheticBiasStrategy
	HourOffset      int
}

// Outcome is either a scored result or an override document.
type Outcome struct {
	Result   *types.ComparisonResult
	Override json.RawMessage
}

// RowsRequest is an ad-hoc comparison of caller-supplied rows.
type RowsRequest struct {
	User     string          `json:"user"`
	UserType string          `json:"user_type"`
	Strategy string          `json:"strategy"`
	Desired  []types.PlanRow `json:"desired"`
	Proposal []types.PlanRow `json:"proposal"`
}

type Service interface {
	Compare(ctx context.Context, user string) (*Outcome, error)
	CompareRows(ctx context.Context, req RowsRequest) (*types.ComparisonResult, error)
	MockPayload(ctx context.Context) (json.RawMessage, error)
	POIs(ctx context.Context) ([]types.PointOfInterest, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	store    *reference.Store
	override OverrideSource
	mock     OverrideSource
	drafter  persuasion.Drafter
	opts     Options
	logger   *slog.Logger
}

// NewServiceImpl wires the service. override may be nil to always score;
// mock backs the /compare card; drafter may be nil.
func NewServiceImpl(store *reference.Store, override, mock OverrideSource, drafter persuasion.Drafter, opts Options, logger *slog.Logger) *ServiceImpl {
	if opts.HourOffset == 0 {
		opts.HourOffset = itinerary.DefaultHourOffset
	}
	return &ServiceImpl{
		store:    store,
		override: override,
		mock:     mock,
		drafter:  drafter,
		opts:     opts,
		logger:   logger,
	}
}

func (s *ServiceImpl) Compare(ctx context.Context, rawUser string) (*Outcome, error) {
	ctx, span := otel.Tracer("ComparisonService").Start(ctx, "Compare")
	defer span.End()
	l := s.logger.With(slog.String("service", "Compare"))

	if s.override != nil {
		raw, err := s.override.Payload(ctx)
		if err == nil {
			span.SetAttributes(attribute.Bool("comparison.override", true))
			l.DebugContext(ctx, "Returning override comparison payload")
			return &Outcome{Override: raw}, nil
		}
		if !errors.Is(err, types.ErrMissingReferenceData) {
			l.WarnContext(ctx, "Override payload unusable, scoring instead", slog.Any("error", err))
		}
	}

	user, err := NormalizeUser(rawUser, s.opts.DefaultUser)
	if err != nil {
		span.SetStatus(codes.Error, "invalid user")
		return nil, err
	}
	span.SetAttributes(attribute.String("user", user))

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reference data unavailable")
		return nil, err
	}

	repo := s.store.Repository()
	desired, err := repo.LoadItineraryRows(ctx, types.VariantDesired, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "desired itinerary unavailable")
		return nil, fmt.Errorf("failed to load desired itinerary: %w", err)
	}
	proposal, err := repo.LoadItineraryRows(ctx, types.VariantProposal, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "proposed itinerary unavailable")
		return nil, fmt.Errorf("failed to load proposed itinerary: %w", err)
	}

	userType := snap.Set.UserType(user, s.opts.DefaultUserType)
	result, err := s.score(ctx, snap, user, userType, s.opts.Strategy, desired, proposal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "comparison scored")
	return &Outcome{Result: result}, nil
}

func (s *ServiceImpl) CompareRows(ctx context.Context, req RowsRequest) (*types.ComparisonResult, error) {
	ctx, span := otel.Tracer("ComparisonService").Start(ctx, "CompareRows")
	defer span.End()

	if len(req.Desired) == 0 && len(req.Proposal) == 0 {
		return nil, ErrNoRows
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reference data unavailable")
		return nil, err
	}

	user := strings.TrimSpace(req.User)
	if user != "" {
		if user, err = NormalizeUser(user, ""); err != nil {
			return nil, err
		}
	}
	userType := req.UserType
	if userType == "" {
		userType = snap.Set.UserType(user, s.opts.DefaultUserType)
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = s.opts.Strategy
	}
	return s.score(ctx, snap, user, userType, strategy, req.Desired, req.Proposal)
}

func (s *ServiceImpl) score(ctx context.Context, snap *reference.Snapshot, user, userType, strategyName string, desired, proposal []types.PlanRow) (*types.ComparisonResult, error) {
	start := time.Now()
	strategy, err := scoring.Select(strategyName, snap.Set.HasPreferences(), s.opts.Synthetic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownStrategy, err)
	}

	norm := itinerary.NewNormalizer(snap.Index, strategy.NameMatch(), s.opts.HourOffset, s.logger)
	cmp := strategy.Score(scoring.Input{
		Desired:  norm.NormalizeAll(desired),
		Proposal: norm.NormalizeAll(proposal),
		Profile:  scoring.ProfileFor(snap.Set, userType),
	})

	result := &types.ComparisonResult{
		ID:                        uuid.New(),
		User:                      user,
		UserType:                  userType,
		Strategy:                  strategy.Name(),
		Desired:                   cmp.Desired,
		Proposal:                  cmp.Proposal,
		DesiredTotalSatisfaction:  cmp.Desired.TotalSatisfaction,
		ProposalTotalSatisfaction: cmp.Proposal.TotalSatisfaction,
		GapCorrections:            cmp.GapCorrections,
		GeneratedAt:               time.Now().UTC(),
	}
	result.PersuasiveText = s.persuasiveText(ctx, snap, result)

	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("strategy", result.Strategy))
	m.ComparisonsTotal.Add(ctx, 1, attrs)
	m.ComparisonDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if cmp.GapCorrections > 0 {
		m.GapCorrectionsTotal.Add(ctx, int64(cmp.GapCorrections), attrs)
	}

	s.logger.InfoContext(ctx, "Comparison scored",
		slog.String("user", user),
		slog.String("user_type", userType),
		slog.String("strategy", result.Strategy),
		slog.Float64("desired_total", result.DesiredTotalSatisfaction),
		slog.Float64("proposal_total", result.ProposalTotalSatisfaction),
		slog.Int("gap_corrections", result.GapCorrections))
	return result, nil
}

// persuasiveText prefers the text on file for the user and falls back to a drafted one.
func (s *ServiceImpl) persuasiveText(ctx context.Context, snap *reference.Snapshot, r *types.ComparisonResult) string {
	if text := snap.Set.PersuasiveTexts[r.User]; text != "" {
		return text
	}
	if s.drafter == nil {
		return ""
	}
	text, err := s.drafter.Draft(ctx, persuasion.Request{
		User:           r.User,
		UserType:       r.UserType,
		Strategy:       r.Strategy,
		DesiredTotal:   r.DesiredTotalSatisfaction,
		ProposalTotal:  r.ProposalTotalSatisfaction,
		GapCorrections: r.GapCorrections,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Could not draft persuasive text", slog.String("user", r.User), slog.Any("error", err))
		return ""
	}
	return text
}

func (s *ServiceImpl) MockPayload(ctx context.Context) (json.RawMessage, error) {
	_, span := otel.Tracer("ComparisonService").Start(ctx, "MockPayload")
	defer span.End()
	if s.mock == nil {
		return nil, fmt.Errorf("mock comparison not configured: %w", types.ErrMissingReferenceData)
	}
	return s.mock.Payload(ctx)
}

func (s *ServiceImpl) POIs(ctx context.Context) ([]types.PointOfInterest, error) {
	ctx, span := otel.Tracer("ComparisonService").Start(ctx, "POIs")
	defer span.End()
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return snap.Index.All(), nil
}
