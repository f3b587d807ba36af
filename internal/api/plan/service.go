// Package plan serves the per-user plan files written by the plan builder.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

const DefaultMaxUser = 30

type Service interface {
	Plan(ctx context.Context, user string) (json.RawMessage, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	dir     string
	maxUser int
	logger  *slog.Logger
}

func NewServiceImpl(dir string, maxUser int, logger *slog.Logger) *ServiceImpl {
	if maxUser <= 0 {
		maxUser = DefaultMaxUser
	}
	return &ServiceImpl{dir: dir, maxUser: maxUser, logger: logger}
}

// ParseUserNumber accepts only ASCII digits in [1, max].
func ParseUserNumber(raw string, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, fmt.Errorf("%w: user must be numeric", types.ErrInvalidUserSelector)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("%w: user must be between 1 and %d", types.ErrInvalidUserSelector, max)
	}
	return n, nil
}

func (s *ServiceImpl) Plan(ctx context.Context, user string) (json.RawMessage, error) {
	_, span := otel.Tracer("PlanService").Start(ctx, "Plan")
	defer span.End()

	uid, err := ParseUserNumber(user, s.maxUser)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("user", uid))

	path := filepath.Join(s.dir, strconv.Itoa(uid), planFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("plan not found: %s: %w", path, types.ErrMissingReferenceData)
		}
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("plan %s is not valid JSON", path)
	}
	return b, nil
}
