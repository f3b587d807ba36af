// Package persuasion supplies the short text shown next to a comparison that
// nudges the user towards the proposed itinerary.
package persuasion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

// Request carries what a drafter knows about one comparison.
type Request struct {
	User           string
	UserType       string
	Strategy       string
	DesiredTotal   float64
	ProposalTotal  float64
	GapCorrections int
}

func (r Request) cacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%.1f|%.1f", r.User, r.UserType, r.Strategy, r.DesiredTotal, r.ProposalTotal)
}

// Drafter writes a persuasive text for a comparison that has none on file.
type Drafter interface {
	Draft(ctx context.Context, req Request) (string, error)
}

// ContentGenerator is the part of *genai.Models the drafter calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ ContentGenerator = (*genai.Models)(nil)

var errEmptyDraft = errors.New("model returned an empty draft")

// NewGeminiClient connects to the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	ctx, span := otel.Tracer("Persuasion").Start(ctx, "NewGeminiClient")
	defer span.End()

	if apiKey == "" {
		err := errors.New("gemini api key is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// GeminiDrafter drafts texts with a Gemini model and caches them per comparison outcome.
type GeminiDrafter struct {
	models      ContentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	cache       *cache.Cache
	logger      *slog.Logger
}

func NewGeminiDrafter(models ContentGenerator, model string, temperature float32, timeout, ttl time.Duration, logger *slog.Logger) *GeminiDrafter {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &GeminiDrafter{
		models:      models,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		cache:       cache.New(ttl, time.Hour),
		logger:      logger,
	}
}

func (d *GeminiDrafter) Draft(ctx context.Context, req Request) (string, error) {
	ctx, span := otel.Tracer("Persuasion").Start(ctx, "Draft")
	defer span.End()
	span.SetAttributes(attribute.String("user", req.User), attribute.String("model", d.model))

	key := req.cacheKey()
	if v, ok := d.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return v.(string), nil
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	resp, err := d.models.GenerateContent(ctx, d.model, genai.Text(BuildPrompt(req)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](d.temperature)})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return "", fmt.Errorf("failed to draft persuasive text: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.SetStatus(codes.Error, errEmptyDraft.Error())
		return "", errEmptyDraft
	}

	d.cache.SetDefault(key, text)
	d.logger.DebugContext(ctx, "Drafted persuasive text", slog.String("user", req.User), slog.Int("length", len(text)))
	return text, nil
}

// BuildPrompt renders the drafting instructions for req.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You write one or two friendly sentences for a sightseeing app.\n")
	b.WriteString("A visitor planned a day trip; we suggest a different schedule that avoids crowds.\n")
	fmt.Fprintf(&b, "Visitor segment: %s.\n", req.UserType)
	fmt.Fprintf(&b, "Expected satisfaction of their own plan: %.1f.\n", req.DesiredTotal)
	fmt.Fprintf(&b, "Expected satisfaction of our proposal: %.1f.\n", req.ProposalTotal)
	if req.GapCorrections > 0 {
		fmt.Fprintf(&b, "At %d time slots our proposal is clearly less crowded.\n", req.GapCorrections)
	}
	b.WriteString("Encourage them to try the proposal. No lists, no numbers, plain text only.")
	return b.String()
}
