package comparison

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrInvalidUserSelector):
		return http.StatusBadRequest, "invalid user selector"
	case errors.Is(err, ErrNoRows), errors.Is(err, ErrUnknownStrategy):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, types.ErrMissingReferenceData):
		return http.StatusNotFound, "reference data not available"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// CompareGeo godoc
// @Summary      Compare the desired and proposed itineraries of a user
// @Description  Scores both itineraries slot by slot for congestion and satisfaction. Returns the mock comparison verbatim when the override is enabled and present.
// @Tags         comparison
// @Produce      json
// @Param        user  query     string  false  "User selector, User_<n> or <n>"  default(User_1)
// @Success      200   {object}  types.ComparisonResult
// @Failure      400   {object}  api.Error
// @Failure      404   {object}  api.Error
// @Router       /compare_geo [get]
func (h *HandlerImpl) CompareGeo(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ComparisonHandler").Start(r.Context(), "CompareGeo")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CompareGeo"))

	out, err := h.service.Compare(ctx, r.URL.Query().Get("user"))
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			l.ErrorContext(ctx, "Comparison failed", slog.Any("error", err))
		} else {
			l.WarnContext(ctx, "Comparison rejected", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		api.ErrorResponse(w, r, status, msg)
		return
	}

	if out.Override != nil {
		api.WriteRawJSON(w, r, http.StatusOK, out.Override)
		return
	}
	span.SetStatus(codes.Ok, "comparison returned")
	api.WriteJSONResponse(w, r, http.StatusOK, out.Result)
}

// CompareRows godoc
// @Summary      Compare caller-supplied itineraries
// @Description  Scores raw desired and proposal rows against the loaded reference data.
// @Tags         comparison
// @Accept       json
// @Produce      json
// @Param        request  body      comparison.RowsRequest  true  "Rows to compare"
// @Success      200      {object}  types.ComparisonResult
// @Failure      400      {object}  api.Error
// @Failure      404      {object}  api.Error
// @Router       /compare_geo [post]
func (h *HandlerImpl) CompareRows(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ComparisonHandler").Start(r.Context(), "CompareRows")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CompareRows"))

	var req RowsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.CompareRows(ctx, req)
	if err != nil {
		status, msg := statusFor(err)
		l.ErrorContext(ctx, "Ad-hoc comparison failed", slog.Any("error", err), slog.Int("status", status))
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		api.ErrorResponse(w, r, status, msg)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// Compare godoc
// @Summary      Mock comparison card
// @Description  Returns the precomputed comparison document verbatim.
// @Tags         comparison
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  api.Error
// @Router       /compare [get]
func (h *HandlerImpl) Compare(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ComparisonHandler").Start(r.Context(), "Compare")
	defer span.End()

	raw, err := h.service.MockPayload(ctx)
	if err != nil {
		status, _ := statusFor(err)
		msg := "mock comparison not available"
		if status != http.StatusNotFound {
			h.logger.ErrorContext(ctx, "Failed to read mock comparison", slog.Any("error", err))
			msg = "internal server error"
		}
		span.SetStatus(codes.Error, msg)
		api.ErrorResponse(w, r, status, msg)
		return
	}
	api.WriteRawJSON(w, r, http.StatusOK, raw)
}

// ListPOIs godoc
// @Summary      List points of interest
// @Description  Returns the POI master after column resolution and row filtering.
// @Tags         pois
// @Produce      json
// @Success      200  {array}   types.PointOfInterest
// @Failure      404  {object}  api.Error
// @Router       /pois [get]
func (h *HandlerImpl) ListPOIs(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ComparisonHandler").Start(r.Context(), "ListPOIs")
	defer span.End()

	pois, err := h.service.POIs(ctx)
	if err != nil {
		status, msg := statusFor(err)
		h.logger.ErrorContext(ctx, "Failed to list POIs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		api.ErrorResponse(w, r, status, msg)
		return
	}
	if pois == nil {
		pois = []types.PointOfInterest{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, pois)
}
