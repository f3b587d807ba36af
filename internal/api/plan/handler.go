package plan

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
	return &HandlerImpl{service: service, logger: logger}
}

// GetPlan godoc
// @Summary      Get a user's best plan
// @Description  Returns plans/<user>/best.json as written by the plan builder.
// @Tags         plans
// @Produce      json
// @Param        user  query     int  true  "User number (1-30)"
// @Success      200   {object}  plan.Plan
// @Failure      400   {object}  api.Error
// @Failure      404   {object}  api.Error
// @Router       /plan [get]
func (h *HandlerImpl) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "GetPlan")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetPlan"))

	raw, err := h.service.Plan(ctx, r.URL.Query().Get("user"))
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrInvalidUserSelector):
			span.SetStatus(codes.Error, "invalid user")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrMissingReferenceData):
			span.SetStatus(codes.Error, "plan not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "plan not found")
		default:
			l.ErrorContext(ctx, "Failed to read plan", slog.Any("error", err))
			span.SetStatus(codes.Error, "read failed")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	api.WriteRawJSON(w, r, http.StatusOK, raw)
}
