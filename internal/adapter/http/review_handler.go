package http

import (
	"net/http"

	"agriloan-backend/internal/adapter/middleware"
	appuc "agriloan-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

// ReviewHandler is the admin-facing review gateway. Routes are additionally
// guarded by the RequireReviewer middleware; the usecase re-checks authority
// so a miswired route still cannot transition anything.
type ReviewHandler struct{ uc *appuc.Usecase }

func NewReviewHandler(uc *appuc.Usecase) *ReviewHandler { return &ReviewHandler{uc: uc} }

// List returns applications in the requested status, newest first.
// Defaults to the pending queue.
func (h *ReviewHandler) List(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}
	status := c.QueryParam("status")
	if status == "" {
		status = "pending"
	}
	out, err := h.uc.ListByStatus(c.Request().Context(), status, actor, pageFromQuery(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) GetDetail(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}
	dto, err := h.uc.GetDetail(c.Request().Context(), c.Param("application_id"), actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type setStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected active completed"`
	Note   string `json:"note"`
}

// SetStatus drives the state machine. A lost race or illegal move comes
// back as 409 so the admin UI can refresh and show the actual state.
func (h *ReviewHandler) SetStatus(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}
	applicationID := c.Param("application_id")
	if applicationID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing application_id path param"})
	}

	var req setStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Transition(c.Request().Context(), appuc.TransitionInput{
		ApplicationID: applicationID,
		NewStatus:     req.Status,
		Note:          req.Note,
	}, actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
