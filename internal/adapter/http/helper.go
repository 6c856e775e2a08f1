package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	domain "agriloan-backend/internal/domain/application"
	appuc "agriloan-backend/internal/usecase/application"
	"agriloan-backend/pkg/emi"

	"github.com/labstack/echo/v4"
)

// writeDomainError translates the service error taxonomy into HTTP codes.
// Nothing is swallowed: unknown errors surface as 500 with a generic body.
func writeDomainError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		details := make([]FieldError, 0, len(ve.Violations))
		for _, v := range ve.Violations {
			details = append(details, FieldError{Field: v.Field, Message: v.Message})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: domain.ErrAlreadyReviewed.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Error: err.Error()})
	case errors.Is(err, emi.ErrInvalidInput):
		// inputs are validated upstream; this is a bug, not a user error
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func pageFromQuery(c echo.Context) appuc.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 {
		perPage = 20
	}
	return appuc.Page{Offset: (page - 1) * perPage, Limit: perPage}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
