package http

import (
	"net/http"

	domain "agriloan-backend/internal/domain/application"
	"agriloan-backend/pkg/emi"

	"github.com/labstack/echo/v4"
)

// QuoteHandler exposes the authoritative amortization calculator so clients
// never maintain their own copy of the formula. Stateless: nothing is
// persisted.
type QuoteHandler struct{}

func NewQuoteHandler() *QuoteHandler { return &QuoteHandler{} }

type quoteReq struct {
	LoanType          string   `json:"loan_type"           validate:"omitempty,oneof=cropLoan equipmentLoan landLoan"`
	Principal         float64  `json:"principal"           validate:"required,gt=0,dec2"`
	TenureMonths      int      `json:"tenure_months"       validate:"required,gt=0"`
	AnnualRatePercent *float64 `json:"annual_rate_percent" validate:"omitempty,gte=0,dec2"`
}

type quoteResp struct {
	Principal         float64 `json:"principal"`
	TenureMonths      int     `json:"tenure_months"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	EMI               float64 `json:"emi"`
	TotalInterest     float64 `json:"total_interest"`
	TotalPayable      float64 `json:"total_payable"`
}

func (h *QuoteHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	var rate float64
	switch {
	case req.AnnualRatePercent != nil:
		rate = *req.AnnualRatePercent
	case domain.LoanType(req.LoanType).Valid():
		rate = domain.LoanType(req.LoanType).DefaultAnnualRatePercent()
	default:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "loan_type", Message: "is required when annual_rate_percent is absent"}},
		})
	}

	terms, err := emi.Calculate(req.Principal, rate, req.TenureMonths)
	if err != nil {
		return writeDomainError(c, err)
	}
	terms = terms.Rounded()
	return c.JSON(http.StatusOK, quoteResp{
		Principal:         req.Principal,
		TenureMonths:      req.TenureMonths,
		AnnualRatePercent: rate,
		EMI:               terms.EMI,
		TotalInterest:     terms.TotalInterest,
		TotalPayable:      terms.TotalPayable,
	})
}
