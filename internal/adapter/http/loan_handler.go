package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"agriloan-backend/internal/adapter/middleware"
	appuc "agriloan-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

// LoanHandler is the farmer-facing surface: submit, self-list, detail and
// document retrieval.
type LoanHandler struct {
	uc            *appuc.Usecase
	maxFileBytes  int64
	submitTimeout time.Duration
}

func NewLoanHandler(uc *appuc.Usecase, maxFileBytes int64, submitTimeout time.Duration) *LoanHandler {
	if submitTimeout <= 0 {
		submitTimeout = 30 * time.Second
	}
	return &LoanHandler{uc: uc, maxFileBytes: maxFileBytes, submitTimeout: submitTimeout}
}

type submitLoanReq struct {
	LoanType          string   `form:"loan_type"           validate:"required,oneof=cropLoan equipmentLoan landLoan"`
	Principal         float64  `form:"principal"           validate:"required,gt=0,dec2"`
	TenureMonths      int      `form:"tenure_months"       validate:"required,gt=0"`
	AnnualRatePercent *float64 `form:"annual_rate_percent" validate:"omitempty,gte=0,dec2"`
	Purpose           string   `form:"purpose"             validate:"required"`
	LandAreaAcres     float64  `form:"land_area_acres"     validate:"required,gt=0"`
	Street            string   `form:"street"`
	Village           string   `form:"village"`
	District          string   `form:"district"            validate:"required"`
	State             string   `form:"state"               validate:"required"`
	Pincode           string   `form:"pincode"             validate:"required,pincode"`
}

// Submit handles the multipart submission: form fields plus any number of
// files under "documents", classified by the parallel "document_types"
// values. The whole call is bounded by the submit timeout; a late failure
// leaves no partial aggregate behind.
func (h *LoanHandler) Submit(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}

	var req submitLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	files, err := h.readUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.submitTimeout)
	defer cancel()

	dto, err := h.uc.Submit(ctx, actor.UserID, appuc.SubmitInput{
		LoanType:          req.LoanType,
		Principal:         req.Principal,
		TenureMonths:      req.TenureMonths,
		AnnualRatePercent: req.AnnualRatePercent,
		Purpose:           req.Purpose,
		LandAreaAcres:     req.LandAreaAcres,
		Street:            req.Street,
		Village:           req.Village,
		District:          req.District,
		State:             req.State,
		Pincode:           req.Pincode,
		Files:             files,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// readUploads collects the "documents" parts. Each read is capped one byte
// past the configured limit; the document service rejects oversize content
// without the handler having buffered an unbounded body.
func (h *LoanHandler) readUploads(c echo.Context) ([]appuc.FileUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// plain field-only submissions carry no files
		return nil, nil
	}
	fhs := form.File["documents"]
	types := form.Value["document_types"]

	files := make([]appuc.FileUpload, 0, len(fhs))
	for i, fh := range fhs {
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %q", fh.Filename)
		}
		content, err := io.ReadAll(io.LimitReader(src, h.maxFileBytes+1))
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %q", fh.Filename)
		}
		docType := ""
		if i < len(types) {
			docType = types[i]
		}
		files = append(files, appuc.FileUpload{
			Name:         fh.Filename,
			DocumentType: docType,
			Content:      content,
		})
	}
	return files, nil
}

// ListOwn returns the caller's applications, newest first.
func (h *LoanHandler) ListOwn(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}
	out, err := h.uc.ListOwn(c.Request().Context(), actor, pageFromQuery(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetDetail(c echo.Context) error {
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

// GetDocument streams the stored bytes back with the sniffed content type.
func (h *LoanHandler) GetDocument(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}
	ref, content, err := h.uc.GetDocument(c.Request().Context(),
		c.Param("application_id"), c.Param("document_id"), actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename=%q`, ref.OriginalName))
	return c.Blob(http.StatusOK, ref.MimeType, content)
}

// DescribeDocument returns metadata plus the on-demand content link.
func (h *LoanHandler) DescribeDocument(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
	}
	appID, docID := c.Param("application_id"), c.Param("document_id")
	ref, err := h.uc.DescribeDocument(c.Request().Context(), appID, docID, actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"document_id":   ref.DocumentID,
		"original_name": ref.OriginalName,
		"mime_type":     ref.MimeType,
		"size_bytes":    ref.SizeBytes,
		"document_type": ref.DocumentType,
		"created_at":    ref.CreatedAt,
		"content_url":   fmt.Sprintf("/api/v1/loans/%s/documents/%s", appID, docID),
	})
}
