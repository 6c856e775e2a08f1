package application

import (
	"time"

	domain "agriloan-backend/internal/domain/application"
)

// FileUpload is one attachment arriving with a submission, already read into
// memory (uploads are size-capped well below any streaming threshold).
type FileUpload struct {
	Name         string
	DocumentType string
	Content      []byte
}

type SubmitInput struct {
	LoanType          string
	Principal         float64
	TenureMonths      int
	AnnualRatePercent *float64 // nil → loan type default band
	Purpose           string
	LandAreaAcres     float64

	Street   string
	Village  string
	District string
	State    string
	Pincode  string

	Files []FileUpload
}

type TransitionInput struct {
	ApplicationID string
	NewStatus     string
	Note          string
}

type Page struct {
	Offset int
	Limit  int
}

type DocumentDTO struct {
	DocumentID   string    `json:"document_id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	DocumentType string    `json:"document_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type TermsDTO struct {
	EMI           float64 `json:"emi"`
	TotalInterest float64 `json:"total_interest"`
	TotalPayable  float64 `json:"total_payable"`
}

type AddressDTO struct {
	Street   string `json:"street,omitempty"`
	Village  string `json:"village,omitempty"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type ApplicationDTO struct {
	ApplicationID     string        `json:"application_id"`
	ApplicantID       string        `json:"applicant_id"`
	LoanType          string        `json:"loan_type"`
	Principal         float64       `json:"principal"`
	TenureMonths      int           `json:"tenure_months"`
	AnnualRatePercent float64       `json:"annual_rate_percent"`
	Terms             TermsDTO      `json:"terms"`
	Purpose           string        `json:"purpose"`
	LandAreaAcres     float64       `json:"land_area_acres"`
	Address           AddressDTO    `json:"address"`
	Status            string        `json:"status"`
	StatusUpdatedAt   time.Time     `json:"status_updated_at"`
	Documents         []DocumentDTO `json:"documents"`
	CreatedAt         time.Time     `json:"created_at"`
}

func toDTO(a *domain.Application) *ApplicationDTO {
	docs := make([]DocumentDTO, 0, len(a.Documents))
	for i := range a.Documents {
		d := &a.Documents[i]
		docs = append(docs, DocumentDTO{
			DocumentID:   d.DocumentID,
			OriginalName: d.OriginalName,
			MimeType:     d.MimeType,
			SizeBytes:    d.SizeBytes,
			DocumentType: string(d.DocumentType),
			CreatedAt:    d.CreatedAt,
		})
	}
	return &ApplicationDTO{
		ApplicationID:     a.ApplicationID,
		ApplicantID:       a.ApplicantID,
		LoanType:          string(a.LoanType),
		Principal:         a.Principal,
		TenureMonths:      a.TenureMonths,
		AnnualRatePercent: a.AnnualRatePercent,
		Terms:             TermsDTO{EMI: a.EMI, TotalInterest: a.TotalInterest, TotalPayable: a.TotalPayable},
		Purpose:           a.Purpose,
		LandAreaAcres:     a.LandAreaAcres,
		Address: AddressDTO{
			Street:   a.Address.Street,
			Village:  a.Address.Village,
			District: a.Address.District,
			State:    a.Address.State,
			Pincode:  a.Address.Pincode,
		},
		Status:          string(a.Status),
		StatusUpdatedAt: a.StatusUpdatedAt,
		Documents:       docs,
		CreatedAt:       a.CreatedAt,
	}
}
