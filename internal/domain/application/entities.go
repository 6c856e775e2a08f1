package application

import (
	"time"

	"gorm.io/gorm"
)

type LoanType string

const (
	LoanTypeCrop      LoanType = "cropLoan"
	LoanTypeEquipment LoanType = "equipmentLoan"
	LoanTypeLand      LoanType = "landLoan"
)

func (t LoanType) Valid() bool {
	switch t {
	case LoanTypeCrop, LoanTypeEquipment, LoanTypeLand:
		return true
	}
	return false
}

// DefaultAnnualRatePercent is the rate band fixed by the loan type.
// A submission may override it with any non-negative annual rate.
func (t LoanType) DefaultAnnualRatePercent() float64 {
	switch t {
	case LoanTypeCrop:
		return 7.0
	case LoanTypeEquipment:
		return 9.0
	case LoanTypeLand:
		return 8.5
	}
	return 0
}

type DocumentType string

const (
	DocAadharCard    DocumentType = "aadharCard"
	DocPanCard       DocumentType = "panCard"
	DocBankStatement DocumentType = "bankStatement"
	DocLandDocument  DocumentType = "landDocument"
	DocIncomeProof   DocumentType = "incomeProof"
	DocBankPassbook  DocumentType = "bankPassbook"
	DocAddressProof  DocumentType = "addressProof"
	DocOther         DocumentType = "other"
)

func (d DocumentType) Valid() bool {
	switch d {
	case DocAadharCard, DocPanCard, DocBankStatement, DocLandDocument,
		DocIncomeProof, DocBankPassbook, DocAddressProof, DocOther:
		return true
	}
	return false
}

// IdentityOrLand reports whether the document satisfies the approval
// policy (an application needs at least one of these before approval).
func (d DocumentType) IdentityOrLand() bool {
	return d == DocAadharCard || d == DocPanCard || d == DocLandDocument
}

// Actor is the authenticated caller as resolved by the auth collaborator.
type Actor struct {
	UserID   string
	Reviewer bool
}

// Address is a value object embedded in the aggregate.
// District, state and pincode are mandatory; street/village optional.
type Address struct {
	Street   string `gorm:"size:255;column:addr_street" json:"street,omitempty"`
	Village  string `gorm:"size:255;column:addr_village" json:"village,omitempty"`
	District string `gorm:"size:128;column:addr_district" json:"district"`
	State    string `gorm:"size:128;column:addr_state" json:"state"`
	Pincode  string `gorm:"size:6;column:addr_pincode" json:"pincode"`
}

// Application is the loan application aggregate root. Computed terms are an
// immutable quote: they are written once at submission and never edited.
type Application struct {
	ID            uint64   `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID string   `gorm:"size:32;uniqueIndex:ux_loan_applications_app_id" json:"application_id"`
	ApplicantID   string   `gorm:"size:32;index:idx_loan_applications_applicant" json:"applicant_id"`
	LoanType      LoanType `gorm:"size:32" json:"loan_type"`

	Principal         float64 `gorm:"type:decimal(18,2)" json:"principal"`
	TenureMonths      int     `json:"tenure_months"`
	AnnualRatePercent float64 `gorm:"type:decimal(6,3)" json:"annual_rate_percent"`

	EMI           float64 `gorm:"type:decimal(18,2);column:emi" json:"emi"`
	TotalInterest float64 `gorm:"type:decimal(18,2)" json:"total_interest"`
	TotalPayable  float64 `gorm:"type:decimal(18,2)" json:"total_payable"`

	Purpose       string  `gorm:"type:text" json:"purpose"`
	LandAreaAcres float64 `gorm:"type:decimal(10,2)" json:"land_area_acres"`
	Address       Address `gorm:"embedded" json:"address"`

	Status          Status    `gorm:"type:enum('pending','approved','rejected','active','completed');default:'pending';index:idx_loan_applications_status" json:"status"`
	StatusUpdatedAt time.Time `gorm:"autoCreateTime" json:"status_updated_at"`

	Documents []DocumentRef `gorm:"foreignKey:ApplicationRowID" json:"documents"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Application) TableName() string { return "loan_applications" }

// ViewableBy gates read access: the owning applicant and reviewers only.
func (a *Application) ViewableBy(actor Actor) bool {
	return actor.Reviewer || (actor.UserID != "" && actor.UserID == a.ApplicantID)
}

// FindDocument returns the ref with the given public id, or nil.
func (a *Application) FindDocument(documentID string) *DocumentRef {
	for i := range a.Documents {
		if a.Documents[i].DocumentID == documentID {
			return &a.Documents[i]
		}
	}
	return nil
}

// HasApprovalDocuments reports whether at least one identity/land document
// is attached (required by the approval policy).
func (a *Application) HasApprovalDocuments() bool {
	for i := range a.Documents {
		if a.Documents[i].DocumentType.IdentityOrLand() {
			return true
		}
	}
	return false
}

// DocumentRef is metadata for stored binary content. The storage locator is
// opaque and never leaves the service; clients address documents by
// DocumentID and the blob is resolved server-side after an authorization
// check.
type DocumentRef struct {
	ID               uint64       `gorm:"primaryKey;column:id" json:"-"`
	DocumentID       string       `gorm:"size:32;uniqueIndex:ux_loan_documents_doc_id" json:"document_id"`
	ApplicationRowID uint64       `gorm:"column:application_row_id;index:idx_loan_documents_application" json:"-"`
	OriginalName     string       `gorm:"size:255" json:"original_name"`
	MimeType         string       `gorm:"size:64" json:"mime_type"`
	SizeBytes        int64        `json:"size_bytes"`
	DocumentType     DocumentType `gorm:"size:32" json:"document_type"`
	StorageLocator   string       `gorm:"size:128" json:"-"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (DocumentRef) TableName() string { return "loan_documents" }

// Review is one status-history row: who moved the application, from where
// to where, when, with an optional note. Rows are append-only.
type Review struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	ReviewID         string    `gorm:"size:32;uniqueIndex:ux_loan_status_history_review_id" json:"review_id"`
	ApplicationRowID uint64    `gorm:"column:application_row_id;index:idx_loan_status_history_application" json:"-"`
	FromStatus       Status    `gorm:"size:16" json:"from_status"`
	ToStatus         Status    `gorm:"size:16" json:"to_status"`
	ActorID          string    `gorm:"size:32" json:"actor_id"`
	Note             string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Review) TableName() string { return "loan_status_history" }
