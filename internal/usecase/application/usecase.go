package application

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	domain "agriloan-backend/internal/domain/application"
	"agriloan-backend/internal/domain/uow"
	"agriloan-backend/internal/notify"
	"agriloan-backend/internal/usecase/document"
	"agriloan-backend/pkg/emi"
	"agriloan-backend/pkg/id"
	"agriloan-backend/pkg/metrics"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var rePincode = regexp.MustCompile(`^[1-9][0-9]{5}$`)

type Usecase struct {
	repo     domain.Repository
	uow      uow.UnitOfWork
	docs     *document.Service
	notifier notify.Notifier
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, docs *document.Service, notifier notify.Notifier) *Usecase {
	return &Usecase{repo: repo, uow: tx, docs: docs, notifier: notifier}
}

// Submit validates the request, computes the repayment quote, stores every
// attachment and persists the aggregate in pending state. Nothing is
// persisted on validation failure; blobs stored before a later failure are
// discarded so no orphaned documents survive a failed submission.
func (u *Usecase) Submit(ctx context.Context, applicantID string, in SubmitInput) (*ApplicationDTO, error) {
	if err := validateSubmit(applicantID, in); err != nil {
		return nil, err
	}

	loanType := domain.LoanType(in.LoanType)
	rate := loanType.DefaultAnnualRatePercent()
	if in.AnnualRatePercent != nil {
		rate = *in.AnnualRatePercent
	}

	terms, err := emi.Calculate(in.Principal, rate, in.TenureMonths)
	if err != nil {
		// validateSubmit guarantees the preconditions; reaching this is a bug.
		return nil, fmt.Errorf("compute terms: %w", err)
	}
	terms = terms.Rounded()

	stored := make([]domain.DocumentRef, 0, len(in.Files))
	for _, f := range in.Files {
		ref, err := u.docs.Store(ctx, document.UploadInput{
			OriginalName: f.Name,
			DeclaredType: domain.DocumentType(f.DocumentType),
			Content:      f.Content,
		})
		if err != nil {
			u.docs.Discard(ctx, stored)
			return nil, err
		}
		stored = append(stored, *ref)
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ApplicationID:     id.NewID32(),
		ApplicantID:       applicantID,
		LoanType:          loanType,
		Principal:         in.Principal,
		TenureMonths:      in.TenureMonths,
		AnnualRatePercent: rate,
		EMI:               terms.EMI,
		TotalInterest:     terms.TotalInterest,
		TotalPayable:      terms.TotalPayable,
		Purpose:           in.Purpose,
		LandAreaAcres:     in.LandAreaAcres,
		Address: domain.Address{
			Street:   in.Street,
			Village:  in.Village,
			District: in.District,
			State:    in.State,
			Pincode:  in.Pincode,
		},
		Status:          domain.StatusPending,
		StatusUpdatedAt: now,
		Documents:       stored,
	}

	if err := u.repo.Create(ctx, app); err != nil {
		u.docs.Discard(ctx, stored)
		return nil, fmt.Errorf("persist application: %w", err)
	}

	metrics.ApplicationsSubmitted.WithLabelValues(in.LoanType).Inc()
	return toDTO(app), nil
}

// Transition moves the application along the status machine. Reviewer
// authority is required, the move must be legal from the currently stored
// status, and the persist carries a status precondition so two concurrent
// reviewers cannot both win. The applicant is notified after commit.
func (u *Usecase) Transition(ctx context.Context, in TransitionInput, actor domain.Actor) (*ApplicationDTO, error) {
	if !actor.Reviewer {
		return nil, domain.ErrForbidden
	}
	target := domain.Status(in.NewStatus)
	if !target.Valid() {
		ve := &domain.ValidationError{}
		ve.Add("status", "must be one of pending, approved, rejected, active, completed")
		return nil, ve
	}

	var dto *ApplicationDTO
	err := u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, app *domain.Application) error {
		if !app.Status.CanTransitionTo(target) {
			if app.Status.Reviewed() && (target == domain.StatusApproved || target == domain.StatusRejected) {
				return fmt.Errorf("current status %s: %w", app.Status, domain.ErrAlreadyReviewed)
			}
			return fmt.Errorf("from %s to %s: %w", app.Status, target, domain.ErrInvalidTransition)
		}

		if target == domain.StatusApproved && !app.HasApprovalDocuments() {
			ve := &domain.ValidationError{}
			ve.Add("documents", "approval requires at least one identity or land document")
			return ve
		}

		now := time.Now().UTC()
		ok, err := r.Applications.UpdateStatusIf(ctx, app.ID, app.Status, target, now)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !ok {
			// Someone else moved the application between our read and write.
			metrics.TransitionConflicts.Inc()
			return fmt.Errorf("from %s to %s: %w", app.Status, target, domain.ErrInvalidTransition)
		}

		rev := &domain.Review{
			ReviewID:         id.NewID32(),
			ApplicationRowID: app.ID,
			FromStatus:       app.Status,
			ToStatus:         target,
			ActorID:          actor.UserID,
			Note:             in.Note,
			CreatedAt:        now,
		}
		if err := r.Reviews.Create(ctx, rev); err != nil {
			return fmt.Errorf("record status history: %w", err)
		}

		app.Status = target
		app.StatusUpdatedAt = now
		dto = toDTO(app)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(target)).Inc()
	u.notifyTransition(ctx, dto)
	return dto, nil
}

func (u *Usecase) notifyTransition(ctx context.Context, dto *ApplicationDTO) {
	kind, ok := map[domain.Status]notify.Kind{
		domain.StatusApproved:  notify.KindLoanApproved,
		domain.StatusRejected:  notify.KindLoanRejected,
		domain.StatusActive:    notify.KindLoanActive,
		domain.StatusCompleted: notify.KindLoanCompleted,
	}[domain.Status(dto.Status)]
	if !ok {
		return
	}
	err := u.notifier.Notify(ctx, notify.Notification{
		UserID: dto.ApplicantID,
		Kind:   kind,
		Payload: map[string]string{
			"application_id": dto.ApplicationID,
			"status":         dto.Status,
		},
	})
	if err != nil {
		// Delivery is the collaborator's problem; a publish failure must not
		// fail an already-committed transition.
		log.Printf("notify %s about %s: %v", dto.ApplicantID, dto.ApplicationID, err)
	}
}

// GetDetail returns the aggregate to its owner or a reviewer.
func (u *Usecase) GetDetail(ctx context.Context, applicationID string, actor domain.Actor) (*ApplicationDTO, error) {
	app, err := u.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if !app.ViewableBy(actor) {
		return nil, domain.ErrForbidden
	}
	return toDTO(app), nil
}

// ListByStatus is reviewer-only, newest submissions first.
func (u *Usecase) ListByStatus(ctx context.Context, status string, actor domain.Actor, page Page) ([]ApplicationDTO, error) {
	if !actor.Reviewer {
		return nil, domain.ErrForbidden
	}
	st := domain.Status(status)
	if !st.Valid() {
		ve := &domain.ValidationError{}
		ve.Add("status", "unknown status")
		return nil, ve
	}
	offset, limit := page.clamp()
	apps, err := u.repo.ListByStatus(ctx, st, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list by status: %w", err)
	}
	return toDTOs(apps), nil
}

// ListOwn returns the caller's own applications, newest first.
func (u *Usecase) ListOwn(ctx context.Context, actor domain.Actor, page Page) ([]ApplicationDTO, error) {
	offset, limit := page.clamp()
	apps, err := u.repo.ListByApplicant(ctx, actor.UserID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list by applicant: %w", err)
	}
	return toDTOs(apps), nil
}

// GetDocument resolves and authorizes one attachment, returning its metadata
// and content.
func (u *Usecase) GetDocument(ctx context.Context, applicationID, documentID string, actor domain.Actor) (*domain.DocumentRef, []byte, error) {
	app, err := u.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, nil, domain.ErrNotFound
	}
	return u.docs.Retrieve(ctx, app, documentID, actor)
}

// DescribeDocument is GetDocument without the bytes.
func (u *Usecase) DescribeDocument(ctx context.Context, applicationID, documentID string, actor domain.Actor) (*domain.DocumentRef, error) {
	app, err := u.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return u.docs.Describe(app, documentID, actor)
}

func (p Page) clamp() (offset, limit int) {
	offset = p.Offset
	if offset < 0 {
		offset = 0
	}
	limit = p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return offset, limit
}

func toDTOs(apps []domain.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, *toDTO(&apps[i]))
	}
	return out
}

func validateSubmit(applicantID string, in SubmitInput) error {
	ve := &domain.ValidationError{}

	if applicantID == "" {
		ve.Add("applicant_id", "is required")
	}
	if !domain.LoanType(in.LoanType).Valid() {
		ve.Add("loan_type", "must be one of cropLoan, equipmentLoan, landLoan")
	}
	if in.Principal <= 0 {
		ve.Add("principal", "must be positive")
	}
	if in.TenureMonths <= 0 {
		ve.Add("tenure_months", "must be positive")
	}
	if in.AnnualRatePercent != nil && *in.AnnualRatePercent < 0 {
		ve.Add("annual_rate_percent", "must be non-negative")
	}
	if in.Purpose == "" {
		ve.Add("purpose", "is required")
	}
	if in.LandAreaAcres <= 0 {
		ve.Add("land_area_acres", "must be positive")
	}
	if in.District == "" {
		ve.Add("district", "is required")
	}
	if in.State == "" {
		ve.Add("state", "is required")
	}
	if !rePincode.MatchString(in.Pincode) {
		ve.Add("pincode", "must be a 6-digit pincode")
	}
	for i, f := range in.Files {
		if f.DocumentType != "" && !domain.DocumentType(f.DocumentType).Valid() {
			ve.Add(fmt.Sprintf("files[%d].document_type", i), "unknown document type")
		}
		if len(f.Content) == 0 {
			ve.Add(fmt.Sprintf("files[%d]", i), "file is empty")
		}
	}

	if ve.Errored() {
		return ve
	}
	return nil
}
