// Package notify is the boundary to the notification collaborator. The core
// publishes one event per status transition; queuing, retry and delivery to
// the farmer are entirely the collaborator's job.
package notify

import "context"

type Kind string

const (
	KindLoanApproved  Kind = "loan.approved"
	KindLoanRejected  Kind = "loan.rejected"
	KindLoanActive    Kind = "loan.active"
	KindLoanCompleted Kind = "loan.completed"
)

type Notification struct {
	UserID  string
	Kind    Kind
	Payload map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
