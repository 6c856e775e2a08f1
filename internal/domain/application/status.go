package application

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// transitions is the single source of truth for the status machine.
// pending → approved|rejected, approved → active, active → completed.
// rejected and completed are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is defined for s.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

// Reviewed reports whether the application has left pending.
func (s Status) Reviewed() bool { return s.Valid() && s != StatusPending }
