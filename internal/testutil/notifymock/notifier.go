package notifymock

import (
	"context"
	"sync"

	"agriloan-backend/internal/notify"
)

// Ensure compile-time compliance
var _ notify.Notifier = (*Notifier)(nil)

// Notifier records every notification in memory; optionally fails with Err.
type Notifier struct {
	mu   sync.Mutex
	Err  error
	Sent []notify.Notification
}

func (m *Notifier) Notify(ctx context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, n)
	return nil
}

// Count returns the number of recorded notifications.
func (m *Notifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Last returns the most recent notification, or a zero value.
func (m *Notifier) Last() notify.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return notify.Notification{}
	}
	return m.Sent[len(m.Sent)-1]
}
