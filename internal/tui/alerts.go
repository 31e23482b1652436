package tui

import "sync"

// Alert is one message waiting for the overlay.
type Alert struct {
	Title   string
	Message string
}

// Alerts queues alerts raised by the controllers until the model shows
// them. It satisfies controller.Alerter.
type Alerts struct {
	notify  func()
	pending []Alert
	mu      sync.Mutex
}

// NewAlerts creates an empty queue.
func NewAlerts() *Alerts {
	return &Alerts{}
}

// Alert enqueues an alert.
func (a *Alerts) Alert(title, message string) {
	a.mu.Lock()
	a.pending = append(a.pending, Alert{Title: title, Message: message})
	notify := a.notify
	a.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Drain returns and clears the queued alerts.
func (a *Alerts) Drain() []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.pending
	a.pending = nil
	return out
}

// Len returns the number of queued alerts.
func (a *Alerts) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

func (a *Alerts) setNotify(fn func()) {
	a.mu.Lock()
	a.notify = fn
	a.mu.Unlock()
}
