package dropin

import (
	"sync"

	"dropin-checkout-api/models"
)

// Entry pairs a session's bridge with its progress indicator so the HTTP
// layer can report progress state alongside the configuration.
type Entry struct {
	Bridge    *Bridge
	Indicator *StatusIndicator
}

// Registry holds one lifecycle bridge per checkout session, created lazily
// on first use. The runner and sink factories bind a session to its queue
// dispatcher and result store.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*Entry
	newRunner func(session *models.CheckoutSession) ActionRunner
	newSink   func(sessionID string) ResultSink
}

func NewRegistry(newRunner func(*models.CheckoutSession) ActionRunner, newSink func(string) ResultSink) *Registry {
	return &Registry{
		entries:   make(map[string]*Entry),
		newRunner: newRunner,
		newSink:   newSink,
	}
}

// For returns the session's entry, creating it on first use.
func (r *Registry) For(session *models.CheckoutSession) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[session.ID]; ok {
		return e
	}
	indicator := NewStatusIndicator()
	e := &Entry{
		Bridge:    NewBridge(session.Hooks, r.newRunner(session), r.newSink(session.ID), indicator),
		Indicator: indicator,
	}
	r.entries[session.ID] = e
	return e
}

// Get returns the entry without creating one.
func (r *Registry) Get(sessionID string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	return e, ok
}

// Drop forgets a destroyed session's bridge.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}
