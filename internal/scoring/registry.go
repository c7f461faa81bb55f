package scoring

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrSessionExists   = errors.New("a live session already exists for this event")
	ErrSessionNotFound = errors.New("no live session for this event")
)

// Registry tracks the live sessions served by this process, keyed by event id.
// Sessions never share state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Engine
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Engine)}
}

// Start registers a new engine for its event id.
func (r *Registry) Start(e *Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[e.EventID()]; ok {
		return ErrSessionExists
	}
	r.sessions[e.EventID()] = e
	return nil
}

func (r *Registry) Get(eventID string) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[eventID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (r *Registry) Remove(eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, eventID)
}

// EventIDs lists the registered events in sorted order.
func (r *Registry) EventIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
