package inngest

import (
	"context"
	"net/http"
	"sync"
)

// Mock is a mock implementation of InngestClient for testing.
type Mock struct {
	mu sync.Mutex

	SendEventFunc func(ctx context.Context, name string, data map[string]any) error

	SendEventCalls []struct {
		Name string
		Data map[string]any
	}
	Updater RatingUpdater
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Serve() http.Handler {
	return http.NotFoundHandler()
}

func (m *Mock) SendEvent(ctx context.Context, name string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendEventCalls = append(m.SendEventCalls, struct {
		Name string
		Data map[string]any
	}{name, data})
	if m.SendEventFunc != nil {
		return m.SendEventFunc(ctx, name, data)
	}
	return nil
}

func (m *Mock) RegisterRatingUpdate(updater RatingUpdater) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updater = updater
	return nil
}
