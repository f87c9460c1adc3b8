package advisor

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cardwiz/cardwiz/internal/model"
)

// MockRecommender is a test implementation of the Recommender interface.
// It replays a canned response and records every request it receives.
type MockRecommender struct {
	Err      error
	Response json.RawMessage
	Requests []model.RecommendationRequest
	mu       sync.Mutex
}

// GetRecommendation records the request and replays the canned response.
func (m *MockRecommender) GetRecommendation(_ context.Context, req model.RecommendationRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// CallCount returns how many recommendation requests were made.
func (m *MockRecommender) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockHistory is an in-memory HistoryAPI with switchable failures.
type MockHistory struct {
	ListErr   error
	AppendErr error
	ClearErr  error
	Stored    []model.ConversationMessage
	mu        sync.Mutex
}

// ListHistory returns the stored messages or the configured error.
func (m *MockHistory) ListHistory(_ context.Context) ([]model.ConversationMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.ConversationMessage, len(m.Stored))
	copy(out, m.Stored)
	return out, nil
}

// AppendHistory stores the message or returns the configured error.
func (m *MockHistory) AppendHistory(_ context.Context, msg model.ConversationMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Stored = append(m.Stored, msg)
	return nil
}

// ClearHistory wipes storage or returns the configured error.
func (m *MockHistory) ClearHistory(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Stored = nil
	return nil
}

// StoredCount returns how many messages persisted.
func (m *MockHistory) StoredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Stored)
}

// MockValidations serves a fixed validation history.
type MockValidations struct {
	Err         error
	Validations []model.Validation
}

// RecentValidations returns at most limit validations.
func (m *MockValidations) RecentValidations(_ context.Context, limit int) ([]model.Validation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Validations) > limit {
		return m.Validations[:limit], nil
	}
	return m.Validations, nil
}
