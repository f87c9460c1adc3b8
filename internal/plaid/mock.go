package plaid

import (
	"context"
	"time"

	"github.com/cardwiz/cardwiz/internal/model"
)

// MockClient is a mock implementation of ValidationFetcher for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	GetValidationsFn func(ctx context.Context, startDate, endDate time.Time) ([]model.Validation, error)
	GetAccountsFn    func(ctx context.Context) ([]string, error)

	// Call tracking
	GetValidationsCalls []GetValidationsCall
	GetAccountsCalls    int
}

// GetValidationsCall records the parameters of a GetValidations call.
type GetValidationsCall struct {
	StartDate time.Time
	EndDate   time.Time
}

// NewMockClient creates a new mock Plaid client.
func NewMockClient() *MockClient {
	return &MockClient{
		GetValidationsCalls: []GetValidationsCall{},
	}
}

// GetValidations implements ValidationFetcher.GetValidations.
func (m *MockClient) GetValidations(ctx context.Context, startDate, endDate time.Time) ([]model.Validation, error) {
	m.GetValidationsCalls = append(m.GetValidationsCalls, GetValidationsCall{
		StartDate: startDate,
		EndDate:   endDate,
	})

	if m.GetValidationsFn != nil {
		return m.GetValidationsFn(ctx, startDate, endDate)
	}

	return []model.Validation{}, nil
}

// GetAccounts implements ValidationFetcher.GetAccounts.
func (m *MockClient) GetAccounts(ctx context.Context) ([]string, error) {
	m.GetAccountsCalls++

	if m.GetAccountsFn != nil {
		return m.GetAccountsFn(ctx)
	}

	return []string{}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.GetValidationsCalls = []GetValidationsCall{}
	m.GetAccountsCalls = 0
}

// Ensure MockClient implements ValidationFetcher interface.
var _ ValidationFetcher = (*MockClient)(nil)
