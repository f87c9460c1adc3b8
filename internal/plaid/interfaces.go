package plaid

import (
	"context"
	"time"

	"github.com/cardwiz/cardwiz/internal/model"
)

// ValidationFetcher defines the contract for importing spend history.
// This interface allows for easy mocking in tests and swapping data sources.
type ValidationFetcher interface {
	GetValidations(ctx context.Context, startDate, endDate time.Time) ([]model.Validation, error)
	GetAccounts(ctx context.Context) ([]string, error)
}
