package advisor

import (
	"context"
	"encoding/json"

	"github.com/cardwiz/cardwiz/internal/model"
)

// Recommender asks the backend for a best-card recommendation. The raw
// response body is returned because the backend answers in one of two
// schemas; Normalize folds both into one view.
type Recommender interface {
	GetRecommendation(ctx context.Context, req model.RecommendationRequest) (json.RawMessage, error)
}

// HistoryAPI is the durable conversation history store.
type HistoryAPI interface {
	ListHistory(ctx context.Context) ([]model.ConversationMessage, error)
	AppendHistory(ctx context.Context, msg model.ConversationMessage) error
	ClearHistory(ctx context.Context) error
}

// ValidationSource supplies recent validated transactions for the context
// digest. Implementations may be backed by the gateway or a local cache.
type ValidationSource interface {
	RecentValidations(ctx context.Context, limit int) ([]model.Validation, error)
}
