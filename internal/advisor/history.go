package advisor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cardwiz/cardwiz/internal/model"
)

// Synchronizer persists conversation turns with at-most-once, no-retry
// semantics. The in-memory conversation list is the source of truth for
// rendering; a failed write is logged and forgotten, never rolled back,
// so a persistence outage can silently lose turns from durable history.
type Synchronizer struct {
	api HistoryAPI
}

// NewSynchronizer creates a history synchronizer over the given store.
func NewSynchronizer(api HistoryAPI) *Synchronizer {
	return &Synchronizer{api: api}
}

// Append persists one message, best-effort.
func (s *Synchronizer) Append(ctx context.Context, msg model.ConversationMessage) {
	if err := s.api.AppendHistory(ctx, msg); err != nil {
		slog.Debug("history append dropped", "error", err)
	}
}

// Load fetches the persisted conversation. An empty history is seeded with
// the welcome message (persisted best-effort); a failed load falls back to
// the same seed without persisting anything.
func (s *Synchronizer) Load(ctx context.Context) []model.ConversationMessage {
	history, err := s.api.ListHistory(ctx)
	if err != nil {
		slog.Debug("history load failed, seeding welcome message", "error", err)
		return []model.ConversationMessage{welcomeMessage()}
	}
	if len(history) == 0 {
		seed := welcomeMessage()
		s.Append(ctx, seed)
		return []model.ConversationMessage{seed}
	}
	return history
}

// Clear deletes all persisted history and reseeds the welcome message.
// Unlike appends, a failed delete is reported so the user knows the
// history is still there.
func (s *Synchronizer) Clear(ctx context.Context) ([]model.ConversationMessage, error) {
	if err := s.api.ClearHistory(ctx); err != nil {
		return nil, err
	}
	seed := welcomeMessage()
	s.Append(ctx, seed)
	return []model.ConversationMessage{seed}, nil
}

func welcomeMessage() model.ConversationMessage {
	return model.ConversationMessage{
		ID:     uuid.NewString(),
		Sender: model.SenderBot,
		Text:   model.WelcomeMessage,
	}
}
