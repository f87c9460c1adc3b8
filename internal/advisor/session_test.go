package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwiz/cardwiz/internal/model"
)

const richResponse = `{
	"best_card": {
		"name": "Atlas Infinia",
		"rewards": {"estimated_value": 120.5, "effective_percentage": 3.25, "value_unit": "INR"}
	},
	"reasoning_bullets": ["5x points on dining", "", "monthly cap not reached"],
	"comparison_table": [
		{"card_name": "Atlas Infinia", "effective_percentage": 3.25, "estimated_value": 120.5, "verdict": "winner"},
		{"card_name": "Metro Platinum", "effective_percentage": 1.0, "estimated_value": 37.0, "verdict": "ok"}
	],
	"transaction_context": {"spend_amount": 3700, "currency": "INR"}
}`

func newTestSession(backend *MockRecommender) (*Session, *MockHistory) {
	history := &MockHistory{}
	session := NewSession(SessionConfig{
		Recommender: backend,
		History:     history,
		Currency:    "INR",
	})
	session.Start(context.Background())
	return session, history
}

func TestSendGenericPromptAsksClarification(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short prompt", "best card"},
		{"generic phrase", "which card should I use today"},
		{"short greeting", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &MockRecommender{Response: json.RawMessage(richResponse)}
			session, _ := newTestSession(backend)

			replies := session.Send(context.Background(), tt.text)

			require.Len(t, replies, 1, "exactly one clarifying question")
			assert.Equal(t, model.SenderBot, replies[0].Sender)
			assert.Contains(t, replies[0].Text, "INR", "question names the selected currency")
			assert.True(t, session.AwaitingClarification())
			assert.Equal(t, tt.text, session.PendingPrompt())
			assert.Zero(t, backend.CallCount(), "no backend call on a clarification turn")
		})
	}
}

func TestSendConcretePromptCallsBackend(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session, _ := newTestSession(backend)

	replies := session.Send(context.Background(), "spending Rs 3700 at a restaurant tonight")

	require.Equal(t, 1, backend.CallCount())
	require.Len(t, replies, 1)
	assert.Equal(t, model.StructuredRecommendation, replies[0].StructuredType)
	assert.False(t, session.AwaitingClarification())

	var view model.RecommendationView
	require.NoError(t, json.Unmarshal(replies[0].Payload, &view))
	assert.Equal(t, "Atlas Infinia", view.BestCardName)
	assert.InDelta(t, 120.5, view.EstimatedReward, 0.0001)
}

func TestSendNonGenericPromptBypassesClassification(t *testing.T) {
	// Long, specific text without a known merchant keyword still goes to
	// the backend: clarification only guards short/generic prompts.
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session, _ := newTestSession(backend)

	session.Send(context.Background(), "paying my society maintenance dues this week")

	assert.Equal(t, 1, backend.CallCount())
	assert.False(t, session.AwaitingClarification())
}

func TestClarificationMergeNumericReply(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session, _ := newTestSession(backend)

	session.Send(context.Background(), "best card")
	require.True(t, session.AwaitingClarification())

	// "37" merges to "best card spend 37", which still lacks a merchant
	// hint: the pending prompt must survive unchanged and the backend must
	// stay untouched.
	replies := session.Send(context.Background(), "37")

	require.Len(t, replies, 1)
	assert.Equal(t, model.SenderBot, replies[0].Sender)
	assert.True(t, session.AwaitingClarification())
	assert.Equal(t, "best card", session.PendingPrompt())
	assert.Zero(t, backend.CallCount())
}

func TestClarificationResolvesWithSufficientReply(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session, _ := newTestSession(backend)

	session.Send(context.Background(), "best card")
	replies := session.Send(context.Background(), "groceries 2500")

	require.Equal(t, 1, backend.CallCount())
	require.Len(t, replies, 1)
	assert.False(t, session.AwaitingClarification())
	assert.Empty(t, session.PendingPrompt())

	sent := backend.Requests[0]
	assert.Equal(t, "best card groceries 2500", sent.MerchantName)
	assert.Equal(t, model.CategoryGrocery, sent.Category)
	assert.InDelta(t, 2500.0, sent.TransactionAmount, 0.0001)
	assert.Equal(t, "INR", sent.Currency)
}

func TestClarificationNumericThenMerchantReply(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session, _ := newTestSession(backend)

	session.Send(context.Background(), "best card")
	session.Send(context.Background(), "37")
	require.True(t, session.AwaitingClarification())

	// The merchant reply merges against the original prompt, not the
	// previously merged text.
	session.Send(context.Background(), "starbucks 450")

	require.Equal(t, 1, backend.CallCount())
	assert.Equal(t, "best card starbucks 450", backend.Requests[0].MerchantName)
}

func TestSendBackendErrorBecomesBotMessage(t *testing.T) {
	backend := &MockRecommender{Err: errors.New("connection refused")}
	session, _ := newTestSession(backend)

	replies := session.Send(context.Background(), "dinner at a restaurant for 1200")

	require.Len(t, replies, 1)
	assert.Equal(t, model.SenderBot, replies[0].Sender)
	assert.Equal(t, "connection refused", replies[0].Text)
	assert.Equal(t, model.StructuredType(""), replies[0].StructuredType)
}

func TestSendLegacyResponseYieldsPlainText(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(
		`{"bestOption":{"cardName":"Metro Gold","estimatedReward":"5% Cashback","reasoning":"High dining multiplier"}}`,
	)}
	session, _ := newTestSession(backend)

	replies := session.Send(context.Background(), "dinner at a restaurant for 1200")

	require.Len(t, replies, 1)
	assert.Equal(t, "Best card: Metro Gold. Reward: 5% Cashback. Why: High dining multiplier.", replies[0].Text)
	assert.Equal(t, model.StructuredType(""), replies[0].StructuredType)
}

func TestSendPersistsBothTurns(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session, history := newTestSession(backend)
	before := history.StoredCount()

	session.Send(context.Background(), "groceries at bigbasket for 2000")

	assert.Equal(t, before+2, history.StoredCount(), "user turn and bot turn both persisted")
}

func TestSendSurvivesHistoryFailures(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	history := &MockHistory{AppendErr: errors.New("history store down")}
	session := NewSession(SessionConfig{Recommender: backend, History: history, Currency: "USD"})
	session.Start(context.Background())

	replies := session.Send(context.Background(), "groceries at bigbasket for 2000")

	require.Len(t, replies, 1)
	assert.Equal(t, model.StructuredRecommendation, replies[0].StructuredType)
	assert.Len(t, session.Messages(), 3, "welcome, user, bot all rendered despite persistence failures")
}

func TestSendIncludesContextDigest(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	validations := &MockValidations{Validations: []model.Validation{
		{Merchant: "Starbucks", Category: "dining", Currency: "INR", Amount: 450},
		{Merchant: "BigBasket", Category: "grocery", Currency: "INR", Amount: 2200.50},
	}}
	session := NewSession(SessionConfig{
		Recommender: backend,
		History:     &MockHistory{},
		Validations: validations,
		Currency:    "INR",
	})
	session.Start(context.Background())

	session.Send(context.Background(), "fuel 1500")

	require.Equal(t, 1, backend.CallCount())
	assert.Equal(t,
		"Starbucks:dining:INR:450 ; BigBasket:grocery:INR:2200.5",
		backend.Requests[0].ContextNotes)
}

func TestSendValidationSourceFailureIsSwallowed(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session := NewSession(SessionConfig{
		Recommender: backend,
		History:     &MockHistory{},
		Validations: &MockValidations{Err: errors.New("cache unavailable")},
		Currency:    "INR",
	})
	session.Start(context.Background())

	replies := session.Send(context.Background(), "fuel 1500")

	require.Len(t, replies, 1)
	assert.Equal(t, 1, backend.CallCount())
	assert.Empty(t, backend.Requests[0].ContextNotes)
}

func TestClearHistoryResetsToWelcome(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	session, _ := newTestSession(backend)

	session.Send(context.Background(), "groceries 2500 at bigbasket")
	session.Send(context.Background(), "fuel 800")
	require.Greater(t, len(session.Messages()), 1)

	require.NoError(t, session.ClearHistory(context.Background()))

	require.Len(t, session.Messages(), 1)
	assert.Equal(t, model.WelcomeMessage, session.Messages()[0].Text)
	assert.Equal(t, model.SenderBot, session.Messages()[0].Sender)
}

func TestClearHistoryFailureKeepsConversation(t *testing.T) {
	backend := &MockRecommender{Response: json.RawMessage(richResponse)}
	history := &MockHistory{ClearErr: errors.New("delete failed")}
	session := NewSession(SessionConfig{Recommender: backend, History: history, Currency: "INR"})
	session.Start(context.Background())
	session.Send(context.Background(), "groceries 2500 at bigbasket")
	before := len(session.Messages())

	err := session.ClearHistory(context.Background())

	require.Error(t, err)
	assert.Len(t, session.Messages(), before, "conversation untouched when delete fails")
}

func TestSetCurrencyValidation(t *testing.T) {
	session, _ := newTestSession(&MockRecommender{})

	session.SetCurrency("USD")
	assert.Equal(t, "USD", session.Currency())

	session.SetCurrency("DOGE")
	assert.Equal(t, "USD", session.Currency(), "unsupported code ignored")
}
