package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwiz/cardwiz/internal/advisor"
	"github.com/cardwiz/cardwiz/internal/model"
)

func testSession() *advisor.Session {
	return advisor.NewSession(advisor.SessionConfig{
		Recommender: &advisor.MockRecommender{Response: json.RawMessage(`{}`)},
		History:     &advisor.MockHistory{},
	})
}

func sizedModel(t *testing.T) Model {
	t.Helper()
	m := newModel(context.Background(), Config{Session: testSession(), Width: 80, Height: 24})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(Model)
	require.True(t, ok)
	return model
}

func TestModelReadyAfterResize(t *testing.T) {
	m := newModel(context.Background(), Config{Session: testSession()})
	assert.False(t, m.ready)
	assert.Contains(t, m.View(), "Loading")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	assert.True(t, m.ready)
	assert.Contains(t, m.View(), "CardWiz Advisor")
}

func TestSendDispatchesAndDisablesInput(t *testing.T) {
	m := sizedModel(t)
	m.session.Start(context.Background())
	m.input.SetValue("best card for groceries 2500")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.True(t, m.inFlight)
	assert.Empty(t, m.input.Value())
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "thinking")
}

func TestSendIgnoredWhileInFlight(t *testing.T) {
	m := sizedModel(t)
	m.inFlight = true
	m.input.SetValue("another question")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, "another question", m.input.Value(), "input preserved, not sent")
}

func TestSendIgnoresBlankInput(t *testing.T) {
	m := sizedModel(t)
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.False(t, m.inFlight)
	assert.Nil(t, cmd)
}

func TestBotReplyReenablesInput(t *testing.T) {
	m := sizedModel(t)
	m.inFlight = true

	updated, _ := m.Update(botRepliesMsg{})
	m = updated.(Model)

	assert.False(t, m.inFlight)
}

func TestClearHistoryFailureShowsStatusLine(t *testing.T) {
	m := sizedModel(t)

	updated, _ := m.Update(historyClearedMsg{err: errors.New("gateway down")})
	m = updated.(Model)
	assert.Contains(t, m.View(), "Could not clear chat history right now.")

	updated, _ = m.Update(historyClearedMsg{})
	m = updated.(Model)
	assert.NotContains(t, m.View(), "Could not clear chat history")
}

func TestClearHistoryReportsBackendError(t *testing.T) {
	session := advisor.NewSession(advisor.SessionConfig{
		Recommender: &advisor.MockRecommender{Response: json.RawMessage(`{}`)},
		History:     &advisor.MockHistory{ClearErr: errors.New("boom")},
	})
	m := newModel(context.Background(), Config{Session: session, Width: 80, Height: 24})

	msg := m.clearHistory()()
	cleared, ok := msg.(historyClearedMsg)
	require.True(t, ok)
	assert.Error(t, cleared.err)
}

func TestSendClearsStatusLine(t *testing.T) {
	m := sizedModel(t)
	m.statusErr = "Could not clear chat history right now."
	m.input.SetValue("best card for fuel 2000")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Empty(t, m.statusErr)
}

func TestRenderRecommendationMessage(t *testing.T) {
	m := sizedModel(t)
	view := model.RecommendationView{
		BestCardName:        "HDFC Infinia",
		SpendAmount:         2500,
		Currency:            "INR",
		EstimatedReward:     120.5,
		EffectivePercentage: 3.25,
		Reasoning:           []string{"5x points on groceries"},
		Warning:             "Monthly cap reached soon",
		ComparisonRows: []model.ComparisonRow{
			{CardName: "HDFC Infinia", EstimatedValue: 120.5, EffectivePercentage: 3.25, Verdict: "best"},
		},
	}
	payload, err := json.Marshal(view)
	require.NoError(t, err)

	out := m.renderMessage(model.ConversationMessage{
		Sender:         model.SenderBot,
		Text:           "fallback text",
		StructuredType: model.StructuredRecommendation,
		Payload:        payload,
	})

	assert.Contains(t, out, "HDFC Infinia")
	assert.Contains(t, out, "120.50")
	assert.Contains(t, out, "3.25%")
	assert.Contains(t, out, "5x points on groceries")
	assert.Contains(t, out, "Monthly cap reached soon")
	assert.NotContains(t, out, "fallback text", "structured payload replaces the text body")
}

func TestRenderMissedSavingsMessage(t *testing.T) {
	m := sizedModel(t)
	report := model.MissedSavingsReport{
		Summary: model.MissedSavingsSummary{
			TransactionsAnalyzed: 12,
			TotalSpend:           34000,
			TotalActualRewards:   310,
			TotalOptimalRewards:  870,
			TotalMissedSavings:   560,
			Currency:             "INR",
		},
		Transactions: []model.MissedSavingsRow{
			{Merchant: "BigBasket", ActualCardName: "Basic Card", OptimalCardName: "Grocery Plus", MissedValue: 340},
		},
	}
	payload, err := json.Marshal(report)
	require.NoError(t, err)

	out := m.renderMessage(model.ConversationMessage{
		Sender:         model.SenderBot,
		StructuredType: model.StructuredMissedSavings,
		Payload:        payload,
	})

	assert.Contains(t, out, "Missed savings report")
	assert.Contains(t, out, "12 transactions")
	assert.Contains(t, out, "BigBasket")
	assert.Contains(t, out, "Grocery Plus")
}

func TestRenderMalformedPayloadFallsBackToText(t *testing.T) {
	m := sizedModel(t)
	out := m.renderMessage(model.ConversationMessage{
		Sender:         model.SenderBot,
		Text:           "plain fallback",
		StructuredType: model.StructuredRecommendation,
		Payload:        json.RawMessage(`{not json`),
	})
	assert.Contains(t, out, "plain fallback")
}

func TestQuitKeys(t *testing.T) {
	m := sizedModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactlyten", truncate("exactlyten", 10))
	assert.Equal(t, "longer th…", truncate("longer than ten", 10))
}
