// Package advisor implements the conversational recommendation
// orchestrator: the clarification dialogue, request construction,
// response normalization, and history synchronization around the
// backend recommendation endpoint.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/cardwiz/cardwiz/internal/api"
	"github.com/cardwiz/cardwiz/internal/classify"
	"github.com/cardwiz/cardwiz/internal/model"
)

// recommendFallback is shown when a backend failure yields no usable
// message of its own.
const recommendFallback = "Recommendation failed. Please try again in a moment."

// phase is the clarification dialogue state. The pending prompt exists
// only in phaseAwaitingClarification, making a second simultaneous
// clarification unrepresentable.
type phase int

const (
	phaseIdle phase = iota
	phaseAwaitingClarification
)

// digestLimit matches the backend's context-digest window.
const digestLimit = 5

// numericReply matches clarification replies that are a bare amount.
var numericReply = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?$`)

// Session drives one advisor conversation. It is not safe for concurrent
// use; callers serialize sends by disabling the input affordance while a
// request is in flight.
type Session struct {
	recommender Recommender
	validations ValidationSource
	history     *Synchronizer
	currency    string
	pending     string
	messages    []model.ConversationMessage
	phase       phase
}

// SessionConfig wires a Session's collaborators.
type SessionConfig struct {
	Recommender Recommender
	History     HistoryAPI
	// Validations is optional; without it requests carry no context digest.
	Validations ValidationSource
	// Currency defaults to model.DefaultCurrency.
	Currency string
}

// NewSession creates an idle advisor session.
func NewSession(cfg SessionConfig) *Session {
	currency := cfg.Currency
	if !model.IsSupportedCurrency(currency) {
		currency = model.DefaultCurrency
	}
	var sync *Synchronizer
	if cfg.History != nil {
		sync = NewSynchronizer(cfg.History)
	}
	return &Session{
		recommender: cfg.Recommender,
		validations: cfg.Validations,
		history:     sync,
		currency:    currency,
		phase:       phaseIdle,
	}
}

// Start loads persisted history (seeding the welcome message if needed)
// into the in-memory conversation.
func (s *Session) Start(ctx context.Context) {
	if s.history != nil {
		s.messages = s.history.Load(ctx)
		return
	}
	s.messages = []model.ConversationMessage{{
		ID:     uuid.NewString(),
		Sender: model.SenderBot,
		Text:   model.WelcomeMessage,
	}}
}

// Messages returns the conversation in display order.
func (s *Session) Messages() []model.ConversationMessage {
	return s.messages
}

// Currency returns the selected recommendation currency.
func (s *Session) Currency() string {
	return s.currency
}

// SetCurrency selects the currency named in clarification questions and
// sent with recommendation requests. Unsupported codes are ignored.
func (s *Session) SetCurrency(code string) {
	if model.IsSupportedCurrency(code) {
		s.currency = code
	}
}

// AwaitingClarification reports whether the session is holding a pending
// prompt and waiting for the user to supply missing facts.
func (s *Session) AwaitingClarification() bool {
	return s.phase == phaseAwaitingClarification
}

// PendingPrompt returns the prompt held while awaiting clarification, or
// the empty string when idle.
func (s *Session) PendingPrompt() string {
	if s.phase != phaseAwaitingClarification {
		return ""
	}
	return s.pending
}

// Send processes one user message and returns the bot messages it
// produced. The backend is only called once the text carries both a
// merchant hint and an amount hint, or when a non-generic prompt bypasses
// clarification entirely.
func (s *Session) Send(ctx context.Context, text string) []model.ConversationMessage {
	s.record(ctx, model.ConversationMessage{
		ID:     uuid.NewString(),
		Sender: model.SenderUser,
		Text:   text,
	})

	switch s.phase {
	case phaseAwaitingClarification:
		return s.sendClarificationReply(ctx, text)
	case phaseIdle:
		fallthrough
	default:
		return s.sendInitial(ctx, text)
	}
}

// sendInitial handles a message arriving in the idle state.
func (s *Session) sendInitial(ctx context.Context, text string) []model.ConversationMessage {
	hints := classify.Classify(text)
	if classify.IsGeneric(text) && !hints.Sufficient() {
		s.phase = phaseAwaitingClarification
		s.pending = text
		return s.reply(ctx, s.clarifyQuestion())
	}
	return s.resolve(ctx, text)
}

// sendClarificationReply merges the reply with the held prompt and either
// proceeds or re-asks. The held prompt survives an insufficient reply
// unchanged, so repeated replies always merge against the original text.
func (s *Session) sendClarificationReply(ctx context.Context, reply string) []model.ConversationMessage {
	merged := mergePrompt(s.pending, reply)
	if !classify.Classify(merged).Sufficient() {
		return s.reply(ctx, s.renewedClarifyQuestion())
	}
	s.phase = phaseIdle
	s.pending = ""
	return s.resolve(ctx, merged)
}

// resolve builds the request, calls the backend, and normalizes the
// response into a conversation message.
func (s *Session) resolve(ctx context.Context, text string) []model.ConversationMessage {
	recent := s.recentValidations(ctx)
	req := BuildRequest(text, s.currency, recent)

	raw, err := s.recommender.GetRecommendation(ctx, req)
	if err != nil {
		return s.reply(ctx, api.ResolveMessage(err, recommendFallback))
	}

	view, fallback := Normalize(raw, s.currency)
	msg := model.ConversationMessage{
		ID:     uuid.NewString(),
		Sender: model.SenderBot,
		Text:   fallback,
	}
	if view != nil {
		payload, marshalErr := json.Marshal(view)
		if marshalErr == nil {
			msg.StructuredType = model.StructuredRecommendation
			msg.Payload = payload
		}
	}
	s.record(ctx, msg)
	return []model.ConversationMessage{msg}
}

// recentValidations fetches the digest window; failures are swallowed
// because personalization is optional.
func (s *Session) recentValidations(ctx context.Context) []model.Validation {
	if s.validations == nil {
		return nil
	}
	recent, err := s.validations.RecentValidations(ctx, digestLimit)
	if err != nil {
		slog.Debug("validation history unavailable", "error", err)
		return nil
	}
	return recent
}

// reply records and returns a single bot text message.
func (s *Session) reply(ctx context.Context, text string) []model.ConversationMessage {
	msg := model.ConversationMessage{
		ID:     uuid.NewString(),
		Sender: model.SenderBot,
		Text:   text,
	}
	s.record(ctx, msg)
	return []model.ConversationMessage{msg}
}

// record appends to the in-memory conversation and persists best-effort.
func (s *Session) record(ctx context.Context, msg model.ConversationMessage) {
	s.messages = append(s.messages, msg)
	if s.history != nil {
		s.history.Append(ctx, msg)
	}
}

// ClearHistory resets the conversation to the seeded welcome message.
func (s *Session) ClearHistory(ctx context.Context) error {
	if s.history == nil {
		s.Start(ctx)
		return nil
	}
	seeded, err := s.history.Clear(ctx)
	if err != nil {
		return err
	}
	s.messages = seeded
	return nil
}

func (s *Session) clarifyQuestion() string {
	return fmt.Sprintf("Happy to help! Tell me the merchant or spend category and the amount in %s, e.g. \"groceries 2500\".", s.currency)
}

func (s *Session) renewedClarifyQuestion() string {
	return fmt.Sprintf("I still need a merchant or spend category and an amount in %s to recommend a card, e.g. \"fuel 1500\".", s.currency)
}

// mergePrompt folds a clarification reply into the original prompt. A
// purely numeric reply reads as an amount.
func mergePrompt(prompt, reply string) string {
	trimmed := strings.TrimSpace(reply)
	if numericReply.MatchString(trimmed) {
		return prompt + " spend " + trimmed
	}
	return prompt + " " + reply
}
