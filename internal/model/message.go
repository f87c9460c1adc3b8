// Package model defines the core domain models used throughout the application.
package model

import "encoding/json"

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	// SenderUser marks messages typed by the user.
	SenderUser Sender = "user"
	// SenderBot marks messages produced by the advisor.
	SenderBot Sender = "bot"
)

// StructuredType identifies an optional structured payload carried by a message.
type StructuredType string

const (
	// StructuredNone marks a plain text message.
	StructuredNone StructuredType = ""
	// StructuredRecommendation marks a message carrying a RecommendationView.
	StructuredRecommendation StructuredType = "recommendation-result"
	// StructuredMissedSavings marks a message carrying a MissedSavingsReport.
	StructuredMissedSavings StructuredType = "missed-savings-report"
)

// ConversationMessage is a single turn in the advisor conversation.
// Messages are append-only; insertion order is display order.
type ConversationMessage struct {
	ID             string          `json:"id,omitempty"`
	Sender         Sender          `json:"sender"`
	Text           string          `json:"text"`
	StructuredType StructuredType  `json:"type,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// WelcomeMessage is the fixed message that seeds an empty conversation.
const WelcomeMessage = "Hello! I am CardWiz. Ask me where to use your cards or upload a statement."
