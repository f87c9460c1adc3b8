package model

// Category is a spend category recognized by the recommendation backend.
type Category string

const (
	// CategoryGeneral is the default when no keyword group matches.
	CategoryGeneral Category = "general"
	// CategoryGrocery covers supermarket and grocery spend.
	CategoryGrocery Category = "grocery"
	// CategoryDining covers restaurants and food delivery.
	CategoryDining Category = "dining"
	// CategoryTravel covers flights, hotels, and transit.
	CategoryTravel Category = "travel"
	// CategoryFuel covers fuel and petrol spend.
	CategoryFuel Category = "fuel"
	// CategoryOnline covers e-commerce and marketplace spend.
	CategoryOnline Category = "online"
)

// RecommendationRequest is the payload sent to the recommendation endpoint.
// Built fresh per send and never mutated afterwards.
type RecommendationRequest struct {
	MerchantName      string   `json:"merchantName"`
	Category          Category `json:"category"`
	TransactionAmount float64  `json:"transactionAmount"`
	Currency          string   `json:"currency"`
	ContextNotes      string   `json:"contextNotes,omitempty"`
	AvailableCardIDs  []int64  `json:"availableCardIds,omitempty"`
}

// ComparisonRow is one card's entry in a recommendation comparison table.
type ComparisonRow struct {
	CardName            string  `json:"cardName"`
	EffectivePercentage float64 `json:"effectivePercentage"`
	EstimatedValue      float64 `json:"estimatedValue"`
	Verdict             string  `json:"verdict,omitempty"`
	CardID              int64   `json:"cardId,omitempty"`
}

// RecommendationView is the canonical post-normalization recommendation.
// Both backend response schemas map into this shape; the legacy schema
// yields no view at all, only fallback text.
type RecommendationView struct {
	BestCardName        string          `json:"bestCardName"`
	SpendAmount         float64         `json:"spendAmount"`
	Currency            string          `json:"currency"`
	EstimatedReward     float64         `json:"estimatedReward"`
	EffectivePercentage float64         `json:"effectivePercentage"`
	Reasoning           []string        `json:"reasoning"`
	Warning             string          `json:"warning,omitempty"`
	ComparisonRows      []ComparisonRow `json:"comparisonTable"`
	// HasSufficientData is false when the backend lacked reward-rule
	// documents for some of the requested cards. Responses without the
	// flag count as sufficient.
	HasSufficientData bool    `json:"hasSufficientData"`
	MissingCardIDs    []int64 `json:"missingCardIds,omitempty"`
}
