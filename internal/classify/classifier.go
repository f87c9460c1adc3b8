// Package classify inspects free-text advisor prompts for the facts the
// recommendation backend needs: a merchant or spend-category hint and a
// spend amount. All functions are pure and deterministic.
package classify

import (
	"regexp"
	"strings"
)

// Hints reports which recommendation facts were found in a prompt.
type Hints struct {
	HasMerchant bool
	HasAmount   bool
}

// Sufficient reports whether both facts are present.
func (h Hints) Sufficient() bool {
	return h.HasMerchant && h.HasAmount
}

// merchantVocabulary is the closed keyword set treated as a merchant or
// spend-category hint. Matching is case-insensitive substring matching,
// not NLP; unknown brands simply fail the hint check and trigger a
// clarification turn instead.
var merchantVocabulary = []string{
	// Commerce brands
	"amazon", "flipkart", "myntra", "bigbasket", "swiggy", "zomato",
	"uber", "ola", "starbucks", "dmart", "croma", "makemytrip",
	// Spend categories and generic merchant words
	"restaurant", "dining", "food", "cafe", "coffee",
	"grocery", "groceries", "supermarket",
	"fuel", "gas", "petrol", "diesel",
	"travel", "flight", "flights", "hotel", "hotels", "airline", "train",
	"online", "shopping", "marketplace",
	"movie", "cinema", "pharmacy", "electronics", "apparel",
}

// amountHintPattern matches a numeric token optionally preceded by a
// currency marker (Rs, INR, the rupee sign, or $).
var amountHintPattern = regexp.MustCompile(`(?i)(?:(?:rs\.?|inr|₹|\$)\s*)?[0-9]+(?:\.[0-9]{1,2})?`)

// Classify inspects text and reports which recommendation facts it carries.
func Classify(text string) Hints {
	lower := strings.ToLower(text)
	hints := Hints{
		HasAmount: amountHintPattern.MatchString(lower),
	}
	for _, word := range merchantVocabulary {
		if strings.Contains(lower, word) {
			hints.HasMerchant = true
			break
		}
	}
	return hints
}

// genericPhrases are prompts that ask for a recommendation without naming
// any spend context. They start a clarification turn rather than a
// backend call.
var genericPhrases = []string{
	"best card",
	"which card",
	"what card",
	"recommend",
	"suggest a card",
	"card to use",
	"help",
}

// shortPromptLength is the length below which a prompt is considered too
// terse to carry useful spend context on its own.
const shortPromptLength = 12

// IsGeneric reports whether text reads as a short or generic "which card
// should I use" request rather than a concrete spend description.
func IsGeneric(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < shortPromptLength {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
