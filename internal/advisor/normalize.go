package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cardwiz/cardwiz/internal/model"
)

// noRecommendationFallback is shown when the backend response matches
// neither known schema.
const noRecommendationFallback = "I could not find a recommendation right now. Please try again."

// Wire shapes for the rich schema. Fields the backend has emitted in both
// snake_case and camelCase carry a sibling field for each spelling.

type richRewards struct {
	ValueUnit           string  `json:"value_unit"`
	EstimatedValue      float64 `json:"estimated_value"`
	EffectivePercentage float64 `json:"effective_percentage"`
}

type richBestCard struct {
	Name    string       `json:"name"`
	Rewards *richRewards `json:"rewards"`
}

type wireComparisonRow struct {
	CardNameSnake  string  `json:"card_name"`
	CardNameCamel  string  `json:"cardName"`
	Verdict        string  `json:"verdict"`
	PercentSnake   float64 `json:"effective_percentage"`
	PercentCamel   float64 `json:"effectivePercentage"`
	ValueSnake     float64 `json:"estimated_value"`
	ValueCamel     float64 `json:"estimatedValue"`
	CardID         int64   `json:"card_id"`
}

func (r wireComparisonRow) toModel() model.ComparisonRow {
	row := model.ComparisonRow{
		CardName:            r.CardNameSnake,
		EffectivePercentage: r.PercentSnake,
		EstimatedValue:      r.ValueSnake,
		Verdict:             r.Verdict,
		CardID:              r.CardID,
	}
	if row.CardName == "" {
		row.CardName = r.CardNameCamel
	}
	if row.EffectivePercentage == 0 {
		row.EffectivePercentage = r.PercentCamel
	}
	if row.EstimatedValue == 0 {
		row.EstimatedValue = r.ValueCamel
	}
	return row
}

type wireTransactionContext struct {
	Currency    string  `json:"currency"`
	SpendAmount float64 `json:"spend_amount"`
}

type wireResponse struct {
	BestCard            *richBestCard           `json:"best_card"`
	BestOption          *wireLegacyOption       `json:"bestOption"`
	TransactionContext  *wireTransactionContext `json:"transaction_context"`
	SufficientSnake     *bool                   `json:"has_sufficient_data"`
	SufficientCamel     *bool                   `json:"hasSufficientData"`
	Warning             string                  `json:"warning"`
	ReasoningBullets    []string                `json:"reasoning_bullets"`
	ComparisonTable     []wireComparisonRow     `json:"comparison_table"`
	MissingCardIDsSnake []int64                 `json:"missing_card_ids"`
	MissingCardIDsCamel []int64                 `json:"missingCardIds"`
}

// sufficientData resolves the insufficiency flag across both spellings.
// Chat responses omit the field entirely; absence means no complaint.
func (r *wireResponse) sufficientData() bool {
	if r.SufficientSnake != nil {
		return *r.SufficientSnake
	}
	if r.SufficientCamel != nil {
		return *r.SufficientCamel
	}
	return true
}

func (r *wireResponse) missingCardIDs() []int64 {
	if len(r.MissingCardIDsSnake) > 0 {
		return r.MissingCardIDsSnake
	}
	return r.MissingCardIDsCamel
}

// wireLegacyOption is the older backend's best-card shape.
type wireLegacyOption struct {
	CardName        string `json:"cardName"`
	EstimatedReward string `json:"estimatedReward"`
	Reasoning       string `json:"reasoning"`
}

// Normalize maps either backend recommendation schema into the canonical
// view plus a plain-text fallback rendering. The legacy schema yields no
// view, only a one-sentence fallback; an unrecognized body yields a
// retry suggestion. Normalize is total: it never fails, missing numerics
// default to 0 and missing arrays to empty.
func Normalize(raw json.RawMessage, selectedCurrency string) (*model.RecommendationView, string) {
	var resp wireResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, noRecommendationFallback
	}

	if resp.BestCard != nil && resp.BestCard.Name != "" && resp.BestCard.Rewards != nil {
		view := normalizeRich(&resp, selectedCurrency)
		return view, summarizeView(view)
	}

	if resp.BestOption != nil {
		return nil, summarizeLegacy(resp.BestOption)
	}

	return nil, noRecommendationFallback
}

func normalizeRich(resp *wireResponse, selectedCurrency string) *model.RecommendationView {
	rewards := resp.BestCard.Rewards

	currency := ""
	spend := 0.0
	if resp.TransactionContext != nil {
		currency = resp.TransactionContext.Currency
		spend = resp.TransactionContext.SpendAmount
	}
	if currency == "" {
		currency = rewards.ValueUnit
	}
	if currency == "" {
		currency = selectedCurrency
	}

	reasoning := make([]string, 0, len(resp.ReasoningBullets))
	for _, bullet := range resp.ReasoningBullets {
		if strings.TrimSpace(bullet) != "" {
			reasoning = append(reasoning, bullet)
		}
	}

	rows := make([]model.ComparisonRow, 0, len(resp.ComparisonTable))
	for _, row := range resp.ComparisonTable {
		rows = append(rows, row.toModel())
	}

	return &model.RecommendationView{
		BestCardName:        resp.BestCard.Name,
		SpendAmount:         spend,
		Currency:            currency,
		EstimatedReward:     rewards.EstimatedValue,
		EffectivePercentage: rewards.EffectivePercentage,
		Reasoning:           reasoning,
		Warning:             resp.Warning,
		ComparisonRows:      rows,
		HasSufficientData:   resp.sufficientData(),
		MissingCardIDs:      resp.missingCardIDs(),
	}
}

// summarizeView renders the canonical view as a deterministic multi-line
// plain-text summary for surfaces that cannot show the structured card.
func summarizeView(view *model.RecommendationView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommended card: %s\n", view.BestCardName)
	fmt.Fprintf(&b, "Spend: %s %.2f\n", view.Currency, view.SpendAmount)
	fmt.Fprintf(&b, "Estimated rewards: %s %.2f (%.2f%%)", view.Currency, view.EstimatedReward, view.EffectivePercentage)
	if len(view.Reasoning) > 0 {
		fmt.Fprintf(&b, "\nWhy: %s", strings.Join(view.Reasoning, " | "))
	}
	if view.Warning != "" {
		fmt.Fprintf(&b, "\nNote: %s", view.Warning)
	}
	return b.String()
}

func summarizeLegacy(option *wireLegacyOption) string {
	reward := option.EstimatedReward
	if reward == "" {
		reward = "No reward details available"
	}
	reasoning := option.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning available"
	}
	return fmt.Sprintf("Best card: %s. Reward: %s. Why: %s.", option.CardName, reward, reasoning)
}
