package model

import "sort"

// MissedSavingsSummary aggregates a statement's missed-savings analysis.
type MissedSavingsSummary struct {
	TransactionsAnalyzed int     `json:"transactions_analyzed"`
	TotalSpend           float64 `json:"total_spend"`
	TotalActualRewards   float64 `json:"total_actual_rewards"`
	TotalOptimalRewards  float64 `json:"total_optimal_rewards"`
	TotalMissedSavings   float64 `json:"total_missed_savings"`
	Currency             string  `json:"currency"`
}

// MissedSavingsRow is one analyzed statement transaction.
type MissedSavingsRow struct {
	Date               string  `json:"date"`
	Merchant           string  `json:"merchant"`
	Amount             float64 `json:"amount"`
	ActualCardName     string  `json:"actual_card_name"`
	ActualRewardValue  float64 `json:"actual_reward_value"`
	OptimalCardName    string  `json:"optimal_card_name"`
	OptimalRewardValue float64 `json:"optimal_reward_value"`
	MissedValue        float64 `json:"missed_value"`
}

// MissedSavingsReport is the backend's statement analysis result.
type MissedSavingsReport struct {
	StatementKey string               `json:"statement_s3_key,omitempty"`
	Summary      MissedSavingsSummary `json:"summary"`
	Transactions []MissedSavingsRow   `json:"transactions"`
}

// TopOpportunities returns up to n rows with the largest missed value,
// ordered descending. The receiver's row order is left untouched.
func (r *MissedSavingsReport) TopOpportunities(n int) []MissedSavingsRow {
	rows := make([]MissedSavingsRow, len(r.Transactions))
	copy(rows, r.Transactions)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MissedValue > rows[j].MissedValue
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
