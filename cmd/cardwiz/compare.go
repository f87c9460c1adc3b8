package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardwiz/cardwiz/internal/advisor"
	"github.com/cardwiz/cardwiz/internal/api"
	"github.com/cardwiz/cardwiz/internal/classify"
	"github.com/cardwiz/cardwiz/internal/cli"
	"github.com/cardwiz/cardwiz/internal/model"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <merchant>",
		Short: "Compare specific cards for a purchase",
		Long: `Compare two or more of your cards for a specific purchase.

The backend restricts its recommendation to the given card IDs, so the
comparison table covers exactly the cards you name.

Example:
  cardwiz compare "Amazon" --amount 3500 --cards 1,2,5`,
		Args: cobra.ExactArgs(1),
		RunE: runCompare,
	}

	cmd.Flags().Float64("amount", 0, "purchase amount")
	cmd.Flags().String("currency", model.DefaultCurrency, "purchase currency")
	cmd.Flags().Int64Slice("cards", nil, "card IDs to compare (at least 2)")
	cmd.Flags().String("notes", "", "extra context for the recommendation")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("cards")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	merchant := strings.TrimSpace(args[0])
	if merchant == "" {
		return fmt.Errorf("merchant is required")
	}
	amount, _ := cmd.Flags().GetFloat64("amount")
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	currency, _ := cmd.Flags().GetString("currency")
	if !model.IsSupportedCurrency(currency) {
		return fmt.Errorf("unsupported currency %q; supported: %v", currency, model.SupportedCurrencies)
	}
	cardIDs, _ := cmd.Flags().GetInt64Slice("cards")
	if len(cardIDs) < 2 {
		return fmt.Errorf("at least 2 card IDs are required to compare")
	}
	notes, _ := cmd.Flags().GetString("notes")

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	raw, err := client.GetRecommendation(ctx, model.RecommendationRequest{
		MerchantName:      merchant,
		Category:          classify.InferCategory(merchant),
		TransactionAmount: amount,
		Currency:          currency,
		ContextNotes:      notes,
		AvailableCardIDs:  cardIDs,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %s", api.ResolveMessage(err, "Recommendation failed. Please try again in a moment."))
	}

	view, text := advisor.Normalize(raw, currency)
	if view == nil {
		fmt.Println(text)
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Best card for %s: %s", merchant, view.BestCardName)))
	fmt.Printf("Spend %s %.2f, earn %s %.2f (%.2f%%)\n\n",
		view.Currency, view.SpendAmount, view.Currency, view.EstimatedReward, view.EffectivePercentage)

	for _, reason := range view.Reasoning {
		fmt.Println("  • " + reason)
	}
	if view.Warning != "" {
		fmt.Println(cli.WarningStyle.Render("  ! " + view.Warning))
	}
	if !view.HasSufficientData {
		msg := "Not enough reward-rule data for the selected cards."
		if len(view.MissingCardIDs) > 0 {
			names := make([]string, 0, len(view.MissingCardIDs))
			for _, id := range view.MissingCardIDs {
				names = append(names, cardLabel(id, view.ComparisonRows))
			}
			msg += " Missing: " + strings.Join(names, ", ") + "."
		}
		msg += " Upload statement or terms documents to improve the comparison."
		fmt.Println(cli.WarningStyle.Render("  ! " + msg))
	}

	if len(view.ComparisonRows) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			cli.BoldStyle.Render("Card"),
			cli.BoldStyle.Render("Value"),
			cli.BoldStyle.Render("Rate"),
			cli.BoldStyle.Render("Verdict"))
		for _, row := range view.ComparisonRows {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f%%\t%s\n",
				row.CardName, row.EstimatedValue, row.EffectivePercentage, row.Verdict)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}

// cardLabel names a card by ID using the comparison rows when possible.
func cardLabel(id int64, rows []model.ComparisonRow) string {
	for _, row := range rows {
		if row.CardID == id && row.CardName != "" {
			return row.CardName
		}
	}
	return fmt.Sprintf("Card %d", id)
}
