package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardwiz/cardwiz/internal/api"
	"github.com/cardwiz/cardwiz/internal/cli"
	"github.com/cardwiz/cardwiz/internal/config"
	"github.com/cardwiz/cardwiz/internal/model"
	"github.com/cardwiz/cardwiz/internal/sheets"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Missed-savings reports",
	}

	cmd.AddCommand(missedSavingsCmd())

	return cmd
}

func missedSavingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missed-savings",
		Short: "Analyze a statement for missed rewards",
		Long: `Run the missed-savings analysis on an already uploaded statement.

For each statement transaction the backend compares the card actually
used against the best card in your wallet and totals what you left on
the table.`,
		RunE: runMissedSavings,
	}

	cmd.Flags().String("statement", "", "statement key returned by the upload")
	cmd.Flags().String("currency", "", "report currency")
	cmd.Flags().Int64("actual-card", 0, "card the statement belongs to")
	cmd.Flags().Int64Slice("cards", nil, "restrict the comparison to these card IDs")
	cmd.Flags().Int("limit", 0, "limit the number of analyzed transactions")
	cmd.Flags().Int("top", 5, "number of top opportunities to print")
	cmd.Flags().Bool("export-sheets", false, "export the report to Google Sheets")
	_ = cmd.MarkFlagRequired("statement")

	return cmd
}

func runMissedSavings(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	statement, _ := cmd.Flags().GetString("statement")
	currency, _ := cmd.Flags().GetString("currency")
	actualCard, _ := cmd.Flags().GetInt64("actual-card")
	cardIDs, _ := cmd.Flags().GetInt64Slice("cards")
	limit, _ := cmd.Flags().GetInt("limit")
	top, _ := cmd.Flags().GetInt("top")
	exportSheets, _ := cmd.Flags().GetBool("export-sheets")

	if currency != "" && !model.IsSupportedCurrency(currency) {
		return fmt.Errorf("unsupported currency %q; supported: %v", currency, model.SupportedCurrencies)
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	slog.Info("Running missed-savings analysis", "statement", statement)
	report, err := client.MissedSavings(ctx, api.MissedSavingsRequest{
		StatementKey:      statement,
		Currency:          currency,
		ActualCardID:      actualCard,
		AvailableCardIDs:  cardIDs,
		LimitTransactions: limit,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printMissedSavings(&report, top)

	if exportSheets {
		if err := exportToSheets(cmd, &report); err != nil {
			return err
		}
	}

	return nil
}

func printMissedSavings(report *model.MissedSavingsReport, top int) {
	s := report.Summary
	fmt.Println(cli.TitleStyle.Render("Missed Savings"))
	fmt.Printf("Analyzed %d transactions, %s %.2f total spend\n",
		s.TransactionsAnalyzed, s.Currency, s.TotalSpend)
	fmt.Printf("Earned %s %.2f; optimal cards would have earned %s %.2f\n",
		s.Currency, s.TotalActualRewards, s.Currency, s.TotalOptimalRewards)
	fmt.Println(cli.BoldStyle.Render(
		fmt.Sprintf("Left on the table: %s %.2f", s.Currency, s.TotalMissedSavings)))

	rows := report.TopOpportunities(top)
	if len(rows) == 0 {
		return
	}

	fmt.Println()
	fmt.Println(cli.InfoStyle.Render("Top opportunities"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("Date"),
		cli.BoldStyle.Render("Merchant"),
		cli.BoldStyle.Render("Amount"),
		cli.BoldStyle.Render("Used"),
		cli.BoldStyle.Render("Better"),
		cli.BoldStyle.Render("Missed"))
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%.2f\n",
			row.Date, row.Merchant, row.Amount, row.ActualCardName, row.OptimalCardName, row.MissedValue)
	}
	_ = w.Flush()
}

func exportToSheets(cmd *cobra.Command, report *model.MissedSavingsReport) error {
	ctx := cmd.Context()

	cfg := config.LoadSheetsConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("sheets export not configured: %w (run 'cardwiz auth sheets' first)", err)
	}

	writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Report exported to Google Sheets"))
	return nil
}
