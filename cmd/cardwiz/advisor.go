package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardwiz/cardwiz/internal/advisor"
	"github.com/cardwiz/cardwiz/internal/model"
	"github.com/cardwiz/cardwiz/internal/tui"
)

func advisorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advisor",
		Short: "Chat with the card rewards advisor",
		Long: `Start an interactive chat session with the rewards advisor.

Ask where to spend ("best card for groceries 2500"), and the advisor
answers with the best card, the estimated reward, and a comparison of
your other cards. When merchant or amount is unclear it asks one
follow-up question before answering.`,
		RunE: runAdvisor,
	}

	cmd.Flags().String("currency", "", "recommendation currency (INR, USD, EUR, GBP, AED, SGD)")

	return cmd
}

func runAdvisor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	currency, _ := cmd.Flags().GetString("currency")
	if currency == "" {
		currency = model.DefaultCurrency
	}
	if !model.IsSupportedCurrency(currency) {
		return fmt.Errorf("unsupported currency %q; supported: %v", currency, model.SupportedCurrencies)
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	session := advisor.NewSession(advisor.SessionConfig{
		Recommender: client,
		History:     client,
		Validations: &cachedValidationSource{store: store, client: client},
		Currency:    currency,
	})

	return tui.Run(ctx, tui.Config{Session: session})
}
