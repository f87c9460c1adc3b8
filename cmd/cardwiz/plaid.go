package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardwiz/cardwiz/internal/cli"
	"github.com/cardwiz/cardwiz/internal/common"
	"github.com/cardwiz/cardwiz/internal/plaid"
)

// plaidSyncStateKey stores the date of the last successful Plaid sync.
const plaidSyncStateKey = "plaid.last_sync"

func plaidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plaid",
		Short: "Sync transactions from Plaid",
		Long:  `Fetch validated transactions from connected bank accounts via Plaid.`,
	}

	cmd.AddCommand(plaidSyncCmd())
	cmd.AddCommand(plaidAccountsCmd())

	return cmd
}

func plaidSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new transactions",
		Long: `Fetch transactions since the last sync and store them in the local
cache. The first sync covers the past 90 days.`,
		RunE: runPlaidSync,
	}

	cmd.Flags().Int("days", 0, "override the sync window in days")

	return cmd
}

func runPlaidSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, err := newPlaidClient()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -90)

	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		startDate = endDate.AddDate(0, 0, -days)
	} else if last, stateErr := store.GetSyncState(ctx, plaidSyncStateKey); stateErr == nil && last != "" {
		if parsed, parseErr := time.Parse("2006-01-02", last); parseErr == nil {
			// Overlap one day so transactions posted late are not missed;
			// stable IDs make the overlap idempotent.
			startDate = parsed.AddDate(0, 0, -1)
		}
	}

	validations, err := client.GetValidations(ctx, startDate, endDate)
	if err != nil {
		if common.IsRetryable(err) {
			return fmt.Errorf("failed to fetch transactions (temporary, try again in a minute): %w", err)
		}
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}

	if len(validations) == 0 {
		fmt.Println(cli.InfoStyle.Render("No new spend transactions."))
		return store.SetSyncState(ctx, plaidSyncStateKey, endDate.Format("2006-01-02"))
	}

	if err := store.SaveValidations(ctx, validations); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	if err := store.SetSyncState(ctx, plaidSyncStateKey, endDate.Format("2006-01-02")); err != nil {
		return fmt.Errorf("failed to record sync state: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(
		fmt.Sprintf("✓ Synced %d transactions (%s to %s)",
			len(validations), startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))))
	return nil
}

func plaidAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List connected account IDs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newPlaidClient()
			if err != nil {
				return err
			}

			accounts, err := client.GetAccounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No connected accounts."))
				return nil
			}
			for _, id := range accounts {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func newPlaidClient() (*plaid.Client, error) {
	cfg := plaid.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
		AccessToken: viper.GetString("plaid.access_token"),
	}

	// Environment variables as fallback
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("PLAID_CLIENT_ID")
	}
	if cfg.Secret == "" {
		cfg.Secret = os.Getenv("PLAID_SECRET")
	}
	if cfg.Environment == "" {
		cfg.Environment = os.Getenv("PLAID_ENV")
		if cfg.Environment == "" {
			cfg.Environment = "production"
		}
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = os.Getenv("PLAID_ACCESS_TOKEN")
	}

	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("plaid credentials missing. Add plaid.client_id and plaid.secret to the config file or set PLAID_CLIENT_ID and PLAID_SECRET")
	}

	return plaid.NewClient(cfg)
}
