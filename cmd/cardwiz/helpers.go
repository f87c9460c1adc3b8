package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/cardwiz/cardwiz/internal/api"
	"github.com/cardwiz/cardwiz/internal/common"
	"github.com/cardwiz/cardwiz/internal/config"
	"github.com/cardwiz/cardwiz/internal/model"
	"github.com/cardwiz/cardwiz/internal/storage"
)

// initStorage initializes the local cache database with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/cardwiz/cardwiz.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newAPIClient builds a gateway client from configuration. Credentials come
// from the config file or the CARDWIZ_GATEWAY_TOKEN environment variable.
func newAPIClient() (*api.Client, error) {
	baseURL := viper.GetString("gateway.url")
	if baseURL == "" {
		baseURL = os.Getenv("CARDWIZ_GATEWAY_URL")
	}
	token := viper.GetString("gateway.token")
	if token == "" {
		token = os.Getenv("CARDWIZ_GATEWAY_TOKEN")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: set gateway.url in the config file or CARDWIZ_GATEWAY_URL", common.ErrMissingConfig)
	}

	return api.NewClient(api.Config{
		BaseURL: baseURL,
		Token:   token,
		OnUnauthorized: func() {
			clearStoredToken()
			fmt.Fprintln(os.Stderr, "Session expired. Please sign in again.")
		},
	})
}

// clearStoredToken drops the persisted gateway credential after a 401 so the
// next run asks for a fresh sign-in instead of retrying a stale token.
func clearStoredToken() {
	viper.Set("gateway.token", "")
	if viper.ConfigFileUsed() == "" {
		return
	}
	if err := saveConfig(); err != nil {
		slog.Warn("Failed to clear stored gateway token", "error", err)
	}
}

// cachedValidationSource serves recent validations from the local cache and
// falls back to the gateway when the cache is empty.
type cachedValidationSource struct {
	store  *storage.SQLiteStorage
	client *api.Client
}

func (s *cachedValidationSource) RecentValidations(ctx context.Context, limit int) ([]model.Validation, error) {
	local, err := s.store.RecentValidations(ctx, limit)
	if err == nil && len(local) > 0 {
		return local, nil
	}

	remote, err := s.client.ListValidations(ctx)
	if err != nil {
		return nil, err
	}
	if len(remote) > limit {
		remote = remote[:limit]
	}
	return remote, nil
}
