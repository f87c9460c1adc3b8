package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardwiz/cardwiz/internal/cli"
	"github.com/cardwiz/cardwiz/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage your wallet",
		Long:  `List the cards registered in your wallet or add a new one.`,
	}

	cmd.AddCommand(listCardsCmd())
	cmd.AddCommand(addCardCmd())

	return cmd
}

func listCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			cards, err := client.ListCards(ctx)
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}

			if len(cards) == 0 {
				fmt.Println(cli.InfoStyle.Render("No cards yet. Use 'cardwiz cards add' to register one."))
				return nil
			}

			// Coverage is cosmetic; the list still prints without it.
			coverage, err := client.KnowledgeCoverage(ctx)
			if err != nil {
				slog.Debug("Failed to fetch knowledge coverage", "error", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Card"),
				cli.BoldStyle.Render("Issuer"),
				cli.BoldStyle.Render("Network"),
				cli.BoldStyle.Render("Last 4"),
				cli.BoldStyle.Render("Docs"),
				cli.BoldStyle.Render("Smart"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 24),
				strings.Repeat("-", 12),
				strings.Repeat("-", 10),
				strings.Repeat("-", 6),
				strings.Repeat("-", 12),
				strings.Repeat("-", 5))

			for _, card := range cards {
				smart := ""
				if coverage[card.ID] {
					smart = "✓"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					card.ID, card.CardName, card.Issuer, card.Network, card.LastFourDigits,
					card.DocStatusChip(), smart)
			}

			// Refresh the local cache so other commands can work offline.
			if store, storeErr := initStorage(ctx); storeErr == nil {
				if cacheErr := store.ReplaceCards(ctx, cards); cacheErr != nil {
					slog.Debug("Failed to refresh card cache", "error", cacheErr)
				}
				_ = store.Close()
			}

			return nil
		},
	}
}

func addCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new card",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			name, _ := cmd.Flags().GetString("name")
			issuer, _ := cmd.Flags().GetString("issuer")
			network, _ := cmd.Flags().GetString("network")
			lastFour, _ := cmd.Flags().GetString("last-four")

			net, err := parseNetwork(network)
			if err != nil {
				return err
			}
			if len(lastFour) != 4 {
				return fmt.Errorf("last-four must be exactly 4 digits")
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			card, err := client.AddCard(ctx, model.Card{
				CardName:       name,
				Issuer:         issuer,
				Network:        net,
				LastFourDigits: lastFour,
				Active:         true,
			})
			if err != nil {
				return fmt.Errorf("failed to add card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Added %s (•••• %s) with ID %d", card.CardName, card.LastFourDigits, card.ID)))
			fmt.Println(cli.SubtleStyle.Render(
				"Upload a statement or terms document to activate smart features for this card."))
			return nil
		},
	}

	cmd.Flags().String("name", "", "card display name")
	cmd.Flags().String("issuer", "", "issuing bank")
	cmd.Flags().String("network", "", "payment network (visa, mastercard, rupay, amex)")
	cmd.Flags().String("last-four", "", "last four digits")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("issuer")
	_ = cmd.MarkFlagRequired("network")
	_ = cmd.MarkFlagRequired("last-four")

	return cmd
}

func parseNetwork(s string) (model.CardNetwork, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VISA":
		return model.NetworkVisa, nil
	case "MASTERCARD":
		return model.NetworkMastercard, nil
	case "RUPAY":
		return model.NetworkRupay, nil
	case "AMEX":
		return model.NetworkAmex, nil
	default:
		return "", fmt.Errorf("unknown network %q; expected visa, mastercard, rupay, or amex", s)
	}
}
