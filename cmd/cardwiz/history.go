package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardwiz/cardwiz/internal/cli"
	"github.com/cardwiz/cardwiz/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage advisor conversation history",
	}

	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyClearCmd())

	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the persisted conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			messages, err := client.ListHistory(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			if len(messages) == 0 {
				fmt.Println(cli.InfoStyle.Render("No conversation history yet."))
				return nil
			}

			for _, msg := range messages {
				label := "CardWiz"
				style := cli.InfoStyle
				if msg.Sender == model.SenderUser {
					label = "You"
					style = cli.BoldStyle
				}
				fmt.Printf("%s %s\n", style.Render(label+":"), msg.Text)
			}
			return nil
		},
	}
}

func historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the conversation history",
		Long: `Delete the persisted conversation. The next advisor session starts
fresh with the welcome message.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			if err := client.ClearHistory(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Conversation history cleared"))
			return nil
		},
	}
}
