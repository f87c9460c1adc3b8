package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cardwiz/cardwiz/internal/api"
	"github.com/cardwiz/cardwiz/internal/cli"
	"github.com/cardwiz/cardwiz/internal/docs"
	"github.com/cardwiz/cardwiz/internal/model"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for AI analysis",
		Long: `Upload a card statement or terms-and-conditions document.

The backend analyzes the document asynchronously; this command waits up
to three minutes for the result. PDF, JPG, JPEG, PNG, and WEBP files up
to 20 MB are accepted.

Examples:
  cardwiz upload ~/Downloads/statement_jan.pdf --card 3
  cardwiz upload ~/Downloads/infinia_terms.pdf --card 3 --type terms`,
		Args: cobra.ExactArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().Int64("card", 0, "card ID the document belongs to (0 for a wallet-level statement)")
	cmd.Flags().String("type", "statement", "document type (statement, terms)")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	filePath := args[0]
	cardID, _ := cmd.Flags().GetInt64("card")
	typeFlag, _ := cmd.Flags().GetString("type")

	var docType model.DocumentType
	switch typeFlag {
	case "statement":
		docType = model.DocumentStatement
	case "terms":
		docType = model.DocumentCardTerms
	default:
		return fmt.Errorf("unknown document type %q; expected statement or terms", typeFlag)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := docs.ValidateUpload(filepath.Base(filePath), info.Size()); err != nil {
		return err
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	slog.Info("Uploading document", "file", filepath.Base(filePath), "type", docType)
	resp, err := client.AnalyzeDocument(ctx, cardID, filepath.Base(filePath), f, docType)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Document submitted"))
	if resp.AISummary != "" {
		fmt.Println(cli.SubtleStyle.Render(resp.AISummary))
	}
	if resp.DocumentID == "" || resp.DocumentID == "0" {
		return nil
	}

	result := waitForAnalysis(ctx, client, resp.DocumentID)
	switch result.Status {
	case model.JobCompleted:
		fmt.Println(cli.SuccessStyle.Render("✓ " + result.Message))
	case model.JobFailed:
		fmt.Println(cli.ErrorStyle.Render("✗ " + result.Message))
	default:
		fmt.Println(cli.WarningStyle.Render(result.Message))
	}

	return nil
}

// waitForAnalysis polls the analysis job, drawing a progress bar that
// advances once per status check.
func waitForAnalysis(ctx context.Context, client *api.Client, documentID string) docs.Result {
	checks := int(docs.DefaultBudget / docs.DefaultInterval)
	bar := progressbar.NewOptions(checks,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Analyzing document...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	poller := docs.NewPoller(docs.Config{
		Client: client,
		Refresh: func(ctx context.Context) {
			refreshCardCache(ctx, client)
		},
		Sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				_ = bar.Add(1)
				return nil
			}
		},
	})

	result := poller.Poll(ctx, documentID)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	return result
}

// refreshCardCache reloads the card list into the local cache after an
// analysis run changes document status.
func refreshCardCache(ctx context.Context, client *api.Client) {
	cards, err := client.ListCards(ctx)
	if err != nil {
		slog.Debug("Failed to refresh cards after analysis", "error", err)
		return
	}
	store, err := initStorage(ctx)
	if err != nil {
		return
	}
	defer func() { _ = store.Close() }()
	if err := store.ReplaceCards(ctx, cards); err != nil {
		slog.Debug("Failed to update card cache", "error", err)
	}
}
