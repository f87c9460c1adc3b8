package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cardwiz/cardwiz/internal/cli"
	"github.com/cardwiz/cardwiz/internal/model"
	"github.com/cardwiz/cardwiz/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import validated transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.

Imported transactions feed the advisor's spending context and the
missed-savings analysis. Re-importing the same file is safe; each
transaction has a stable identity derived from the bank's own IDs.

Examples:
  # Import a single file
  cardwiz import-ofx ~/Downloads/hdfc_jan_2026.qfx

  # Import all QFX files in a directory
  cardwiz import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().BoolP("verbose", "v", false, "Show each imported transaction")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("Importing OFX files...",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	var all []model.Validation
	seen := make(map[int64]bool)
	parser := ofx.NewParser()

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		validations, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		added := 0
		for _, v := range validations {
			if seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			all = append(all, v)
			added++
			if verbose {
				fmt.Printf("  %s  %-32s %-10s %s %.2f\n",
					v.Date.Format("2006-01-02"), v.Merchant, v.Category, v.Currency, v.Amount)
			}
		}

		slog.Info("Parsed file",
			"file", filepath.Base(filePath),
			"transactions", len(validations),
			"new", added)
	}

	if len(all) == 0 {
		fmt.Println(cli.WarningStyle.Render("No spend transactions found in the given files."))
		return nil
	}

	if dryRun {
		fmt.Println(cli.InfoStyle.Render(
			fmt.Sprintf("Dry run: would import %d transactions.", len(all))))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveValidations(ctx, all); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	total, err := store.ValidationCount(ctx)
	if err != nil {
		total = len(all)
	}

	fmt.Println(cli.SuccessStyle.Render(
		fmt.Sprintf("✓ Imported %d transactions (%d total in cache)", len(all), total)))
	return nil
}
