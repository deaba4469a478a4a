package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/contractcheck/internal/core"
)

var flagFiles []string

var validateCmd = &cobra.Command{
	Use:   "validate --file ACME_orders_SPRINT5.xlsx[,...]",
	Short: "Validate one or more contract files",
	Long: `Validate contract files from the contract directory.

Files are given by name, comma separated; each is looked up in
<CONTRACT_DIR>/<ENTITY>/ where ENTITY is the file name prefix.
Exits 1 when any contract has issues.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringSliceVar(&flagFiles, "file", nil, "contract file names, comma separated")
	validateCmd.MarkFlagRequired("file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Workers.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Workers.Timeout)
		defer cancel()
	}

	results := a.checker.CheckFiles(ctx, flagFiles, cfg.Workers.MaxConcurrent)

	for i, res := range results {
		if res.Err != nil && !core.IsFatal(res.Err) {
			continue
		}
		out, err := a.publisher.Publish(ctx, res.Report)
		if err != nil {
			results[i].Err = err
			continue
		}
		slog.Debug("contract published", "file", res.File, "issues", out.IssuesPath, "report", out.HTMLPath)
	}

	if printSummary(cmd.OutOrStdout(), results) {
		return errIssuesFound
	}
	return nil
}

// printSummary writes one line per contract and reports whether any
// contract had issues or failed.
func printSummary(w io.Writer, results []core.FileResult) bool {
	bad := false
	for _, res := range results {
		switch {
		case res.Err != nil && !core.IsFatal(res.Err):
			bad = true
			fmt.Fprintf(w, "%s %s: %s\n", color.RedString("✗"), res.File, core.FormatUserError(res.Err))
		case res.Report.Fatal:
			bad = true
			fmt.Fprintf(w, "%s %s: stopped, %s\n", color.RedString("✗"), res.File, core.FormatUserError(res.Err))
		case res.Report.HasIssues():
			bad = true
			fmt.Fprintf(w, "%s %s: %d issue(s) in %d dataset(s)\n",
				color.YellowString("⚠"), res.File, res.Report.IssueCount(), len(res.Report.Datasets))
		default:
			fmt.Fprintf(w, "%s %s: no issues\n", color.GreenString("✓"), res.File)
		}
	}
	return bad
}
