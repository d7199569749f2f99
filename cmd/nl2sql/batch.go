package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/assafc-claroty/hack-2025/internal/auditor"
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/reporter"
	"github.com/assafc-claroty/hack-2025/internal/scanner"
)

var (
	srcPath  string
	workers  int
	excludes []string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Translate every question in a directory of question files",
	Long: `batch walks --src for question files (one question per line in .txt and
.nlq files, list items in .md files), translates them on a worker pool and
prints the results ordered by file and line.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&srcPath, "src", "s", ".", "File or directory of questions")
	batchCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of files translated concurrently")
	batchCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", []string{".git", "vendor"}, "Glob patterns to exclude from the walk")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	if cmd.Flags().Changed("workers") {
		a.cfg.Batch.Workers = workers
	}
	if cmd.Flags().Changed("exclude") {
		a.cfg.Batch.Exclude = excludes
	}
	if a.cfg.Batch.Workers < 1 {
		return errors.New("--workers must be at least 1")
	}

	if _, err := os.Stat(srcPath); err != nil {
		return fmt.Errorf("source path does not exist: %s", srcPath)
	}

	rpt, err := reporter.New(cmd.OutOrStdout(), reporter.Options{
		Format: a.cfg.Output.Format,
		Pretty: a.cfg.Output.Pretty,
	})
	if err != nil {
		return err
	}

	var aud scanner.Auditor
	if a.cfg.Output.Audit {
		aud = a.auditor()
	}
	batch := scanner.NewBatch(a.translator, aud, scanner.BatchOptions{
		Workers:    a.cfg.Batch.Workers,
		Extensions: a.cfg.Batch.Extensions,
		Excludes:   a.cfg.Batch.Exclude,
	}, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var issues []model.Issue
	sum, err := batch.Run(ctx, srcPath, func(res *model.Translation) error {
		issues = append(issues, res.Issues...)
		return rpt.ReportTranslation(res)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %d files, %d questions, %d failed, %d issues\n",
		sum.RunID, sum.Files, sum.Questions, sum.Failed, sum.Issues)

	if auditor.HasFatal(issues) {
		return errors.New("generated SQL has fatal issues")
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d questions failed to translate", sum.Failed, sum.Questions)
	}
	return nil
}
