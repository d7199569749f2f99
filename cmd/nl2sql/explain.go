package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/assafc-claroty/hack-2025/internal/translator"
)

var explainJSON bool

var explainCmd = &cobra.Command{
	Use:   "explain [question]",
	Short: "Show how a question is parsed and translated",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := question(cmd, args)
		if err != nil {
			return err
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync() //nolint:errcheck

		ex, err := a.translator.Explain(context.Background(), q)
		if err != nil {
			return fmt.Errorf("failed to explain query: %w", err)
		}
		if explainJSON {
			return writeJSON(cmd.OutOrStdout(), ex, a.cfg.Output.Pretty)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), translator.FormatExplanation(ex))
		return err
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [question]",
	Short: "Print the dependency tree of a question as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := question(cmd, args)
		if err != nil {
			return err
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.logger.Sync() //nolint:errcheck

		tree, err := a.translator.DependencyTree(context.Background(), q)
		if err != nil {
			return fmt.Errorf("failed to parse query: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), tree, a.cfg.Output.Pretty)
	},
}

func init() {
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "Print the explanation as JSON")
}

func writeJSON(out io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
