package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/assafc-claroty/hack-2025/internal/auditor"
	"github.com/assafc-claroty/hack-2025/internal/config"
	"github.com/assafc-claroty/hack-2025/internal/logging"
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/parser"
	"github.com/assafc-claroty/hack-2025/internal/reporter"
	"github.com/assafc-claroty/hack-2025/internal/schema"
	"github.com/assafc-claroty/hack-2025/internal/translator"
)

var (
	configPath string
	fixtures   string
	engineURL  string
	modelName  string
	tableName  string
	logLevel   string
	reportFmt  string
	sqlOnly    bool
	pretty     bool
	details    bool
	fromStdin  bool
	audit      bool
)

var rootCmd = &cobra.Command{
	Use:   "nl2sql [question]",
	Short: "Translate natural language questions about assets into SQL",
	Long: `nl2sql turns plain English questions about the assets inventory into
a single read-only SELECT statement, or its structured JSON form.`,
	Example: `  # Output JSON (default)
  nl2sql "Show me all assets in site 54"

  # Output SQL only
  nl2sql --sql "Find approved assets"

  # Output both SQL and JSON
  nl2sql --format both --pretty "List assets in site 100"

  # Full translation details
  nl2sql --details "How many assets are there?"

  # Read from stdin
  echo "Show me all assets" | nl2sql --stdin`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTranslate,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	pf.StringVar(&fixtures, "fixtures", "", "Pre-parsed documents to use instead of the linguistic engine")
	pf.StringVar(&engineURL, "engine-url", "", "Base URL of the linguistic engine")
	pf.StringVar(&modelName, "model", nlp.DefaultModel, "Language model the engine should use")
	pf.StringVar(&tableName, "table", schema.DefaultTable, "Table name queries are rendered against")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVarP(&reportFmt, "format", "f", reporter.FormatJSON, "Output format: sql, json or both")
	pf.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	pf.BoolVar(&audit, "audit", false, "Audit generated SQL and report issues")
	pf.BoolVar(&fromStdin, "stdin", false, "Read the question from stdin")

	rootCmd.Flags().BoolVar(&sqlOnly, "sql", false, "Output SQL only (shorthand for --format sql)")
	rootCmd.Flags().BoolVar(&details, "details", false, "Output the full translation including intent and entities")

	rootCmd.AddCommand(explainCmd, treeCmd, batchCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	translator *translator.Translator
}

// loadConfig reads the configuration file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.Load(configPath, flags.Changed("config"))
	if err != nil {
		return nil, err
	}

	if flags.Changed("fixtures") {
		cfg.Engine.Fixtures = fixtures
	}
	if flags.Changed("engine-url") {
		cfg.Engine.URL = engineURL
	}
	if flags.Changed("model") {
		cfg.Engine.Model = modelName
	}
	if flags.Changed("table") {
		cfg.Schema.Table = tableName
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("format") {
		cfg.Output.Format = reportFmt
	}
	if sqlOnly {
		cfg.Output.Format = reporter.FormatSQL
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = pretty
	}
	if flags.Changed("audit") {
		cfg.Output.Audit = audit
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	s, err := loadSchema(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	engine, err := nlp.Open(cfg.EngineOptions(), logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("engine ready", zap.String("model", engine.Model()), zap.String("table", s.Table()))

	return &app{cfg: cfg, logger: logger, translator: translator.New(engine, s, logger)}, nil
}

// loadSchema reads a custom DDL when configured; otherwise the embedded assets
// schema is rendered under the configured table name.
func loadSchema(cfg *config.Config) (*schema.Schema, error) {
	if cfg.Schema.DDL != "" {
		return schema.LoadFiles(cfg.Schema.DDL, cfg.Schema.Synonyms, cfg.Schema.Table)
	}
	s, err := schema.LoadFiles("", cfg.Schema.Synonyms, schema.DefaultTable)
	if err != nil {
		return nil, err
	}
	return s.WithTable(cfg.Schema.Table), nil
}

func (a *app) auditor() *auditor.Auditor {
	aud := auditor.NewDefault(a.translator.Schema().Context(), parser.NewSQLParser(), a.logger)
	a.logger.Debug("auditor ready", zap.Strings("rules", aud.Rules()))
	return aud
}

// question returns the positional argument or stdin, trimmed.
func question(cmd *cobra.Command, args []string) (string, error) {
	var q string
	switch {
	case fromStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		q = string(data)
	case len(args) == 1:
		q = args[0]
	default:
		_ = cmd.Help()
		return "", errors.New("no question given")
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return "", translator.ErrEmptyQuery
	}
	return q, nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	q, err := question(cmd, args)
	if err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	rpt, err := reporter.New(cmd.OutOrStdout(), reporter.Options{
		Format:  a.cfg.Output.Format,
		Pretty:  a.cfg.Output.Pretty,
		Details: details,
	})
	if err != nil {
		return err
	}

	res, err := a.translator.TranslateWithDetails(context.Background(), q)
	if err != nil {
		return fmt.Errorf("failed to translate query: %w", err)
	}

	if a.cfg.Output.Audit {
		issues, err := a.auditor().Audit([]model.SQLSegment{{SQL: res.SQL, Question: q}})
		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}
		res.Issues = issues
	}

	if err := rpt.ReportTranslation(res); err != nil {
		return fmt.Errorf("reporting failed: %w", err)
	}
	if auditor.HasFatal(res.Issues) {
		return errors.New("generated SQL has fatal issues")
	}
	return nil
}
