package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/assafc-claroty/hack-2025/internal/logging"
	"github.com/assafc-claroty/hack-2025/internal/model"
)

type ConsoleReporter struct {
	out    io.Writer
	format string
	pretty bool
}

// NewConsoleReporter writes SQL (format sql) or SQL followed by the query JSON (format both).
func NewConsoleReporter(out io.Writer, format string, pretty bool) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	if format == "" {
		format = FormatSQL
	}
	return &ConsoleReporter{out: out, format: format, pretty: pretty}
}

func (r *ConsoleReporter) ReportTranslation(res *model.Translation) error {
	if res.Location.FilePath != "" {
		fmt.Fprintf(r.out, "%s: %s\n", color.New(color.Bold).Sprint(res.Location), res.Question)
	}
	if res.Err != nil {
		fmt.Fprintf(r.out, "%s %v\n", color.RedString("✘"), res.Err)
		return nil
	}

	switch r.format {
	case FormatBoth:
		js, err := encode(res.Query, r.pretty)
		if err != nil {
			return err
		}
		if r.pretty {
			fmt.Fprintf(r.out, "SQL:\n%s\n\nJSON:\n%s\n", res.SQL, js)
		} else {
			fmt.Fprintf(r.out, "SQL: %s\nJSON: %s\n", res.SQL, js)
		}
	default:
		fmt.Fprintln(r.out, color.CyanString(res.SQL))
	}

	if len(res.Issues) > 0 {
		r.printIssues(res.Issues)
	}
	return nil
}

func (r *ConsoleReporter) Report(issues []model.Issue) error {
	if len(issues) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✔ No SQL issues found."))
		return nil
	}

	r.printIssues(issues)

	fmt.Fprintf(r.out, "\n%s found %d issues.\n", color.RedString("✘"), len(issues))
	return nil
}

func (r *ConsoleReporter) printIssues(issues []model.Issue) {
	for _, issue := range issues {
		// Format: file:line: [LEVEL] Message
		fmt.Fprintf(r.out, "%s: [%s] %s\n", issue.Segment.Location, levelColor(issue.Level).Sprint(issue.Level), issue.Message)
		if issue.Segment.Question != "" {
			fmt.Fprintf(r.out, "\tQuestion: %s\n", logging.TruncateString(issue.Segment.Question, 80))
		}
		fmt.Fprintf(r.out, "\tSQL: %s\n", color.CyanString(logging.TruncateString(issue.Segment.SQL, 80)))
		fmt.Fprintf(r.out, "\tSuggestion: %s\n", issue.Suggestion)
		fmt.Fprintln(r.out)
	}
}

func levelColor(level model.RiskLevel) *color.Color {
	switch level {
	case model.RiskLevelFatal:
		return color.New(color.FgRed, color.Bold)
	case model.RiskLevelWarning:
		return color.New(color.FgYellow, color.Bold)
	case model.RiskLevelSuggestion:
		return color.New(color.FgBlue, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}
