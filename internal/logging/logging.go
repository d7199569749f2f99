// Package logging builds the zap logger and keeps questions and SQL short and
// literal-free in log lines.
package logging

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// MaxLogLength is the maximum number of characters of a question or query to log
	MaxLogLength = 100
	// RedactedText replaces string literals in logged SQL
	RedactedText = "?"
)

// single-quoted SQL literal, '' escapes included
var literalPattern = regexp.MustCompile(`'(?:[^']|'')*'`)

// New returns a production (JSON) or development (console) logger at the given level.
func New(level string, development bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	// stdout carries translation output
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// TruncateString truncates a string to maxLen runes and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// SanitizeSQL masks string literals and truncates the statement for logging.
func SanitizeSQL(sql string) string {
	if sql == "" {
		return ""
	}
	return TruncateString(literalPattern.ReplaceAllString(sql, RedactedText), MaxLogLength)
}

// Question truncates a user question for logging.
func Question(q string) zap.Field {
	return zap.String("question", TruncateString(q, MaxLogLength))
}
