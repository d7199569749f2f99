// Package reporter writes translations and audit findings for humans (coloured
// console) or machines (JSON).
package reporter

import (
	"errors"
	"fmt"
	"io"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

// Output formats
const (
	FormatSQL  = "sql"
	FormatJSON = "json"
	FormatBoth = "both"
)

// ErrUnknownFormat is returned for an output format other than sql, json or both.
var ErrUnknownFormat = errors.New("unknown output format")

// Options selects what a reporter writes.
type Options struct {
	Format string
	// Pretty indents JSON.
	Pretty bool
	// Details writes the full translation (intent and entities) as JSON.
	Details bool
}

func ValidFormat(format string) bool {
	switch format {
	case FormatSQL, FormatJSON, FormatBoth:
		return true
	}
	return false
}

// New picks the reporter for opts. Details always produce JSON.
func New(out io.Writer, opts Options) (model.Reporter, error) {
	if !ValidFormat(opts.Format) {
		return nil, fmt.Errorf("%w: %q (want sql, json or both)", ErrUnknownFormat, opts.Format)
	}
	if opts.Details || opts.Format == FormatJSON {
		return NewJSONReporter(out, opts.Pretty, opts.Details), nil
	}
	return NewConsoleReporter(out, opts.Format, opts.Pretty), nil
}
