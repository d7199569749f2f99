package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

// JSONReporter writes one JSON document per translation.
type JSONReporter struct {
	out     io.Writer
	pretty  bool
	details bool
}

func NewJSONReporter(out io.Writer, pretty, details bool) *JSONReporter {
	if out == nil {
		out = os.Stdout
	}
	return &JSONReporter{out: out, pretty: pretty, details: details}
}

type failure struct {
	Question string `json:"question"`
	Location string `json:"location,omitempty"`
	Error    string `json:"error"`
}

type issueView struct {
	Location string `json:"location"`
	Question string `json:"question,omitempty"`
	SQL      string `json:"sql"`
	model.Issue
}

type locatedTranslation struct {
	Location string `json:"location"`
	*model.Translation
}

func (r *JSONReporter) ReportTranslation(res *model.Translation) error {
	var v any
	switch {
	case res.Err != nil:
		f := failure{Question: res.Question, Error: res.Err.Error()}
		if res.Location.FilePath != "" {
			f.Location = res.Location.String()
		}
		v = f
	case r.details && res.Location.FilePath != "":
		v = locatedTranslation{Location: res.Location.String(), Translation: res}
	case r.details:
		v = res
	default:
		v = res.Query
	}
	return r.write(v)
}

func (r *JSONReporter) Report(issues []model.Issue) error {
	views := make([]issueView, 0, len(issues))
	for _, is := range issues {
		views = append(views, issueView{
			Location: is.Segment.Location.String(),
			Question: is.Segment.Question,
			SQL:      is.Segment.SQL,
			Issue:    is,
		})
	}
	return r.write(views)
}

func (r *JSONReporter) write(v any) error {
	s, err := encode(v, r.pretty)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, s)
	return err
}

// encode marshals without HTML escaping so operators such as < stay readable.
func encode(v any, pretty bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode output: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
