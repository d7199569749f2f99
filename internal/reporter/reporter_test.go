package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

func init() {
	color.NoColor = true
}

func sample() *model.Translation {
	return &model.Translation{
		Question: "Show assets with more than 5 alerts",
		SQL:      "SELECT * FROM assets WHERE alerts > 5",
		Query: model.SQLQuery{
			Table:   "assets",
			Select:  []string{"*"},
			Where:   []model.WhereCondition{{Column: "alerts", Operator: ">", Value: int64(5)}},
			OrderBy: []model.OrderBy{},
		},
		Intent:   model.Intent{Type: model.IntentSelect, Confidence: 1},
		Entities: model.NewEntities(),
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	r, err := New(&buf, Options{Format: FormatSQL})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleReporter{}, r)

	r, err = New(&buf, Options{Format: FormatBoth})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleReporter{}, r)

	r, err = New(&buf, Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.IsType(t, &JSONReporter{}, r)

	r, err = New(&buf, Options{Format: FormatSQL, Details: true})
	require.NoError(t, err)
	assert.IsType(t, &JSONReporter{}, r)

	_, err = New(&buf, Options{Format: "xml"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestConsoleReporter_SQL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(&buf, FormatSQL, false).ReportTranslation(sample()))
	assert.Equal(t, "SELECT * FROM assets WHERE alerts > 5\n", buf.String())
}

func TestConsoleReporter_Both(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(&buf, FormatBoth, false).ReportTranslation(sample()))
	assert.Equal(t,
		"SQL: SELECT * FROM assets WHERE alerts > 5\n"+
			`JSON: {"table":"assets","select":["*"],"where":[{"column":"alerts","operator":">","value":5}],"order_by":[],"limit":null}`+"\n",
		buf.String())

	buf.Reset()
	require.NoError(t, NewConsoleReporter(&buf, FormatBoth, true).ReportTranslation(sample()))
	assert.Contains(t, buf.String(), "SQL:\nSELECT * FROM assets WHERE alerts > 5\n\nJSON:\n{\n  \"table\": \"assets\",")
}

func TestConsoleReporter_BatchEntry(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, FormatSQL, false)

	res := sample()
	res.Location = model.Location{FilePath: "q.txt", Line: 3}
	require.NoError(t, r.ReportTranslation(res))
	assert.Equal(t, "q.txt:3: Show assets with more than 5 alerts\nSELECT * FROM assets WHERE alerts > 5\n", buf.String())

	buf.Reset()
	failed := &model.Translation{Question: "???", Location: model.Location{FilePath: "q.txt", Line: 4}, Err: errors.New("no parse")}
	require.NoError(t, r.ReportTranslation(failed))
	assert.Equal(t, "q.txt:4: ???\n✘ no parse\n", buf.String())
}

func TestConsoleReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, FormatSQL, false)

	require.NoError(t, r.Report(nil))
	assert.Contains(t, buf.String(), "No SQL issues found")

	buf.Reset()
	issues := []model.Issue{{
		Type:       "NEGATIVE_QUERY",
		Level:      model.RiskLevelWarning,
		Message:    "Avoid using != (Not Equal)",
		Suggestion: "Negative comparison often prevents index usage.",
		Segment: model.SQLSegment{
			SQL:      "SELECT * FROM assets WHERE site != 54",
			Question: "Show assets not in site 54",
			Location: model.Location{FilePath: "q.txt", Line: 7},
		},
	}}
	require.NoError(t, r.Report(issues))
	out := buf.String()
	assert.Contains(t, out, "q.txt:7: [WARNING] Avoid using != (Not Equal)\n")
	assert.Contains(t, out, "\tQuestion: Show assets not in site 54\n")
	assert.Contains(t, out, "\tSQL: SELECT * FROM assets WHERE site != 54\n")
	assert.Contains(t, out, "found 1 issues.")
}

func TestJSONReporter_Query(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf, false, false).ReportTranslation(sample()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "assets", got["table"])
	assert.Nil(t, got["limit"])
	assert.Contains(t, buf.String(), `"operator":">"`)
}

func TestJSONReporter_Details(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf, true, true).ReportTranslation(sample()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "SELECT * FROM assets WHERE alerts > 5", got["sql"])
	assert.Equal(t, "select", got["intent"].(map[string]any)["type"])
	assert.Contains(t, got, "entities")
	assert.NotContains(t, got, "location")
}

func TestJSONReporter_Failure(t *testing.T) {
	var buf bytes.Buffer
	res := &model.Translation{Question: "???", Location: model.Location{FilePath: "q.txt", Line: 2}, Err: errors.New("no parse")}
	require.NoError(t, NewJSONReporter(&buf, false, false).ReportTranslation(res))
	assert.JSONEq(t, `{"question":"???","location":"q.txt:2","error":"no parse"}`, buf.String())
}

func TestJSONReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	issues := []model.Issue{{
		Type:    "SQL_INJECTION",
		Level:   model.RiskLevelFatal,
		Message: "String literal matches an SQL injection pattern",
		Segment: model.SQLSegment{SQL: "SELECT 1"},
	}}
	require.NoError(t, NewJSONReporter(&buf, false, false).Report(issues))
	assert.JSONEq(t,
		`[{"location":"<input>","sql":"SELECT 1","type":"SQL_INJECTION","level":"FATAL","message":"String literal matches an SQL injection pattern","suggestion":""}]`,
		buf.String())
}
