package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/schema"
	"github.com/assafc-claroty/hack-2025/internal/semantic"
)

func intPtr(n int) *int { return &n }

func newFormatter() *Formatter {
	return NewFormatter(schema.Default().IsMultiValue)
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder("assets")

	tests := []struct {
		name   string
		parsed *semantic.ParsedQuery
		intent model.Intent
		want   model.SQLQuery
	}{
		{
			name:   "Nothing parsed",
			parsed: nil,
			intent: model.Intent{Type: model.IntentSelect},
			want:   model.SQLQuery{Table: "assets", Select: []string{"*"}, Where: []model.WhereCondition{}, OrderBy: []model.OrderBy{}},
		},
		{
			name:   "Count pins the select list",
			parsed: &semantic.ParsedQuery{Select: []string{"*"}, Limit: intPtr(10)},
			intent: model.Intent{Type: model.IntentCount, SelectColumns: []string{"COUNT(*)"}},
			want: model.SQLQuery{Table: "assets", Select: []string{"COUNT(*)"}, Where: []model.WhereCondition{},
				OrderBy: []model.OrderBy{}, Limit: intPtr(10)},
		},
		{
			name: "Exists limit wins over parsed limit",
			parsed: &semantic.ParsedQuery{
				Conditions: []model.WhereCondition{{Column: "site", Operator: "=", Value: int64(5)}},
				Limit:      intPtr(10),
			},
			intent: model.Intent{Type: model.IntentExists, Limit: intPtr(1)},
			want: model.SQLQuery{Table: "assets", Select: []string{"*"},
				Where:   []model.WhereCondition{{Column: "site", Operator: "=", Value: int64(5)}},
				OrderBy: []model.OrderBy{}, Limit: intPtr(1)},
		},
		{
			name:   "Negative limit is dropped",
			parsed: &semantic.ParsedQuery{Limit: intPtr(-3)},
			intent: model.Intent{Type: model.IntentSelect},
			want:   model.SQLQuery{Table: "assets", Select: []string{"*"}, Where: []model.WhereCondition{}, OrderBy: []model.OrderBy{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Build(tt.parsed, tt.intent))
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f := newFormatter()

	tests := []struct {
		name  string
		query model.SQLQuery
		want  string
	}{
		{
			name:  "No conditions",
			query: model.SQLQuery{Table: "assets", Select: []string{"*"}},
			want:  "SELECT * FROM assets",
		},
		{
			name: "Count with condition",
			query: model.SQLQuery{Table: "assets", Select: []string{"COUNT(*)"},
				Where: []model.WhereCondition{{Column: "site", Operator: "=", Value: int64(5)}}},
			want: "SELECT COUNT(*) FROM assets WHERE site = 5",
		},
		{
			name: "Or connector with order and limit",
			query: model.SQLQuery{Table: "assets", Select: []string{"*"},
				Where: []model.WhereCondition{
					{Column: "site", Operator: "=", Value: int64(47), Logic: "OR"},
					{Column: "site", Operator: "=", Value: int64(54), Logic: "OR"},
				},
				OrderBy: []model.OrderBy{{Column: "alerts", Direction: "desc"}},
				Limit:   intPtr(3)},
			want: "SELECT * FROM assets WHERE site = 47 OR site = 54 ORDER BY alerts DESC LIMIT 3",
		},
		{
			name: "Booleans and null checks",
			query: model.SQLQuery{Table: "assets", Select: []string{"*"},
				Where: []model.WhereCondition{
					{Column: "approved", Operator: "=", Value: true, Logic: "AND"},
					{Column: "ghost", Operator: "=", Value: false, Logic: "AND"},
					{Column: "CVE", Operator: "IS NOT NULL", Logic: "AND"},
				}},
			want: "SELECT * FROM assets WHERE approved = TRUE AND ghost = FALSE AND CVE IS NOT NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.query))
		})
	}
}

func TestFormatter_Condition(t *testing.T) {
	f := newFormatter()

	tests := []struct {
		name string
		cond model.WhereCondition
		want string
	}{
		{"Quote escaping", model.WhereCondition{Column: "vendor", Operator: "=", Value: "O'Brien"}, "vendor = 'O''Brien'"},
		{"Injection attempt stays a literal", model.WhereCondition{Column: "name", Operator: "=", Value: "x' OR '1'='1"},
			"name = 'x'' OR ''1''=''1'"},
		{"Like wildcards escaped", model.WhereCondition{Column: "hostname", Operator: "LIKE", Value: `50%_off\`},
			`hostname LIKE '%50\%\_off\\%'`},
		{"Multi-value equality becomes like", model.WhereCondition{Column: "CVE", Operator: "=", Value: "CVE-2017-12819"},
			"CVE LIKE '%CVE-2017-12819%'"},
		{"Multi-value number keeps equality", model.WhereCondition{Column: "old_ip", Operator: "=", Value: int64(7)},
			"old_ip = 7"},
		{"Tagged prefix", model.WhereCondition{Column: "ipv4", Operator: "LIKE", Value: "10.89", ValueType: model.ValueIPPrefix},
			"ipv4 LIKE '10.89%'"},
		{"Wildcard prefix keeps its dot", model.WhereCondition{Column: "ipv4", Operator: "LIKE", Value: "10.89.", ValueType: model.ValueIPPrefix},
			"ipv4 LIKE '10.89.%'"},
		{"Untyped dotted prefix", model.WhereCondition{Column: "ipv4", Operator: "LIKE", Value: "10.89."},
			"ipv4 LIKE '10.89.%'"},
		{"Untyped prefix by shape", model.WhereCondition{Column: "ipv4", Operator: "LIKE", Value: "192.168.1"},
			"ipv4 LIKE '192.168.1%'"},
		{"Full address is contained", model.WhereCondition{Column: "ipv4", Operator: "LIKE", Value: "10.1.2.3"},
			"ipv4 LIKE '%10.1.2.3%'"},
		{"Suffix", model.WhereCondition{Column: "hostname", Operator: "LIKE", Value: "corp", Match: model.MatchSuffix,
			ValueType: model.ValueString}, "hostname LIKE '%corp'"},
		{"Float", model.WhereCondition{Column: "alerts", Operator: ">", Value: 2.5}, "alerts > 2.5"},
		{"Decoded JSON number", model.WhereCondition{Column: "site", Operator: "=", Value: float64(54)}, "site = 54"},
		{"In list", model.WhereCondition{Column: "site", Operator: "IN", Value: []any{float64(1), "2"}}, "site IN (1, '2')"},
		{"Is null", model.WhereCondition{Column: "os", Operator: "IS NULL", Value: "ignored"}, "os IS NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Condition(tt.cond))
		})
	}
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "NULL", Literal(nil))
	assert.Equal(t, "42", Literal(42))
	assert.Equal(t, "-7", Literal(int64(-7)))
	assert.Equal(t, "0.1", Literal(0.1))
	assert.Equal(t, "1000000", Literal(1e6))
	assert.Equal(t, "'it''s'", Literal("it's"))
}
