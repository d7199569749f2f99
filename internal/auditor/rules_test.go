package auditor

import (
	"testing"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/parser"
	"github.com/assafc-claroty/hack-2025/internal/schema"
)

type ruleCase struct {
	name       string
	sql        string
	wantIssues int
}

func runRuleCases(t *testing.T, rule model.Rule, tests []ruleCase) {
	t.Helper()
	p := parser.NewSQLParser()
	ctx := schema.Default().Context()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := p.Parse(tt.sql)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			seg := &model.SQLSegment{SQL: tt.sql}

			issues, err := rule.Check(seg, stmt, ctx)
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}

			if len(issues) != tt.wantIssues {
				t.Errorf("Check() got %d issues, want %d: %+v", len(issues), tt.wantIssues, issues)
			}
			for _, is := range issues {
				if is.Segment.SQL != tt.sql {
					t.Errorf("issue segment = %q, want %q", is.Segment.SQL, tt.sql)
				}
			}
		})
	}
}

func TestReadOnlyRule_Check(t *testing.T) {
	runRuleCases(t, &ReadOnlyRule{}, []ruleCase{
		{"UPDATE", "UPDATE assets SET approved = TRUE", 1},
		{"DELETE", "DELETE FROM assets WHERE site = '5'", 1},
		{"INSERT", "INSERT INTO assets (id) VALUES ('a')", 1},
		{"SELECT", "SELECT * FROM assets", 0},
	})
}

func TestUnfilteredSelectRule_Check(t *testing.T) {
	runRuleCases(t, &UnfilteredSelectRule{}, []ruleCase{
		{"No filter", "SELECT * FROM assets", 1},
		{"With WHERE", "SELECT * FROM assets WHERE site = '5'", 0},
		{"With LIMIT", "SELECT * FROM assets ORDER BY alerts DESC LIMIT 10", 0},
		{"Count", "SELECT COUNT(*) FROM assets", 0},
	})
}

func TestUnknownColumnRule_Check(t *testing.T) {
	runRuleCases(t, &UnknownColumnRule{}, []ruleCase{
		{"Known column", "SELECT * FROM assets WHERE site = '5'", 0},
		{"Case-insensitive match", "SELECT * FROM assets WHERE Site = '5' AND cve IS NOT NULL", 0},
		{"Unknown column", "SELECT * FROM assets WHERE colour = 'red'", 1},
		{"Unknown in ORDER BY", "SELECT * FROM assets ORDER BY colour ASC", 1},
		{"Unknown table", "SELECT * FROM devices WHERE site = '5'", 1},
	})
}

func TestImplicitConversionRule_Check(t *testing.T) {
	runRuleCases(t, &ImplicitConversionRule{}, []ruleCase{
		{"Number on varchar", "SELECT * FROM assets WHERE site = 54", 1},
		{"Reversed operands", "SELECT * FROM assets WHERE 54 = site", 1},
		{"Quoted number on varchar", "SELECT * FROM assets WHERE site = '54'", 0},
		{"Number on integer", "SELECT * FROM assets WHERE alerts > 5", 0},
		{"Decimal on integer", "SELECT * FROM assets WHERE alerts > 2.5", 0},
		{"Text on integer", "SELECT * FROM assets WHERE alerts = 'many'", 1},
		{"Numeric text on integer", "SELECT * FROM assets WHERE alerts = '5'", 0},
		{"Boolean", "SELECT * FROM assets WHERE approved = TRUE", 0},
		{"LIKE is not a comparison", "SELECT * FROM assets WHERE hostname LIKE '%01%'", 0},
	})
}

func TestIndexMissRule_Check(t *testing.T) {
	runRuleCases(t, &IndexMissRule{}, []ruleCase{
		{"Indexed column", "SELECT * FROM assets WHERE site = '5'", 0},
		{"Primary key", "SELECT * FROM assets WHERE id = 'a1'", 0},
		{"One of several conditions indexed", "SELECT * FROM assets WHERE alerts > 5 AND asset_type LIKE 'PLC%'", 0},
		{"No indexed column", "SELECT * FROM assets WHERE alerts > 5", 1},
		{"No WHERE", "SELECT * FROM assets", 0},
	})
}

func TestNegativeQueryRule_Check(t *testing.T) {
	runRuleCases(t, &NegativeQueryRule{}, []ruleCase{
		{"Not equal", "SELECT * FROM assets WHERE site != '54'", 1},
		{"Angle not equal", "SELECT * FROM assets WHERE site <> '54'", 1},
		{"NOT IN", "SELECT * FROM assets WHERE site NOT IN ('1', '2')", 1},
		{"Leading wildcard", "SELECT * FROM assets WHERE hostname LIKE '%srv%'", 1},
		{"Prefix match", "SELECT * FROM assets WHERE ipv4 LIKE '10.89%'", 0},
		{"Equality", "SELECT * FROM assets WHERE site = '1'", 0},
	})
}

func TestInjectionRule_Check(t *testing.T) {
	runRuleCases(t, &InjectionRule{}, []ruleCase{
		{"Plain value", "SELECT * FROM assets WHERE name = 'server01'", 0},
		{"Apostrophe in a name", "SELECT * FROM assets WHERE vendor = 'O''Brien'", 0},
		{"Numbers are not checked", "SELECT * FROM assets WHERE site = 54", 0},
		{"Quote injection", "SELECT * FROM assets WHERE name = ''' OR ''1''=''1'", 1},
		{"Drop table", "SELECT * FROM assets WHERE name = '''; DROP TABLE users--'", 1},
		{"Inside a LIKE pattern", "SELECT * FROM assets WHERE hostname LIKE '%'' OR 1=1--%'", 1},
	})
}

func TestHasFatal(t *testing.T) {
	if HasFatal(nil) {
		t.Error("HasFatal(nil) = true")
	}
	if HasFatal([]model.Issue{{Level: model.RiskLevelWarning}, {Level: model.RiskLevelSuggestion}}) {
		t.Error("HasFatal() = true for non-fatal issues")
	}
	if !HasFatal([]model.Issue{{Level: model.RiskLevelWarning}, {Level: model.RiskLevelFatal}}) {
		t.Error("HasFatal() = false with a fatal issue")
	}
}
