// Package auditor checks generated SQL against a set of rules before it is
// handed to the caller.
package auditor

import (
	"fmt"

	"github.com/pingcap/tidb/parser/ast"
	"go.uber.org/zap"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/parser"
)

type Auditor struct {
	rules  []model.Rule
	schema *model.SchemaCtx
	parser *parser.SQLParser
	logger *zap.Logger
}

func NewAuditor(schema *model.SchemaCtx, p *parser.SQLParser, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		rules:  make([]model.Rule, 0),
		schema: schema,
		parser: p,
		logger: logger.Named("auditor"),
	}
}

// NewDefault returns an auditor with every built-in rule registered.
func NewDefault(schema *model.SchemaCtx, p *parser.SQLParser, logger *zap.Logger) *Auditor {
	a := NewAuditor(schema, p, logger)
	for _, r := range DefaultRules() {
		a.Register(r)
	}
	return a
}

// DefaultRules lists the built-in rules in reporting order.
func DefaultRules() []model.Rule {
	return []model.Rule{
		&ReadOnlyRule{},
		&InjectionRule{},
		&UnknownColumnRule{},
		&ImplicitConversionRule{},
		&IndexMissRule{},
		&NegativeQueryRule{},
		&UnfilteredSelectRule{},
	}
}

func (a *Auditor) Register(rule model.Rule) {
	a.rules = append(a.rules, rule)
}

// Rules returns the names of the registered rules.
func (a *Auditor) Rules() []string {
	names := make([]string, 0, len(a.rules))
	for _, r := range a.rules {
		names = append(names, r.Name())
	}
	return names
}

func (a *Auditor) Audit(segments []model.SQLSegment) ([]model.Issue, error) {
	var allIssues []model.Issue

	for _, seg := range segments {
		stmt, err := a.parser.Parse(seg.SQL)
		if err != nil {
			// rules need an AST; an unparsable statement is reported on its own
			allIssues = append(allIssues, model.Issue{
				Type:       "PARSE_ERROR",
				Level:      model.RiskLevelFatal,
				Message:    fmt.Sprintf("Generated SQL does not parse: %v", err),
				Suggestion: "Rephrase the question; the translation produced an invalid statement.",
				Segment:    seg,
			})
			continue
		}

		for _, rule := range a.rules {
			issues, err := rule.Check(&seg, stmt, a.schema)
			if err != nil {
				a.logger.Warn("rule failed", zap.String("rule", rule.Name()), zap.Error(err))
				continue
			}
			if len(issues) > 0 {
				allIssues = append(allIssues, issues...)
			}
		}
	}

	return allIssues, nil
}

// HasFatal reports whether any issue blocks the statement.
func HasFatal(issues []model.Issue) bool {
	for _, is := range issues {
		if is.Level == model.RiskLevelFatal {
			return true
		}
	}
	return false
}

// targetTable resolves the statement's table in the schema. It returns nil for
// statements without a single known table.
func targetTable(node ast.StmtNode, schema *model.SchemaCtx) (string, *model.Table) {
	if schema == nil {
		return "", nil
	}
	tables := parser.ExtractTableNames(node)
	if len(tables) != 1 {
		return "", nil
	}
	return tables[0], schema.Tables[tables[0]]
}
