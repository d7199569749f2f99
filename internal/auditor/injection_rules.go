package auditor

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/assafc-claroty/hack-2025/internal/model"

	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/test_driver"
)

// InjectionRule runs every string literal through libinjection. Literals come
// from user text, so an injection pattern means the question tried to smuggle SQL.
type InjectionRule struct{}

func (r *InjectionRule) Name() string { return "sql_injection" }

func (r *InjectionRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue
	v := &literalVisitor{}
	node.Accept(v)

	for _, lit := range v.literals {
		isSQLi, fingerprint := libinjection.IsSQLi(lit)
		if !isSQLi {
			continue
		}
		issues = append(issues, model.Issue{
			Type:       "SQL_INJECTION",
			Level:      model.RiskLevelFatal,
			Message:    fmt.Sprintf("String literal matches an SQL injection pattern (fingerprint %s)", string(fingerprint)),
			Suggestion: "Do not execute this statement; rephrase the question without SQL fragments.",
			Segment:    *seg,
		})
	}
	return issues, nil
}

type literalVisitor struct {
	literals []string
}

func (v *literalVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if val, ok := in.(*test_driver.ValueExpr); ok {
		if s, ok := val.GetValue().(string); ok {
			// LIKE wildcards are ours, not the user's
			s = strings.Trim(s, "%")
			if s != "" {
				v.literals = append(v.literals, s)
			}
		}
	}
	return in, false
}

func (v *literalVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
