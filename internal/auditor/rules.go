package auditor

import (
	"fmt"

	"github.com/assafc-claroty/hack-2025/internal/model"

	"github.com/pingcap/tidb/parser/ast"
)

// ReadOnlyRule rejects any statement that is not a plain SELECT
type ReadOnlyRule struct{}

func (r *ReadOnlyRule) Name() string { return "read_only" }

func (r *ReadOnlyRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue

	var kind string
	switch node.(type) {
	case *ast.SelectStmt:
		return nil, nil
	case *ast.UpdateStmt:
		kind = "UPDATE"
	case *ast.DeleteStmt:
		kind = "DELETE"
	case *ast.InsertStmt:
		kind = "INSERT"
	default:
		kind = "non-SELECT"
	}

	issues = append(issues, model.Issue{
		Type:       "NOT_READ_ONLY",
		Level:      model.RiskLevelFatal,
		Message:    fmt.Sprintf("%s statement generated; only SELECT is allowed against the inventory", kind),
		Suggestion: "Ask a question about assets instead of requesting a change.",
		Segment:    *seg,
	})
	return issues, nil
}

// UnfilteredSelectRule flags a SELECT that reads the whole table
type UnfilteredSelectRule struct{}

func (r *UnfilteredSelectRule) Name() string { return "unfiltered_select" }

func (r *UnfilteredSelectRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	stmt, ok := node.(*ast.SelectStmt)
	if !ok || stmt.Where != nil || stmt.Limit != nil || isAggregate(stmt) {
		return nil, nil
	}

	return []model.Issue{{
		Type:       "UNFILTERED_SELECT",
		Level:      model.RiskLevelSuggestion,
		Message:    "Query returns every asset (no WHERE clause and no LIMIT)",
		Suggestion: "Name a site, vendor, address or other attribute to narrow the result.",
		Segment:    *seg,
	}}, nil
}

// isAggregate reports whether every selected field is an aggregate, e.g. COUNT(*).
func isAggregate(stmt *ast.SelectStmt) bool {
	if stmt.Fields == nil || len(stmt.Fields.Fields) == 0 {
		return false
	}
	for _, f := range stmt.Fields.Fields {
		if _, ok := f.Expr.(*ast.AggregateFuncExpr); !ok {
			return false
		}
	}
	return true
}
