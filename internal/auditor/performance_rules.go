package auditor

import (
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"

	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/parser/test_driver"
)

// NegativeQueryRule detects !=, NOT IN, LIKE '%...'
type NegativeQueryRule struct{}

func (r *NegativeQueryRule) Name() string { return "negative_query" }

func (r *NegativeQueryRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue

	v := &negativeVisitor{issues: &issues, seg: seg}
	node.Accept(v)

	return issues, nil
}

type negativeVisitor struct {
	issues *[]model.Issue
	seg    *model.SQLSegment
}

func (v *negativeVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if pattern, ok := in.(*ast.PatternInExpr); ok && pattern.Not {
		v.add("NEGATIVE_QUERY", model.RiskLevelWarning, "Avoid using NOT IN",
			"Negative membership tests scan every row.")
	}

	if binOp, ok := in.(*ast.BinaryOperationExpr); ok && binOp.Op == opcode.NE {
		v.add("NEGATIVE_QUERY", model.RiskLevelWarning, "Avoid using != (Not Equal)",
			"Negative comparison often prevents index usage; also note that NULL values are excluded.")
	}

	if pattern, ok := in.(*ast.PatternLikeOrIlikeExpr); ok {
		if strVal, ok := pattern.Pattern.(*test_driver.ValueExpr); ok {
			if strings.HasPrefix(strVal.GetString(), "%") {
				// substring search is how list-valued columns are matched
				v.add("LEADING_WILDCARD", model.RiskLevelSuggestion, "LIKE query with leading wildcard",
					"Leading wildcards prevent index usage (full table scan); prefer an exact value when you know it.")
			}
		}
	}

	return in, false
}

func (v *negativeVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func (v *negativeVisitor) add(typ string, level model.RiskLevel, msg, suggestion string) {
	*v.issues = append(*v.issues, model.Issue{
		Type:       typ,
		Level:      level,
		Message:    msg,
		Suggestion: suggestion,
		Segment:    *v.seg,
	})
}
