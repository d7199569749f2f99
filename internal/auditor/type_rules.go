package auditor

import (
	"fmt"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"

	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/test_driver"
)

// ImplicitConversionRule detects type mismatches between columns and values
type ImplicitConversionRule struct{}

func (r *ImplicitConversionRule) Name() string { return "implicit_conversion" }

func (r *ImplicitConversionRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue

	_, table := targetTable(node, schema)
	if table == nil {
		return nil, nil
	}

	v := &typeVisitor{
		issues: &issues,
		seg:    seg,
		table:  table,
	}
	node.Accept(v)

	return issues, nil
}

type typeVisitor struct {
	issues *[]model.Issue
	seg    *model.SQLSegment
	table  *model.Table
}

func (v *typeVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if binOp, ok := in.(*ast.BinaryOperationExpr); ok {
		// Col = Value or Value = Col
		lCol, lOk := binOp.L.(*ast.ColumnNameExpr)
		rVal, rOk := binOp.R.(*test_driver.ValueExpr)

		if lOk && rOk {
			v.checkMismatch(lCol.Name.Name.O, rVal)
		} else {
			lVal, lOk := binOp.L.(*test_driver.ValueExpr)
			rCol, rOk := binOp.R.(*ast.ColumnNameExpr)
			if lOk && rOk {
				v.checkMismatch(rCol.Name.Name.O, lVal)
			}
		}
	}
	return in, false
}

func (v *typeVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func (v *typeVisitor) checkMismatch(colName string, valExpr *test_driver.ValueExpr) {
	colDef, ok := v.table.Column(colName)
	if !ok {
		return
	}

	colType := strings.ToUpper(colDef.Type)
	isStringCol := strings.Contains(colType, "CHAR") || strings.Contains(colType, "TEXT")
	isNumericCol := strings.Contains(colType, "INT") || strings.Contains(colType, "DECIMAL") ||
		strings.Contains(colType, "FLOAT") || strings.Contains(colType, "DOUBLE")

	switch val := valExpr.GetValue().(type) {
	case int64, uint64, float64, *test_driver.MyDecimal:
		if isStringCol {
			v.add(colName, "String column '%s' compared with a number.",
				"Quote the number to avoid implicit conversion and index invalidation (e.g., '54' instead of 54).")
		}
	case string:
		if isNumericCol && !numeric(val) {
			v.add(colName, "Numeric column '%s' compared with non-numeric text.",
				"The comparison converts the text to 0; compare against a number.")
		}
	}
}

func (v *typeVisitor) add(colName, format, suggestion string) {
	*v.issues = append(*v.issues, model.Issue{
		Type:       "IMPLICIT_CONVERSION",
		Level:      model.RiskLevelWarning,
		Message:    fmt.Sprintf(format, colName),
		Suggestion: suggestion,
		Segment:    *v.seg,
	})
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '-' && i == 0 {
			continue
		}
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
