package parser

import (
	"github.com/pingcap/tidb/parser/ast"
)

// ExtractTableNames extracts all table names in the FROM clause of a SELECT.
func ExtractTableNames(node ast.StmtNode) []string {
	var tables []string

	if stmt, ok := node.(*ast.SelectStmt); ok && stmt.From != nil {
		extractTableRefs(stmt.From.TableRefs, &tables)
	}

	return tables
}

func extractTableRefs(join *ast.Join, tables *[]string) {
	if join == nil {
		return
	}

	if join.Left != nil {
		extractTableSource(join.Left, tables)
	}
	if join.Right != nil {
		extractTableSource(join.Right, tables)
	}
}

func extractTableSource(r ast.ResultSetNode, tables *[]string) {
	if ts, ok := r.(*ast.TableSource); ok {
		if tn, ok := ts.Source.(*ast.TableName); ok {
			*tables = append(*tables, tn.Name.O)
		}
	} else if join, ok := r.(*ast.Join); ok {
		extractTableRefs(join, tables)
	}
}

// ExtractColumnNames returns every column referenced anywhere in the statement,
// in first-seen order.
func ExtractColumnNames(node ast.Node) []string {
	v := &columnVisitor{seen: make(map[string]bool)}
	node.Accept(v)
	return v.cols
}

type columnVisitor struct {
	seen map[string]bool
	cols []string
}

func (v *columnVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if col, ok := in.(*ast.ColumnName); ok {
		if !v.seen[col.Name.O] {
			v.seen[col.Name.O] = true
			v.cols = append(v.cols, col.Name.O)
		}
	}
	return in, false
}

func (v *columnVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
