package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/assafc-claroty/hack-2025/internal/model"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

// SQLParser wraps the TiDB parser. The underlying parser is not safe for
// concurrent use, so calls are serialized.
type SQLParser struct {
	mu sync.Mutex
	p  *parser.Parser
}

func NewSQLParser() *SQLParser {
	return &SQLParser{
		p: parser.New(),
	}
}

// Parse converts a single SQL statement into an AST
func (sp *SQLParser) Parse(sql string) (ast.StmtNode, error) {
	sp.mu.Lock()
	stmtNodes, _, err := sp.p.Parse(sql, "", "")
	sp.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(stmtNodes) == 0 {
		return nil, fmt.Errorf("no valid SQL found")
	}
	if len(stmtNodes) > 1 {
		return nil, fmt.Errorf("expected one statement, found %d", len(stmtNodes))
	}
	return stmtNodes[0], nil
}

// Validate checks that sql is a single SELECT statement.
func (sp *SQLParser) Validate(sql string) error {
	stmt, err := sp.Parse(sql)
	if err != nil {
		return fmt.Errorf("generated SQL does not parse: %w", err)
	}
	if _, ok := stmt.(*ast.SelectStmt); !ok {
		return fmt.Errorf("generated SQL is not a SELECT statement")
	}
	return nil
}

// ParseSchema builds a SchemaCtx from CREATE TABLE statements
func (sp *SQLParser) ParseSchema(content []byte) (*model.SchemaCtx, error) {
	schema := &model.SchemaCtx{
		Tables: make(map[string]*model.Table),
	}

	sp.mu.Lock()
	stmts, _, err := sp.p.Parse(string(content), "", "")
	sp.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("schema parse error: %w", err)
	}

	for _, stmt := range stmts {
		if createTable, ok := stmt.(*ast.CreateTableStmt); ok {
			table := parseCreateTable(createTable)
			schema.Tables[table.Name] = table
		}
	}

	return schema, nil
}

// ColumnOrder returns the column names of each CREATE TABLE in declaration order.
func (sp *SQLParser) ColumnOrder(content []byte) (map[string][]string, error) {
	sp.mu.Lock()
	stmts, _, err := sp.p.Parse(string(content), "", "")
	sp.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("schema parse error: %w", err)
	}
	out := make(map[string][]string)
	for _, stmt := range stmts {
		if ct, ok := stmt.(*ast.CreateTableStmt); ok {
			for _, col := range ct.Cols {
				out[ct.Table.Name.O] = append(out[ct.Table.Name.O], col.Name.Name.O)
			}
		}
	}
	return out, nil
}

func parseCreateTable(node *ast.CreateTableStmt) *model.Table {
	t := &model.Table{
		Name:    node.Table.Name.O,
		Columns: make(map[string]*model.Column),
		Indexes: make([]*model.Index, 0),
	}

	for _, col := range node.Cols {
		t.Columns[col.Name.Name.O] = &model.Column{
			Name: col.Name.Name.O,
			Type: strings.ToLower(col.Tp.String()),
		}
	}

	for _, cons := range node.Constraints {
		switch cons.Tp {
		case ast.ConstraintPrimaryKey, ast.ConstraintKey, ast.ConstraintIndex, ast.ConstraintUniq:
			idx := &model.Index{
				Name:    cons.Name,
				Unique:  cons.Tp == ast.ConstraintPrimaryKey || cons.Tp == ast.ConstraintUniq,
				Columns: make([]string, 0),
			}
			if idx.Name == "" && cons.Tp == ast.ConstraintPrimaryKey {
				idx.Name = "PRIMARY"
			}
			for _, keyCol := range cons.Keys {
				idx.Columns = append(idx.Columns, keyCol.Column.Name.O)
			}
			t.Indexes = append(t.Indexes, idx)
		}
	}

	return t
}
