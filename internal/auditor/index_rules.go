package auditor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/parser"

	"github.com/pingcap/tidb/parser/ast"
)

// UnknownColumnRule rejects references to columns the table does not have
type UnknownColumnRule struct{}

func (r *UnknownColumnRule) Name() string { return "unknown_column" }

func (r *UnknownColumnRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue

	tableName, table := targetTable(node, schema)
	if tableName == "" {
		return nil, nil
	}
	if table == nil {
		issues = append(issues, model.Issue{
			Type:       "UNKNOWN_TABLE",
			Level:      model.RiskLevelFatal,
			Message:    fmt.Sprintf("Table '%s' is not part of the schema.", tableName),
			Suggestion: "Check the --table option and the loaded DDL.",
			Segment:    *seg,
		})
		return issues, nil
	}

	for _, col := range parser.ExtractColumnNames(node) {
		if _, ok := table.Column(col); ok {
			continue
		}
		issues = append(issues, model.Issue{
			Type:       "UNKNOWN_COLUMN",
			Level:      model.RiskLevelFatal,
			Message:    fmt.Sprintf("Column '%s' does not exist in table '%s'.", col, tableName),
			Suggestion: "Add the column to the schema or a synonym for an existing one.",
			Segment:    *seg,
		})
	}
	return issues, nil
}

// IndexMissRule checks if WHERE usage aligns with available indexes
type IndexMissRule struct{}

func (r *IndexMissRule) Name() string { return "index_miss" }

func (r *IndexMissRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	stmt, ok := node.(*ast.SelectStmt)
	if !ok || stmt.Where == nil {
		return nil, nil
	}
	tableName, table := targetTable(node, schema)
	if table == nil || len(table.Indexes) == 0 {
		return nil, nil
	}

	used := make(map[string]bool)
	for _, c := range parser.ExtractColumnNames(stmt.Where) {
		used[strings.ToLower(c)] = true
	}

	// at least one index must have its leftmost column filtered on
	for _, idx := range table.Indexes {
		if len(idx.Columns) > 0 && used[strings.ToLower(idx.Columns[0])] {
			return nil, nil
		}
	}

	var indexStr []string
	for _, idx := range table.Indexes {
		indexStr = append(indexStr, fmt.Sprintf("%s(%s)", idx.Name, strings.Join(idx.Columns, ",")))
	}

	return []model.Issue{{
		Type:  "INDEX_MISS",
		Level: model.RiskLevelSuggestion,
		Message: fmt.Sprintf("Query on '%s' does not hit any index prefix. WHERE uses %v but available indexes are: %s",
			tableName, mapKeys(used), strings.Join(indexStr, " ")),
		Suggestion: "Adding a site, address or asset type filter lets the database use an index.",
		Segment:    *seg,
	}}, nil
}

func mapKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
