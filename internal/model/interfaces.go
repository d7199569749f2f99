package model

import (
	"github.com/pingcap/tidb/parser/ast"
)

// Extractor finds the questions stored in a file
type Extractor interface {
	// Extract parses the given file content and returns one segment per question
	Extract(filePath string, content []byte) ([]SQLSegment, error)
}

// Rule represents a single audit logic unit applied to generated SQL
type Rule interface {
	// Name returns the unique identifier of the rule
	Name() string
	// Check examines the SQL segment and returns any issues found
	// It receives the SQL segment, the parsed AST, and the Schema context
	Check(segment *SQLSegment, node ast.StmtNode, schema *SchemaCtx) ([]Issue, error)
}

// Reporter defines how to output results
type Reporter interface {
	// ReportTranslation writes one translated question in the reporter's format.
	ReportTranslation(result *Translation) error
	// Report writes audit findings.
	Report(issues []Issue) error
}
