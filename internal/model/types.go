package model

import (
	"fmt"
	"strings"
)

// Location represents where a question came from (batch file and line)
type Location struct {
	FilePath string
	Line     int
}

func (l Location) String() string {
	if l.FilePath == "" {
		return "<input>"
	}
	return fmt.Sprintf("%s:%d", l.FilePath, l.Line)
}

// SQLSegment is a generated SQL statement together with the question it answers
type SQLSegment struct {
	SQL      string
	Question string
	Location Location
}

// RiskLevel defines the severity of an audit finding
type RiskLevel string

const (
	RiskLevelFatal      RiskLevel = "FATAL"
	RiskLevelWarning    RiskLevel = "WARNING"
	RiskLevelSuggestion RiskLevel = "SUGGESTION"
)

// Issue represents a potential problem found by the auditor
type Issue struct {
	Type       string     `json:"type"` // e.g., "UNKNOWN_COLUMN", "IMPLICIT_CONVERSION"
	Level      RiskLevel  `json:"level"`
	Message    string     `json:"message"`
	Suggestion string     `json:"suggestion"`
	Segment    SQLSegment `json:"-"`
}

// SchemaCtx represents the loaded database schema context
type SchemaCtx struct {
	Tables map[string]*Table
}

type Table struct {
	Name    string
	Columns map[string]*Column
	Indexes []*Index
}

// Column looks a column up case-insensitively, the way MySQL resolves identifiers.
func (t *Table) Column(name string) (*Column, bool) {
	if c, ok := t.Columns[name]; ok {
		return c, true
	}
	for k, c := range t.Columns {
		if strings.EqualFold(k, name) {
			return c, true
		}
	}
	return nil, false
}

type Column struct {
	Name string
	Type string // Simplified type representation
}

type Index struct {
	Name    string
	Columns []string // Ordered list of column names in the index
	Unique  bool
}
