// Package schema describes the assets table the translator targets: columns,
// their kinds, the words that refer to them and the multi-value column sets.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/parser"

	"gopkg.in/yaml.v3"
)

// DefaultTable is the table every query targets unless overridden.
const DefaultTable = "assets"

// ErrUnknownColumn is returned when the synonym table names a column the DDL lacks.
var ErrUnknownColumn = errors.New("unknown column")

//go:embed assets.sql
var defaultDDL []byte

//go:embed synonyms.yaml
var defaultSynonyms []byte

// Kind is the coarse value class of a column.
type Kind string

const (
	KindBoolean   Kind = "boolean"
	KindNumeric   Kind = "numeric"
	KindString    Kind = "string"
	KindTimestamp Kind = "timestamp"
)

type Column struct {
	Name string
	Type string
	Kind Kind
}

// Synonym maps one lowercase word to a column.
type Synonym struct {
	Word   string
	Column string
}

// Schema is immutable once loaded and safe for concurrent reads.
type Schema struct {
	table      string
	source     string
	columns    map[string]Column
	order      []string
	synonyms   []Synonym
	words      map[string][]string
	multiValue map[string]struct{}
	textList   map[string]struct{}
	ctx        *model.SchemaCtx
}

type synonymFile struct {
	Synonyms   map[string][]string `yaml:"synonyms"`
	MultiValue []string            `yaml:"multi_value"`
	TextList   []string            `yaml:"text_list"`
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the embedded assets schema, loaded once.
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := Load(defaultDDL, defaultSynonyms, DefaultTable)
		if err != nil {
			panic(fmt.Sprintf("embedded schema is invalid: %v", err))
		}
		defaultSchema = s
	})
	return defaultSchema
}

// LoadFiles reads a DDL file and a synonym file. Empty paths fall back to the embedded data.
func LoadFiles(ddlPath, synonymsPath, table string) (*Schema, error) {
	ddl, syn := defaultDDL, defaultSynonyms
	var err error
	if ddlPath != "" {
		if ddl, err = os.ReadFile(ddlPath); err != nil {
			return nil, fmt.Errorf("failed to read schema ddl: %w", err)
		}
	}
	if synonymsPath != "" {
		if syn, err = os.ReadFile(synonymsPath); err != nil {
			return nil, fmt.Errorf("failed to read synonyms: %w", err)
		}
	}
	return Load(ddl, syn, table)
}

// Load parses the DDL for table and attaches the synonym table.
func Load(ddl, synonyms []byte, table string) (*Schema, error) {
	if table == "" {
		table = DefaultTable
	}
	p := parser.NewSQLParser()
	ctx, err := p.ParseSchema(ddl)
	if err != nil {
		return nil, err
	}
	t, ok := ctx.Tables[table]
	if !ok {
		return nil, fmt.Errorf("table %q not found in schema ddl", table)
	}
	orders, err := p.ColumnOrder(ddl)
	if err != nil {
		return nil, err
	}

	var sf synonymFile
	if err := yaml.Unmarshal(synonyms, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms: %w", err)
	}

	s := &Schema{
		table:      table,
		source:     table,
		columns:    make(map[string]Column, len(t.Columns)),
		order:      orders[table],
		words:      make(map[string][]string),
		multiValue: make(map[string]struct{}),
		textList:   make(map[string]struct{}),
		ctx:        &model.SchemaCtx{Tables: map[string]*model.Table{table: t}},
	}
	for name, c := range t.Columns {
		s.columns[name] = Column{Name: name, Type: c.Type, Kind: kindOf(c.Type)}
	}

	for _, name := range s.order {
		words, ok := sf.Synonyms[name]
		if !ok {
			continue
		}
		for _, w := range words {
			s.addSynonym(strings.ToLower(w), name)
		}
	}
	for name := range sf.Synonyms {
		if _, ok := s.columns[name]; !ok {
			return nil, fmt.Errorf("%w: synonyms reference %q", ErrUnknownColumn, name)
		}
	}
	for _, name := range sf.MultiValue {
		if _, ok := s.columns[name]; !ok {
			return nil, fmt.Errorf("%w: multi_value references %q", ErrUnknownColumn, name)
		}
		s.multiValue[name] = struct{}{}
		s.textList[name] = struct{}{}
	}
	for _, name := range sf.TextList {
		if _, ok := s.columns[name]; !ok {
			return nil, fmt.Errorf("%w: text_list references %q", ErrUnknownColumn, name)
		}
		s.textList[name] = struct{}{}
	}
	return s, nil
}

func (s *Schema) addSynonym(word, column string) {
	for _, c := range s.words[word] {
		if c == column {
			return
		}
	}
	s.words[word] = append(s.words[word], column)
	s.synonyms = append(s.synonyms, Synonym{Word: word, Column: column})
}

func kindOf(sqlType string) Kind {
	t := strings.ToLower(sqlType)
	switch {
	case strings.Contains(t, "bool"), strings.HasPrefix(t, "tinyint(1)"):
		return KindBoolean
	case strings.Contains(t, "int"), strings.Contains(t, "decimal"),
		strings.Contains(t, "float"), strings.Contains(t, "double"):
		return KindNumeric
	case strings.Contains(t, "timestamp"), strings.Contains(t, "date"), strings.Contains(t, "time"):
		return KindTimestamp
	default:
		return KindString
	}
}

// WithTable returns a copy of the schema that renders queries against another table name.
func (s *Schema) WithTable(name string) *Schema {
	if name == "" || name == s.table {
		return s
	}
	cp := *s
	cp.table = name
	cp.ctx = &model.SchemaCtx{Tables: map[string]*model.Table{name: s.ctx.Tables[s.source]}}
	return &cp
}

// Table is the name queries are rendered against.
func (s *Schema) Table() string { return s.table }

// Columns lists column names in declaration order.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.order...)
}

func (s *Schema) HasColumn(name string) bool {
	_, ok := s.columns[name]
	return ok
}

func (s *Schema) Column(name string) (Column, bool) {
	c, ok := s.columns[name]
	return c, ok
}

// KindOf returns the column kind, or empty for unknown columns.
func (s *Schema) KindOf(name string) Kind {
	return s.columns[name].Kind
}

func (s *Schema) IsBoolean(name string) bool {
	return s.KindOf(name) == KindBoolean
}

// BooleanColumns lists boolean columns in declaration order.
func (s *Schema) BooleanColumns() []string {
	var out []string
	for _, name := range s.order {
		if s.IsBoolean(name) {
			out = append(out, name)
		}
	}
	return out
}

func (s *Schema) IsMultiValue(name string) bool {
	_, ok := s.multiValue[name]
	return ok
}

// IsTextList reports list-like text columns, a superset of the multi-value columns.
func (s *Schema) IsTextList(name string) bool {
	_, ok := s.textList[name]
	return ok
}

// Synonyms returns every (word, column) pair in column declaration order.
func (s *Schema) Synonyms() []Synonym {
	return append([]Synonym(nil), s.synonyms...)
}

// ColumnsFor returns the columns a lowercase word refers to.
func (s *Schema) ColumnsFor(word string) []string {
	return s.words[word]
}

// IsSynonym reports whether the lowercase word names any column.
func (s *Schema) IsSynonym(word string) bool {
	return len(s.words[word]) > 0
}

// Context exposes the table definition for SQL auditing.
func (s *Schema) Context() *model.SchemaCtx {
	return s.ctx
}
