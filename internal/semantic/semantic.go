// Package semantic turns recognized entities into WHERE conditions, ordering
// and a row limit by reasoning over the dependency tree.
package semantic

import (
	"fmt"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/schema"
)

const (
	// MaxProximityDistance is the token window for proximity matching.
	MaxProximityDistance = 5
	// MaxLimitSearchDistance bounds how far a number may sit from "top"/"first"/"limit".
	MaxLimitSearchDistance = 3
)

// Binding strategies
const (
	StrategyDependency = "dependency"
	StrategyProximity  = "proximity"
)

// ParsedQuery is everything the query builder needs besides the intent.
type ParsedQuery struct {
	Conditions []model.WhereCondition
	Select     []string
	OrderBy    []model.OrderBy
	Limit      *int
	Bindings   []model.Binding
}

// Parser is stateless apart from the schema; one Parser serves concurrent callers.
type Parser struct {
	schema *schema.Schema
}

func NewParser(s *schema.Schema) *Parser {
	return &Parser{schema: s}
}

// Parse extracts conditions, ordering and limit. It never fails: anything it
// cannot interpret is left out.
func (p *Parser) Parse(doc *nlp.Doc, ents *model.Entities) *ParsedQuery {
	x := &extraction{
		doc:     doc,
		ents:    ents,
		schema:  p.schema,
		used:    make(map[int]struct{}),
		ordered: make(map[int]struct{}),
	}

	pq := &ParsedQuery{Select: []string{"*"}, OrderBy: []model.OrderBy{}}

	if n, at, ok := findLimit(doc, ents); ok {
		pq.Limit = &n
		x.used[at] = struct{}{}
	}
	pq.OrderBy = x.ordering()

	x.columnValueConditions()
	x.booleanConditions()
	x.domainConditions()

	pq.Conditions = applyLogic(dedupe(x.conds), ents)
	pq.Bindings = x.bindings
	if pq.Bindings == nil {
		pq.Bindings = []model.Binding{}
	}
	return pq
}

// extraction is the per-call state; used holds claimed value positions.
type extraction struct {
	doc      *nlp.Doc
	ents     *model.Entities
	schema   *schema.Schema
	used     map[int]struct{}
	ordered  map[int]struct{}
	conds    []model.WhereCondition
	bindings []model.Binding
}

func (x *extraction) isUsed(i int) bool {
	_, ok := x.used[i]
	return ok
}

func (x *extraction) hasCondition(column string) bool {
	for _, c := range x.conds {
		if c.Column == column {
			return true
		}
	}
	return false
}

func dedupe(conds []model.WhereCondition) []model.WhereCondition {
	out := make([]model.WhereCondition, 0, len(conds))
	seen := make(map[string]struct{}, len(conds))
	for _, c := range conds {
		key := fmt.Sprintf("%s|%s|%v", c.Column, c.Operator, c.Value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// applyLogic sets one connector on every condition: OR when any "or" was
// recognized, AND otherwise. A single condition carries none.
func applyLogic(conds []model.WhereCondition, ents *model.Entities) []model.WhereCondition {
	if len(conds) < 2 {
		return conds
	}
	connector := model.LogicAnd
	for _, l := range ents.Logic {
		if l.Kind == model.LogicKindOr {
			connector = model.LogicOr
			break
		}
	}
	for i := range conds {
		conds[i].Logic = connector
	}
	return conds
}
