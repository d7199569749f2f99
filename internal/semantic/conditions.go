package semantic

import (
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/schema"
)

// sibling roles that may carry a column's value
var valueRoles = map[string]struct{}{"dobj": {}, "pobj": {}, "attr": {}, "nummod": {}}

func (x *extraction) columnValueConditions() {
	for _, col := range x.ents.Columns {
		if x.doc.At(col.Start) == nil {
			continue
		}
		if _, ok := x.ordered[col.Start]; ok {
			continue
		}

		if related := x.dependencyMatches(col); len(related) > 0 {
			for _, v := range related {
				x.bind(col, v, StrategyDependency)
			}
			continue
		}
		for _, v := range x.proximityMatches(col) {
			x.bind(col, v, StrategyProximity)
		}
	}
}

// dependencyMatches unions four tree strategies: children and grandchildren,
// other children of every ancestor, value-role siblings, and objects of
// prepositions attached to the column.
func (x *extraction) dependencyMatches(col model.ColumnEntity) []*model.ValueEntity {
	doc := x.doc
	c := col.Start

	var found []*model.ValueEntity
	seen := make(map[int]bool)
	add := func(i int) {
		if i == c || seen[i] || x.isUsed(i) {
			return
		}
		v, ok := x.ents.ValueAt(i)
		if !ok || !compatible(x.schema, col.Column, v.Type) {
			return
		}
		seen[i] = true
		found = append(found, v)
	}

	for _, child := range doc.Children(c) {
		add(child.I)
		for _, grandchild := range doc.Children(child.I) {
			add(grandchild.I)
		}
	}

	for _, anc := range doc.Ancestors(c) {
		for _, sib := range doc.Children(anc.I) {
			add(sib.I)
		}
	}

	if tok := doc.At(c); !tok.IsRoot() {
		for _, sib := range doc.Children(tok.Head) {
			if _, ok := valueRoles[sib.Dep]; ok {
				add(sib.I)
			}
		}
	}

	for _, child := range doc.Children(c) {
		if child.Dep != "prep" {
			continue
		}
		for _, obj := range doc.Children(child.I) {
			add(obj.I)
		}
	}

	return found
}

// proximityMatches returns unclaimed values within the window that no other
// column sits strictly closer to.
func (x *extraction) proximityMatches(col model.ColumnEntity) []*model.ValueEntity {
	var found []*model.ValueEntity
	for k := range x.ents.Values {
		v := &x.ents.Values[k]
		if x.isUsed(v.Start) || x.doc.At(v.Start) == nil || !compatible(x.schema, col.Column, v.Type) {
			continue
		}
		d := abs(v.Start - col.Start)
		if d > MaxProximityDistance || x.closerColumn(col.Column, v.Start, d) {
			continue
		}
		found = append(found, v)
	}
	return found
}

func (x *extraction) closerColumn(column string, at, dist int) bool {
	for _, other := range x.ents.Columns {
		if other.Column != column && abs(other.Start-at) < dist {
			return true
		}
	}
	return false
}

func (x *extraction) bind(col model.ColumnEntity, v *model.ValueEntity, strategy string) {
	if x.isUsed(v.Start) {
		return
	}
	x.used[v.Start] = struct{}{}

	op, match := inferOperator(x.doc, x.ents, col.Start, v.Start)
	x.conds = append(x.conds, x.condition(col.Column, op, match, v))
	x.bindings = append(x.bindings, model.Binding{
		Column:      col.Column,
		ColumnIndex: col.Start,
		ValueIndex:  v.Start,
		Strategy:    strategy,
	})
}

// condition normalizes operator and match mode for the column and value kinds.
func (x *extraction) condition(column, op string, match model.MatchMode, v *model.ValueEntity) model.WhereCondition {
	cond := model.WhereCondition{Column: column, Operator: op, Value: v.Value, ValueType: v.Type, Match: match}

	if b, ok := v.Value.(bool); ok && x.schema.IsBoolean(column) {
		if op == model.OpNotEquals {
			b = !b
		}
		cond.Operator, cond.Value, cond.Match = model.OpEquals, b, model.MatchContains
		return cond
	}

	if v.Type == model.ValueIPPrefix && (op == model.OpEquals || op == model.OpLike) {
		cond.Operator, cond.Match = model.OpLike, model.MatchPrefix
		return cond
	}

	if _, isString := v.Value.(string); isString && op == model.OpEquals && x.schema.IsMultiValue(column) {
		cond.Operator = model.OpLike
	}
	return cond
}

func (x *extraction) booleanConditions() {
	for _, col := range x.ents.Columns {
		if _, ok := x.ordered[col.Start]; ok {
			continue
		}
		if x.doc.At(col.Start) == nil || !x.schema.IsBoolean(col.Column) || x.hasCondition(col.Column) {
			continue
		}
		x.conds = append(x.conds, model.WhereCondition{
			Column:    col.Column,
			Operator:  model.OpEquals,
			Value:     !isNegated(x.doc, col.Start),
			ValueType: model.ValueBoolean,
		})
	}
}

// domainConditions adds vendor, device, risk and bare-vulnerability filters.
func (x *extraction) domainConditions() {
	vulnDone := false
	for _, d := range x.ents.Domain {
		switch d.Kind {
		case model.DomainVendor:
			if x.isUsed(d.Start) || !x.schema.HasColumn("vendor") {
				continue
			}
			x.used[d.Start] = struct{}{}
			x.conds = append(x.conds, model.WhereCondition{
				Column: "vendor", Operator: model.OpLike, Value: d.Value, ValueType: model.ValueVendor,
			})
		case model.DomainDevice:
			if !x.schema.HasColumn("asset_type") {
				continue
			}
			x.conds = append(x.conds, model.WhereCondition{
				Column: "asset_type", Operator: model.OpLike, Value: d.Value, ValueType: model.ValueString,
			})
		case model.DomainRisk:
			if !x.schema.HasColumn("risk") {
				continue
			}
			x.conds = append(x.conds, model.WhereCondition{
				Column: "risk", Operator: model.OpEquals, Value: d.Value, ValueType: model.ValueString,
			})
		case model.DomainVuln:
			if vulnDone || x.ents.HasValueType(model.ValueCVE) || !x.schema.HasColumn("CVE") {
				continue
			}
			vulnDone = true
			x.conds = append(x.conds, model.WhereCondition{Column: "CVE", Operator: model.OpIsNotNull})
		}
	}
}

// compatible reports whether a value of type t may fill the column.
func compatible(s *schema.Schema, column string, t model.ValueType) bool {
	kind := s.KindOf(column)
	switch t {
	case model.ValueBoolean:
		return kind == schema.KindBoolean
	case model.ValueCVE:
		return column == "CVE"
	case model.ValueVendor:
		return column == "vendor" || column == "model" || column == "os"
	case model.ValueIPAddress, model.ValueIPPrefix:
		return kind == schema.KindString
	case model.ValueInteger, model.ValueFloat:
		return kind != schema.KindBoolean && kind != ""
	default:
		return kind == schema.KindString || kind == schema.KindTimestamp
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
