// Package query assembles the structured query and renders it as SQL.
package query

import (
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/semantic"
)

type Builder struct {
	table string
}

func NewBuilder(table string) *Builder {
	return &Builder{table: table}
}

// Build combines the parsed pieces with the intent. The intent's select list
// and limit take precedence; every slice in the result is non-nil.
func (b *Builder) Build(pq *semantic.ParsedQuery, in model.Intent) model.SQLQuery {
	q := model.SQLQuery{
		Table:   b.table,
		Select:  []string{"*"},
		Where:   []model.WhereCondition{},
		OrderBy: []model.OrderBy{},
	}

	switch {
	case len(in.SelectColumns) > 0:
		q.Select = append([]string(nil), in.SelectColumns...)
	case pq != nil && len(pq.Select) > 0:
		q.Select = append([]string(nil), pq.Select...)
	}

	if pq == nil {
		q.Limit = copyLimit(in.Limit)
		return q
	}
	if len(pq.Conditions) > 0 {
		q.Where = append(q.Where, pq.Conditions...)
	}
	if len(pq.OrderBy) > 0 {
		q.OrderBy = append(q.OrderBy, pq.OrderBy...)
	}

	q.Limit = copyLimit(in.Limit)
	if q.Limit == nil {
		q.Limit = copyLimit(pq.Limit)
	}
	return q
}

func copyLimit(l *int) *int {
	if l == nil || *l < 0 {
		return nil
	}
	n := *l
	return &n
}
