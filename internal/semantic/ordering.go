package semantic

import (
	"math"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
)

var (
	sortWords  = set("sort", "order", "sorted", "ordered")
	descWords  = set("desc", "descending", "reverse")
	limitWords = set("limit", "top", "first")
)

// how far past the sort column a direction word may appear
const directionWindow = 3

// ordering reads "sorted by <column> [descending]". Columns used for ordering
// are recorded so they do not also become conditions.
func (x *extraction) ordering() []model.OrderBy {
	doc := x.doc
	out := []model.OrderBy{}
	seen := make(map[string]bool)

	for i := range doc.Tokens {
		if !hasLower(sortWords, &doc.Tokens[i]) {
			continue
		}
		for _, by := range doc.Children(i) {
			if by.Lower != "by" {
				continue
			}
			col, ok := x.firstColumnAfter(by.I)
			if !ok {
				continue
			}
			x.ordered[col.Start] = struct{}{}
			if seen[col.Column] {
				break
			}
			seen[col.Column] = true

			dir := model.DirectionAsc
			for k := by.I; k < col.End+directionWindow && k < doc.Len(); k++ {
				if hasLower(descWords, &doc.Tokens[k]) {
					dir = model.DirectionDesc
				}
			}
			out = append(out, model.OrderBy{Column: col.Column, Direction: dir})
			break
		}
	}
	return out
}

func (x *extraction) firstColumnAfter(i int) (model.ColumnEntity, bool) {
	for _, c := range x.ents.Columns {
		if c.Start > i {
			return c, true
		}
	}
	return model.ColumnEntity{}, false
}

// findLimit returns the first positive integer within reach of a limit word and its position.
func findLimit(doc *nlp.Doc, ents *model.Entities) (int, int, bool) {
	for i := range doc.Tokens {
		if !hasLower(limitWords, &doc.Tokens[i]) {
			continue
		}
		for _, v := range ents.Values {
			if v.Type != model.ValueInteger || abs(v.Start-i) > MaxLimitSearchDistance {
				continue
			}
			if n, ok := v.Value.(int64); ok && n > 0 && n <= math.MaxInt {
				return int(n), v.Start, true
			}
		}
	}
	return 0, 0, false
}
