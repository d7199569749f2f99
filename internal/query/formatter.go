package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
)

var (
	quoteEscaper = strings.NewReplacer("'", "''")
	likeEscaper  = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
)

// Formatter renders SQL text. Identifiers come from the schema vocabulary and
// are written as-is; every value goes through a typed literal.
type Formatter struct {
	multiValue func(column string) bool
}

// NewFormatter takes the predicate naming multi-value columns, whose string
// equality is always rendered as a substring LIKE.
func NewFormatter(multiValue func(column string) bool) *Formatter {
	if multiValue == nil {
		multiValue = func(string) bool { return false }
	}
	return &Formatter{multiValue: multiValue}
}

func (f *Formatter) Format(q model.SQLQuery) string {
	var sb strings.Builder

	sel := q.Select
	if len(sel) == 0 {
		sel = []string{"*"}
	}
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(sel, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(q.Table)

	if len(q.Where) > 0 {
		sb.WriteString(" WHERE ")
		for i, c := range q.Where {
			if i > 0 {
				logic := q.Where[i-1].Logic
				if logic == "" {
					logic = model.LogicAnd
				}
				sb.WriteString(" " + logic + " ")
			}
			sb.WriteString(f.Condition(c))
		}
	}

	if len(q.OrderBy) > 0 {
		parts := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			dir := strings.ToUpper(o.Direction)
			if dir != model.DirectionDesc {
				dir = model.DirectionAsc
			}
			parts = append(parts, o.Column+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(*q.Limit))
	}
	return sb.String()
}

// Condition renders one predicate.
func (f *Formatter) Condition(c model.WhereCondition) string {
	op := c.Operator
	if op == "" {
		op = model.OpEquals
	}
	if op == model.OpIsNull || op == model.OpIsNotNull {
		return c.Column + " " + op
	}

	s, isString := c.Value.(string)
	if isString && op == model.OpEquals && f.multiValue(c.Column) {
		op = model.OpLike
	}

	switch {
	case op == model.OpIn:
		return c.Column + " IN (" + f.list(c.Value) + ")"
	case op == model.OpLike && isString:
		return c.Column + " LIKE " + likePattern(s, matchMode(c, s))
	default:
		return c.Column + " " + op + " " + Literal(c.Value)
	}
}

func (f *Formatter) list(v any) string {
	items, ok := v.([]any)
	if !ok {
		return Literal(v)
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, Literal(it))
	}
	return strings.Join(parts, ", ")
}

// matchMode trusts the condition's hint, falling back to the value's shape
// when the condition carries no type (e.g. decoded from JSON).
func matchMode(c model.WhereCondition, s string) model.MatchMode {
	if c.ValueType == model.ValueIPPrefix {
		return model.MatchPrefix
	}
	if c.ValueType == "" && c.Match == model.MatchContains && isIPPrefix(s) {
		return model.MatchPrefix
	}
	return c.Match
}

func isIPPrefix(s string) bool {
	parts := strings.Split(strings.TrimSuffix(s, "."), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func likePattern(s string, mode model.MatchMode) string {
	escaped := quoteEscaper.Replace(likeEscaper.Replace(s))
	switch mode {
	case model.MatchPrefix:
		return "'" + escaped + "%'"
	case model.MatchSuffix:
		return "'%" + escaped + "'"
	default:
		return "'%" + escaped + "%'"
	}
}

// Literal renders a value as a SQL literal.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return "'" + quoteEscaper.Replace(x) + "'"
	default:
		return "'" + quoteEscaper.Replace(fmt.Sprint(x)) + "'"
	}
}
