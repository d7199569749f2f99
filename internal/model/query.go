package model

// Comparison operators a WhereCondition may carry
const (
	OpEquals    = "="
	OpNotEquals = "!="
	OpGreater   = ">"
	OpLess      = "<"
	OpLike      = "LIKE"
	OpIn        = "IN"
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
)

// Logic connectors
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// Sort directions
const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

// MatchMode shapes a LIKE pattern.
type MatchMode int

const (
	MatchContains MatchMode = iota
	MatchPrefix
	MatchSuffix
)

// WhereCondition is one predicate of the WHERE clause. ValueType and Match are
// rendering hints and are not part of the structured JSON output.
type WhereCondition struct {
	Column    string    `json:"column"`
	Operator  string    `json:"operator"`
	Value     any       `json:"value"`
	Logic     string    `json:"logic,omitempty"`
	ValueType ValueType `json:"-"`
	Match     MatchMode `json:"-"`
}

type OrderBy struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// SQLQuery is the structured form of a translated question.
type SQLQuery struct {
	Table   string           `json:"table"`
	Select  []string         `json:"select"`
	Where   []WhereCondition `json:"where"`
	OrderBy []OrderBy        `json:"order_by"`
	Limit   *int             `json:"limit"`
}

// IntentType is the classified purpose of a question
type IntentType string

const (
	IntentSelect IntentType = "select"
	IntentCount  IntentType = "count"
	IntentExists IntentType = "exists"
)

// Intent is the classifier output. SelectColumns and Limit, when set, pin the query envelope.
type Intent struct {
	Type          IntentType `json:"type"`
	Confidence    float64    `json:"confidence"`
	Aggregation   string     `json:"aggregation,omitempty"`
	SelectColumns []string   `json:"select_columns,omitempty"`
	Limit         *int       `json:"limit,omitempty"`
}

// Binding records which column mention consumed which value token.
type Binding struct {
	Column      string `json:"column"`
	ColumnIndex int    `json:"column_index"`
	ValueIndex  int    `json:"value_index"`
	Strategy    string `json:"strategy"`
}

// Translation is the full result of translating one question.
type Translation struct {
	Question string    `json:"question"`
	SQL      string    `json:"sql"`
	Query    SQLQuery  `json:"query"`
	Intent   Intent    `json:"intent"`
	Entities *Entities `json:"entities,omitempty"`
	Issues   []Issue   `json:"issues,omitempty"`
	Location Location  `json:"-"`
	Err      error     `json:"-"`
}
