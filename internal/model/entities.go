package model

// ValueType classifies the payload of a ValueEntity
type ValueType string

const (
	ValueInteger    ValueType = "integer"
	ValueFloat      ValueType = "float"
	ValueString     ValueType = "string"
	ValueBoolean    ValueType = "boolean"
	ValueCVE        ValueType = "cve"
	ValueIPAddress  ValueType = "ip_address"
	ValueIPPrefix   ValueType = "ip_prefix"
	ValueMACAddress ValueType = "mac_address"
	ValueVendor     ValueType = "vendor"
)

// IsNumeric reports whether the payload is an int64 or float64.
func (t ValueType) IsNumeric() bool {
	return t == ValueInteger || t == ValueFloat
}

// OperatorKind labels an operator keyword span
type OperatorKind string

const (
	OpKindEquals    OperatorKind = "equals"
	OpKindNotEquals OperatorKind = "not_equals"
	OpKindGreater   OperatorKind = "greater"
	OpKindLess      OperatorKind = "less"
	OpKindLike      OperatorKind = "like"
	OpKindIn        OperatorKind = "in"
)

// LogicKind labels a logical connector span
type LogicKind string

const (
	LogicKindAnd LogicKind = "and"
	LogicKindOr  LogicKind = "or"
)

// IntentKind labels an intent keyword span
type IntentKind string

const (
	IntentKindShow   IntentKind = "show"
	IntentKindCount  IntentKind = "count"
	IntentKindExists IntentKind = "exists"
)

// QuantifierKind labels a quantifier span
type QuantifierKind string

const (
	QuantifierAll QuantifierKind = "all"
	QuantifierAny QuantifierKind = "any"
)

// DomainKind labels a domain concept span
type DomainKind string

const (
	DomainVendor    DomainKind = "vendor"
	DomainDevice    DomainKind = "device"
	DomainRisk      DomainKind = "risk"
	DomainTime      DomainKind = "time"
	DomainVuln      DomainKind = "vuln"
	DomainExclusion DomainKind = "exclusion"
)

// ColumnEntity is a mention of a schema column. Start/End are token indexes, End exclusive.
type ColumnEntity struct {
	Text   string `json:"text"`
	Column string `json:"column"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// ValueEntity is a typed literal found in the question
type ValueEntity struct {
	Text  string    `json:"text"`
	Value any       `json:"value"`
	Type  ValueType `json:"type"`
	Start int       `json:"start"`
	End   int       `json:"end"`
}

type OperatorEntity struct {
	Text  string       `json:"text"`
	Kind  OperatorKind `json:"type"`
	Start int          `json:"start"`
	End   int          `json:"end"`
}

type LogicEntity struct {
	Text  string    `json:"text"`
	Kind  LogicKind `json:"type"`
	Start int       `json:"start"`
	End   int       `json:"end"`
}

type IntentEntity struct {
	Text  string     `json:"text"`
	Kind  IntentKind `json:"type"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

type QuantifierEntity struct {
	Text  string         `json:"text"`
	Kind  QuantifierKind `json:"type"`
	Start int            `json:"start"`
	End   int            `json:"end"`
}

// DomainEntity tags vendor, device, risk, time, vulnerability and exclusion words.
// Value carries the canonical form (e.g. "high" for a risk level, "PLC" for a device).
type DomainEntity struct {
	Text  string     `json:"text"`
	Kind  DomainKind `json:"type"`
	Value string     `json:"value"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// Entities holds every bucket produced by recognition for one question.
type Entities struct {
	Columns     []ColumnEntity     `json:"columns"`
	Values      []ValueEntity      `json:"values"`
	Operators   []OperatorEntity   `json:"operators"`
	Logic       []LogicEntity      `json:"logic"`
	Intents     []IntentEntity     `json:"intent"`
	Quantifiers []QuantifierEntity `json:"quantifiers"`
	Domain      []DomainEntity     `json:"domain"`
}

// NewEntities returns empty, non-nil buckets so JSON output always carries arrays.
func NewEntities() *Entities {
	return &Entities{
		Columns:     []ColumnEntity{},
		Values:      []ValueEntity{},
		Operators:   []OperatorEntity{},
		Logic:       []LogicEntity{},
		Intents:     []IntentEntity{},
		Quantifiers: []QuantifierEntity{},
		Domain:      []DomainEntity{},
	}
}

// HasColumn reports whether a column entity already exists at the given position.
func (e *Entities) HasColumn(column string, start int) bool {
	for _, c := range e.Columns {
		if c.Column == column && c.Start == start {
			return true
		}
	}
	return false
}

// ValueAt returns the value entity starting at position i.
func (e *Entities) ValueAt(i int) (*ValueEntity, bool) {
	for k := range e.Values {
		if e.Values[k].Start == i {
			return &e.Values[k], true
		}
	}
	return nil, false
}

// HasValueType reports whether any value of type t was recognized.
func (e *Entities) HasValueType(t ValueType) bool {
	for _, v := range e.Values {
		if v.Type == t {
			return true
		}
	}
	return false
}
