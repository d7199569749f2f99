// Package extractor finds typed literal values (CVE ids, addresses, numbers,
// names) in a parsed question.
package extractor

import (
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/schema"
)

// ValueExtractor recognizes one kind of value in a single token.
type ValueExtractor interface {
	// Name returns the unique identifier of the extractor
	Name() string
	// Extract records a value for tok and reports whether it matched
	Extract(tok *nlp.Token, ctx *Context) bool
}

// Context is the per-question state shared by the recognizer and the extractors.
type Context struct {
	Doc      *nlp.Doc
	Schema   *schema.Schema
	Entities *model.Entities
	// Claimed holds token positions already consumed by multi-token values.
	Claimed map[int]struct{}
}

func NewContext(doc *nlp.Doc, s *schema.Schema) *Context {
	return &Context{
		Doc:      doc,
		Schema:   s,
		Entities: model.NewEntities(),
		Claimed:  make(map[int]struct{}),
	}
}

// AddColumn records a column mention. Unknown columns and repeated
// (column, start) pairs are dropped.
func (c *Context) AddColumn(column, text string, start, end int) bool {
	if !c.Schema.HasColumn(column) || c.Entities.HasColumn(column, start) {
		return false
	}
	c.Entities.Columns = append(c.Entities.Columns, model.ColumnEntity{
		Text: text, Column: column, Start: start, End: end,
	})
	return true
}

// AddValue records a value unless another value already starts at the same position.
func (c *Context) AddValue(v model.ValueEntity) bool {
	if _, exists := c.Entities.ValueAt(v.Start); exists {
		return false
	}
	c.Entities.Values = append(c.Entities.Values, v)
	return true
}

func (c *Context) isClaimed(i int) bool {
	_, ok := c.Claimed[i]
	return ok
}

// Chain runs extractors in priority order; the first match wins per token.
type Chain struct {
	extractors []ValueExtractor
}

func NewChain(extractors ...ValueExtractor) *Chain {
	return &Chain{extractors: extractors}
}

// DefaultChain returns CVE, IP, MAC, numeric, quoted, vendor/proper-noun and identifier extractors.
func DefaultChain() *Chain {
	return NewChain(
		&CVEExtractor{},
		&IPExtractor{},
		&MACExtractor{},
		&NumericExtractor{},
		&QuotedExtractor{},
		&ProperNounExtractor{},
		&IdentifierExtractor{},
	)
}

// Register appends an extractor with the lowest priority.
func (ch *Chain) Register(e ValueExtractor) {
	ch.extractors = append(ch.extractors, e)
}

// Names lists the extractors in priority order.
func (ch *Chain) Names() []string {
	names := make([]string, 0, len(ch.extractors))
	for _, e := range ch.extractors {
		names = append(names, e.Name())
	}
	return names
}

// Run claims multi-token CVE spans, then offers every remaining token to the chain.
func (ch *Chain) Run(ctx *Context) {
	ClaimCVESpans(ctx)

	for i := range ctx.Doc.Tokens {
		if ctx.isClaimed(i) {
			continue
		}
		if _, has := ctx.Entities.ValueAt(i); has {
			continue
		}
		tok := &ctx.Doc.Tokens[i]
		for _, e := range ch.extractors {
			if e.Extract(tok, ctx) {
				break
			}
		}
	}
}
