// Package recognizer tags the spans of a parsed question that name columns,
// operators, connectors, intents, quantifiers, domain concepts and values.
package recognizer

import (
	"sort"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/extractor"
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/schema"
)

// Recognizer is read-only after construction and may be shared between goroutines.
type Recognizer struct {
	schema *schema.Schema
	chain  *extractor.Chain
}

func New(s *schema.Schema) *Recognizer {
	return &Recognizer{schema: s, chain: extractor.DefaultChain()}
}

// Recognize fills fresh entity buckets for doc. The document is never modified.
func (r *Recognizer) Recognize(doc *nlp.Doc) *model.Entities {
	ctx := extractor.NewContext(doc, r.schema)

	r.columns(ctx)
	operators(ctx)
	booleans(ctx)
	logic(ctx)
	intents(ctx)
	quantifiers(ctx)
	domain(ctx)

	r.chain.Run(ctx)
	textListValues(ctx)

	sortEntities(ctx.Entities)
	return ctx.Entities
}

// columns tags synonyms. Two adjacent tokens whose underscore join is a
// synonym ("mac address") form one mention.
func (r *Recognizer) columns(ctx *extractor.Context) {
	toks := ctx.Doc.Tokens
	covered := make(map[int]bool)
	for i := range toks {
		if i+1 < len(toks) {
			joined := toks[i].Lower + "_" + toks[i+1].Lower
			if cols := r.schema.ColumnsFor(joined); len(cols) > 0 {
				for _, c := range cols {
					ctx.AddColumn(c, toks[i].Text+" "+toks[i+1].Text, i, i+2)
				}
				covered[i+1] = true
			}
		}
		if covered[i] {
			continue
		}
		for _, c := range r.schema.ColumnsFor(toks[i].Lower) {
			ctx.AddColumn(c, toks[i].Text, i, i+1)
		}
	}
}

func spanText(doc *nlp.Doc, s span) string {
	parts := make([]string, 0, s.end-s.start)
	for i := s.start; i < s.end; i++ {
		parts = append(parts, doc.Tokens[i].Text)
	}
	return strings.Join(parts, " ")
}

func operators(ctx *extractor.Context) {
	for _, p := range operatorPatterns {
		for _, s := range find(ctx.Doc, p.phrases) {
			ctx.Entities.Operators = append(ctx.Entities.Operators, model.OperatorEntity{
				Text: spanText(ctx.Doc, s), Kind: p.kind, Start: s.start, End: s.end,
			})
		}
	}
}

func booleans(ctx *extractor.Context) {
	for _, group := range []struct {
		value   bool
		phrases []phrase
	}{{true, trueWords}, {false, falseWords}} {
		for _, s := range find(ctx.Doc, group.phrases) {
			ctx.AddValue(model.ValueEntity{
				Text: spanText(ctx.Doc, s), Value: group.value, Type: model.ValueBoolean,
				Start: s.start, End: s.end,
			})
		}
	}
}

func logic(ctx *extractor.Context) {
	for _, p := range logicPatterns {
		for _, s := range find(ctx.Doc, p.phrases) {
			ctx.Entities.Logic = append(ctx.Entities.Logic, model.LogicEntity{
				Text: spanText(ctx.Doc, s), Kind: p.kind, Start: s.start, End: s.end,
			})
		}
	}
}

func intents(ctx *extractor.Context) {
	for _, p := range intentPatterns {
		for _, s := range find(ctx.Doc, p.phrases) {
			ctx.Entities.Intents = append(ctx.Entities.Intents, model.IntentEntity{
				Text: spanText(ctx.Doc, s), Kind: p.kind, Start: s.start, End: s.end,
			})
		}
	}
}

func quantifiers(ctx *extractor.Context) {
	for _, p := range quantifierPatterns {
		for _, s := range find(ctx.Doc, p.phrases) {
			ctx.Entities.Quantifiers = append(ctx.Entities.Quantifiers, model.QuantifierEntity{
				Text: spanText(ctx.Doc, s), Kind: p.kind, Start: s.start, End: s.end,
			})
		}
	}
}

func domain(ctx *extractor.Context) {
	doc := ctx.Doc
	add := func(kind model.DomainKind, tok *nlp.Token, value string) {
		ctx.Entities.Domain = append(ctx.Entities.Domain, model.DomainEntity{
			Text: tok.Text, Kind: kind, Value: value, Start: tok.I, End: tok.I + 1,
		})
	}

	for i := range doc.Tokens {
		tok := &doc.Tokens[i]
		lower := tok.Lower

		if extractor.IsKnownVendor(lower) {
			add(model.DomainVendor, tok, tok.Text)
		}
		if device, ok := deviceTypes[lower]; ok {
			add(model.DomainDevice, tok, device)
		}
		if _, ok := riskLevels[lower]; ok && nearRiskWord(doc, i) {
			add(model.DomainRisk, tok, lower)
		}
		if _, ok := timeWords[lower]; ok {
			add(model.DomainTime, tok, lower)
		}
		if _, ok := vulnWords[lower]; ok {
			add(model.DomainVuln, tok, lower)
		}
		if _, ok := exclusionWords[lower]; ok {
			add(model.DomainExclusion, tok, lower)
		}
	}
}

func nearRiskWord(doc *nlp.Doc, i int) bool {
	for k := i - riskWindow; k <= i+riskWindow; k++ {
		if k == i {
			continue
		}
		if t := doc.At(k); t != nil && (t.Lower == "risk" || t.Lemma == "risk") {
			return true
		}
	}
	return false
}

// textListValues takes the noun right after a list-like column mention as its
// value, so "active query maintenance" yields "maintenance".
func textListValues(ctx *extractor.Context) {
	doc := ctx.Doc
	for _, col := range ctx.Entities.Columns {
		if !ctx.Schema.IsTextList(col.Column) {
			continue
		}
		next := doc.At(col.End)
		if next == nil || (next.POS != "NOUN" && next.POS != "PROPN") {
			continue
		}
		if next.IsStop || extractor.IsValueStopWord(next.Lower) || ctx.Schema.IsSynonym(next.Lower) {
			continue
		}
		if _, claimed := ctx.Claimed[next.I]; claimed {
			continue
		}
		ctx.AddValue(model.ValueEntity{
			Text: next.Text, Value: next.Text, Type: model.ValueString,
			Start: next.I, End: next.I + 1,
		})
	}
}

func sortEntities(e *model.Entities) {
	sort.SliceStable(e.Columns, func(a, b int) bool {
		if e.Columns[a].Start != e.Columns[b].Start {
			return e.Columns[a].Start < e.Columns[b].Start
		}
		return e.Columns[a].Column < e.Columns[b].Column
	})
	sort.SliceStable(e.Values, func(a, b int) bool { return e.Values[a].Start < e.Values[b].Start })
	// longer operator spans first, so "is not" precedes "is"
	sort.SliceStable(e.Operators, func(a, b int) bool {
		if e.Operators[a].Start != e.Operators[b].Start {
			return e.Operators[a].Start < e.Operators[b].Start
		}
		return e.Operators[a].End > e.Operators[b].End
	})
	sort.SliceStable(e.Logic, func(a, b int) bool { return e.Logic[a].Start < e.Logic[b].Start })
	sort.SliceStable(e.Intents, func(a, b int) bool { return e.Intents[a].Start < e.Intents[b].Start })
	sort.SliceStable(e.Quantifiers, func(a, b int) bool { return e.Quantifiers[a].Start < e.Quantifiers[b].Start })
	sort.SliceStable(e.Domain, func(a, b int) bool { return e.Domain[a].Start < e.Domain[b].Start })
}
