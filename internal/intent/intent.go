// Package intent decides whether a question asks for rows, a count, or existence.
package intent

import (
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/schema"
)

// Text fragments that point at list-valued fields. Such questions always
// return every matching row.
var multiValueKeywords = []string{
	"cve", "vulnerability", "vulnerabilities", "remediat", "patch", "fix",
	"old_ip", "old ip", "previous ip",
	"active_queries", "active queries", "active_tasks", "active tasks",
	"running query", "running queries", "running task", "running tasks",
	"children", "code_sections", "asset_insight", "insight_names",
	"custom_information", "custom_attributes",
}

var (
	countKeywords  = []string{"count", "how many", "number of", "total"}
	selectKeywords = []string{
		"show", "display", "list", "get", "find", "fetch",
		"give", "return", "retrieve", "select", "view",
	}
	questionStarts = []string{"has ", "have ", "is ", "are ", "does ", "do "}
	questionWords  = map[string]struct{}{"has": {}, "have": {}, "is": {}, "are": {}, "does": {}, "do": {}}
	existsLemmas   = map[string]struct{}{"have": {}, "be": {}, "exist": {}, "do": {}}
	selectLemmas   = map[string]struct{}{
		"show": {}, "display": {}, "list": {}, "get": {}, "find": {}, "give": {}, "return": {},
	}
)

var entityIntents = map[model.IntentKind]model.IntentType{
	model.IntentKindShow:   model.IntentSelect,
	model.IntentKindCount:  model.IntentCount,
	model.IntentKindExists: model.IntentExists,
}

type Classifier struct {
	schema *schema.Schema
}

func NewClassifier(s *schema.Schema) *Classifier {
	return &Classifier{schema: s}
}

// Classify runs, in order: the list-valued field override, the first intent
// entity, the root verb, keywords, and finally defaults to select.
func (c *Classifier) Classify(doc *nlp.Doc, ents *model.Entities) model.Intent {
	if c.isMultiValueQuery(doc, ents) {
		return result(model.IntentSelect)
	}
	if len(ents.Intents) > 0 {
		if t, ok := entityIntents[ents.Intents[0].Kind]; ok {
			return result(t)
		}
	}
	if t, ok := rootIntent(doc); ok {
		return result(t)
	}
	return result(keywordIntent(doc.Text))
}

func (c *Classifier) isMultiValueQuery(doc *nlp.Doc, ents *model.Entities) bool {
	for _, col := range ents.Columns {
		if c.schema.IsTextList(col.Column) {
			return true
		}
	}
	text := strings.ToLower(doc.Text)
	for _, kw := range multiValueKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func rootIntent(doc *nlp.Doc) (model.IntentType, bool) {
	root := doc.Root()
	if root == nil {
		return "", false
	}
	lemma := strings.ToLower(root.Lemma)

	if lemma == "count" || lemma == "be" {
		for _, t := range doc.Tokens {
			if t.Lower == "many" || t.Lower == "much" || t.Lower == "number" {
				return model.IntentCount, true
			}
		}
	}
	if _, ok := existsLemmas[lemma]; ok {
		if _, q := questionWords[doc.Tokens[0].Lower]; q {
			return model.IntentExists, true
		}
	}
	if _, ok := selectLemmas[lemma]; ok {
		return model.IntentSelect, true
	}
	return "", false
}

func keywordIntent(text string) model.IntentType {
	lower := strings.ToLower(text)
	for _, kw := range countKeywords {
		if strings.Contains(lower, kw) {
			return model.IntentCount
		}
	}
	for _, prefix := range questionStarts {
		if strings.HasPrefix(lower, prefix) {
			return model.IntentExists
		}
	}
	for _, kw := range selectKeywords {
		if strings.Contains(lower, kw) {
			return model.IntentSelect
		}
	}
	return model.IntentSelect
}

// result attaches the envelope each intent pins: COUNT(*) for counts, LIMIT 1 for existence.
func result(t model.IntentType) model.Intent {
	in := model.Intent{Type: t, Confidence: 1.0}
	switch t {
	case model.IntentCount:
		in.Aggregation = "COUNT"
		in.SelectColumns = []string{"COUNT(*)"}
	case model.IntentExists:
		one := 1
		in.Aggregation = "EXISTS"
		in.Limit = &one
	default:
		in.SelectColumns = []string{"*"}
	}
	return in
}
