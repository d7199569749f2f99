package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/query"
)

const separatorWidth = 60

type TreeToken struct {
	I         int      `json:"i"`
	Text      string   `json:"text"`
	Lemma     string   `json:"lemma"`
	POS       string   `json:"pos"`
	Tag       string   `json:"tag"`
	Dep       string   `json:"dep"`
	Head      string   `json:"head"`
	HeadIndex int      `json:"head_index"`
	Children  []string `json:"children"`
}

type Dependency struct {
	Token string `json:"token"`
	Dep   string `json:"dep"`
	Head  string `json:"head"`
}

type NounChunk struct {
	Text string `json:"text"`
	Root string `json:"root"`
	Dep  string `json:"dep"`
}

type NamedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Tree is the linguistic view of a question, for debugging.
type Tree struct {
	Tokens       []TreeToken   `json:"tokens"`
	Dependencies []Dependency  `json:"dependencies"`
	NounChunks   []NounChunk   `json:"noun_chunks"`
	Entities     []NamedEntity `json:"entities"`
}

// Explanation bundles a translation with the trace that produced it.
type Explanation struct {
	Translation *model.Translation     `json:"translation"`
	Tree        *Tree                  `json:"tree"`
	Conditions  []model.WhereCondition `json:"conditions"`
	Bindings    []model.Binding        `json:"bindings"`
}

// DependencyTree parses text and returns its dependency structure.
func (t *Translator) DependencyTree(ctx context.Context, text string) (*Tree, error) {
	doc, err := t.parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return BuildTree(doc), nil
}

// BuildTree summarizes a parsed document.
func BuildTree(doc *nlp.Doc) *Tree {
	tree := &Tree{
		Tokens:       make([]TreeToken, 0, doc.Len()),
		Dependencies: make([]Dependency, 0, doc.Len()),
		NounChunks:   make([]NounChunk, 0, len(doc.NounChunks)),
		Entities:     make([]NamedEntity, 0, len(doc.Ents)),
	}

	for i := range doc.Tokens {
		tok := &doc.Tokens[i]
		head := tok.Text
		if h := doc.At(tok.Head); h != nil {
			head = h.Text
		}
		children := make([]string, 0, len(tok.Children))
		for _, c := range doc.Children(i) {
			children = append(children, c.Text)
		}
		tree.Tokens = append(tree.Tokens, TreeToken{
			I:         tok.I,
			Text:      tok.Text,
			Lemma:     tok.Lemma,
			POS:       tok.POS,
			Tag:       tok.Tag,
			Dep:       tok.Dep,
			Head:      head,
			HeadIndex: tok.Head,
			Children:  children,
		})
		tree.Dependencies = append(tree.Dependencies, Dependency{Token: tok.Text, Dep: tok.Dep, Head: head})
	}

	for _, nc := range doc.NounChunks {
		root := chunkRoot(doc, nc)
		if root == nil {
			continue
		}
		tree.NounChunks = append(tree.NounChunks, NounChunk{Text: nc.Text, Root: root.Text, Dep: root.Dep})
	}
	for _, e := range doc.Ents {
		tree.Entities = append(tree.Entities, NamedEntity{Text: e.Text, Label: e.Label})
	}
	return tree
}

// chunkRoot is the token of the span whose head lies outside it.
func chunkRoot(doc *nlp.Doc, s nlp.Span) *nlp.Token {
	for i := s.Start; i < s.End; i++ {
		tok := doc.At(i)
		if tok == nil {
			return nil
		}
		if tok.IsRoot() || tok.Head < s.Start || tok.Head >= s.End {
			return tok
		}
	}
	return nil
}

// Explain translates text and returns the translation with its trace.
func (t *Translator) Explain(ctx context.Context, text string) (*Explanation, error) {
	a, err := t.run(ctx, text)
	if err != nil {
		return nil, err
	}
	tr, err := t.details(text, a)
	if err != nil {
		return nil, err
	}
	return &Explanation{
		Translation: tr,
		Tree:        BuildTree(a.doc),
		Conditions:  a.query.Where,
		Bindings:    a.parsed.Bindings,
	}, nil
}

// ExplainText renders Explain as a human-readable report.
func (t *Translator) ExplainText(ctx context.Context, text string) (string, error) {
	ex, err := t.Explain(ctx, text)
	if err != nil {
		return "", err
	}
	return FormatExplanation(ex), nil
}

func FormatExplanation(ex *Explanation) string {
	sep := strings.Repeat("-", separatorWidth)
	tr := ex.Translation

	lines := []string{
		"Query: " + tr.Question,
		"\nIntent: " + string(tr.Intent.Type),
		"\nSQL: " + tr.SQL,
		"\n\nDependency Analysis:",
		sep,
	}
	for _, tok := range ex.Tree.Tokens {
		lines = append(lines, fmt.Sprintf("  %-15s | POS: %-5s | DEP: %-10s | HEAD: %s", tok.Text, tok.POS, tok.Dep, tok.Head))
	}

	lines = append(lines, "\n\nRecognized Entities:", sep)
	if tr.Entities != nil {
		for _, c := range tr.Entities.Columns {
			lines = append(lines, fmt.Sprintf("  Column: %s ('%s')", c.Column, c.Text))
		}
		for _, v := range tr.Entities.Values {
			lines = append(lines, fmt.Sprintf("  Value: %v (type: %s, text: '%s')", v.Value, v.Type, v.Text))
		}
	}

	lines = append(lines, "\n\nExtracted Conditions:", sep)
	for _, c := range ex.Conditions {
		if c.Operator == model.OpIsNull || c.Operator == model.OpIsNotNull {
			lines = append(lines, fmt.Sprintf("  %s %s", c.Column, c.Operator))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", c.Column, c.Operator, query.Literal(c.Value)))
	}
	return strings.Join(lines, "\n")
}
