package nlp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FixtureEngine replays pre-parsed documents. Each token is written on one line
// as "text POS TAG lemma dep head", head being the index of the governing token.
type FixtureEngine struct {
	model string
	docs  map[string]*Doc
}

type fixtureFile struct {
	Docs []fixtureDoc `yaml:"docs"`
}

type fixtureDoc struct {
	Text       string        `yaml:"text"`
	Tokens     []string      `yaml:"tokens"`
	NounChunks []fixtureSpan `yaml:"noun_chunks"`
	Ents       []fixtureSpan `yaml:"ents"`
}

type fixtureSpan struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Label string `yaml:"label"`
}

// LoadFixtureEngine reads a fixture file from disk.
func LoadFixtureEngine(path, model string) (*FixtureEngine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data, model)
}

// ParseFixtures builds an engine from fixture YAML.
func ParseFixtures(data []byte, model string) (*FixtureEngine, error) {
	var ff fixtureFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}

	e := &FixtureEngine{model: model, docs: make(map[string]*Doc, len(ff.Docs))}
	for _, fd := range ff.Docs {
		tokens := make([]Token, 0, len(fd.Tokens))
		for k, line := range fd.Tokens {
			tok, err := parseTokenLine(line)
			if err != nil {
				return nil, fmt.Errorf("fixture %q token %d: %w", fd.Text, k, err)
			}
			tokens = append(tokens, tok)
		}
		doc := NewDoc(fd.Text, tokens)
		doc.NounChunks = spansOf(doc, fd.NounChunks)
		doc.Ents = spansOf(doc, fd.Ents)
		e.docs[normalize(fd.Text)] = doc
	}
	return e, nil
}

func parseTokenLine(line string) (Token, error) {
	f := strings.Fields(line)
	if len(f) != 6 {
		return Token{}, fmt.Errorf("expected 6 fields, got %d in %q", len(f), line)
	}
	head, err := strconv.Atoi(f[5])
	if err != nil {
		return Token{}, fmt.Errorf("bad head in %q: %w", line, err)
	}
	return Token{Text: f[0], POS: f[1], Tag: f[2], Lemma: f[3], Dep: f[4], Head: head}, nil
}

func spansOf(doc *Doc, fs []fixtureSpan) []Span {
	out := make([]Span, 0, len(fs))
	for _, s := range fs {
		if s.Start < 0 || s.End > doc.Len() || s.Start >= s.End {
			continue
		}
		words := make([]string, 0, s.End-s.Start)
		for i := s.Start; i < s.End; i++ {
			words = append(words, doc.Tokens[i].Text)
		}
		out = append(out, Span{Text: strings.Join(words, " "), Label: s.Label, Start: s.Start, End: s.End})
	}
	return out
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func (e *FixtureEngine) Model() string { return e.model }

// Parse returns a copy of the stored document so callers cannot corrupt the fixture.
func (e *FixtureEngine) Parse(_ context.Context, text string) (*Doc, error) {
	doc, ok := e.docs[normalize(text)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoParse, text)
	}
	cp := *doc
	cp.Tokens = make([]Token, len(doc.Tokens))
	for i, t := range doc.Tokens {
		t.Children = append([]int(nil), t.Children...)
		cp.Tokens[i] = t
	}
	cp.NounChunks = append([]Span(nil), doc.NounChunks...)
	cp.Ents = append([]Span(nil), doc.Ents...)
	return &cp, nil
}

// Texts lists every text the engine can parse, sorted.
func (e *FixtureEngine) Texts() []string {
	out := make([]string, 0, len(e.docs))
	for _, d := range e.docs {
		out = append(out, d.Text)
	}
	sort.Strings(out)
	return out
}
