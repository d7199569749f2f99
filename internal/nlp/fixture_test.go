package nlp_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/nlp/nlptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixtures(t *testing.T) {
	data := []byte(`
docs:
  - text: "Count assets"
    tokens:
      - "Count VERB VB count ROOT 0"
      - "assets NOUN NNS asset dobj 0"
    noun_chunks:
      - {start: 1, end: 2}
`)
	engine, err := nlp.ParseFixtures(data, "")
	require.NoError(t, err)
	assert.Equal(t, nlp.DefaultModel, engine.Model())

	doc, err := engine.Parse(context.Background(), "  Count   assets ")
	require.NoError(t, err)
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, "count", doc.Tokens[0].Lemma)
	assert.Equal(t, []int{1}, doc.Tokens[0].Children)
	assert.Equal(t, []nlp.Span{{Text: "assets", Start: 1, End: 2}}, doc.NounChunks)
}

func TestParseFixtures_BadTokenLine(t *testing.T) {
	data := []byte(`
docs:
  - text: "broken"
    tokens:
      - "broken NOUN NN"
`)
	_, err := nlp.ParseFixtures(data, "")
	require.Error(t, err)
}

func TestFixtureEngine_UnknownText(t *testing.T) {
	_, err := nlptest.Engine().Parse(context.Background(), "never parsed before")
	assert.True(t, errors.Is(err, nlp.ErrNoParse))
}

func TestFixtureEngine_ReturnsIndependentCopies(t *testing.T) {
	a := nlptest.Doc(t, "Show me all assets in site 54")
	a.Tokens[0].Text = "mutated"
	a.Tokens[0].Children[0] = 99

	b := nlptest.Doc(t, "Show me all assets in site 54")
	assert.Equal(t, "Show", b.Tokens[0].Text)
	assert.Equal(t, 1, b.Tokens[0].Children[0])
}

func TestFixtureEngine_TextsSorted(t *testing.T) {
	data := []byte(`
docs:
  - text: "Count assets"
    tokens:
      - "Count VERB VB count ROOT 0"
      - "assets NOUN NNS asset dobj 0"
  - text: "Approved assets"
    tokens:
      - "Approved ADJ JJ approved amod 1"
      - "assets NOUN NNS asset ROOT 1"
`)
	engine, err := nlp.ParseFixtures(data, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Approved assets", "Count assets"}, engine.Texts())

	texts := nlptest.Engine().Texts()
	assert.True(t, sort.StringsAreSorted(texts))
	assert.Equal(t, texts, nlptest.Engine().Texts())
}

func TestEmbeddedFixturesAreWellFormed(t *testing.T) {
	for _, text := range nlptest.Engine().Texts() {
		doc := nlptest.Doc(t, text)
		require.NotNil(t, doc.Root(), text)
		for _, tok := range doc.Tokens {
			assert.NotEmpty(t, tok.POS, "%s: token %d", text, tok.I)
		}
	}
}
