// Package nlptest provides pre-parsed documents so the pipeline can be tested
// without a running linguistic engine.
package nlptest

import (
	"context"
	_ "embed"
	"sync"
	"testing"

	"github.com/assafc-claroty/hack-2025/internal/nlp"
)

//go:embed parses.yaml
var parses []byte

var (
	once   sync.Once
	engine *nlp.FixtureEngine
)

// Engine returns the shared fixture engine. It panics if the embedded fixtures are malformed.
func Engine() *nlp.FixtureEngine {
	once.Do(func() {
		e, err := nlp.ParseFixtures(parses, nlp.DefaultModel)
		if err != nil {
			panic(err)
		}
		engine = e
	})
	return engine
}

// Doc returns a fresh parse of text, failing the test when no fixture exists.
func Doc(tb testing.TB, text string) *nlp.Doc {
	tb.Helper()
	doc, err := Engine().Parse(context.Background(), text)
	if err != nil {
		tb.Fatalf("nlptest: %v", err)
	}
	return doc
}
