package nlp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUnsupportedModel is returned when the requested language model is not known.
	ErrUnsupportedModel = errors.New("unsupported language model")
	// ErrEngineUnavailable is returned when no linguistic engine can be reached.
	ErrEngineUnavailable = errors.New("linguistic engine unavailable")
	// ErrNoParse is returned by the fixture engine for text it has no parse for.
	ErrNoParse = errors.New("no parse available for text")
)

// DefaultModel is the small English pipeline.
const DefaultModel = "en_core_web_sm"

var supportedModels = []string{"en_core_web_sm", "en_core_web_md", "en_core_web_lg", "en_core_web_trf"}

// Engine turns text into an annotated Doc.
type Engine interface {
	Parse(ctx context.Context, text string) (*Doc, error)
	Model() string
}

// Options selects and configures an engine.
type Options struct {
	URL          string
	Model        string
	FixturesPath string
	Timeout      time.Duration
	MaxRetries   int
}

// ValidateModel fails with a remediation hint for models the service cannot load.
func ValidateModel(model string) error {
	for _, m := range supportedModels {
		if m == model {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (supported: %v); install it with: python -m spacy download %s",
		ErrUnsupportedModel, model, supportedModels, model)
}

// Open returns the fixture engine when a fixtures path is set, otherwise the HTTP engine.
func Open(opts Options, logger *zap.Logger) (Engine, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	switch {
	case opts.FixturesPath != "":
		return LoadFixtureEngine(opts.FixturesPath, opts.Model)
	case opts.URL != "":
		return NewHTTPEngine(opts, logger)
	default:
		return nil, fmt.Errorf("%w: set engine.url or engine.fixtures", ErrEngineUnavailable)
	}
}
