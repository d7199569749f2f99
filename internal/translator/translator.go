// Package translator wires the linguistic engine and the translation pipeline
// together: recognition, condition extraction, intent, query building and SQL
// rendering.
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/assafc-claroty/hack-2025/internal/intent"
	"github.com/assafc-claroty/hack-2025/internal/logging"
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/parser"
	"github.com/assafc-claroty/hack-2025/internal/query"
	"github.com/assafc-claroty/hack-2025/internal/recognizer"
	"github.com/assafc-claroty/hack-2025/internal/schema"
	"github.com/assafc-claroty/hack-2025/internal/semantic"
)

var (
	// ErrEmptyQuery is returned for blank input before the engine is consulted.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrInvalidSQL is returned when the rendered statement fails to parse as a single SELECT.
	ErrInvalidSQL = errors.New("invalid generated SQL")
)

// Translator is safe for concurrent use when its engine is.
type Translator struct {
	engine     nlp.Engine
	schema     *schema.Schema
	recognizer *recognizer.Recognizer
	parser     *semantic.Parser
	classifier *intent.Classifier
	builder    *query.Builder
	formatter  *query.Formatter
	validator  *parser.SQLParser
	logger     *zap.Logger
}

func New(engine nlp.Engine, s *schema.Schema, logger *zap.Logger) *Translator {
	if s == nil {
		s = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		engine:     engine,
		schema:     s,
		recognizer: recognizer.New(s),
		parser:     semantic.NewParser(s),
		classifier: intent.NewClassifier(s),
		builder:    query.NewBuilder(s.Table()),
		formatter:  query.NewFormatter(s.IsMultiValue),
		validator:  parser.NewSQLParser(),
		logger:     logger.Named("translator"),
	}
}

// Schema returns the schema queries are built against.
func (t *Translator) Schema() *schema.Schema { return t.schema }

// analysis carries every intermediate product of one translation.
type analysis struct {
	doc    *nlp.Doc
	ents   *model.Entities
	parsed *semantic.ParsedQuery
	intent model.Intent
	query  model.SQLQuery
}

func (t *Translator) parse(ctx context.Context, text string) (*nlp.Doc, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	doc, err := t.engine.Parse(ctx, text)
	if err != nil {
		t.logger.Warn("linguistic parse failed", logging.Question(text), zap.Error(err))
		return nil, fmt.Errorf("failed to parse question: %w", err)
	}
	return doc, nil
}

func (t *Translator) analyze(doc *nlp.Doc) *analysis {
	a := &analysis{doc: doc}
	a.ents = t.recognizer.Recognize(doc)
	a.parsed = t.parser.Parse(doc, a.ents)
	a.intent = t.classifier.Classify(doc, a.ents)
	a.query = t.builder.Build(a.parsed, a.intent)
	return a
}

func (t *Translator) run(ctx context.Context, text string) (*analysis, error) {
	start := time.Now()
	doc, err := t.parse(ctx, text)
	if err != nil {
		return nil, err
	}
	a := t.analyze(doc)
	t.logger.Debug("question analyzed",
		logging.Question(text),
		zap.String("intent", string(a.intent.Type)),
		zap.Int("conditions", len(a.query.Where)),
		zap.Duration("elapsed", time.Since(start)))
	return a, nil
}

// Translate returns the structured query for text.
func (t *Translator) Translate(ctx context.Context, text string) (model.SQLQuery, error) {
	a, err := t.run(ctx, text)
	if err != nil {
		return model.SQLQuery{}, err
	}
	return a.query, nil
}

// TranslateDoc runs the pipeline over an already parsed document.
func (t *Translator) TranslateDoc(doc *nlp.Doc) model.SQLQuery {
	return t.analyze(doc).query
}

// ToSQL renders a structured query. It accepts queries built elsewhere.
func (t *Translator) ToSQL(q model.SQLQuery) string {
	if q.Table == "" {
		q.Table = t.schema.Table()
	}
	return t.formatter.Format(q)
}

// TranslateToSQL translates text and renders the validated SQL statement.
func (t *Translator) TranslateToSQL(ctx context.Context, text string) (string, error) {
	a, err := t.run(ctx, text)
	if err != nil {
		return "", err
	}
	return t.render(text, a.query)
}

func (t *Translator) render(text string, q model.SQLQuery) (string, error) {
	sql := t.ToSQL(q)
	if err := t.validator.Validate(sql); err != nil {
		t.logger.Error("generated SQL rejected",
			logging.Question(text),
			zap.String("sql", logging.SanitizeSQL(sql)),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrInvalidSQL, err)
	}
	t.logger.Debug("generated SQL", logging.Question(text), zap.String("sql", logging.SanitizeSQL(sql)))
	return sql, nil
}

// TranslateWithDetails returns the query, SQL, intent and recognized entities.
func (t *Translator) TranslateWithDetails(ctx context.Context, text string) (*model.Translation, error) {
	a, err := t.run(ctx, text)
	if err != nil {
		return nil, err
	}
	return t.details(text, a)
}

func (t *Translator) details(text string, a *analysis) (*model.Translation, error) {
	sql, err := t.render(text, a.query)
	if err != nil {
		return nil, err
	}
	return &model.Translation{
		Question: text,
		SQL:      sql,
		Query:    a.query,
		Intent:   a.intent,
		Entities: a.ents,
	}, nil
}
