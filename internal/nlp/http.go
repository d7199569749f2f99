package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPEngine calls a spaCy-style parsing service.
//
// Request:  POST {url}/parse {"text": "...", "model": "en_core_web_sm"}
// Response: the shape of spaCy's Doc.to_json(), optionally extended with
// "noun_chunks" and per-token "is_stop" / "like_num".
type HTTPEngine struct {
	baseURL    string
	model      string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPEngine validates the model and builds the client.
func NewHTTPEngine(opts Options, logger *zap.Logger) (*HTTPEngine, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if err := ValidateModel(opts.Model); err != nil {
		return nil, err
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: empty engine url", ErrEngineUnavailable)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPEngine{
		baseURL:    strings.TrimRight(opts.URL, "/"),
		model:      opts.Model,
		maxRetries: opts.MaxRetries,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("nlp-engine"),
	}, nil
}

func (e *HTTPEngine) Model() string { return e.model }

type parseRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type wireDoc struct {
	Text       string      `json:"text"`
	Tokens     []wireToken `json:"tokens"`
	Ents       []wireSpan  `json:"ents"`
	NounChunks []wireSpan  `json:"noun_chunks"`
}

type wireToken struct {
	ID      int    `json:"id"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Tag     string `json:"tag"`
	POS     string `json:"pos"`
	Lemma   string `json:"lemma"`
	Dep     string `json:"dep"`
	Head    int    `json:"head"`
	IsStop  *bool  `json:"is_stop,omitempty"`
	LikeNum *bool  `json:"like_num,omitempty"`
}

type wireSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// retryableError marks failures worth another attempt.
type retryableError struct{ err error }

func (r retryableError) Error() string { return r.err.Error() }
func (r retryableError) Unwrap() error { return r.err }

// Parse sends text to the service, retrying transport failures and 5xx responses.
func (e *HTTPEngine) Parse(ctx context.Context, text string) (*Doc, error) {
	body, err := json.Marshal(parseRequest{Text: text, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	delay := 100 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			e.logger.Debug("Retrying parse request", zap.Int("attempt", attempt), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		doc, err := e.parseOnce(ctx, body)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if _, ok := err.(retryableError); !ok {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, lastErr)
}

func (e *HTTPEngine) parseOnce(ctx context.Context, body []byte) (*Doc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, retryableError{fmt.Errorf("failed to call %s: %w", e.baseURL, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retryableError{fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Error("Parse service returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)))
		statusErr := fmt.Errorf("parse service returned status %d", resp.StatusCode)
		if resp.StatusCode >= 500 {
			return nil, retryableError{statusErr}
		}
		return nil, statusErr
	}

	var wd wireDoc
	if err := json.Unmarshal(respBody, &wd); err != nil {
		return nil, fmt.Errorf("failed to decode parse response: %w", err)
	}
	return wd.toDoc(), nil
}

// toDoc converts character offsets into token text and builds the arena.
func (wd *wireDoc) toDoc() *Doc {
	runes := []rune(wd.Text)
	slice := func(start, end int) string {
		if start < 0 || end > len(runes) || start > end {
			return ""
		}
		return string(runes[start:end])
	}

	tokens := make([]Token, len(wd.Tokens))
	given := make([]lexAttrs, len(wd.Tokens))
	for k, wt := range wd.Tokens {
		tokens[k] = Token{
			Text:  slice(wt.Start, wt.End),
			Lemma: wt.Lemma,
			POS:   wt.POS,
			Tag:   wt.Tag,
			Dep:   wt.Dep,
			Head:  wt.Head,
		}
		if wt.IsStop != nil {
			tokens[k].IsStop = *wt.IsStop
			given[k].stop = true
		}
		if wt.LikeNum != nil {
			tokens[k].LikeNum = *wt.LikeNum
			given[k].likeNum = true
		}
	}
	doc := newDoc(wd.Text, tokens, given)

	// span offsets are characters; map them back to token indexes
	tokenAt := func(char int, end bool) int {
		for k, wt := range wd.Tokens {
			if !end && wt.Start == char {
				return k
			}
			if end && wt.End == char {
				return k + 1
			}
		}
		return -1
	}
	toSpans := func(ws []wireSpan) []Span {
		out := make([]Span, 0, len(ws))
		for _, s := range ws {
			out = append(out, Span{
				Text:  slice(s.Start, s.End),
				Label: s.Label,
				Start: tokenAt(s.Start, false),
				End:   tokenAt(s.End, true),
			})
		}
		return out
	}
	doc.Ents = toSpans(wd.Ents)
	doc.NounChunks = toSpans(wd.NounChunks)
	return doc
}
