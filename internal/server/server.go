// Package server exposes the translator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/assafc-claroty/hack-2025/internal/logging"
	"github.com/assafc-claroty/hack-2025/internal/model"
	"github.com/assafc-claroty/hack-2025/internal/nlp"
	"github.com/assafc-claroty/hack-2025/internal/reporter"
	"github.com/assafc-claroty/hack-2025/internal/translator"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	translator *translator.Translator
	metrics    *Metrics
	logger     *zap.Logger
	router     chi.Router
}

type translateRequest struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
}

type translateResponse struct {
	RequestID string          `json:"request_id"`
	SQL       string          `json:"sql,omitempty"`
	Query     *model.SQLQuery `json:"query,omitempty"`
	Intent    *model.Intent   `json:"intent,omitempty"`
}

type explainResponse struct {
	RequestID   string                  `json:"request_id"`
	Explanation *translator.Explanation `json:"explanation"`
	Text        string                  `json:"text"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func New(tr *translator.Translator, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{translator: tr, metrics: metrics, logger: logger.Named("server")}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/v1", func(api chi.Router) {
		api.Post("/translate", s.handleTranslate)
		api.Post("/explain", s.handleExplain)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	format := req.Format
	if format == "" {
		format = reporter.FormatBoth
	}
	if !reporter.ValidFormat(format) {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("%w: %q", reporter.ErrUnknownFormat, format))
		return
	}

	start := time.Now()
	res, err := s.translator.TranslateWithDetails(r.Context(), req.Text)
	if err != nil {
		s.metrics.observe(start, "", err)
		s.fail(w, r, statusOf(err), err)
		return
	}
	s.metrics.observe(start, string(res.Intent.Type), nil)
	s.logger.Debug("translated",
		zap.String("request_id", RequestIDFrom(r.Context())),
		logging.Question(req.Text),
		zap.String("sql", logging.SanitizeSQL(res.SQL)))

	resp := translateResponse{RequestID: RequestIDFrom(r.Context())}
	if format != reporter.FormatJSON {
		resp.SQL = res.SQL
	}
	if format != reporter.FormatSQL {
		resp.Query = &res.Query
		resp.Intent = &res.Intent
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ex, err := s.translator.Explain(r.Context(), req.Text)
	if err != nil {
		s.metrics.observe(start, "", err)
		s.fail(w, r, statusOf(err), err)
		return
	}
	s.metrics.observe(start, string(ex.Translation.Intent.Type), nil)

	writeJSON(w, http.StatusOK, explainResponse{
		RequestID:   RequestIDFrom(r.Context()),
		Explanation: ex,
		Text:        translator.FormatExplanation(ex),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (translateRequest, bool) {
	var req translateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return req, false
	}
	return req, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", id), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("request_id", id), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{RequestID: id, Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, translator.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, nlp.ErrNoParse), errors.Is(err, translator.ErrInvalidSQL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, nlp.ErrEngineUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
