package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/scrubdata/scrub/pkg/buildinfo"
	"github.com/scrubdata/scrub/pkg/clean"
	scruberrors "github.com/scrubdata/scrub/pkg/errors"
	scrubio "github.com/scrubdata/scrub/pkg/io"
	"github.com/scrubdata/scrub/pkg/observability"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		cacheSpec string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cleaning pipeline over HTTP",
		Long: `Serve exposes the cleaning pipeline as a small JSON API:

  POST /v1/clean   {"options": {...}, "data": [{...}, ...]}
  GET  /healthz    liveness probe with build information
  GET  /metrics    Prometheus metrics

Results are memoized in the configured cache, so identical requests are
served without recomputation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, cacheSpec)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheSpec, "cache", "", "result cache: directory path, redis:// URL, or 'off'")

	return cmd
}

// server bundles the HTTP handler dependencies.
type server struct {
	cli    *CLI
	runner *clean.Runner
}

// runServe wires metrics and the router, then serves until ctx is done.
func (c *CLI) runServe(ctx context.Context, addr, cacheSpec string) error {
	reg := prometheus.NewRegistry()
	prom := observability.NewPrometheus(reg)
	observability.SetStageHooks(prom)
	observability.SetCacheHooks(prom)
	observability.SetHTTPHooks(prom)
	defer observability.Reset()

	runner, err := c.newRunner(ctx, cacheSpec)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	s := &server{cli: c, runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Post("/v1/clean", s.handleClean)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	c.Logger.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// httpMetrics reports request boundaries to the HTTP hooks.
func httpMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// cleanRequest is the POST /v1/clean body.
type cleanRequest struct {
	Options clean.Options   `json:"options"`
	Data    json.RawMessage `json:"data"`
}

// cleanResponse is the POST /v1/clean reply.
type cleanResponse struct {
	RunID  string                         `json:"run_id"`
	Cached bool                           `json:"cached"`
	Data   json.RawMessage                `json:"data"`
	Report clean.Report                   `json:"report"`
	Labels map[string]*clean.LabelMapping `json:"labels,omitempty"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *server) handleClean(w http.ResponseWriter, r *http.Request) {
	var req cleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if len(req.Data) == 0 {
		s.writeError(w, r, http.StatusBadRequest,
			scruberrors.New(scruberrors.ErrCodeIOFormat, "missing data field"))
		return
	}

	ds, err := scrubio.ReadJSON(bytes.NewReader(req.Data))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	// The server owns logging; per-request log files stay off.
	opts := req.Options
	fileLog := false
	opts.FileLog = &fileLog
	opts.Logger = s.cli.Logger

	result, err := s.runner.Execute(r.Context(), ds, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if scruberrors.Is(err, scruberrors.ErrCodeInvalidOption) ||
			scruberrors.Is(err, scruberrors.ErrCodeInvalidTarget) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}

	var rows bytes.Buffer
	if err := scrubio.WriteJSON(result.Frame, &rows); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, cleanResponse{
		RunID:  result.RunID,
		Cached: result.CacheHit,
		Data:   json.RawMessage(bytes.TrimSpace(rows.Bytes())),
		Report: result.Report,
		Labels: result.Labels,
	})
}

// writeError reports the failure to the HTTP hooks and writes the JSON
// error envelope.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	resp := errorResponse{Error: scruberrors.UserMessage(err)}
	if code := scruberrors.GetCode(err); code != "" {
		resp.Code = string(code)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
