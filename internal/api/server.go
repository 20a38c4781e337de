// Package api serves advection results over HTTP: interactive charts of the
// scheme comparison, the stored run history and the Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/banshee-data/advection/internal/analysis"
	"github.com/banshee-data/advection/internal/config"
	"github.com/banshee-data/advection/internal/db"
	"github.com/banshee-data/advection/internal/fsutil"
	"github.com/banshee-data/advection/internal/httputil"
	"github.com/banshee-data/advection/internal/monitoring"
	"github.com/banshee-data/advection/internal/output"
	"github.com/banshee-data/advection/internal/runner"
	"github.com/banshee-data/advection/internal/security"
	"github.com/banshee-data/advection/internal/version"
)

// ANSI escape codes for the request log
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// defaultRunLimit caps /api/runs when no limit is given.
const defaultRunLimit = 100

// Server holds the dependencies of the HTTP handlers. Store and Metrics are
// optional; their routes answer 503 or are not mounted when nil.
type Server struct {
	cfg     *config.RunConfig
	store   *db.RunStore
	metrics *monitoring.Metrics
	fs      fsutil.FileSystem

	mu      sync.Mutex
	results []runner.Result
}

// NewServer creates a Server for cfg. fs is used to read dumped .dat curves
// from the configured output directory.
func NewServer(cfg *config.RunConfig, store *db.RunStore, metrics *monitoring.Metrics, fs fsutil.FileSystem) *Server {
	return &Server{cfg: cfg, store: store, metrics: metrics, fs: fs}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	code := strconv.Itoa(statusCode)
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + code + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + code + colorReset
	case statusCode >= 400:
		return colorBoldRed + code + colorReset
	default:
		return code
	}
}

// LoggingMiddleware logs method, path, status and duration of each request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// Router returns the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(LoggingMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get("/charts/advection", s.advectionChart)
	r.Get("/charts/interpolation", s.interpolationChart)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.showConfig)
		r.Get("/results", s.listResults)
		r.Get("/curves/{name}", s.getCurve)
		r.Get("/runs", s.listRuns)
		r.Get("/runs/best", s.bestRuns)
		r.Get("/runs/{id}", s.getRun)
		r.Delete("/runs/{id}", s.deleteRun)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, s.cfg.Effective())
}

// advectionResults runs the configured case matrix once and caches it.
// A failed run is not cached.
func (s *Server) advectionResults(ctx context.Context) ([]runner.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.results != nil {
		return s.results, nil
	}

	cases, err := runner.Cases(s.cfg)
	if err != nil {
		return nil, err
	}
	rn := runner.New(s.cfg)
	if s.metrics != nil {
		rn.Recorder = s.metrics
	}
	results, err := rn.RunAll(ctx, cases)
	if err != nil {
		return nil, err
	}
	s.results = results
	return results, nil
}

func (s *Server) subtitle() string {
	_, substeps := s.cfg.Timing()
	return fmt.Sprintf("N=%d  L=%g  v=%g  CFL=%g  T=%g  steps=%d",
		s.cfg.GetSamples(), s.cfg.GetDomainSize(), s.cfg.GetVelocity(),
		s.cfg.GetCFL(), s.cfg.GetFinalTime(), substeps)
}

func (s *Server) advectionChart(w http.ResponseWriter, r *http.Request) {
	results, err := s.advectionResults(r.Context())
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	curves := make([]output.Curve, len(results))
	for i, res := range results {
		curves[i] = res.Curve()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := output.RenderChart(w, "Advection", s.subtitle(), curves); err != nil {
		monitoring.Logf("failed to render advection chart: %v", err)
	}
}

func (s *Server) interpolationChart(w http.ResponseWriter, r *http.Request) {
	schemes, err := s.cfg.GetInterpolations()
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	curves, err := runner.InterpolationCurves(s.cfg, schemes)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	subtitle := fmt.Sprintf("staircase on %d samples, %d resample points",
		s.cfg.GetInterpSamples(), s.cfg.GetResamplePoints())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := output.RenderChart(w, "Interpolation", subtitle, curves); err != nil {
		monitoring.Logf("failed to render interpolation chart: %v", err)
	}
}

// resultSummary is the JSON view of a runner.Result without the field.
type resultSummary struct {
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Dt         float64          `json:"dt"`
	Substeps   int              `json:"substeps"`
	DurationMS float64          `json:"duration_ms"`
	Summary    analysis.Summary `json:"summary"`
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.advectionResults(r.Context())
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	out := make([]resultSummary, len(results))
	for i, res := range results {
		out[i] = resultSummary{
			Name:       res.Name,
			Kind:       res.Case.Kind.String(),
			Dt:         res.Dt,
			Substeps:   res.Substeps,
			DurationMS: float64(res.Duration.Nanoseconds()) / 1e6,
			Summary:    res.Summary,
		}
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) getCurve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "name"), ".dat")
	if err := security.ValidateName(name); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	path := output.DatPath(s.cfg.GetOutputDir(), name)
	if !s.fs.Exists(path) {
		httputil.NotFound(w, fmt.Sprintf("curve %s not found", name))
		return
	}
	curve, err := output.ReadDat(s.fs, path)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, curve)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		httputil.ServiceUnavailable(w, "run store not configured")
		return false
	}
	return true
}

// intParam parses an optional non-negative integer query parameter.
func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, err := intParam(r, "limit", defaultRunLimit)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	runs, err := s.store.List(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if runs == nil {
		runs = []*db.RunRecord{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) bestRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, err := intParam(r, "limit", defaultRunLimit)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	samples, err := intParam(r, "samples", 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	filter := db.RunFilter{
		Stepping:      q.Get("stepping"),
		Interpolation: q.Get("interpolation"),
		Direct:        q.Get("direct"),
		Samples:       samples,
	}
	runs, err := s.store.Best(filter, limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if runs == nil {
		runs = []*db.RunRecord{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	run, err := s.store.Get(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, run)
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	err := s.store.Delete(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
