package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/nls/internal/logging"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/ports"
	"github.com/aretw0/nls/pkg/service"
)

// Service is the command pipeline served over HTTP. *service.Service implements it.
type Service interface {
	Preview(ctx context.Context, text string, sc domain.Scenario) (service.PreviewResult, error)
	Apply(ctx context.Context, text string, sc domain.Scenario) (service.ApplyResult, error)
	Batch(ctx context.Context, texts []string, sc domain.Scenario) (service.BatchResult, error)
	Run(ctx context.Context, text string, sc domain.Scenario) (service.RunResult, error)
	Help() service.HelpResult
	HelpFor(sc domain.Scenario) service.HelpResult
}

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 1 << 20

// RequestIDHeader carries the request id, generated when the client sends none.
const RequestIDHeader = "X-Request-ID"

// CommandRequest is the body of preview, apply and run.
type CommandRequest struct {
	CommandText string          `json:"command_text" validate:"required,max=4096"`
	Scenario    domain.Scenario `json:"scenario"`
}

// BatchRequest is the body of batch.
type BatchRequest struct {
	Commands []string        `json:"commands" validate:"required,min=1,dive,required,max=4096"`
	Scenario domain.Scenario `json:"scenario"`
}

// ScenarioRequest is the body of POST /nls/help.
type ScenarioRequest struct {
	Scenario domain.Scenario `json:"scenario"`
}

// ErrorResponse is returned with every 4xx/5xx.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Server holds the HTTP handlers.
type Server struct {
	Service  Service
	Watcher  ports.Watchable
	Logger   *slog.Logger
	Version  string
	Gatherer prometheus.Gatherer
	MaxBody  int64

	validate *validator.Validate
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.Version = v }
}

// WithGatherer exposes g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithWatcher streams ontology reload events at /events.
func WithWatcher(w ports.Watchable) Option {
	return func(s *Server) { s.Watcher = w }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.MaxBody = n
		}
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc Service, opts ...Option) http.Handler {
	s := &Server{
		Service:  svc,
		Logger:   logging.NewNop(),
		Version:  "dev",
		MaxBody:  DefaultMaxBodyBytes,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Route("/nls", func(r chi.Router) {
		r.Post("/preview", s.Preview)
		r.Post("/apply", s.Apply)
		r.Post("/batch", s.Batch)
		r.Post("/run", s.Run)
		r.Get("/help", s.Help)
		r.Post("/help", s.HelpForScenario)
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

type ctxKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestIDFrom returns the id assigned to the request carried by ctx.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			"request_id", RequestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>NLS API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// decode reads a JSON body into dst and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.MaxBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, err, nil)
			return false
		}
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), nil)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err), nil)
		return false
	}
	return true
}

// Preview handles POST /nls/preview.
func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.Service.Preview(r.Context(), req.CommandText, req.Scenario)
	if err != nil {
		s.writeError(w, r, StatusFor(err), err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Apply handles POST /nls/apply.
func (s *Server) Apply(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.Service.Apply(r.Context(), req.CommandText, req.Scenario)
	if err != nil {
		s.writeError(w, r, StatusFor(err), err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Batch handles POST /nls/batch.
func (s *Server) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.Service.Batch(r.Context(), req.Commands, req.Scenario)
	if err != nil {
		var berr *service.BatchError
		if errors.As(err, &berr) {
			s.writeError(w, r, StatusFor(err), err, berr)
			return
		}
		s.writeError(w, r, StatusFor(err), err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Run handles POST /nls/run.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.Service.Run(r.Context(), req.CommandText, req.Scenario)
	if err != nil {
		s.writeError(w, r, StatusFor(err), err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Help handles GET /nls/help.
func (s *Server) Help(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Service.Help())
}

// HelpForScenario handles POST /nls/help.
func (s *Server) HelpForScenario(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.Service.HelpFor(req.Scenario))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := Spec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "nls-http",
		"version":     s.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /events (SSE). Each event names a changed spec document.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.Watcher == nil {
		s.writeError(w, r, http.StatusNotImplemented, errors.New("ontology watching is not enabled"), nil)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, http.StatusInternalServerError, errors.New("streaming not supported"), nil)
		return
	}

	events, err := s.Watcher.Watch(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("watch: %w", err), nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// StatusFor maps pipeline errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPatchApplication):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoSimulator):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrUnrecognizedCommand),
		errors.Is(err, domain.ErrNotImplemented),
		errors.Is(err, domain.ErrInvalidScenario),
		errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrRunNotPatchable),
		errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, service.ErrNotRunCommand):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSimulation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error, berr *service.BatchError) {
	resp := ErrorResponse{Error: err.Error(), RequestID: RequestIDFrom(r.Context())}
	if berr != nil {
		idx := berr.Index
		resp.Index = &idx
		resp.Command = berr.Command
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "request_id", resp.RequestID, "status", status, "error", err)
	} else {
		s.Logger.Debug("request rejected", "request_id", resp.RequestID, "status", status, "error", err)
	}
	s.writeJSON(w, status, resp)
}
