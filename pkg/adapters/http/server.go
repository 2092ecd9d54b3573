package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/regexrunner/internal/logging"
	"github.com/aretw0/regexrunner/internal/presentation/graph"
	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/session"
)

// maxBodyBytes caps request bodies. Inline definitions are small.
const maxBodyBytes = 1 << 20

// Engine defines what the HTTP adapter needs from the regexrunner core.
type Engine interface {
	Run(ctx context.Context, challengeID string, def *domain.Automaton, input string) domain.Result
	Challenge(id string) (domain.Challenge, error)
	Challenges() ([]domain.Challenge, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Server holds the HTTP handlers.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager

	metrics http.Handler
	version string
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions enables the scored session endpoints.
func WithSessions(mgr *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = mgr
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:  engine,
		version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(server.logRequests)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Post("/simulate", server.Simulate)
	r.Get("/events", server.SubscribeEvents)

	r.Route("/challenges", func(r chi.Router) {
		r.Get("/", server.ListChallenges)
		r.Get("/{id}", server.GetChallenge)
		r.Get("/{id}/graph", server.GetGraph)
	})

	if server.Sessions != nil {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", server.StartSession)
			r.Get("/{id}", server.GetSession)
			r.Delete("/{id}", server.DeleteSession)
			r.Put("/{id}/challenge", server.SelectChallenge)
			r.Post("/{id}/runs", server.RecordRun)
		})
	}

	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
		)
	})
}

// SimulateRequest is the body of POST /simulate.
type SimulateRequest struct {
	InputString string         `json:"input_string"`
	DFAID       *string        `json:"dfa_id,omitempty"`
	DFA         map[string]any `json:"dfa,omitempty"`
}

// SimulateResponse is the body returned by POST /simulate.
type SimulateResponse struct {
	Accepted bool     `json:"accepted"`
	Trace    []string `json:"trace"`
	Message  string   `json:"message"`
}

// Simulate handles the POST /simulate request.
// A known dfa_id wins over an inline dfa; with neither, the default challenge is used.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if err := decodeBody(w, r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Simulate: Invalid request body", "err", err)
		return
	}

	challengeID, def, err := s.resolve(body)
	if err != nil {
		s.fail(w, "Simulate", err)
		return
	}

	res := s.Engine.Run(r.Context(), challengeID, def, body.InputString)
	writeJSON(w, s.logger, http.StatusOK, SimulateResponse{
		Accepted: res.Accepted,
		Trace:    res.Trace,
		Message:  res.Message,
	})
}

func (s *Server) resolve(body SimulateRequest) (string, *domain.Automaton, error) {
	id := ""
	if body.DFAID != nil {
		id = *body.DFAID
	}

	if id != "" {
		c, err := s.Engine.Challenge(id)
		if err == nil {
			return c.ID, &c.DFA, nil
		}
		if !errors.Is(err, domain.ErrChallengeNotFound) || body.DFA == nil {
			return "", nil, err
		}
	}

	if body.DFA != nil {
		def, err := domain.AutomatonFromMap(body.DFA)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return "", &def, nil
	}

	c, err := s.Engine.Challenge(domain.DefaultChallengeID)
	if err != nil {
		return "", nil, err
	}
	return c.ID, &c.DFA, nil
}

// ListChallenges handles the GET /challenges request.
func (s *Server) ListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := s.Engine.Challenges()
	if err != nil {
		s.fail(w, "ListChallenges", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, challenges)
}

// GetChallenge handles the GET /challenges/{id} request.
func (s *Server) GetChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := s.Engine.Challenge(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetChallenge", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, c)
}

// GetGraph handles the GET /challenges/{id}/graph request.
// With ?input=..., the states visited by that run are highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	c, err := s.Engine.Challenge(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}

	var overlay *graph.GraphOverlay
	if q := r.URL.Query(); q.Has("input") {
		res := s.Engine.Run(r.Context(), c.ID, &c.DFA, q.Get("input"))
		overlay = graph.OverlayFromResult(res)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(&c.DFA, overlay))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "regexrunner-http",
		"version": strings.TrimSpace(s.version),
	})
}

var errBadRequest = errors.New("bad request")

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrChallengeNotFound), errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
