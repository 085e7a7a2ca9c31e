package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/stagepath/internal/presentation/graph"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/ports"
	"github.com/aretw0/stagepath/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySize caps request bodies; rule text itself is capped by the parser.
const maxBodySize = 1 << 20

// Server serves path definitions over HTTP.
// Writes (PUT, DELETE) require the loader to also be a ports.DefinitionStore.
type Server struct {
	Engine  ports.PathEngine
	Loader  ports.DefinitionLoader
	store   ports.DefinitionStore
	logger  *slog.Logger
	metrics http.Handler
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
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

// NewHandler creates a new HTTP handler for the engine and definitions.
func NewHandler(engine ports.PathEngine, loader ports.DefinitionLoader, opts ...Option) http.Handler {
	server := &Server{
		Engine:  engine,
		Loader:  loader,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		version: "dev",
	}
	if store, ok := loader.(ports.DefinitionStore); ok {
		server.store = store
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	r.Route("/paths", func(r chi.Router) {
		r.Get("/", server.ListPaths)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", server.GetPath)
			r.Put("/", server.PutPath)
			r.Delete("/", server.DeletePath)
			r.Get("/graph", server.GetGraph)
			r.Post("/check", server.CheckTransition)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckRequest is the body of POST /paths/{name}/check.
type CheckRequest struct {
	Current  string `json:"current"`
	Selected string `json:"selected"`
}

// CheckResponse wraps a decision with the host notification text.
type CheckResponse struct {
	domain.Decision
	Message string `json:"message,omitempty"`
}

// GraphResponse is the JSON form of a compiled path.
type GraphResponse struct {
	Name      string              `json:"name"`
	Stages    []domain.Stage      `json:"stages"`
	Adjacency domain.AdjacencySet `json:"adjacency"`
	Rule      string              `json:"rule,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind,omitempty"`
	Details []string `json:"details,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":      "stagepath-http",
		"version":  s.version,
		"writable": s.store != nil,
	})
}

// ListPaths handles the GET /paths request.
func (s *Server) ListPaths(w http.ResponseWriter, r *http.Request) {
	names, err := s.Loader.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetPath handles the GET /paths/{name} request.
func (s *Server) GetPath(w http.ResponseWriter, r *http.Request) {
	def, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, def)
}

// PutPath handles the PUT /paths/{name} request.
// The definition is validated and compiled before it is stored.
func (s *Server) PutPath(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("definitions backend is read-only"))
		return
	}

	var def domain.Definition
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&def); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	def.Name = chi.URLParam(r, "name")

	if err := schema.ValidateDefinition(def); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	path, err := s.Engine.Compile(r.Context(), def)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err := s.store.Save(r.Context(), def); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("path saved", "path", def.Name, "stages", path.Catalog.Size())
	s.writeJSON(w, http.StatusOK, toGraph(path))
}

// DeletePath handles the DELETE /paths/{name} request.
func (s *Server) DeletePath(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("definitions backend is read-only"))
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("path deleted", "path", name)
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles the GET /paths/{name}/graph request.
// With ?format=mermaid it returns a flowchart; ?current= highlights a stage.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	path, ok := s.compile(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "mermaid" {
		overlay := &graph.GraphOverlay{
			CurrentStage:       r.URL.Query().Get("current"),
			ExpandUnrestricted: r.URL.Query().Get("expand") == "true",
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, graph.GenerateMermaid(path, overlay))
		return
	}
	s.writeJSON(w, http.StatusOK, toGraph(path))
}

// CheckTransition handles the POST /paths/{name}/check request.
func (s *Server) CheckTransition(w http.ResponseWriter, r *http.Request) {
	var body CheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	path, ok := s.compile(w, r)
	if !ok {
		return
	}

	decision, err := s.Engine.Check(r.Context(), path, body.Current, body.Selected)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CheckResponse{Decision: decision, Message: decision.Message()})
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (domain.Definition, bool) {
	name := chi.URLParam(r, "name")
	def, err := s.Loader.Load(r.Context(), name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDefinitionNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return domain.Definition{}, false
	}
	return def, true
}

func (s *Server) compile(w http.ResponseWriter, r *http.Request) (*domain.Path, bool) {
	def, ok := s.load(w, r)
	if !ok {
		return nil, false
	}
	path, err := s.Engine.Compile(r.Context(), def)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	return path, true
}

func toGraph(p *domain.Path) GraphResponse {
	return GraphResponse{
		Name:      p.Name,
		Stages:    p.Catalog.Stages(),
		Adjacency: p.Adjacency.Clone(),
		Rule:      p.Rule.String(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if kind := domain.ErrorKind(err); kind != "other" {
		resp.Kind = kind
	}
	for _, e := range schema.ValidationErrors(err) {
		resp.Details = append(resp.Details, e.Error())
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, resp)
}
