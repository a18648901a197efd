// Package http exposes the wizard over a small JSON API, for chat-platform
// bridges that terminate webhooks elsewhere and relay user messages here.
// One POST carries one event and returns the one reply to deliver.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// maxEventBody bounds the request body well above any sane message size;
// the input sanitizer enforces the real per-text limit.
const maxEventBody = 64 << 10

// EventRequest is the POST /v1/events body.
type EventRequest struct {
	User string `json:"user"`

	// Kind is start, answer, or cancel. Empty means answer, mirroring the
	// JSONL chat transport.
	Kind string `json:"kind,omitempty"`
	Text string `json:"text,omitempty"`
}

// EventResponse pairs the reply with the user it must be delivered to.
type EventResponse struct {
	User  string       `json:"user"`
	Reply domain.Reply `json:"reply"`
}

// SessionsResponse is the GET /v1/sessions body.
type SessionsResponse struct {
	Users []string `json:"users"`
}

// CatalogStep describes one question of the catalog.
type CatalogStep struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// CatalogResponse is the GET /v1/catalog body.
type CatalogResponse struct {
	Name  string        `json:"name"`
	Steps []CatalogStep `json:"steps"`
}

// Server routes API requests to the wizard.
type Server struct {
	events  ports.EventHandler
	wizard  *espalier.Wizard
	logger  *slog.Logger
	metrics http.Handler
	version string
}

// ServerOption configures the handler.
type ServerOption func(*Server)

// WithLogger sets the structured logger for request failures.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts the given handler at /metrics, typically
// promhttp.Handler().
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler builds the API handler. Events dispatch through the given
// handler; pass a session.Gate when replicas or other transports share the
// store, so concurrent events for one user serialize. The wizard serves the
// read and admin paths.
func NewHandler(events ports.EventHandler, wizard *espalier.Wizard, opts ...ServerOption) http.Handler {
	s := &Server{
		events:  events,
		wizard:  wizard,
		logger:  logging.NewNop(),
		version: espalier.Version,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/v1/info", s.info)
	r.Get("/v1/catalog", s.catalog)
	r.Post("/v1/events", s.postEvent)
	r.Get("/v1/sessions", s.listSessions)
	r.Get("/v1/sessions/{user}", s.getSession)
	r.Delete("/v1/sessions/{user}", s.deleteSession)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// postEvent handles POST /v1/events.
func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	var body EventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody)).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user := strings.TrimSpace(body.User)
	if user == "" {
		http.Error(w, "user is required", http.StatusBadRequest)
		return
	}

	kind, ok := parseKind(body.Kind)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown event kind %q", body.Kind), http.StatusBadRequest)
		return
	}

	// This transport feeds the engine directly, so it owns input hygiene.
	text, err := runner.SanitizeInput(body.Text)
	if err != nil {
		s.logger.Warn("event input rejected", "user", user, "error", err)
		http.Error(w, fmt.Sprintf("invalid input: %v", err), http.StatusBadRequest)
		return
	}

	reply, err := s.events.Handle(r.Context(), domain.Event{
		User: domain.UserID(user),
		Kind: kind,
		Text: text,
	})
	if err != nil {
		s.logger.Error("event handling failed", "user", user, "kind", kind, "error", err)
		http.Error(w, "event handling failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, EventResponse{User: user, Reply: reply})
}

// listSessions handles GET /v1/sessions.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	users, err := s.wizard.Store().List(r.Context())
	if err != nil {
		s.logger.Error("session listing failed", "error", err)
		http.Error(w, "session listing failed", http.StatusInternalServerError)
		return
	}

	resp := SessionsResponse{Users: make([]string, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, string(u))
	}
	sort.Strings(resp.Users)

	s.writeJSON(w, http.StatusOK, resp)
}

// getSession handles GET /v1/sessions/{user}.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(chi.URLParam(r, "user"))

	session, err := s.wizard.Peek(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "no session for user", http.StatusNotFound)
			return
		}
		s.logger.Error("session lookup failed", "user", user, "error", err)
		http.Error(w, "session lookup failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, session)
}

// deleteSession handles DELETE /v1/sessions/{user}. It cancels the run
// through the event path, so hooks fire and the gate still serializes
// against in-flight answers from the user.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	user := domain.UserID(chi.URLParam(r, "user"))

	if _, err := s.wizard.Peek(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "no session for user", http.StatusNotFound)
			return
		}
		s.logger.Error("session lookup failed", "user", user, "error", err)
		http.Error(w, "session lookup failed", http.StatusInternalServerError)
		return
	}

	reply, err := s.events.Handle(r.Context(), domain.Event{User: user, Kind: domain.EventCancel})
	if err != nil {
		s.logger.Error("session cancel failed", "user", user, "error", err)
		http.Error(w, "session cancel failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, EventResponse{User: string(user), Reply: reply})
}

// catalog handles GET /v1/catalog.
func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	cat := s.wizard.Catalog()

	resp := CatalogResponse{Name: cat.Name()}
	for _, q := range cat.Questions() {
		resp.Steps = append(resp.Steps, CatalogStep{
			Index:  q.Index,
			Key:    q.Key,
			Label:  q.Label,
			Prompt: q.Prompt,
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// health handles GET /healthz.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// info handles GET /v1/info.
func (s *Server) info(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "espalier-http",
		"version": strings.TrimSpace(s.version),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func parseKind(kind string) (domain.EventKind, bool) {
	switch kind {
	case "", string(domain.EventAnswer):
		return domain.EventAnswer, true
	case string(domain.EventStart):
		return domain.EventStart, true
	case string(domain.EventCancel):
		return domain.EventCancel, true
	default:
		return "", false
	}
}
