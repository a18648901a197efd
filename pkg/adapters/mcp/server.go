// Package mcp exposes the wizard as a Model Context Protocol server, so
// agent runtimes can drive setup conversations through tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/runner"
)

// ReplyResponse is the structured result of the event tools. It mirrors the
// reply envelope of the other adapters.
type ReplyResponse struct {
	User string `json:"user" jsonschema_description:"The user the reply belongs to"`
	Text string `json:"text" jsonschema_description:"The message to show the user"`
	Done bool   `json:"done" jsonschema_description:"True when the run finished (completed or cancelled)"`
}

// StatusResponse is the structured result of the wizard_status tool.
type StatusResponse struct {
	User        string `json:"user" jsonschema_description:"The inspected user"`
	Active      bool   `json:"active" jsonschema_description:"True when the user has a setup run in progress"`
	CurrentStep int    `json:"current_step" jsonschema_description:"Zero-based index of the question awaiting an answer"`
	TotalSteps  int    `json:"total_steps" jsonschema_description:"Number of questions in the catalog"`
	Prompt      string `json:"prompt,omitempty" jsonschema_description:"The prompt of the current question"`
}

// Server wraps the wizard and exposes it as an MCP server.
type Server struct {
	events    ports.EventHandler
	wizard    *espalier.Wizard
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// ServerOption configures the MCP server.
type ServerOption func(*Server)

// WithLogger sets the structured logger. Defaults to a no-op logger; stdio
// transports in particular must keep stdout clean for the protocol.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates an MCP server on top of an event handler and its wizard.
// The handler should already serialize per-user access (see pkg/session.Gate);
// input scrubbing is applied here, since MCP feeds the engine directly.
func NewServer(events ports.EventHandler, wizard *espalier.Wizard, opts ...ServerOption) *Server {
	s := &Server{
		events:    runner.Wrap(events, runner.EventSanitizing()),
		wizard:    wizard,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE. It blocks until the
// context is canceled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("mcp server listening (sse)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: wizard_start
	startTool := mcp.NewTool("wizard_start",
		mcp.WithDescription("Start or restart the setup wizard for a user. Always begins a fresh run, discarding any in-progress session."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Stable user identifier")),
		mcp.WithOutputSchema[ReplyResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: wizard_answer
	answerTool := mcp.NewTool("wizard_answer",
		mcp.WithDescription("Submit the user's answer to the current question. Invalid answers return a retry prompt and do not advance the run."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Stable user identifier")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The user's raw answer text")),
		mcp.WithOutputSchema[ReplyResponse](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleAnswer))

	// TOOL: wizard_cancel
	cancelTool := mcp.NewTool("wizard_cancel",
		mcp.WithDescription("Cancel the user's setup run and discard the session."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Stable user identifier")),
		mcp.WithOutputSchema[ReplyResponse](),
	)
	s.mcpServer.AddTool(cancelTool, mcp.NewStructuredToolHandler(s.handleCancel))

	// TOOL: wizard_status
	statusTool := mcp.NewTool("wizard_status",
		mcp.WithDescription("Inspect a user's in-progress session without modifying it."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Stable user identifier")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))

	// TOOL: wizard_catalog
	s.mcpServer.AddTool(mcp.NewTool("wizard_catalog",
		mcp.WithDescription("Get the question catalog the wizard walks through."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(string(s.catalogJSON())), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ReplyResponse, error) {
	return s.dispatch(ctx, domain.EventStart, args)
}

func (s *Server) handleAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ReplyResponse, error) {
	return s.dispatch(ctx, domain.EventAnswer, args)
}

func (s *Server) handleCancel(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ReplyResponse, error) {
	return s.dispatch(ctx, domain.EventCancel, args)
}

func (s *Server) dispatch(ctx context.Context, kind domain.EventKind, args map[string]interface{}) (ReplyResponse, error) {
	user, _ := args["user"].(string)
	user = strings.TrimSpace(user)
	if user == "" {
		return ReplyResponse{}, errors.New("user is required")
	}
	text, _ := args["text"].(string)

	reply, err := s.events.Handle(ctx, domain.Event{
		User: domain.UserID(user),
		Kind: kind,
		Text: text,
	})
	if err != nil {
		s.logger.Warn("mcp event failed", "user", user, "kind", kind, "error", err)
		return ReplyResponse{}, fmt.Errorf("%s failed: %w", kind, err)
	}

	return ReplyResponse{User: user, Text: reply.Text, Done: reply.Done}, nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	user, _ := args["user"].(string)
	user = strings.TrimSpace(user)
	if user == "" {
		return StatusResponse{}, errors.New("user is required")
	}

	cat := s.wizard.Catalog()
	session, err := s.wizard.Peek(ctx, domain.UserID(user))
	if errors.Is(err, domain.ErrSessionNotFound) {
		return StatusResponse{User: user, Active: false, TotalSteps: cat.Len()}, nil
	}
	if err != nil {
		return StatusResponse{}, fmt.Errorf("status failed: %w", err)
	}

	return StatusResponse{
		User:        user,
		Active:      true,
		CurrentStep: session.CurrentStep,
		TotalSteps:  cat.Len(),
		Prompt:      cat.Step(session.CurrentStep).Prompt,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://catalog
	s.mcpServer.AddResource(mcp.NewResource("espalier://catalog", "Question Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://catalog",
				MIMEType: "application/json",
				Text:     string(s.catalogJSON()),
			},
		}, nil
	})
}

func (s *Server) catalogJSON() []byte {
	type step struct {
		Index  int    `json:"index"`
		Key    string `json:"key"`
		Label  string `json:"label"`
		Prompt string `json:"prompt"`
	}

	cat := s.wizard.Catalog()
	doc := struct {
		Name  string `json:"name"`
		Steps []step `json:"steps"`
	}{Name: cat.Name(), Steps: make([]step, 0, cat.Len())}

	for _, q := range cat.Questions() {
		doc.Steps = append(doc.Steps, step{Index: q.Index, Key: q.Key, Label: q.Label, Prompt: q.Prompt})
	}

	jsonBytes, _ := json.Marshal(doc)
	return jsonBytes
}
