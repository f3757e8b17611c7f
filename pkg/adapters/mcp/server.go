package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/nls/internal/logging"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/grammar"
	"github.com/aretw0/nls/pkg/service"
)

const (
	grammarURI  = "nls://grammar"
	ontologyURI = "nls://ontology"
)

// Service is the command pipeline exposed as MCP tools.
type Service interface {
	Preview(ctx context.Context, text string, sc domain.Scenario) (service.PreviewResult, error)
	Apply(ctx context.Context, text string, sc domain.Scenario) (service.ApplyResult, error)
	Batch(ctx context.Context, texts []string, sc domain.Scenario) (service.BatchResult, error)
	Run(ctx context.Context, text string, sc domain.Scenario) (service.RunResult, error)
	Help() service.HelpResult
	HelpFor(sc domain.Scenario) service.HelpResult
}

// CommandArgs are the arguments of nls_preview, nls_apply and nls_run.
type CommandArgs struct {
	CommandText string          `json:"command_text"`
	Scenario    domain.Scenario `json:"scenario"`
}

// BatchArgs are the arguments of nls_batch.
type BatchArgs struct {
	Commands []string        `json:"commands"`
	Scenario domain.Scenario `json:"scenario"`
}

// HelpArgs are the arguments of nls_help.
type HelpArgs struct {
	Scenario *domain.Scenario `json:"scenario,omitempty"`
}

// Server exposes the NLS pipeline as an MCP server.
type Server struct {
	svc       Service
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(svc Service, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		svc:       svc,
		logger:    logger,
		mcpServer: server.NewMCPServer("nls-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func scenarioParam() mcp.ToolOption {
	return mcp.WithObject("scenario", mcp.Description("Scenario document: {units, streams, assumptions?, uncertainty?}"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("nls_preview",
		mcp.WithDescription("Parse a natural-language command and return the JSON-Patch it would apply, without applying it."),
		mcp.WithString("command_text", mcp.Required(), mcp.Description("Command, e.g. 'replace aex membrane with chitosan capture'")),
		scenarioParam(),
		mcp.WithOutputSchema[service.PreviewResult](),
	), mcp.NewStructuredToolHandler(s.handlePreview))

	s.mcpServer.AddTool(mcp.NewTool("nls_apply",
		mcp.WithDescription("Apply a natural-language command to a scenario and return the validated result."),
		mcp.WithString("command_text", mcp.Required(), mcp.Description("Command to apply")),
		scenarioParam(),
		mcp.WithOutputSchema[service.ApplyResult](),
	), mcp.NewStructuredToolHandler(s.handleApply))

	s.mcpServer.AddTool(mcp.NewTool("nls_batch",
		mcp.WithDescription("Apply several commands in order. Nothing is applied if any command fails."),
		mcp.WithArray("commands", mcp.Required(), mcp.Description("Commands in order"), mcp.WithStringItems()),
		scenarioParam(),
		mcp.WithOutputSchema[service.BatchResult](),
	), mcp.NewStructuredToolHandler(s.handleBatch))

	s.mcpServer.AddTool(mcp.NewTool("nls_run",
		mcp.WithDescription("Hand the scenario to the configured simulator ('run', 'run sobol n=64')."),
		mcp.WithString("command_text", mcp.Required(), mcp.Description("Run command")),
		scenarioParam(),
		mcp.WithOutputSchema[service.RunResult](),
	), mcp.NewStructuredToolHandler(s.handleRun))

	s.mcpServer.AddTool(mcp.NewTool("nls_help",
		mcp.WithDescription("List the command grammar and known unit templates. Pass a scenario to also list templates the ontology lacks."),
		scenarioParam(),
		mcp.WithOutputSchema[service.HelpResult](),
	), mcp.NewStructuredToolHandler(s.handleHelp))
}

func (s *Server) handlePreview(ctx context.Context, _ mcp.CallToolRequest, args CommandArgs) (service.PreviewResult, error) {
	return s.svc.Preview(ctx, args.CommandText, args.Scenario)
}

func (s *Server) handleApply(ctx context.Context, _ mcp.CallToolRequest, args CommandArgs) (service.ApplyResult, error) {
	return s.svc.Apply(ctx, args.CommandText, args.Scenario)
}

func (s *Server) handleBatch(ctx context.Context, _ mcp.CallToolRequest, args BatchArgs) (service.BatchResult, error) {
	return s.svc.Batch(ctx, args.Commands, args.Scenario)
}

func (s *Server) handleRun(ctx context.Context, _ mcp.CallToolRequest, args CommandArgs) (service.RunResult, error) {
	return s.svc.Run(ctx, args.CommandText, args.Scenario)
}

func (s *Server) handleHelp(_ context.Context, _ mcp.CallToolRequest, args HelpArgs) (service.HelpResult, error) {
	if args.Scenario != nil {
		return s.svc.HelpFor(*args.Scenario), nil
	}
	return s.svc.Help(), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(grammarURI, "Command Grammar",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      grammarURI,
				MIMEType: "text/markdown",
				Text:     grammar.Markdown(),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(ontologyURI, "Unit Templates",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.svc.Help().Templates)
		if err != nil {
			return nil, fmt.Errorf("encode ontology: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ontologyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
