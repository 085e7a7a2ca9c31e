package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/stagepath/internal/presentation/graph"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/aretw0/stagepath/pkg/ports"
	"github.com/aretw0/stagepath/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StageTransitions lists where one stage may move to.
type StageTransitions struct {
	Index        int      `json:"index" jsonschema_description:"Position of the stage in the path"`
	Value        string   `json:"value" jsonschema_description:"Stage value"`
	Label        string   `json:"label" jsonschema_description:"Stage label"`
	Unrestricted bool     `json:"unrestricted" jsonschema_description:"True when any other stage may be selected"`
	Allowed      []string `json:"allowed,omitempty" jsonschema_description:"Values of the stages reachable from this one"`
}

// CompileResponse is the structured result of compile_path.
type CompileResponse struct {
	Name   string             `json:"name" jsonschema_description:"Path name"`
	Rule   string             `json:"rule,omitempty" jsonschema_description:"Navigation rule in canonical form"`
	Stages []StageTransitions `json:"stages" jsonschema_description:"Stages in order with their allowed transitions"`
}

// CheckResponse is the structured result of check_transition.
type CheckResponse struct {
	From    string `json:"from" jsonschema_description:"Value of the current stage"`
	To      string `json:"to" jsonschema_description:"Value of the selected stage"`
	Blocked bool   `json:"blocked" jsonschema_description:"True when the move must be hidden or disabled"`
	Reason  string `json:"reason" jsonschema_description:"same_stage, not_allowed, allowed or unrestricted"`
	Message string `json:"message,omitempty" jsonschema_description:"Notification to show once the move is saved"`
}

// Server exposes the path engine as an MCP server.
type Server struct {
	engine    ports.PathEngine
	loader    ports.DefinitionLoader
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.PathEngine, loader ports.DefinitionLoader, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		engine:    engine,
		loader:    loader,
		logger:    logger,
		mcpServer: server.NewMCPServer("stagepath-mcp", version),
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
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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

func (s *Server) registerTools() {
	// TOOL: compile_path
	compileTool := mcp.NewTool("compile_path",
		mcp.WithDescription("Compile a path definition and list, per stage, the stages it may move to. Give either a stored path name or an inline definition."),
		mcp.WithString("name", mcp.Description("Name of a stored path definition")),
		mcp.WithString("definition", mcp.Description("Inline definition as YAML or JSON (name, values[].value/label/valid_for, navigation_rule)")),
		mcp.WithOutputSchema[CompileResponse](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompilePath))

	// TOOL: check_transition
	checkTool := mcp.NewTool("check_transition",
		mcp.WithDescription("Check whether a record may move from the current stage to the selected one."),
		mcp.WithString("name", mcp.Description("Name of a stored path definition")),
		mcp.WithString("definition", mcp.Description("Inline definition as YAML or JSON")),
		mcp.WithString("current", mcp.Description("Current stage value; empty means the first stage")),
		mcp.WithString("selected", mcp.Required(), mcp.Description("Stage value the user wants to move to")),
		mcp.WithOutputSchema[CheckResponse](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheckTransition))

	// TOOL: list_paths
	s.mcpServer.AddTool(mcp.NewTool("list_paths",
		mcp.WithDescription("List the names of the stored path definitions."),
	), s.handleListPaths)

	// TOOL: path_graph
	s.mcpServer.AddTool(mcp.NewTool("path_graph",
		mcp.WithDescription("Render a stored path as a Mermaid flowchart."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of a stored path definition")),
		mcp.WithString("current", mcp.Description("Stage value to highlight")),
	), s.handlePathGraph)
}

func (s *Server) handleCompilePath(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CompileResponse, error) {
	path, err := s.resolve(ctx, args)
	if err != nil {
		return CompileResponse{}, err
	}

	resp := CompileResponse{
		Name:   path.Name,
		Rule:   path.Rule.String(),
		Stages: make([]StageTransitions, 0, path.Catalog.Size()),
	}
	for _, st := range path.Catalog.Stages() {
		entry := StageTransitions{
			Index:        st.Index,
			Value:        st.Value,
			Label:        st.Label,
			Unrestricted: !path.Adjacency.Restricted(st.Index),
		}
		for _, next := range path.AllowedStages(st.Index) {
			entry.Allowed = append(entry.Allowed, next.Value)
		}
		resp.Stages = append(resp.Stages, entry)
	}
	return resp, nil
}

func (s *Server) handleCheckTransition(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CheckResponse, error) {
	path, err := s.resolve(ctx, args)
	if err != nil {
		return CheckResponse{}, err
	}

	current, _ := args["current"].(string)
	selected, _ := args["selected"].(string)

	decision, err := s.engine.Check(ctx, path, current, selected)
	if err != nil {
		return CheckResponse{}, fmt.Errorf("check failed: %w", err)
	}
	return CheckResponse{
		From:    decision.From.Value,
		To:      decision.To.Value,
		Blocked: decision.Blocked,
		Reason:  decision.Reason,
		Message: decision.Message(),
	}, nil
}

func (s *Server) handleListPaths(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.loader.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if names == nil {
		names = []string{}
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handlePathGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	path, err := s.resolve(ctx, map[string]interface{}{"name": name})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	overlay := &graph.GraphOverlay{CurrentStage: request.GetString("current", "")}
	return mcp.NewToolResultText(graph.GenerateMermaid(path, overlay)), nil
}

// resolve compiles the inline definition if given, otherwise the named stored one.
func (s *Server) resolve(ctx context.Context, args map[string]interface{}) (*domain.Path, error) {
	var def domain.Definition
	if inline, _ := args["definition"].(string); inline != "" {
		parsed, err := schema.ParseDefinition([]byte(inline))
		if err != nil {
			return nil, err
		}
		if parsed.Name == "" {
			parsed.Name = "inline"
		}
		def = parsed
	} else {
		name, _ := args["name"].(string)
		if name == "" {
			return nil, errors.New("either name or definition is required")
		}
		loaded, err := s.loader.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		def = loaded
	}

	if err := schema.ValidateDefinition(def); err != nil {
		return nil, err
	}
	path, err := s.engine.Compile(ctx, def)
	if err != nil {
		s.logger.Warn("MCP compile rejected", "path", def.Name, "error", err)
		return nil, err
	}
	return path, nil
}

func (s *Server) registerResources() {
	// EXPOSE: stagepath://paths
	s.mcpServer.AddResource(mcp.NewResource("stagepath://paths", "Stored Path Definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.loader.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list paths: %w", err)
		}
		defs := make([]domain.Definition, 0, len(names))
		for _, name := range names {
			def, err := s.loader.Load(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to load path %s: %w", name, err)
			}
			defs = append(defs, def)
		}
		jsonBytes, _ := json.Marshal(defs)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stagepath://paths",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
