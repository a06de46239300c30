// Package mcpserver exposes a plan wizard session to agents as MCP tools.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/planr/internal/logger"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/wizard"
)

// Recorder persists wizard sessions. *session.Store implements it.
type Recorder interface {
	SaveDraft(ctx context.Context, session string, p *plan.Plan) error
	SaveProgress(ctx context.Context, session string, op wizard.Op, snap wizard.Snapshot) error
	MarkComplete(ctx context.Context, session string) error
}

// Options configures the wizard session served by a Server.
type Options struct {
	Plan           *plan.Plan
	Session        string
	Recorder       Recorder
	Resume         *wizard.Snapshot
	LockOnComplete bool
}

// Server drives one wizard session on behalf of MCP clients, either over
// stdio or over streamable HTTP on a random local port.
type Server struct {
	session  string
	recorder Recorder

	// stateMu guards engine, plan and completions; tool calls may run
	// concurrently.
	stateMu     sync.Mutex
	engine      *wizard.Engine
	plan        *plan.Plan
	completions int

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a server around opts.Plan. No transport is started.
func New(opts Options) (*Server, error) {
	p := opts.Plan
	if p == nil {
		p = plan.New(plan.Weekly)
	}

	s := &Server{
		session:  opts.Session,
		recorder: opts.Recorder,
		plan:     p,
	}

	engine, err := wizard.New(plan.Steps(p),
		wizard.WithOnComplete(func() { s.completions++ }),
		wizard.WithObserver(s.onTransition),
		wizard.WithLockOnComplete(opts.LockOnComplete),
	)
	if err != nil {
		return nil, err
	}
	if opts.Resume != nil {
		engine.Restore(*opts.Resume)
	}
	s.engine = engine

	s.mcpServer = server.NewMCPServer(
		"planr-wizard",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return s, nil
}

// MCPServer returns the underlying MCP server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over the given reader and writer until ctx is done or
// the input is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.Debug("Serving MCP over stdio for session %s", s.session)
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

// Start starts the MCP HTTP server on a random available port and returns
// the port.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	// The listener is handed to Serve directly so the port cannot be taken
	// between lookup and bind.
	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{Handler: mux}
	s.httpServer = mcpHandler

	logger.Debug("Starting MCP server on port %d", s.port)

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	return s.port, nil
}

// Stop stops the HTTP server. It is a no-op when the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}

// Snapshot returns the current navigation state.
func (s *Server) Snapshot() wizard.Snapshot {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.engine.Snapshot()
}

// Completions returns how many times the wizard ran past its last step.
func (s *Server) Completions() int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.completions
}

// onTransition runs with stateMu held.
func (s *Server) onTransition(t wizard.Transition) {
	logger.Debug("mcp wizard %s: %s %d -> %d (completed=%t)", s.session, t.Op, t.From, t.To, t.Completed)
	if s.recorder == nil {
		return
	}
	ctx := context.Background()
	if err := s.recorder.SaveDraft(ctx, s.session, s.plan); err != nil {
		logger.Error("Failed to save draft: %v", err)
	}
	if err := s.recorder.SaveProgress(ctx, s.session, t.Op, s.engine.Snapshot()); err != nil {
		logger.Error("Failed to save progress: %v", err)
	}
	if t.Completed {
		if err := s.recorder.MarkComplete(ctx, s.session); err != nil {
			logger.Error("Failed to mark session complete: %v", err)
		}
	}
}

// saveDraft runs with stateMu held.
func (s *Server) saveDraft(ctx context.Context) error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.SaveDraft(ctx, s.session, s.plan)
}
