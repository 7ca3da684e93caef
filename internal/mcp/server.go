// Package mcp provides an MCP (Model Context Protocol) server for
// worldbox, exposing the sandbox and its tables as tools.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/worldbox/worldbox/internal/logging"
	"github.com/worldbox/worldbox/internal/world"
)

// Server wraps the MCP SDK server around one sandbox world.
type Server struct {
	server *sdk.Server
	world  *world.Context
	trace  *logging.TraceLogger
}

// Config holds server configuration.
type Config struct {
	Name     string // Server name (e.g., "worldbox")
	Version  string // Server version
	LogLevel string // "info", "debug" or "trace"
	LogDir   string // Directory for trace output
}

// NewServer creates a new MCP server with worldbox tools backed by a
// fresh world.
func NewServer(cfg *Config) (*Server, error) {
	ctx, err := world.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server: mcpServer,
		world:  ctx,
		trace:  logging.NewTraceLogger(cfg.LogDir, cfg.LogLevel),
	}
	s.registerTools()
	return s, nil
}

// Run starts the MCP server over stdio transport. The server's world is
// activated for the duration of the session. This blocks until the
// client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	defer world.Scoped(s.world)()
	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.trace.Close()
	return err
}

// World exposes the server's sandbox world.
func (s *Server) World() *world.Context { return s.world }

// Close releases the server's resources.
func (s *Server) Close() error {
	s.trace.Close()
	return nil
}
