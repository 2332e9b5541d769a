// Package mcp exposes the period manager as Model Context Protocol tools so
// an agent can plan meals on behalf of a family.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/planning"
)

// Server wraps an MCP server bound to a planning manager.
type Server struct {
	mcp     *mcp.Server
	manager *planning.Manager
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "mealplan")
	Name string
	// Version is the server version (default: constants.Version)
	Version string
}

// DefaultConfig returns the CLI defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    constants.MCPServerName,
		Version: constants.Version,
	}
}

// NewServer creates a server and registers every planning tool.
func NewServer(cfg *Config, manager *planning.Manager) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if manager == nil {
		return nil, fmt.Errorf("planning manager is required")
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		manager: manager,
	}
	s.registerTools()
	return s, nil
}

// Run serves MCP over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("Starting MCP server on stdio transport")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
