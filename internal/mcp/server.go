// ABOUTME: MCP server setup for the nutrition and workout tracker.
// ABOUTME: Wraps the MCP server with a Repository and the user every call acts as.
package mcp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	userID    uuid.UUID
}

// NewServer creates a new MCP server acting as userID.
func NewServer(repo storage.Repository, userID uuid.UUID) (*Server, error) {
	if repo == nil {
		return nil, errors.New("mcp: nil repository")
	}
	if userID == uuid.Nil {
		return nil, errors.New("mcp: no user selected")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "jacktrack",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		userID:    userID,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
