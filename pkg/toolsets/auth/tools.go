// Package auth provides the authentication and liveness tools: login,
// logout, session_info and health. Their behavior depends on the serving
// transport: stdio authenticates from the config file and has no
// sessions, while HTTP is session-based.
package auth

import (
	"context"
	"net/http"
	"time"

	"apstramcp/internal/config"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/session"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolsSet    = "auth"
	toolsSetAnn = "toolset"
)

// sessionManager is the slice of the session store the auth tools need.
type sessionManager interface {
	Authenticate(ctx context.Context, username, password, server, port string) (bool, string, string)
	Logout(token string) bool
	Info(token string) (session.Info, bool)
	Len() int
	Timeout() time.Duration
}

// probeClient performs the controller connectivity probe for health.
type probeClient interface {
	Login(ctx context.Context, creds credentials.Bundle) (http.Header, error)
}

// Tools contains the authentication tools for the MCP server.
type Tools struct {
	client     probeClient
	sessions   sessionManager
	cfg        config.Config
	transport  config.Transport
	configFile string
}

// NewTools creates and returns a new Tools instance.
func NewTools(client probeClient, sessions sessionManager, cfg config.Config, transport config.Transport, configFile string) *Tools {
	return &Tools{
		client:     client,
		sessions:   sessions,
		cfg:        cfg,
		transport:  transport,
		configFile: configFile,
	}
}

// AddTools registers the authentication tools with the provided MCP server.
func (t *Tools) AddTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "login",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Authenticate with the Apstra server and obtain a session token (HTTP transport only).
		Parameters:
		username (string, required): Apstra username.
		password (string, required): Apstra password.
		server (string, required): Apstra server hostname or IP.
		port (string, optional): Apstra server port (default 443).

		Returns:
		A session token to pass as session_token to the other tools.`},
		t.login,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "logout",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Invalidate a session token (HTTP transport only).
		Parameters:
		session_token (string, required): The token to invalidate.`},
		t.logout,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "session_info",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the current authentication status.
		Parameters:
		session_token (string, optional): Include details for this session.`},
		t.sessionInfo,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "health",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Server health check, including Apstra controller connectivity.`},
		t.health,
	)
}
