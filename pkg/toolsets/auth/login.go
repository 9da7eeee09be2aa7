package auth

import (
	"context"
	"fmt"

	"apstramcp/internal/config"
	"apstramcp/pkg/response"
	"apstramcp/pkg/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// loginParams carries the identity to validate against the controller.
type loginParams struct {
	Username string `json:"username" jsonschema:"the Apstra username"`
	Password string `json:"password" jsonschema:"the Apstra password"`
	Server   string `json:"server" jsonschema:"the Apstra server hostname or IP"`
	Port     string `json:"port,omitempty" jsonschema:"the Apstra server port, default 443"`
}

type logoutParams struct {
	SessionToken string `json:"session_token" jsonschema:"the session token to invalidate"`
}

// login validates credentials with a live controller login and creates a
// session. On stdio there are no sessions: the config file is the identity.
func (t *Tools) login(ctx context.Context, toolReq *mcp.CallToolRequest, params loginParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{"username": params.Username})

	if t.transport == config.TransportStdio {
		return response.JSON(map[string]string{
			"error":   "Not applicable",
			"message": "stdio transport uses config file authentication",
		}), nil, nil
	}

	port := params.Port
	if port == "" {
		port = "443"
	}

	ok, message, token := t.sessions.Authenticate(ctx, params.Username, params.Password, params.Server, port)
	if !ok {
		logger.Warn("login failed")
		return response.JSON(map[string]string{
			"error":   "Authentication failed",
			"message": message,
		}), nil, nil
	}

	logger.Info("login succeeded")

	return response.JSON(map[string]string{
		"session_token": token,
		"message":       message,
		"expires_in":    fmt.Sprintf("%d seconds", int(t.sessions.Timeout().Seconds())),
	}), nil, nil
}

// logout invalidates a session token.
func (t *Tools) logout(ctx context.Context, toolReq *mcp.CallToolRequest, params logoutParams) (*mcp.CallToolResult, any, error) {
	if t.transport == config.TransportStdio {
		return response.JSON(map[string]string{
			"error":   "Not applicable",
			"message": "stdio transport has no sessions",
		}), nil, nil
	}

	if t.sessions.Logout(params.SessionToken) {
		return response.JSON(map[string]string{"message": "Logout successful"}), nil, nil
	}

	return response.JSON(map[string]string{"message": "Session not found"}), nil, nil
}
