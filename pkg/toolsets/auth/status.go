package auth

import (
	"context"
	"fmt"
	"time"

	"apstramcp/internal/config"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/response"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type sessionInfoParams struct {
	SessionToken string `json:"session_token,omitempty" jsonschema:"include details for this session token"`
}

type healthParams struct{}

// sessionInfo reports the authentication model in effect and, when a token
// is supplied, the credential-free view of that session.
func (t *Tools) sessionInfo(ctx context.Context, toolReq *mcp.CallToolRequest, params sessionInfoParams) (*mcp.CallToolResult, any, error) {
	info := map[string]any{
		"transport":   string(t.transport),
		"config_file": t.configFile,
	}

	if t.transport == config.TransportStdio {
		info["authentication"] = "config_file"
		info["message"] = "Using credentials from config file"
		return response.JSON(info), nil, nil
	}

	info["authentication"] = "session_based"
	info["active_sessions"] = t.sessions.Len()
	info["message"] = "Use login() to authenticate"

	if params.SessionToken != "" {
		if details, ok := t.sessions.Info(params.SessionToken); ok {
			info["session_details"] = details
		} else {
			info["session_error"] = "Invalid or expired session token"
		}
	}

	return response.JSON(info), nil, nil
}

// health reports server liveness and probes controller connectivity with
// the static configuration.
func (t *Tools) health(ctx context.Context, toolReq *mcp.CallToolRequest, params healthParams) (*mcp.CallToolResult, any, error) {
	info := map[string]any{
		"status":    "healthy",
		"service":   "apstra-mcp",
		"transport": string(t.transport),
		"timestamp": time.Now().Unix(),
	}

	if t.transport == config.TransportHTTP {
		info["sessions"] = t.sessions.Len()
	}

	switch {
	case !t.cfg.HasCredentials():
		info["apstra_connection"] = "NOT CONFIGURED"
	default:
		creds := credentials.Bundle{
			Server:   t.cfg.Server,
			Port:     t.cfg.Port,
			Username: t.cfg.Username,
			Password: t.cfg.Password,
		}
		if _, err := t.client.Login(ctx, creds); err != nil {
			info["apstra_connection"] = fmt.Sprintf("ERROR: %v", err)
		} else {
			info["apstra_connection"] = "OK"
		}
	}

	return response.JSON(info), nil, nil
}
