// Package policy provides the connectivity template tools: exporting
// templates, listing application points, and batch-applying policies.
package policy

import (
	"context"

	"apstramcp/pkg/credentials"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolsSet    = "policy"
	toolsSetAnn = "toolset"
)

// controllerClient is the slice of the Apstra client these tools need.
type controllerClient interface {
	DoJSON(ctx context.Context, method, path string, body any, creds credentials.Bundle) (string, error)
}

// resolver resolves per-call credentials.
type resolver interface {
	ForCall(serverURL, sessionToken string) (credentials.Bundle, error)
}

// Tools contains the connectivity template tools for the MCP server.
type Tools struct {
	client   controllerClient
	resolver resolver
}

// NewTools creates and returns a new Tools instance.
func NewTools(client controllerClient, resolver resolver) *Tools {
	return &Tools{
		client:   client,
		resolver: resolver,
	}
}

// AddTools registers all connectivity template tools with the provided MCP server.
func (t *Tools) AddTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_ct",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the connectivity templates of a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getConnectivityTemplates,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_app_ep",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the application endpoints (policy application points) of a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getApplicationPoints,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "apply_ct_policies",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Apply connectivity template policies to application points.
		Parameters:
		blueprint_id (string, required): The blueprint to modify.
		application_point_ids (string, required): JSON array of application point ids from get_app_ep, or a single id.
		policy_ids (string, required): JSON array of connectivity template policy ids from get_ct, or a single id.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.applyPolicies,
	)
}
