// Package blueprint provides the blueprint lifecycle tools: listing,
// rack/device/anomaly/diff queries, template listing, creation, deletion
// and deployment.
package blueprint

import (
	"context"

	"apstramcp/pkg/credentials"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolsSet    = "blueprint"
	toolsSetAnn = "toolset"
)

// controllerClient is the slice of the Apstra client these tools need.
type controllerClient interface {
	DoJSON(ctx context.Context, method, path string, body any, creds credentials.Bundle) (string, error)
	ListBlueprints(ctx context.Context, creds credentials.Bundle) (string, error)
}

// resolver resolves per-call credentials.
type resolver interface {
	ForCall(serverURL, sessionToken string) (credentials.Bundle, error)
}

// Tools contains the blueprint tools for the MCP server.
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

// AddTools registers all blueprint tools with the provided MCP server.
func (t *Tools) AddTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_bp",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the list of all blueprints.
		Parameters:
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).

		Returns:
		The list of blueprints, exactly the inner items array.`},
		t.getBlueprints,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_racks",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get all racks in a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getRacks,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_diff_status",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the configuration diff status for a blueprint, including the staging version used by deploy.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getDiffStatus,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_anomalies",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get anomalies in a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getAnomalies,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_system_info",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the systems (devices) in a blueprint, including redundancy groups and their members.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getSystemInfo,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_protocol_sessions",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get protocol sessions (e.g. BGP) in a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getProtocolSessions,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_templates",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the design templates available for datacenter blueprint creation.
		Parameters:
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getTemplates,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "deploy",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Deploy the staged configuration of a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to deploy.
		description (string, required): Deployment description.
		staging_version (int, required): The staging version from get_diff_status.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.deploy,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "delete_blueprint",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Delete a blueprint. This is irreversible.
		Parameters:
		blueprint_id (string, required): The blueprint to delete.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.deleteBlueprint,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "create_datacenter_blueprint",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Create a new datacenter (two-stage L3 Clos) blueprint from a design template.
		Parameters:
		blueprint_name (string, required): Label for the new blueprint.
		template_id (string, required): A template id from get_templates.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.createDatacenterBlueprint,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "create_freeform_blueprint",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Create a new freeform blueprint.
		Parameters:
		blueprint_name (string, required): Label for the new blueprint.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.createFreeformBlueprint,
	)
}
