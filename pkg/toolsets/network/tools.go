// Package network provides the virtual-network, routing-zone and remote
// gateway tools.
package network

import (
	"context"

	"apstramcp/pkg/credentials"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolsSet    = "network"
	toolsSetAnn = "toolset"
)

// controllerClient is the slice of the Apstra client these tools need.
// Do is used where the response must be inspected rather than relayed.
type controllerClient interface {
	Do(ctx context.Context, method, path string, body any, creds credentials.Bundle) ([]byte, error)
	DoJSON(ctx context.Context, method, path string, body any, creds credentials.Bundle) (string, error)
}

// resolver resolves per-call credentials.
type resolver interface {
	ForCall(serverURL, sessionToken string) (credentials.Bundle, error)
}

// Tools contains the network tools for the MCP server.
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

// AddTools registers all network tools with the provided MCP server.
func (t *Tools) AddTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_rz",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get all routing zones (security zones) in a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getRoutingZones,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_vn",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get the virtual networks in a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getVirtualNetworks,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "get_remote_gw",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Get all remote EVPN gateways in a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to inspect.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.getRemoteGateways,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "create_vn",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Create a virtual network in a routing zone, optionally bound to systems.
		Parameters:
		blueprint_id (string, required): The blueprint to create the network in.
		security_zone_id (string, required): The routing zone from get_rz.
		vn_name (string, required): Label for the virtual network.
		vn_type (string, optional): vxlan (default) or vlan.
		system_ids (string, optional): JSON array of system ids (leafs or redundancy groups) to bind, or a single id.
		vlan_ids (string, optional): JSON array of per-system VLAN ids matching system_ids, or a single value to use on every system.
		access_switch_ids (string, optional): JSON array of per-system access switch id lists, or a flat list applied to every system.
		ipv4_enabled (boolean, optional): Derive SVI addressing entries for the bound systems.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.createVirtualNetwork,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "create_remote_gw",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Create a remote EVPN gateway in a blueprint.
		Parameters:
		blueprint_id (string, required): The blueprint to create the gateway in.
		gw_ip (string, required): Gateway IP address.
		gw_asn (int, required): Gateway autonomous system number.
		gw_name (string, required): Gateway label.
		local_gw_nodes (string, required): JSON array of local gateway node ids, or a single id.
		evpn_route_types (string, optional): all (default) or type5_only.
		password (string, optional): BGP session password.
		keepalive_timer (int, optional): BGP keepalive in seconds (default 10).
		holdtime_timer (int, optional): BGP holdtime in seconds (default 30).
		ttl (int, optional): BGP session TTL (default 30).
		evpn_interconnect_group_id (string, optional): Interconnect group to join.
		server_url (string, optional): Override the Apstra server for this call.
		session_token (string, optional): Session token from login (HTTP transport).`},
		t.createRemoteGateway,
	)
}
