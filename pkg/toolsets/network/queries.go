package network

import (
	"context"
	"net/http"

	"apstramcp/pkg/response"
	"apstramcp/pkg/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// blueprintParams covers tools that query one blueprint.
type blueprintParams struct {
	BlueprintID  string `json:"blueprint_id" jsonschema:"the blueprint id"`
	ServerURL    string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// getRoutingZones returns the security zones of a blueprint.
func (t *Tools) getRoutingZones(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/security-zones")
}

// getVirtualNetworks returns the virtual networks of a blueprint.
func (t *Tools) getVirtualNetworks(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/virtual-networks")
}

// getRemoteGateways returns the remote EVPN gateways of a blueprint.
func (t *Tools) getRemoteGateways(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/remote_gateways")
}

func (t *Tools) blueprintGet(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams, suffix string) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{"blueprint-id": params.BlueprintID})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	out, err := t.client.DoJSON(ctx, http.MethodGet, "/api/blueprints/"+params.BlueprintID+suffix, nil, creds)
	if err != nil {
		logger.Error("blueprint query failed", zap.String("suffix", suffix), zap.Error(err))
		return response.Error(err), nil, nil
	}

	return response.Text(out), nil, nil
}
