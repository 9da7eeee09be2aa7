package blueprint

import (
	"context"
	"net/http"

	"apstramcp/pkg/response"
	"apstramcp/pkg/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// listParams covers tools that query the controller without a blueprint id.
type listParams struct {
	ServerURL    string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// blueprintParams covers tools that query one blueprint.
type blueprintParams struct {
	BlueprintID  string `json:"blueprint_id" jsonschema:"the blueprint id"`
	ServerURL    string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// getBlueprints lists all blueprints, surfacing only the items array.
func (t *Tools) getBlueprints(ctx context.Context, toolReq *mcp.CallToolRequest, params listParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, nil)

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	out, err := t.client.ListBlueprints(ctx, creds)
	if err != nil {
		logger.Error("failed to list blueprints", zap.Error(err))
		return response.Error(err), nil, nil
	}

	return response.Text(out), nil, nil
}

// getRacks returns the racks of a blueprint.
func (t *Tools) getRacks(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/racks")
}

// getDiffStatus returns the staging diff status of a blueprint.
func (t *Tools) getDiffStatus(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/diff-status")
}

// getAnomalies returns the anomalies of a blueprint.
func (t *Tools) getAnomalies(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/anomalies")
}

// getSystemInfo returns the systems of a blueprint.
func (t *Tools) getSystemInfo(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/experience/web/system-info")
}

// getProtocolSessions returns the protocol sessions of a blueprint.
func (t *Tools) getProtocolSessions(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/protocol-sessions")
}

// getTemplates returns the available design templates.
func (t *Tools) getTemplates(ctx context.Context, toolReq *mcp.CallToolRequest, params listParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, nil)

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	out, err := t.client.DoJSON(ctx, http.MethodGet, "/api/design/templates", nil, creds)
	if err != nil {
		logger.Error("failed to get templates", zap.Error(err))
		return response.Error(err), nil, nil
	}

	return response.Text(out), nil, nil
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
