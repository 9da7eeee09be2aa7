package blueprint

import (
	"context"
	"net/http"

	"apstramcp/pkg/response"
	"apstramcp/pkg/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// deployParams identifies the staged blueprint version to commit.
type deployParams struct {
	BlueprintID    string `json:"blueprint_id" jsonschema:"the blueprint id"`
	Description    string `json:"description" jsonschema:"deployment description"`
	StagingVersion int    `json:"staging_version" jsonschema:"the staging version from get_diff_status"`
	ServerURL      string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken   string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// deploy commits the staged configuration of a blueprint.
func (t *Tools) deploy(ctx context.Context, toolReq *mcp.CallToolRequest, params deployParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{"blueprint-id": params.BlueprintID})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	body := map[string]any{
		"version":     params.StagingVersion,
		"description": params.Description,
	}
	out, err := t.client.DoJSON(ctx, http.MethodPut, "/api/blueprints/"+params.BlueprintID+"/deploy", body, creds)
	if err != nil {
		logger.Error("deploy failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	logger.Info("blueprint deployed", zap.Int("staging-version", params.StagingVersion))

	return response.Text(out), nil, nil
}

// deleteBlueprint removes a blueprint by id.
func (t *Tools) deleteBlueprint(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{"blueprint-id": params.BlueprintID})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	out, err := t.client.DoJSON(ctx, http.MethodDelete, "/api/blueprints/"+params.BlueprintID, nil, creds)
	if err != nil {
		logger.Error("delete failed", zap.Error(err))
		return response.Error(err), nil, nil
	}
	if out == "" {
		out = `"Blueprint deleted successfully"`
	}

	logger.Info("blueprint deleted")

	return response.Text(out), nil, nil
}
