package blueprint

import (
	"context"
	"net/http"

	"apstramcp/pkg/response"
	"apstramcp/pkg/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// createDatacenterParams names the template-based blueprint to create.
type createDatacenterParams struct {
	BlueprintName string `json:"blueprint_name" jsonschema:"label for the new blueprint"`
	TemplateID    string `json:"template_id" jsonschema:"a design template id from get_templates"`
	ServerURL     string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken  string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

type createFreeformParams struct {
	BlueprintName string `json:"blueprint_name" jsonschema:"label for the new blueprint"`
	ServerURL     string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken  string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// createDatacenterBlueprint creates a two-stage L3 Clos blueprint from a
// design template.
func (t *Tools) createDatacenterBlueprint(ctx context.Context, toolReq *mcp.CallToolRequest, params createDatacenterParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{"blueprint-name": params.BlueprintName})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	body := map[string]any{
		"design":      "two_stage_l3clos",
		"init_type":   "template_reference",
		"template_id": params.TemplateID,
		"label":       params.BlueprintName,
	}
	out, err := t.client.DoJSON(ctx, http.MethodPost, "/api/blueprints", body, creds)
	if err != nil {
		logger.Error("blueprint creation failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	logger.Info("datacenter blueprint created", zap.String("template-id", params.TemplateID))

	return response.Text(out), nil, nil
}

// createFreeformBlueprint creates a freeform blueprint.
func (t *Tools) createFreeformBlueprint(ctx context.Context, toolReq *mcp.CallToolRequest, params createFreeformParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{"blueprint-name": params.BlueprintName})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	body := map[string]any{
		"design":    "freeform",
		"init_type": "none",
		"label":     params.BlueprintName,
	}
	out, err := t.client.DoJSON(ctx, http.MethodPost, "/api/blueprints", body, creds)
	if err != nil {
		logger.Error("blueprint creation failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	logger.Info("freeform blueprint created")

	return response.Text(out), nil, nil
}
