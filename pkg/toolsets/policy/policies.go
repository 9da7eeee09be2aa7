package policy

import (
	"context"
	"net/http"

	"apstramcp/pkg/normalize"
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

// applyParams names the policies to bind and where.
type applyParams struct {
	BlueprintID         string `json:"blueprint_id" jsonschema:"the blueprint id"`
	ApplicationPointIDs string `json:"application_point_ids" jsonschema:"JSON array of application point ids, or a single id"`
	PolicyIDs           string `json:"policy_ids" jsonschema:"JSON array of connectivity template policy ids, or a single id"`
	ServerURL           string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken        string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// getConnectivityTemplates exports the connectivity templates of a blueprint.
func (t *Tools) getConnectivityTemplates(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/obj-policy-export")
}

// getApplicationPoints lists the policy application points of a blueprint.
func (t *Tools) getApplicationPoints(ctx context.Context, toolReq *mcp.CallToolRequest, params blueprintParams) (*mcp.CallToolResult, any, error) {
	return t.blueprintGet(ctx, toolReq, params, "/obj-policy-application-points")
}

// applyPolicies stages the application points and batch-applies every
// named policy to every named point through the asynchronous batch
// endpoint.
func (t *Tools) applyPolicies(ctx context.Context, toolReq *mcp.CallToolRequest, params applyParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{"blueprint-id": params.BlueprintID})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	points, err := normalize.StringList(params.ApplicationPointIDs)
	if err != nil {
		logger.Warn("invalid application_point_ids", zap.Error(err))
		return response.Error(err), nil, nil
	}
	policies, err := normalize.StringList(params.PolicyIDs)
	if err != nil {
		logger.Warn("invalid policy_ids", zap.Error(err))
		return response.Error(err), nil, nil
	}
	if len(points) == 0 || len(policies) == 0 {
		return response.Error(&normalize.ValidationError{
			Reason: "application_point_ids and policy_ids must each name at least one id",
		}), nil, nil
	}

	stageBody := map[string]any{"application_points": points}
	if _, err := t.client.DoJSON(ctx, http.MethodPost,
		"/api/blueprints/"+params.BlueprintID+"/obj-policy-application-points", stageBody, creds); err != nil {
		logger.Error("staging application points failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	applications := make([]map[string]any, 0, len(points))
	for _, point := range points {
		policyRefs := make([]map[string]any, 0, len(policies))
		for _, policyID := range policies {
			policyRefs = append(policyRefs, map[string]any{"policy": policyID, "used": true})
		}
		applications = append(applications, map[string]any{
			"id":       point,
			"policies": policyRefs,
		})
	}
	applyBody := map[string]any{"application_points": applications}

	out, err := t.client.DoJSON(ctx, http.MethodPatch,
		"/api/blueprints/"+params.BlueprintID+"/obj-policy-batch-apply?async=full", applyBody, creds)
	if err != nil {
		logger.Error("batch apply failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	logger.Info("connectivity template policies applied",
		zap.Int("application-points", len(points)), zap.Int("policies", len(policies)))

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
