package network

import (
	"context"
	"net/http"

	"apstramcp/pkg/normalize"
	"apstramcp/pkg/response"
	"apstramcp/pkg/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// createRemoteGWParams carries the remote EVPN gateway definition.
type createRemoteGWParams struct {
	BlueprintID             string `json:"blueprint_id" jsonschema:"the blueprint id"`
	GwIP                    string `json:"gw_ip" jsonschema:"gateway IP address"`
	GwASN                   int    `json:"gw_asn" jsonschema:"gateway autonomous system number"`
	GwName                  string `json:"gw_name" jsonschema:"gateway label"`
	LocalGwNodes            string `json:"local_gw_nodes" jsonschema:"JSON array of local gateway node ids, or a single id"`
	EvpnRouteTypes          string `json:"evpn_route_types,omitempty" jsonschema:"all (default) or type5_only"`
	Password                string `json:"password,omitempty" jsonschema:"BGP session password"`
	KeepaliveTimer          int    `json:"keepalive_timer,omitempty" jsonschema:"BGP keepalive in seconds, default 10"`
	HoldtimeTimer           int    `json:"holdtime_timer,omitempty" jsonschema:"BGP holdtime in seconds, default 30"`
	TTL                     int    `json:"ttl,omitempty" jsonschema:"BGP session TTL, default 30"`
	EvpnInterconnectGroupID string `json:"evpn_interconnect_group_id,omitempty" jsonschema:"interconnect group to join"`
	ServerURL               string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken            string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// createRemoteGateway creates a remote EVPN gateway in a blueprint.
func (t *Tools) createRemoteGateway(ctx context.Context, toolReq *mcp.CallToolRequest, params createRemoteGWParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{
		"blueprint-id": params.BlueprintID,
		"gw-name":      params.GwName,
	})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	localGwNodes, err := normalize.StringList(params.LocalGwNodes)
	if err != nil {
		logger.Warn("invalid local_gw_nodes", zap.Error(err))
		return response.Error(err), nil, nil
	}
	if len(localGwNodes) == 0 {
		return response.Error(&normalize.ValidationError{Reason: "local_gw_nodes must name at least one node"}), nil, nil
	}

	routeTypes := params.EvpnRouteTypes
	if routeTypes == "" {
		routeTypes = "all"
	}
	keepalive := params.KeepaliveTimer
	if keepalive == 0 {
		keepalive = 10
	}
	holdtime := params.HoldtimeTimer
	if holdtime == 0 {
		holdtime = 30
	}
	ttl := params.TTL
	if ttl == 0 {
		ttl = 30
	}

	body := map[string]any{
		"gw_ip":            params.GwIP,
		"gw_asn":           params.GwASN,
		"gw_name":          params.GwName,
		"local_gw_nodes":   localGwNodes,
		"evpn_route_types": routeTypes,
		"keepalive_timer":  keepalive,
		"holdtime_timer":   holdtime,
		"ttl":              ttl,
	}
	if params.Password != "" {
		body["password"] = params.Password
	}
	if params.EvpnInterconnectGroupID != "" {
		body["evpn_interconnect_group_id"] = params.EvpnInterconnectGroupID
	}

	out, err := t.client.DoJSON(ctx, http.MethodPost, "/api/blueprints/"+params.BlueprintID+"/remote_gateways", body, creds)
	if err != nil {
		logger.Error("remote gateway creation failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	logger.Info("remote gateway created")

	return response.Text(out), nil, nil
}
