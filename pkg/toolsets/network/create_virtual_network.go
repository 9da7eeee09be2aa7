package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"apstramcp/pkg/client"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/normalize"
	"apstramcp/pkg/response"
	"apstramcp/pkg/utils"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// createVNParams carries the loosely typed virtual-network creation inputs.
// The list-valued fields arrive as strings because the calling protocol
// only carries primitive types; they are canonicalized by pkg/normalize.
type createVNParams struct {
	BlueprintID     string `json:"blueprint_id" jsonschema:"the blueprint id"`
	SecurityZoneID  string `json:"security_zone_id" jsonschema:"the routing zone id"`
	VNName          string `json:"vn_name" jsonschema:"label for the virtual network"`
	VNType          string `json:"vn_type,omitempty" jsonschema:"vxlan (default) or vlan"`
	SystemIDs       string `json:"system_ids,omitempty" jsonschema:"JSON array of system ids to bind, or a single id"`
	VlanIDs         string `json:"vlan_ids,omitempty" jsonschema:"JSON array of per-system VLAN ids, or a single value"`
	AccessSwitchIDs string `json:"access_switch_ids,omitempty" jsonschema:"JSON array of per-system access switch id lists, or a flat list"`
	IPv4Enabled     bool   `json:"ipv4_enabled,omitempty" jsonschema:"derive SVI addressing entries for the bound systems"`
	ServerURL       string `json:"server_url,omitempty" jsonschema:"override the Apstra server for this call"`
	SessionToken    string `json:"session_token,omitempty" jsonschema:"session token from login"`
}

// boundTo is one per-system binding of the virtual network.
type boundTo struct {
	SystemID            string   `json:"system_id"`
	VlanID              *int     `json:"vlan_id,omitempty"`
	AccessSwitchNodeIDs []string `json:"access_switch_node_ids"`
}

// sviIP is one per-physical-member SVI descriptor. Redundancy groups in
// the binding expand to one entry per member, so this list can be longer
// than the binding list.
type sviIP struct {
	SystemID string  `json:"system_id"`
	IPv4Mode string  `json:"ipv4_mode"`
	IPv4Addr *string `json:"ipv4_addr"`
}

// binding is the normalized request fragment built from the list inputs.
type binding struct {
	systems  []string
	vlans    []int
	switches [][]string
}

// buildBinding canonicalizes the three per-system lists. Every list keyed
// per system must come out with the system list's length; mismatches are a
// validation error, never a silent truncation.
func buildBinding(systemIDs, vlanIDs, accessSwitchIDs string) (*binding, error) {
	systems, err := normalize.StringList(systemIDs)
	if err != nil {
		return nil, err
	}
	if len(systems) == 0 {
		return nil, nil
	}

	var vlanInput any
	if vlanIDs != "" {
		vlanInput = vlanIDs
	}
	vlans, err := normalize.IntList(vlanInput, len(systems))
	if err != nil {
		return nil, err
	}

	var switchInput any
	if accessSwitchIDs != "" {
		switchInput = accessSwitchIDs
	}
	switches, err := normalize.NestedStringList(switchInput, len(systems))
	if err != nil {
		return nil, err
	}

	return &binding{systems: systems, vlans: vlans, switches: switches}, nil
}

func (b *binding) boundTo() []boundTo {
	out := make([]boundTo, len(b.systems))
	for i, system := range b.systems {
		entry := boundTo{
			SystemID:            system,
			AccessSwitchNodeIDs: b.switches[i],
		}
		if b.vlans != nil {
			vlan := b.vlans[i]
			entry.VlanID = &vlan
		}
		out[i] = entry
	}
	return out
}

// expandSVI derives the SVI descriptor list: a system id that names a
// redundancy group contributes one entry per physical member.
func expandSVI(systems []string, members map[string][]string) []sviIP {
	var out []sviIP
	for _, system := range systems {
		expanded := members[system]
		if len(expanded) == 0 {
			expanded = []string{system}
		}
		for _, member := range expanded {
			out = append(out, sviIP{SystemID: member, IPv4Mode: "enabled", IPv4Addr: nil})
		}
	}
	return out
}

// createVirtualNetwork creates a virtual network through the asynchronous
// batch endpoint, binding it to the requested systems.
func (t *Tools) createVirtualNetwork(ctx context.Context, toolReq *mcp.CallToolRequest, params createVNParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(toolReq, map[string]string{
		"blueprint-id": params.BlueprintID,
		"vn-name":      params.VNName,
	})

	creds, err := t.resolver.ForCall(params.ServerURL, params.SessionToken)
	if err != nil {
		logger.Warn("credential resolution failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	vnType := params.VNType
	if vnType == "" {
		vnType = "vxlan"
	}

	vn := map[string]any{
		"label":            params.VNName,
		"vn_type":          vnType,
		"security_zone_id": params.SecurityZoneID,
	}

	bind, err := buildBinding(params.SystemIDs, params.VlanIDs, params.AccessSwitchIDs)
	if err != nil {
		logger.Warn("invalid binding input", zap.Error(err))
		return response.Error(err), nil, nil
	}
	if bind != nil {
		vn["bound_to"] = bind.boundTo()
		if params.IPv4Enabled {
			members, err := t.redundancyMembers(ctx, creds, params.BlueprintID)
			if err != nil {
				logger.Error("failed to expand redundancy groups", zap.Error(err))
				return response.Error(err), nil, nil
			}
			vn["ipv4_enabled"] = true
			vn["svi_ips"] = expandSVI(bind.systems, members)
		}
	}

	body := map[string]any{"virtual_networks": []any{vn}}
	path := "/api/blueprints/" + params.BlueprintID + "/virtual-networks-batch?async=full"
	out, err := t.client.DoJSON(ctx, http.MethodPost, path, body, creds)
	if err != nil {
		logger.Error("virtual network creation failed", zap.Error(err))
		return response.Error(err), nil, nil
	}

	logger.Info("virtual network created")

	return response.Text(out), nil, nil
}

// redundancyMembers maps redundancy-group system ids to their physical
// member ids, read from the blueprint's system info.
func (t *Tools) redundancyMembers(ctx context.Context, creds credentials.Bundle, blueprintID string) (map[string][]string, error) {
	raw, err := t.client.Do(ctx, http.MethodGet, "/api/blueprints/"+blueprintID+"/experience/web/system-info", nil, creds)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			ID        string   `json:"id"`
			Role      string   `json:"role"`
			MemberIDs []string `json:"member_ids"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &client.RequestError{Err: fmt.Errorf("parsing system info: %w", err)}
	}

	members := make(map[string][]string)
	for _, system := range parsed.Data {
		if system.Role == "redundancy_group" && len(system.MemberIDs) > 0 {
			members[system.ID] = system.MemberIDs
		}
	}

	return members, nil
}
