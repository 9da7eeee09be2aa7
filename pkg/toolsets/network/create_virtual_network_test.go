package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"apstramcp/pkg/credentials"
	"apstramcp/pkg/normalize"
	"apstramcp/pkg/response"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	doBody     []byte
	doErr      error
	doPath     string
	jsonOut    string
	jsonErr    error
	jsonMethod string
	jsonPath   string
	jsonBody   any
}

func (f *fakeClient) Do(ctx context.Context, method, path string, body any, creds credentials.Bundle) ([]byte, error) {
	f.doPath = path
	return f.doBody, f.doErr
}

func (f *fakeClient) DoJSON(ctx context.Context, method, path string, body any, creds credentials.Bundle) (string, error) {
	f.jsonMethod = method
	f.jsonPath = path
	f.jsonBody = body
	return f.jsonOut, f.jsonErr
}

type fakeResolver struct {
	bundle credentials.Bundle
	err    error
}

func (f *fakeResolver) ForCall(serverURL, sessionToken string) (credentials.Bundle, error) {
	return f.bundle, f.err
}

func newRequest(name string) *mcp.CallToolRequest {
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Name: name}}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func resultError(t *testing.T, result *mcp.CallToolResult) response.ErrorBody {
	t.Helper()
	require.True(t, result.IsError)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))
	return body
}

func TestBuildBinding(t *testing.T) {
	tests := map[string]struct {
		systemIDs       string
		vlanIDs         string
		accessSwitchIDs string
		expected        *binding
		expectedError   bool
	}{
		"scalar vlan broadcast over three systems": {
			systemIDs: `["s1","s2","s3"]`,
			vlanIDs:   "400",
			expected: &binding{
				systems:  []string{"s1", "s2", "s3"},
				vlans:    []int{400, 400, 400},
				switches: [][]string{{}, {}, {}},
			},
		},
		"explicit vlan list must match": {
			systemIDs: `["s1","s2"]`,
			vlanIDs:   `[400, 401]`,
			expected: &binding{
				systems:  []string{"s1", "s2"},
				vlans:    []int{400, 401},
				switches: [][]string{{}, {}},
			},
		},
		"explicit vlan list length mismatch": {
			systemIDs:     `["s1","s2","s3"]`,
			vlanIDs:       `[400, 401]`,
			expectedError: true,
		},
		"single system single switch": {
			systemIDs:       "s1",
			vlanIDs:         "100",
			accessSwitchIDs: `["a1"]`,
			expected: &binding{
				systems:  []string{"s1"},
				vlans:    []int{100},
				switches: [][]string{{"a1"}},
			},
		},
		"per-system switch lists": {
			systemIDs:       `["s1","s2"]`,
			accessSwitchIDs: `[["a1"],["a2","a3"]]`,
			expected: &binding{
				systems:  []string{"s1", "s2"},
				switches: [][]string{{"a1"}, {"a2", "a3"}},
			},
		},
		"flat switch list broadcast": {
			systemIDs:       `["s1","s2"]`,
			accessSwitchIDs: `["a1"]`,
			expected: &binding{
				systems:  []string{"s1", "s2"},
				switches: [][]string{{"a1"}, {"a1"}},
			},
		},
		"no systems means no binding": {
			systemIDs: "",
			expected:  nil,
		},
		"malformed system list": {
			systemIDs:     `["s1",]`,
			expectedError: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			bind, err := buildBinding(test.systemIDs, test.vlanIDs, test.accessSwitchIDs)

			if test.expectedError {
				require.Error(t, err)
				var validationErr *normalize.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, bind)
		})
	}
}

func TestBoundTo(t *testing.T) {
	bind := &binding{
		systems:  []string{"s1", "s2"},
		vlans:    []int{100, 200},
		switches: [][]string{{"a1"}, {}},
	}

	entries := bind.boundTo()

	require.Len(t, entries, 2)
	assert.Equal(t, "s1", entries[0].SystemID)
	require.NotNil(t, entries[0].VlanID)
	assert.Equal(t, 100, *entries[0].VlanID)
	assert.Equal(t, []string{"a1"}, entries[0].AccessSwitchNodeIDs)
	require.NotNil(t, entries[1].VlanID)
	assert.Equal(t, 200, *entries[1].VlanID)

	// without vlans the field stays absent
	entries = (&binding{systems: []string{"s1"}, switches: [][]string{{}}}).boundTo()
	assert.Nil(t, entries[0].VlanID)
}

func TestExpandSVI(t *testing.T) {
	members := map[string][]string{
		"rg-1": {"leaf-1", "leaf-2"},
	}

	out := expandSVI([]string{"rg-1", "leaf-3"}, members)

	require.Len(t, out, 3)
	assert.Equal(t, "leaf-1", out[0].SystemID)
	assert.Equal(t, "leaf-2", out[1].SystemID)
	assert.Equal(t, "leaf-3", out[2].SystemID)
	for _, svi := range out {
		assert.Equal(t, "enabled", svi.IPv4Mode)
		assert.Nil(t, svi.IPv4Addr)
	}
}

func TestCreateVirtualNetwork(t *testing.T) {
	t.Run("posts the batch body with bindings and SVI entries", func(t *testing.T) {
		fake := &fakeClient{
			doBody:  []byte(`{"data":[{"id":"rg-1","role":"redundancy_group","member_ids":["leaf-1","leaf-2"]},{"id":"leaf-3","role":"leaf"}]}`),
			jsonOut: `{"task_id":"t-1"}`,
		}
		tools := NewTools(fake, &fakeResolver{bundle: credentials.Bundle{Server: "10.0.0.1"}})

		result, _, err := tools.createVirtualNetwork(context.Background(), newRequest("create_vn"), createVNParams{
			BlueprintID:    "bp-1",
			SecurityZoneID: "rz-1",
			VNName:         "vn-1",
			SystemIDs:      `["rg-1","leaf-3"]`,
			VlanIDs:        "400",
			IPv4Enabled:    true,
		})

		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, http.MethodPost, fake.jsonMethod)
		assert.Equal(t, "/api/blueprints/bp-1/virtual-networks-batch?async=full", fake.jsonPath)
		assert.Equal(t, "/api/blueprints/bp-1/experience/web/system-info", fake.doPath)

		raw, marshalErr := json.Marshal(fake.jsonBody)
		require.NoError(t, marshalErr)
		assert.JSONEq(t, `{
			"virtual_networks": [{
				"label": "vn-1",
				"vn_type": "vxlan",
				"security_zone_id": "rz-1",
				"ipv4_enabled": true,
				"bound_to": [
					{"system_id": "rg-1", "vlan_id": 400, "access_switch_node_ids": []},
					{"system_id": "leaf-3", "vlan_id": 400, "access_switch_node_ids": []}
				],
				"svi_ips": [
					{"system_id": "leaf-1", "ipv4_mode": "enabled", "ipv4_addr": null},
					{"system_id": "leaf-2", "ipv4_mode": "enabled", "ipv4_addr": null},
					{"system_id": "leaf-3", "ipv4_mode": "enabled", "ipv4_addr": null}
				]
			}]
		}`, string(raw))
	})

	t.Run("unbound network posts without bindings", func(t *testing.T) {
		fake := &fakeClient{jsonOut: `{"task_id":"t-1"}`}
		tools := NewTools(fake, &fakeResolver{})

		result, _, err := tools.createVirtualNetwork(context.Background(), newRequest("create_vn"), createVNParams{
			BlueprintID:    "bp-1",
			SecurityZoneID: "rz-1",
			VNName:         "vn-1",
			VNType:         "vlan",
		})

		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Empty(t, fake.doPath)

		raw, marshalErr := json.Marshal(fake.jsonBody)
		require.NoError(t, marshalErr)
		assert.JSONEq(t, `{
			"virtual_networks": [{
				"label": "vn-1",
				"vn_type": "vlan",
				"security_zone_id": "rz-1"
			}]
		}`, string(raw))
	})

	t.Run("vlan length mismatch is a validation error", func(t *testing.T) {
		fake := &fakeClient{}
		tools := NewTools(fake, &fakeResolver{})

		result, _, err := tools.createVirtualNetwork(context.Background(), newRequest("create_vn"), createVNParams{
			BlueprintID:    "bp-1",
			SecurityZoneID: "rz-1",
			VNName:         "vn-1",
			SystemIDs:      `["s1","s2","s3"]`,
			VlanIDs:        `[400, 401]`,
		})

		require.NoError(t, err)
		body := resultError(t, result)
		assert.Equal(t, "validation_error", body.Error)
		assert.Empty(t, fake.jsonMethod)
	})

	t.Run("credential resolution failure is reported", func(t *testing.T) {
		tools := NewTools(&fakeClient{}, &fakeResolver{err: &credentials.SessionError{Reason: "invalid or expired session token"}})

		result, _, err := tools.createVirtualNetwork(context.Background(), newRequest("create_vn"), createVNParams{
			BlueprintID:    "bp-1",
			SecurityZoneID: "rz-1",
			VNName:         "vn-1",
		})

		require.NoError(t, err)
		body := resultError(t, result)
		assert.Equal(t, "session_error", body.Error)
	})

	t.Run("system info failure aborts the creation", func(t *testing.T) {
		fake := &fakeClient{doErr: errors.New("boom")}
		tools := NewTools(fake, &fakeResolver{})

		result, _, err := tools.createVirtualNetwork(context.Background(), newRequest("create_vn"), createVNParams{
			BlueprintID:    "bp-1",
			SecurityZoneID: "rz-1",
			VNName:         "vn-1",
			SystemIDs:      "leaf-1",
			IPv4Enabled:    true,
		})

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Empty(t, fake.jsonMethod)
	})
}
