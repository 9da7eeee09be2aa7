package toolsets

import (
	"apstramcp/internal/config"
	"apstramcp/pkg/client"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/session"
	"apstramcp/pkg/toolsets/auth"
	"apstramcp/pkg/toolsets/blueprint"
	"apstramcp/pkg/toolsets/network"
	"apstramcp/pkg/toolsets/policy"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolsAdder is an interface for types that can add tools to an MCP server.
type toolsAdder interface {
	AddTools(mcpServer *mcp.Server)
}

// Deps carries the shared collaborators handed to every toolset.
type Deps struct {
	Client     *client.Client
	Sessions   *session.Store
	Resolver   *credentials.Resolver
	Config     config.Config
	Transport  config.Transport
	ConfigFile string
}

// AddAllTools adds all available tools to the MCP server.
func AddAllTools(deps Deps, mcpServer *mcp.Server) {
	for _, ta := range allToolSets(deps) {
		ta.AddTools(mcpServer)
	}
}

func allToolSets(deps Deps) []toolsAdder {
	return []toolsAdder{
		auth.NewTools(deps.Client, deps.Sessions, deps.Config, deps.Transport, deps.ConfigFile),
		blueprint.NewTools(deps.Client, deps.Resolver),
		network.NewTools(deps.Client, deps.Resolver),
		policy.NewTools(deps.Client, deps.Resolver),
	}
}
