package toolsets

import (
	"testing"

	"apstramcp/internal/config"
	"apstramcp/pkg/client"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/session"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps() Deps {
	apstra := client.New()
	sessions := session.NewStore(apstra, session.DefaultTimeout)
	return Deps{
		Client:     apstra,
		Sessions:   sessions,
		Resolver:   &credentials.Resolver{Sessions: sessions},
		Transport:  config.TransportStdio,
		ConfigFile: "apstra_config.json",
	}
}

func TestAllToolSets(t *testing.T) {
	adders := allToolSets(testDeps())

	assert.Equal(t, 4, len(adders))
}

func TestAddAllTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "test-server",
		Version: "v1.0.0",
	}, nil)
	require.NotNil(t, server)

	AddAllTools(testDeps(), server)
}
