package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"apstramcp/internal/config"
	"apstramcp/pkg/client"
	"apstramcp/pkg/credentials"
	"apstramcp/pkg/session"
	"apstramcp/pkg/toolsets"
	"apstramcp/pkg/version"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const sweepInterval = 10 * time.Minute

var (
	transport  string
	host       string
	port       int
	configFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Apstra MCP server",
	Long: `Start the MCP server. The stdio transport serves a single local client
(e.g. a desktop AI assistant) and authenticates with the config file;
the http transport serves remote clients with session-based login.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport mode: stdio or http")
	serveCmd.Flags().StringVarP(&host, "host", "H", "127.0.0.1", "Host to bind to for the http transport")
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to bind to for the http transport")
	serveCmd.Flags().StringVarP(&configFile, "config-file", "f", "apstra_config.json", "Path to the Apstra configuration JSON file")
}

func runServe(cmd *cobra.Command, args []string) error {
	mode := config.Transport(transport)
	if mode != config.TransportStdio && mode != config.TransportHTTP {
		return fmt.Errorf("unknown transport %q: expected stdio or http", transport)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	apstra := client.New()
	sessions := session.NewStore(apstra, session.DefaultTimeout)
	resolver := &credentials.Resolver{
		Sessions:       sessions,
		Config:         cfg,
		RequireSession: mode == config.TransportHTTP,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "apstra mcp server", Version: version.GetVersion()}, nil)
	toolsets.AddAllTools(toolsets.Deps{
		Client:     apstra,
		Sessions:   sessions,
		Resolver:   resolver,
		Config:     cfg,
		Transport:  mode,
		ConfigFile: configFile,
	}, mcpServer)

	if mode == config.TransportStdio {
		zap.L().Info("MCP server started on stdio", zap.String("config-file", configFile))
		return mcpServer.Run(cmd.Context(), &mcp.StdioTransport{})
	}

	sessions.StartSweeper(cmd.Context(), sweepInterval)

	handler := mcp.NewStreamableHTTPHandler(func(request *http.Request) *mcp.Server {
		return mcpServer
	}, &mcp.StreamableHTTPOptions{})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "healthy",
			"transport": string(config.TransportHTTP),
			"sessions":  sessions.Len(),
		})
	})
	mux.Handle("/", handler)

	addr := fmt.Sprintf("%s:%d", host, port)
	zap.L().Info("MCP server started on http", zap.String("addr", addr))

	return http.ListenAndServe(addr, mux)
}
