package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "apstra-mcp",
	Short: "Apstra Model Context Protocol (MCP) Server",
	Long: `The MCP server exposes the Apstra fabric controller REST API (blueprints,
virtual networks, routing zones, remote gateways, templates, deployment)
as tools callable over stdio or streamable HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

// Execute runs the root command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set the log level (debug, info, warn, error)")
}

func initLogger() {
	if strings.ToLower(logLevel) == "debug" {
		zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
	} else {
		config := zap.NewProductionConfig()
		// remove the "caller" key from the log output
		config.EncoderConfig.CallerKey = zapcore.OmitKey
		// stdio transport owns stdout, logs must go to stderr
		config.OutputPaths = []string{"stderr"}
		zap.ReplaceGlobals(zap.Must(config.Build()))
	}
}
