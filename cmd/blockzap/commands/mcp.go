package commands

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/blockzap/internal/logger"
	"github.com/jmylchreest/blockzap/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio",
	Long: `Expose zap_blocks, inspect_blocks and list_categories as MCP tools over
stdin/stdout. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	initLogger()

	z, err := newZapper()
	if err != nil {
		return err
	}

	logger.Info("mcp server starting on stdio")
	if err := server.ServeStdio(mcptools.NewServer(z)); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
