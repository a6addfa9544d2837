package cmd

import (
	"github.com/huangsam/pkgpulse/internal/iostore"
	"github.com/huangsam/pkgpulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the pkgpulse MCP server",
	Long:  `Launch an MCP server that allows AI agents to query download records via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, iostore.Manager.GetRecordStore())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
