package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/mcp"
	"github.com/jingkaihe/skillgrade/pkg/presenter"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluation pipeline as an MCP tool over stdio",
	Long: `Serve exposes the evaluate_skill tool over the Model Context Protocol
on stdin/stdout, so MCP-capable clients can grade skills directly.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := mcp.ServeStdio(); err != nil {
			presenter.Error(err, "MCP server failed")
			os.Exit(1)
		}
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
