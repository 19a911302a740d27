// Package mcp exposes the evaluator as a Model Context Protocol tool so
// agent hosts can grade skills over stdio.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgrade/pkg/evaluator"
	"github.com/jingkaihe/skillgrade/pkg/version"
)

// NewServer builds the MCP server with the evaluate_skill tool registered.
func NewServer() *server.MCPServer {
	s := server.NewMCPServer("skillgrade", version.Version)

	tool := mcp.NewTool("evaluate_skill",
		mcp.WithDescription("Evaluate a skill directory and return its quality report as JSON"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Filesystem path to the skill directory"),
		),
		mcp.WithString("config_path",
			mcp.Description("Optional explicit configuration file path"),
		),
		mcp.WithBoolean("deep",
			mcp.Description("Enable deep evaluation with an external judge"),
		),
	)
	s.AddTool(tool, handleEvaluate)

	return s
}

// ServeStdio runs the MCP server over stdin/stdout until EOF.
func ServeStdio() error {
	return errors.Wrap(server.ServeStdio(NewServer()), "mcp server failed")
}

func handleEvaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)

	path, _ := args["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	configPath, _ := args["config_path"].(string)
	deep, _ := args["deep"].(bool)

	result, err := evaluator.Evaluate(ctx, path, evaluator.Options{
		ConfigPath: configPath,
		Deep:       deep,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling evaluation report")
	}
	return mcp.NewToolResultText(string(out)), nil
}
