package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mcpSkillDoc = `---
name: pdf-tools
description: Extracts text from PDF files. Use when the user says "extract PDF text".
---

# pdf-tools

## Overview

Extract text from PDF documents.
`

func callEvaluate(t *testing.T, args map[string]interface{}) *mcptypes.CallToolResult {
	t.Helper()
	req := mcptypes.CallToolRequest{}
	req.Params.Name = "evaluate_skill"
	req.Params.Arguments = args

	result, err := handleEvaluate(context.Background(), req)
	require.NoError(t, err)
	return result
}

func TestHandleEvaluate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdf-tools")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(mcpSkillDoc), 0o644))

	result := callEvaluate(t, map[string]interface{}{"path": dir})
	require.False(t, result.IsError)

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcptypes.TextContent)
	require.True(t, ok)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	assert.Equal(t, "pdf-tools", decoded["skill_name"])
	assert.NotEmpty(t, decoded["grade"])
}

func TestHandleEvaluateMissingPath(t *testing.T) {
	result := callEvaluate(t, map[string]interface{}{})
	assert.True(t, result.IsError)
}

func TestHandleEvaluateBadPath(t *testing.T) {
	result := callEvaluate(t, map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing")})
	assert.True(t, result.IsError)
}

func TestNewServerRegistersTool(t *testing.T) {
	assert.NotNil(t, NewServer())
}
