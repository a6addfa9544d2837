package mcp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/huangsam/pkgpulse/internal/contract"
	mcp_internal "github.com/huangsam/pkgpulse/internal/mcp"
	"github.com/huangsam/pkgpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

// TestMCPServerHandlers_ValidationErrors tests tool error paths.
func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{Topology: schema.DefaultTopology}
	store := &contract.MockRecordStore{}
	store.On("Load", mock.Anything).Return(nil, nil)

	s := mcp_internal.NewMCPServer(baseCfg, store)
	ctx := context.Background()

	t.Run("get_top_children invalid key", func(t *testing.T) {
		tool := s.GetTool("get_top_children")
		require.NotNil(t, tool, "Tool get_top_children should exist")

		res, err := tool.Handler(ctx, callToolRequest("get_top_children", map[string]any{
			"key": "",
		}))
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "invalid key")
	})

	t.Run("get_series missing record", func(t *testing.T) {
		tool := s.GetTool("get_series")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callToolRequest("get_series", map[string]any{
			"key": "bioconda/nothing",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "no record found")
	})
}

// TestMCPServerHandlers_TopChildren tests the top-children tool against a
// stored record.
func TestMCPServerHandlers_TopChildren(t *testing.T) {
	baseCfg := &contract.Config{Topology: schema.DefaultTopology}
	key := schema.MustKey("bioconda")
	leafKey := schema.MustKey("bioconda", "samtools", "1.21", "linux-64", "samtools-1.21-0.conda")

	store := &contract.MockRecordStore{}
	store.On("Load", key).Return(&schema.LevelRecord{
		Key: key,
		Current: []schema.BreakdownEntry{
			{Child: "bwa", Total: 7},
			{Child: "samtools", Total: 15},
		},
	}, nil)
	store.On("Load", leafKey).Return(&schema.LevelRecord{Key: leafKey}, nil)

	s := mcp_internal.NewMCPServer(baseCfg, store)
	ctx := context.Background()

	t.Run("reports children top-first", func(t *testing.T) {
		tool := s.GetTool("get_top_children")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callToolRequest("get_top_children", map[string]any{
			"key": "bioconda",
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := resultText(t, res)
		assert.Contains(t, text, `"child_level": "package"`)
		assert.Less(t, strings.Index(text, "samtools"), strings.Index(text, "bwa"))
	})

	t.Run("limit truncates results", func(t *testing.T) {
		tool := s.GetTool("get_top_children")
		res, err := tool.Handler(ctx, callToolRequest("get_top_children", map[string]any{
			"key":   "bioconda",
			"limit": 1.0,
		}))
		require.NoError(t, err)
		text := resultText(t, res)
		assert.Contains(t, text, "samtools")
		assert.NotContains(t, text, "bwa")
	})

	t.Run("leaf keys rejected", func(t *testing.T) {
		tool := s.GetTool("get_top_children")
		res, err := tool.Handler(ctx, callToolRequest("get_top_children", map[string]any{
			"key": leafKey.String(),
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "leaf key")
	})
}

// TestMCPServerHandlers_ListKeys tests prefix filtering for key listings.
func TestMCPServerHandlers_ListKeys(t *testing.T) {
	baseCfg := &contract.Config{Topology: schema.DefaultTopology}
	store := &contract.MockRecordStore{}
	store.On("Keys").Return([]schema.Key{
		schema.MustKey("bioconda"),
		schema.MustKey("bioconda", "samtools"),
		schema.MustKey("bioconda-extra"),
		schema.MustKey("conda-forge"),
	}, nil)

	s := mcp_internal.NewMCPServer(baseCfg, store)
	tool := s.GetTool("list_keys")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), callToolRequest("list_keys", map[string]any{
		"prefix": "bioconda",
	}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, `"bioconda"`)
	assert.Contains(t, text, `"bioconda/samtools"`)
	assert.NotContains(t, text, "bioconda-extra")
	assert.NotContains(t, text, "conda-forge")
}
