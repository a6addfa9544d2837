// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the pkgpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.RecordStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Package Downloads Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: get_top_children ---
	s.AddTool(mcp.NewTool("get_top_children",
		mcp.WithDescription("Get the highest-download children of a hierarchy node, e.g. the top packages of a channel."),
		mcp.WithString("key", mcp.Description("Slash-joined hierarchy address, e.g. 'bioconda' or 'bioconda/samtools'."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTopChildren)

	// --- 2. Tool: get_series ---
	s.AddTool(mcp.NewTool("get_series",
		mcp.WithDescription("Get the per-date cumulative download history of a hierarchy node."),
		mcp.WithString("key", mcp.Description("Slash-joined hierarchy address of the node."), mcp.Required()),
	), h.handleGetSeries)

	// --- 3. Tool: get_recent_activity ---
	s.AddTool(mcp.NewTool("get_recent_activity",
		mcp.WithDescription("Get the recent download activity of a node's children within the rolling window."),
		mcp.WithString("key", mcp.Description("Slash-joined hierarchy address of the node."), mcp.Required()),
	), h.handleGetRecentActivity)

	// --- 4. Tool: list_keys ---
	s.AddTool(mcp.NewTool("list_keys",
		mcp.WithDescription("List all hierarchy keys with stored download records."),
		mcp.WithString("prefix", mcp.Description("Only return keys under this slash-joined prefix.")),
	), h.handleListKeys)

	return s
}

// StartMCPServer starts the pkgpulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.RecordStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
