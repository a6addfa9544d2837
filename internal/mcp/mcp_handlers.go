package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.RecordStore
}

// parseKeyArg turns a slash-joined key argument into a hierarchy key.
func parseKeyArg(arg string) (schema.Key, error) {
	return schema.NewKey(strings.Split(arg, "/")...)
}

// loadRecord resolves the record for a key argument, distinguishing bad input
// from missing data.
func (h *toolHandler) loadRecord(arg string) (*schema.LevelRecord, error) {
	key, err := parseKeyArg(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid key %q: %w", arg, err)
	}
	rec, err := h.store.Load(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load record for %s: %w", key, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("no record found for %s", key)
	}
	return rec, nil
}

func (h *toolHandler) handleGetTopChildren(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := h.loadRecord(request.GetString("key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rec.Key.IsLeaf() {
		return mcp.NewToolResultError(fmt.Sprintf("%s is a leaf key and has no children", rec.Key)), nil
	}

	// Current breakdowns are stored ascending; report them top-first
	entries := make([]schema.BreakdownEntry, len(rec.Current))
	for i, e := range rec.Current {
		entries[len(rec.Current)-1-i] = e
	}
	if l := request.GetInt("limit", 0); l > 0 && l < len(entries) {
		entries = entries[:l]
	}

	type childEntry struct {
		Child string `json:"child"`
		Total int64  `json:"total"`
	}
	output := struct {
		Key        string       `json:"key"`
		ChildLevel string       `json:"child_level"`
		Children   []childEntry `json:"children"`
	}{
		Key:        rec.Key.String(),
		ChildLevel: h.baseCfg.Topology.ChildLevel(rec.Key.Depth()),
	}
	for _, e := range entries {
		output.Children = append(output.Children, childEntry{Child: e.Child, Total: e.Total})
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSeries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := h.loadRecord(request.GetString("key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type point struct {
		Date  string `json:"date"`
		Total int64  `json:"total"`
	}
	output := struct {
		Key    string  `json:"key"`
		Points []point `json:"downloads_per_date"`
	}{Key: rec.Key.String()}
	for _, p := range rec.Series {
		output.Points = append(output.Points, point{Date: string(p.Date), Total: p.Total})
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRecentActivity(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := h.loadRecord(request.GetString("key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rec.Key.IsLeaf() {
		return mcp.NewToolResultError(fmt.Sprintf("%s is a leaf key and has no children", rec.Key)), nil
	}

	type childEntry struct {
		Child string `json:"child"`
		Total int64  `json:"total"`
	}
	type recentEntry struct {
		Date     string       `json:"date"`
		Children []childEntry `json:"children"`
	}
	output := struct {
		Key    string        `json:"key"`
		Recent []recentEntry `json:"recent_downloads"`
	}{Key: rec.Key.String()}
	for _, re := range rec.Recent {
		entry := recentEntry{Date: string(re.Date)}
		for _, c := range re.Children {
			entry.Children = append(entry.Children, childEntry{Child: c.Child, Total: c.Total})
		}
		output.Recent = append(output.Recent, entry)
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListKeys(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys, err := h.store.Keys()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list keys: %v", err)), nil
	}

	prefix := request.GetString("prefix", "")
	var out []string
	for _, k := range keys {
		s := k.String()
		if prefix != "" && s != prefix && !strings.HasPrefix(s, prefix+"/") {
			continue
		}
		out = append(out, s)
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
