// Package mcptools exposes the zap engine as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jmylchreest/blockzap/internal/output"
	"github.com/jmylchreest/blockzap/internal/version"
	"github.com/jmylchreest/blockzap/pkg/block"
	"github.com/jmylchreest/blockzap/pkg/zap"
)

// NewServer creates an MCP server with every blockzap tool registered.
func NewServer(z *zap.Zapper) *server.MCPServer {
	s := server.NewMCPServer(
		"blockzap",
		version.String(),
		server.WithToolCapabilities(true),
	)
	Register(s, z)
	return s
}

// Register adds the blockzap tools to s.
func Register(s *server.MCPServer, z *zap.Zapper) {
	s.AddTool(zapTool(), zapHandler(z))
	s.AddTool(inspectTool(), inspectHandler(z))
	s.AddTool(categoriesTool(), categoriesHandler(z))
}

// --- zap_blocks ---

func zapTool() mcp.Tool {
	return mcp.NewTool("zap_blocks",
		mcp.WithDescription("Strip presentation metadata from a block document. Returns the cleaned blocks and a report of removed attributes."),
		mcp.WithString("blocks",
			mcp.Description(`Block document as JSON: an array of {name, attributes, innerBlocks} objects, or {"blocks": [...]}.`),
			mcp.Required(),
		),
		mcp.WithString("mode",
			mcp.Description("selective removes the listed categories; mega removes everything except essential (and media when keep_media is true)."),
			mcp.Enum(string(zap.ModeSelective), string(zap.ModeMega)),
		),
		mcp.WithArray("remove",
			mcp.Description("Categories to remove in selective mode, e.g. blockStyles, customClasses. Defaults to blockStyles and customClasses."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("keep_media",
			mcp.Description("Protect media attributes (ids, urls, dimensions). Defaults to true."),
		),
	)
}

func zapHandler(z *zap.Zapper) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := parseBlocks(req)
		if err != nil {
			return toolError(err)
		}
		mode, err := zap.ParseMode(req.GetString("mode", ""))
		if err != nil {
			return toolError(err)
		}
		opts, err := parseOptions(req)
		if err != nil {
			return toolError(err)
		}

		res := z.CleanForest(doc.Blocks, mode, opts)

		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return toolError(fmt.Errorf("encode result: %w", err))
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// --- inspect_blocks ---

func inspectTool() mcp.Tool {
	return mcp.NewTool("inspect_blocks",
		mcp.WithDescription("Count which attribute categories occur in a block document without changing it."),
		mcp.WithString("blocks",
			mcp.Description("Block document as JSON."),
			mcp.Required(),
		),
	)
}

func inspectHandler(z *zap.Zapper) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := parseBlocks(req)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(output.InventorySummary(z.Inventory(doc.Blocks))), nil
	}
}

// --- list_categories ---

func categoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List attribute categories and the keys each one claims."),
	)
}

func categoriesHandler(z *zap.Zapper) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		for _, info := range z.Taxonomy().Describe() {
			note := "removable"
			if !info.Removable {
				note = "protected"
			}
			fmt.Fprintf(&sb, "%s (%s, %s): %s\n", info.Name, info.Title, note, strings.Join(info.Keys, ", "))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func parseBlocks(req mcp.CallToolRequest) (block.Document, error) {
	raw := req.GetString("blocks", "")
	if strings.TrimSpace(raw) == "" {
		return block.Document{}, fmt.Errorf("blocks is required")
	}
	return block.FromJSON([]byte(raw))
}

func parseOptions(req mcp.CallToolRequest) (zap.Options, error) {
	keepMedia := req.GetBool("keep_media", true)
	names := req.GetStringSlice("remove", nil)
	if len(names) == 0 {
		opts := zap.DefaultOptions()
		opts.KeepMedia = keepMedia
		return opts, nil
	}
	return zap.OptionsFromNames(names, keepMedia)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
