package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// handleToolCall returns the shared handler wired to every catalog entry.
// The tool name selects the API route; arguments pass through untyped, and
// anything the API rejects comes back as an in-band error envelope. A failed
// call never raises a transport-level fault, so the calling model can read
// and reason about the error text.
func handleToolCall(p *APIProxy) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.Params.Name

		route, ok := toolRoutes[name]
		if !ok {
			return errorResult(fmt.Sprintf("Error: Unknown tool: %s", name)), nil
		}

		body, err := p.forward(ctx, route, request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		var payload interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			return errorResult(fmt.Sprintf("Error: failed to parse API response: %v", err)), nil
		}

		pretty, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		return textResult(string(pretty)), nil
	}
}
