package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/investor-portal/internal/config"
	"github.com/bobmcallan/investor-portal/internal/interfaces"
)

// versionResult is the get_version payload.
type versionResult struct {
	Portal       config.VersionInfo `json:"investor_portal"`
	InvestorsAPI string             `json:"investors_api"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the investor portal version and whether the investors API is reachable. Use this to verify connectivity."),
	)
}

// VersionToolHandler returns a handler reporting the portal version and the
// upstream status ("ok" or "down").
func VersionToolHandler(upstream interfaces.HealthChecker) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := versionResult{
			Portal:       config.GetVersionInfo(),
			InvestorsAPI: "ok",
		}

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := upstream.Ping(pingCtx); err != nil {
			result.InvestorsAPI = "down"
		}

		out, err := json.Marshal(result)
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
