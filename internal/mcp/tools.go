package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/investor-portal/internal/investors"
)

// RegisterTools registers the investor tools and get_version. It returns the
// number of tools registered.
func RegisterTools(s *server.MCPServer, source Source, currency string) int {
	s.AddTool(ListInvestorsTool(), ListInvestorsHandler(source))
	s.AddTool(GetInvestorCommitmentsTool(), GetInvestorCommitmentsHandler(source, currency))
	s.AddTool(VersionTool(), VersionToolHandler(source))
	return 3
}

// ListInvestorsTool returns the mcp.Tool definition for list_investors.
func ListInvestorsTool() mcp.Tool {
	fields := make([]string, 0, len(investors.SortFields))
	for _, f := range investors.SortFields {
		fields = append(fields, string(f))
	}

	return mcp.NewTool("list_investors",
		mcp.WithDescription("List all investors with their total commitments, sorted like the portal's investors table. Each row carries the id used by get_investor_commitments."),
		mcp.WithString("sort_field",
			mcp.Description("Column to sort by (default: name)"),
			mcp.Enum(fields...),
		),
		mcp.WithString("sort_direction",
			mcp.Description("Sort direction (default: asc)"),
			mcp.Enum(string(investors.Ascending), string(investors.Descending)),
		),
	)
}

// GetInvestorCommitmentsTool returns the mcp.Tool definition for get_investor_commitments.
func GetInvestorCommitmentsTool() mcp.Tool {
	return mcp.NewTool("get_investor_commitments",
		mcp.WithDescription("Get one investor's capital commitments with per asset class totals. Optionally filter the commitments to a single asset class."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Investor id as returned by list_investors"),
		),
		mcp.WithString("asset_class",
			mcp.Description("Only list commitments of this asset class; All or empty lists every commitment"),
		),
	)
}
