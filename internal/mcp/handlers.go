package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/investor-portal/internal/interfaces"
	"github.com/bobmcallan/investor-portal/internal/investors"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// textResult creates an MCP text result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// ListInvestorsHandler returns the handler for list_investors.
func ListInvestorsHandler(source interfaces.InvestorSource) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state := investors.ParseSortState(
			request.GetString("sort_field", ""),
			request.GetString("sort_direction", ""),
		)

		resp, err := source.ListInvestors(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to fetch investors: %v", err)), nil
		}

		return textResult(formatInvestorList(investors.NewListView(resp, state))), nil
	}
}

// GetInvestorCommitmentsHandler returns the handler for get_investor_commitments.
func GetInvestorCommitmentsHandler(source interfaces.InvestorSource, currency string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetArguments()["id"]; !ok {
			return errorResult("id is required"), nil
		}
		id := request.GetInt("id", 0)

		detail, err := source.GetInvestor(ctx, id)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to fetch investor details: %v", err)), nil
		}

		selected := request.GetString("asset_class", "")
		return textResult(formatInvestorDetail(investors.NewDetailView(id, detail, selected), currency)), nil
	}
}

// formatInvestorList renders the list view as a markdown table.
func formatInvestorList(view investors.ListView) string {
	var sb strings.Builder
	sb.WriteString("# Investors\n\n")
	fmt.Fprintf(&sb, "Sorted by %s (%s). %d investors.\n\n", view.Sort.Field, view.Sort.Direction, len(view.Rows))

	if len(view.Rows) == 0 {
		sb.WriteString("No investors.\n")
		return sb.String()
	}

	sb.WriteString("| Id | Name | Type | Country | Total Commitment |\n")
	sb.WriteString("|---:|---|---|---|---:|\n")
	for _, row := range view.Rows {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
			row.DetailID,
			cell(row.Name),
			cell(row.InvestorType),
			cell(row.Country),
			investors.FormatCurrency(row.TotalCommitments),
		)
	}
	return sb.String()
}

// formatInvestorDetail renders the detail view as markdown: the asset class
// totals, then the (possibly filtered) commitments.
func formatInvestorDetail(view investors.DetailView, currency string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", view.Name)
	fmt.Fprintf(&sb, "%s, %s\n\n", view.Type, view.Country)

	sb.WriteString("## Totals by asset class\n\n")
	sb.WriteString("| Asset Class | Amount |\n")
	sb.WriteString("|---|---:|\n")
	classes := view.Totals.Classes()
	for _, total := range classes {
		fmt.Fprintf(&sb, "| %s | %s |\n", cell(total.AssetClass), investors.FormatCardAmount(total.Amount, currency))
	}
	grand := investors.FormatCardAmount(view.Totals.All(), currency)
	fmt.Fprintf(&sb, "| %s | %s |\n\n", investors.AllAssetClasses, grand)
	fmt.Fprintf(&sb, "%s committed across %d asset classes.\n", grand, len(classes))

	sb.WriteString("\n## Commitments")
	if view.Selected != "" && view.Selected != investors.AllAssetClasses {
		fmt.Fprintf(&sb, " (%s)", view.Selected)
	}
	sb.WriteString("\n\n")

	if len(view.Commitments) == 0 {
		sb.WriteString("No commitments.\n")
		return sb.String()
	}

	sb.WriteString("| Id | Asset Class | Currency | Amount |\n")
	sb.WriteString("|---:|---|---|---:|\n")
	for _, c := range view.Commitments {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", c.ID, cell(c.AssetClass), cell(c.Currency), investors.FormatAmount(c.Amount))
	}
	return sb.String()
}

// cell escapes pipes so values cannot break the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
