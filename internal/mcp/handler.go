package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/investor-portal/internal/common"
	"github.com/bobmcallan/investor-portal/internal/config"
	"github.com/bobmcallan/investor-portal/internal/interfaces"
)

// Source is what the MCP tools read from: investors for the views and a
// health check for get_version.
type Source interface {
	interfaces.InvestorSource
	interfaces.HealthChecker
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a new MCP handler exposing the investor views as tools.
// Card amounts are labelled with the display currency's symbol.
func NewHandler(source Source, currency string, logger *common.Logger) *Handler {
	mcpSrv := newMCPServer()
	toolCount := RegisterTools(mcpSrv, source, currency)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", toolCount).
		Str("currency", currency).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// NewServer builds the MCP server with every investor tool registered.
func NewServer(source Source, currency string) *mcpserver.MCPServer {
	mcpSrv := newMCPServer()
	RegisterTools(mcpSrv, source, currency)
	return mcpSrv
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer(
		"investor-portal",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
