package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/investor-portal/internal/cache"
	"github.com/bobmcallan/investor-portal/internal/client"
	"github.com/bobmcallan/investor-portal/internal/common"
	"github.com/bobmcallan/investor-portal/internal/config"
	"github.com/bobmcallan/investor-portal/internal/mcp"
)

const defaultConfigFile = "investor-portal.toml"

// loadConfig reads the portal config, tolerating a missing default file.
// A non-empty apiURL overrides the configured investors API. The result is
// validated the same way the portal validates it.
func loadConfig(path, apiURL string) (*config.Config, error) {
	var paths []string
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		} else if path != defaultConfigFile {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		return nil, err
	}
	config.ApplyFlagOverrides(cfg, 0, "", apiURL)

	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}
	return cfg, nil
}

// loggingConfig keeps stdout free for the stdio transport.
func loggingConfig(cfg *config.Config, stdio bool) common.LoggingConfig {
	filePath := cfg.Logging.FilePath
	if filePath == "" {
		filePath = "logs/investor-mcp.log"
	}
	outputs := cfg.Logging.Outputs
	if stdio {
		outputs = []string{"file"}
	}
	return common.LoggingConfig{
		Level:      cfg.Logging.Level,
		Outputs:    outputs,
		FilePath:   filePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
}

func newInvestorClient(cfg *config.Config) *client.InvestorClient {
	opts := []client.Option{client.WithTimeout(cfg.APITimeout())}
	if ttl := cfg.CacheTTL(); ttl > 0 {
		opts = append(opts, client.WithCache(cache.New(ttl, cfg.Cache.MaxEntries)))
	}
	return client.NewInvestorClient(cfg.API.URL, opts...)
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", defaultConfigFile, "Path to config file")
	apiURL := flag.String("api", "", "Investors API base URL (overrides config)")
	port := flag.Int("port", 4243, "Port for the streamable HTTP transport")
	flag.Parse()

	cfg, err := loadConfig(*configFile, *apiURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(loggingConfig(cfg, *stdio))
	mcpServer := mcp.NewServer(newInvestorClient(cfg), cfg.Display.Currency)

	logger.Info().
		Str("api_url", cfg.API.URL).
		Str("version", config.GetVersion()).
		Msg("investor-mcp starting")

	if *stdio {
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Error().Err(err).Msg("stdio server error")
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info().Str("addr", addr).Msg("Starting MCP Streamable HTTP")
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on %s\n", addr)

	if err := httpServer.Start(addr); err != nil {
		logger.Error().Err(err).Msg("http server error")
		os.Exit(1)
	}
}
