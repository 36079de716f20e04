package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/investor-portal/internal/cache"
	"github.com/bobmcallan/investor-portal/internal/client"
	"github.com/bobmcallan/investor-portal/internal/common"
	"github.com/bobmcallan/investor-portal/internal/config"
	"github.com/bobmcallan/investor-portal/internal/handlers"
	"github.com/bobmcallan/investor-portal/internal/mcp"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Cache  *cache.QueryCache
	Client *client.InvestorClient

	// HTTP handlers
	PageHandler           *handlers.PageHandler
	HealthHandler         *handlers.HealthHandler
	VersionHandler        *handlers.VersionHandler
	ServerHealthHandler   *handlers.ServerHealthHandler
	InvestorListHandler   *handlers.InvestorListHandler
	InvestorDetailHandler *handlers.InvestorDetailHandler
	MCPHandler            *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "prod" && env != "dev" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	a.initClient()
	a.initHandlers()

	if cfg.IsDevMode() {
		logger.Info().Str("pages_dir", handlers.FindPagesDir()).Msg("dev mode: page templates reload on every request")
	}

	logger.Info().
		Str("api_url", cfg.API.URL).
		Str("cache_ttl", cfg.CacheTTL().String()).
		Str("currency", cfg.Display.Currency).
		Str("environment", cfg.Environment).
		Msg("application initialization complete")

	return a, nil
}

// initClient creates the investors API client and its query cache.
func (a *App) initClient() {
	opts := []client.Option{client.WithTimeout(a.Config.APITimeout())}

	if ttl := a.Config.CacheTTL(); ttl > 0 {
		a.Cache = cache.New(ttl, a.Config.Cache.MaxEntries)
		opts = append(opts, client.WithCache(a.Cache))
	}

	a.Client = client.NewInvestorClient(a.Config.API.URL, opts...)
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger, a.Config.IsDevMode())
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Config.API.URL, a.Cache)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ServerHealthHandler = handlers.NewServerHealthHandler(a.Logger, a.Client)

	a.InvestorListHandler = handlers.NewInvestorListHandler(a.Logger, a.PageHandler, a.Client)
	a.InvestorDetailHandler = handlers.NewInvestorDetailHandler(a.Logger, a.PageHandler, a.Client, a.Config.Display.Currency)

	a.MCPHandler = mcp.NewHandler(a.Client, a.Config.Display.Currency, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Cache != nil {
		a.Cache.InvalidatePrefix("")
	}
	return nil
}
