package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"

	"github.com/bobmcallan/investor-portal/internal/app"
	"github.com/bobmcallan/investor-portal/internal/common"
	"github.com/bobmcallan/investor-portal/internal/config"
	"github.com/bobmcallan/investor-portal/internal/investors"
	"github.com/bobmcallan/investor-portal/internal/server"
)

const configFileName = "investor-portal.toml"

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// options are the command line settings. Zero values leave the config alone.
type options struct {
	configFiles configPaths
	port        int
	host        string
	apiURL      string
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	var shortPort int

	fs := flag.NewFlagSet("investor-portal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Var(&opts.configFiles, "config", "Configuration file path (can be specified multiple times)")
	fs.Var(&opts.configFiles, "c", "Configuration file path (shorthand)")
	fs.IntVar(&opts.port, "port", 0, "Server port (overrides config)")
	fs.IntVar(&shortPort, "p", 0, "Server port (shorthand)")
	fs.StringVar(&opts.host, "host", "", "Server host (overrides config)")
	fs.StringVar(&opts.apiURL, "api", "", "Investors API base URL (overrides config)")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if shortPort != 0 {
		opts.port = shortPort
	}
	return opts, nil
}

// resolveConfig loads the config files (auto-discovered when none are given)
// and applies the flags on top. It returns the files actually read.
func resolveConfig(opts *options) (*config.Config, []string, error) {
	files := []string(opts.configFiles)
	if len(files) == 0 {
		if found, ok := lo.Find(portalConfigSearchPaths(), fileExists); ok {
			files = []string{found}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, files, err
	}
	config.ApplyFlagOverrides(cfg, opts.port, opts.host, opts.apiURL)

	if issues := cfg.Validate(); len(issues) > 0 {
		return cfg, files, &configError{issues: issues}
	}
	return cfg, files, nil
}

// configError lists every mandatory setting that is missing or invalid.
type configError struct {
	issues []string
}

func (e *configError) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration error: mandatory fields are missing or invalid:\n\n")
	for _, issue := range e.issues {
		fmt.Fprintf(&sb, "  - %s\n", issue)
	}
	sb.WriteString("\nSee config/investor-portal.toml for an example configuration.\n")
	sb.WriteString("Values can be set via TOML file, PORTAL_* environment variables, or CLI flags.\n")
	return sb.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// portalConfigSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths come first, then the working directory and the
// Docker layout.
func portalConfigSearchPaths() []string {
	paths := []string{
		configFileName,
		filepath.Join("config", configFileName),
		filepath.Join("docker", configFileName),
	}

	if exe, err := os.Executable(); err == nil {
		binDir := filepath.Dir(exe)
		paths = append([]string{
			filepath.Join(binDir, configFileName),
			filepath.Join(binDir, "config", configFileName),
		}, paths...)
	}

	return lo.UniqBy(paths, func(p string) string {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	})
}

func loggingConfig(cfg *config.Config) common.LoggingConfig {
	return common.LoggingConfig{
		Level:      cfg.Logging.Level,
		Outputs:    cfg.Logging.Outputs,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
}

// cacheSummary describes the query cache setting for the startup log.
func cacheSummary(cfg *config.Config) string {
	if cfg.CacheTTL() <= 0 {
		return "disabled"
	}
	return fmt.Sprintf("ttl=%s max_entries=%d", cfg.CacheTTL(), cfg.Cache.MaxEntries)
}

// apiSource names where the investors API URL came from.
func apiSource(opts *options) string {
	if opts.apiURL != "" {
		return "flag"
	}
	if os.Getenv("PORTAL_API_URL") != "" {
		return "env"
	}
	return "config"
}

func logStartup(logger *common.Logger, cfg *config.Config, opts *options, files []string) {
	logger.Info().
		Str("version", config.GetFullVersion()).
		Str("environment", cfg.Environment).
		Str("listen", cfg.BaseURL()).
		Str("config_files", fmt.Sprintf("%v", files)).
		Msg("configuration loaded")

	logger.Info().
		Str("api_url", cfg.API.URL).
		Str("api_source", apiSource(opts)).
		Str("api_timeout", cfg.APITimeout().String()).
		Str("cache", cacheSummary(cfg)).
		Str("currency", cfg.Display.Currency).
		Str("currency_symbol", investors.CurrencySymbol(cfg.Display.Currency)).
		Msg("investors API")

	if cfg.CacheTTL() <= 0 {
		logger.Warn().Msg("query cache disabled: every page render fetches the investors API")
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, logger *common.Logger) error {
	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer application.Close()

	srv := server.New(application)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	logger.Info().Str("url", cfg.BaseURL()).Msg("server ready")

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("investor-portal %s\n", config.GetFullVersion())
		return
	}

	cfg, files, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %v: %v\n", files, err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(loggingConfig(cfg))
	logStartup(logger, cfg, opts, files)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
