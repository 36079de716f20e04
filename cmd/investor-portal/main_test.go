package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/investor-portal/internal/config"
)

func TestPortalConfigSearchPaths(t *testing.T) {
	paths := portalConfigSearchPaths()

	found := false
	seen := map[string]bool{}
	for _, p := range paths {
		if p == "investor-portal.toml" {
			found = true
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			t.Fatalf("abs %s: %v", p, err)
		}
		if seen[abs] {
			t.Errorf("duplicate search path %s", p)
		}
		seen[abs] = true
	}
	if !found {
		t.Errorf("expected working-directory investor-portal.toml in %v", paths)
	}
}

func TestParseFlags_ShortPortWins(t *testing.T) {
	args := []string{"-port", "5000", "-p", "6000", "-api", "http://api:8000", "-c", "a.toml", "-config", "b.toml"}
	opts, err := parseFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.port != 6000 {
		t.Errorf("expected shorthand port 6000, got %d", opts.port)
	}
	if opts.apiURL != "http://api:8000" {
		t.Errorf("expected api flag, got %s", opts.apiURL)
	}
	if len(opts.configFiles) != 2 || opts.configFiles[0] != "a.toml" || opts.configFiles[1] != "b.toml" {
		t.Errorf("expected both config files in order, got %v", opts.configFiles)
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	if _, err := parseFlags([]string{"-nope"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "")
	t.Setenv("PORTAL_SERVER_PORT", "")

	path := filepath.Join(t.TempDir(), "portal.toml")
	content := `
[server]
port = 5000

[api]
url = "http://from-file:8000"

[cache]
ttl_seconds = 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	opts := &options{configFiles: configPaths{path}, apiURL: "http://from-flag:9000/"}
	cfg, files, err := resolveConfig(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("expected files [%s], got %v", path, files)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port from file, got %d", cfg.Server.Port)
	}
	if cfg.API.URL != "http://from-flag:9000" {
		t.Errorf("expected api url from flag, got %s", cfg.API.URL)
	}
	if got := apiSource(opts); got != "flag" {
		t.Errorf("expected api source flag, got %s", got)
	}
	if got := cacheSummary(cfg); got != "disabled" {
		t.Errorf("expected cache disabled, got %s", got)
	}
}

func TestResolveConfig_ReportsEveryIssue(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "")

	_, _, err := resolveConfig(&options{configFiles: configPaths{writeConfig(t, `
[api]
url = "relative"

[cache]
ttl_seconds = -5
`)}})

	var cfgErr *configError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *configError, got %v", err)
	}
	if len(cfgErr.issues) != 2 {
		t.Errorf("expected 2 issues, got %v", cfgErr.issues)
	}
	if !strings.Contains(err.Error(), "PORTAL_*") {
		t.Errorf("expected env hint in message, got %s", err.Error())
	}
}

func TestCacheSummary_Enabled(t *testing.T) {
	cfg := config.NewDefaultConfig()
	if got := cacheSummary(cfg); got != "ttl=30s max_entries=100" {
		t.Errorf("unexpected cache summary %q", got)
	}
}

func TestAPISource(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "")
	if got := apiSource(&options{}); got != "config" {
		t.Errorf("expected config, got %s", got)
	}
	t.Setenv("PORTAL_API_URL", "http://env:8000")
	if got := apiSource(&options{}); got != "env" {
		t.Errorf("expected env, got %s", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
