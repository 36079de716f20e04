package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// settingsFile is read from tests/ui when present. PORTAL_TEST_* variables
// override it.
const settingsFile = "ui_test.toml"

// Settings control the UI suite.
type Settings struct {
	// PortalURL targets an already running portal. Empty starts the
	// fixture API and the portal in containers.
	PortalURL  string `toml:"portal_url"`
	ResultsDir string `toml:"results_dir"`
	Headless   bool   `toml:"headless"`
	Timeout    string `toml:"timeout"`
	SettleMS   int    `toml:"settle_ms"`
}

var (
	settings     *Settings
	settingsOnce sync.Once
	runDir       string
	runDirOnce   sync.Once
)

func defaultSettings() *Settings {
	return &Settings{
		ResultsDir: filepath.Join("tests", "results"),
		Headless:   true,
		Timeout:    "30s",
		SettleMS:   300,
	}
}

// LoadSettings returns the suite settings, loading them once per process.
func LoadSettings() *Settings {
	settingsOnce.Do(func() {
		s := defaultSettings()
		path := filepath.Join(FindProjectRoot(), "tests", "ui", settingsFile)
		if data, err := os.ReadFile(path); err == nil {
			if err := toml.Unmarshal(data, s); err != nil {
				fmt.Fprintf(os.Stderr, "ignoring %s: %v\n", path, err)
			}
		}
		s.applyEnv()
		settings = s
	})
	return settings
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("PORTAL_TEST_URL"); v != "" {
		s.PortalURL = v
	}
	if v := os.Getenv("PORTAL_TEST_RESULTS_DIR"); v != "" {
		s.ResultsDir = v
	}
	if v := os.Getenv("PORTAL_TEST_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.Headless = b
		}
	}
	s.PortalURL = strings.TrimRight(s.PortalURL, "/")
}

// BrowserTimeout bounds a single test's browser session.
func (s *Settings) BrowserTimeout() time.Duration {
	if d, err := time.ParseDuration(s.Timeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// Settle is the pause after a navigation before the page is inspected.
func (s *Settings) Settle() time.Duration {
	if s.SettleMS <= 0 {
		return 0
	}
	return time.Duration(s.SettleMS) * time.Millisecond
}

// ArtifactDir returns <results>/<run>/<kind>, creating it on first use.
// Every artifact of one test run shares the run timestamp.
func (s *Settings) ArtifactDir(kind string) string {
	runDirOnce.Do(func() {
		base := s.ResultsDir
		if !filepath.IsAbs(base) {
			base = filepath.Join(FindProjectRoot(), base)
		}
		runDir = filepath.Join(base, time.Now().Format("2006-01-02-15-04-05"))
	})

	dir := filepath.Join(runDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "results dir %s: %v\n", dir, err)
		return os.TempDir()
	}
	return dir
}

// FindProjectRoot walks up from the working directory to the go.mod.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
