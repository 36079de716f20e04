package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/investor-portal/internal/common"
)

// PageHandler renders HTML pages from the pages directory. With reload set,
// templates are parsed again for every page so edits show without a restart.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	pagesDir  string
	staticDir string
	reload    bool
}

// NewPageHandler creates a page handler that loads templates from the pages
// directory. reload is meant for dev mode.
func NewPageHandler(logger *common.Logger, reload bool) *PageHandler {
	return newPageHandlerAt(logger, FindPagesDir(), reload)
}

func newPageHandlerAt(logger *common.Logger, pagesDir string, reload bool) *PageHandler {
	return &PageHandler{
		logger:    logger,
		templates: template.Must(parseTemplates(pagesDir)),
		pagesDir:  pagesDir,
		staticDir: filepath.Join(pagesDir, "static"),
		reload:    reload,
	}
}

func parseTemplates(pagesDir string) (*template.Template, error) {
	templates, err := template.ParseGlob(filepath.Join(pagesDir, "*.html"))
	if err != nil {
		return nil, err
	}
	return templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html"))
}

// ReloadsTemplates reports whether templates are re-read per page.
func (h *PageHandler) ReloadsTemplates() bool {
	return h.reload
}

// current returns the templates for one page. A failed reload keeps the
// templates parsed at startup.
func (h *PageHandler) current() *template.Template {
	if !h.reload {
		return h.templates
	}
	templates, err := parseTemplates(h.pagesDir)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn().Str("dir", h.pagesDir).Err(err).Msg("template reload failed")
		}
		return h.templates
	}
	return templates
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// StaticFileHandler serves static files (CSS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static/")
	fullPath := filepath.Join(h.staticDir, filepath.FromSlash(path))

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(h.staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if !strings.HasPrefix(absFullPath, absStaticDir+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}

// shell is the data of the page head partial.
type shell struct {
	Title   string
	Page    string
	Loading string
}

// failure is the data of the error partial.
type failure struct {
	Toast   string
	Message string
}

// pageStream writes a page in two steps: the shell with its loading message
// is flushed before the data is fetched, the content or error state follows.
// The status is always 200 once the shell has gone out.
type pageStream struct {
	h         *PageHandler
	templates *template.Template
	w         http.ResponseWriter
	page      string
}

func (h *PageHandler) begin(w http.ResponseWriter, s shell) *pageStream {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	p := &pageStream{h: h, templates: h.current(), w: w, page: s.Page}
	p.execute("head", s)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return p
}

// content hides the loader and renders the named template.
func (p *pageStream) content(name string, data interface{}) {
	p.execute("loaded", nil)
	p.execute(name, data)
	p.execute("footer", nil)
}

// fail hides the loader and renders the error toast and static message.
func (p *pageStream) fail(toast, message string) {
	p.execute("loaded", nil)
	p.execute("error", failure{Toast: toast, Message: message})
	p.execute("footer", nil)
}

func (p *pageStream) execute(name string, data interface{}) {
	if err := p.templates.ExecuteTemplate(p.w, name, data); err != nil && p.h.logger != nil {
		p.h.logger.Error().Str("page", p.page).Str("template", name).Err(err).Msg("failed to render page")
	}
}
