package handlers

import (
	"net/http"

	"github.com/bobmcallan/investor-portal/internal/cache"
	"github.com/bobmcallan/investor-portal/internal/common"
)

type cacheStatus struct {
	Enabled    bool `json:"enabled"`
	TTLSeconds int  `json:"ttl_seconds"`
	Entries    int  `json:"entries"`
}

type healthStatus struct {
	Status string      `json:"status"`
	APIURL string      `json:"api_url"`
	Cache  cacheStatus `json:"cache"`
}

// HealthHandler reports liveness along with where investors are read from
// and the state of the query cache. It never calls upstream; see
// ServerHealthHandler for that.
type HealthHandler struct {
	logger *common.Logger
	apiURL string
	cache  *cache.QueryCache
}

// NewHealthHandler creates a new health handler. qc may be nil when caching
// is disabled.
func NewHealthHandler(logger *common.Logger, apiURL string, qc *cache.QueryCache) *HealthHandler {
	return &HealthHandler{logger: loggerOrSilent(logger), apiURL: apiURL, cache: qc}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, healthStatus{
		Status: "ok",
		APIURL: h.apiURL,
		Cache: cacheStatus{
			Enabled:    h.cache.Enabled(),
			TTLSeconds: int(h.cache.TTL().Seconds()),
			Entries:    h.cache.Len(),
		},
	})
}
