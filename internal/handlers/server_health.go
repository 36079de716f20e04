package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/investor-portal/internal/common"
	"github.com/bobmcallan/investor-portal/internal/interfaces"
)

// ServerHealthHandler reports whether the upstream investors API answers.
type ServerHealthHandler struct {
	logger   *common.Logger
	upstream interfaces.HealthChecker
}

// NewServerHealthHandler creates a new server health handler.
func NewServerHealthHandler(logger *common.Logger, upstream interfaces.HealthChecker) *ServerHealthHandler {
	return &ServerHealthHandler{logger: loggerOrSilent(logger), upstream: upstream}
}

// ServeHTTP handles GET /api/server-health.
func (h *ServerHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.upstream.Ping(ctx); err != nil {
		h.logger.ForContext(r.Context()).Warn().Err(err).Msg("investors API health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
