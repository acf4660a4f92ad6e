package http

import (
	"net/http"
	"time"

	"github.com/dramatize/streamgate/internal/gate/store"
	"github.com/dramatize/streamgate/pkg/httpx"
	"github.com/dramatize/streamgate/pkg/slogx"
)

// SystemHandler serves liveness and readiness probes.
type SystemHandler struct {
	Store       store.Store
	ReadyChecks []ReadyCheck
	StartTime   time.Time
}

// HandleLivez handles GET /livez.
//
//	@Summary	Liveness probe
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/livez [get]
func (h *SystemHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.StartTime).Round(time.Second).String(),
	})
}

// HandleReadyz handles GET /readyz. Ready means the store answers and every
// extra dependency probe passes.
//
//	@Summary	Readiness probe
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/readyz [get]
func (h *SystemHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Store.Ping(ctx); err != nil {
		slogx.FromContext(ctx).Error("readyz: store unreachable", "err", err)
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"failed": "store",
		})
		return
	}

	for _, check := range h.ReadyChecks {
		if err := check.Check(ctx); err != nil {
			slogx.FromContext(ctx).Error("readyz: dependency unreachable",
				"dependency", check.Name, "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"failed": check.Name,
			})
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
