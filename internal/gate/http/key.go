package http

import (
	"net/http"

	"github.com/dramatize/streamgate/internal/gate/service"
	"github.com/dramatize/streamgate/pkg/httpx"
)

// KeyHandler serves the per-video AES-128 content key. The key is derived
// on every request and protected by the same gate as the segments it
// decrypts; it is never written to disk or logged.
type KeyHandler struct {
	Keys *service.KeyService
}

// ServeHTTP handles GET /api/video/{videoId}/key.
//
//	@Summary	Fetch the AES-128 content key for a video
//	@Tags		video
//	@Produce	octet-stream
//	@Param		videoId	path		string	true	"video id"
//	@Param		token	query		string	true	"stream token"
//	@Success	200		{file}		binary	"16 key bytes"
//	@Failure	403		{object}	map[string]string
//	@Failure	429		{object}	map[string]string
//	@Router		/api/video/{videoId}/key [get]
func (h *KeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := h.Keys.DeriveKey(r.PathValue("videoId"))

	w.Header().Set("Content-Type", "application/octet-stream")
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(key)
}
