package http

import (
	"encoding/json"
	"net/http"

	"github.com/dramatize/streamgate/internal/gate/service"
	"github.com/dramatize/streamgate/pkg/httpx"
	"github.com/dramatize/streamgate/pkg/slogx"
)

// SecureURLHandler issues tokenized playlist URLs to authenticated viewers.
type SecureURLHandler struct {
	Tokens *service.TokenService
	Access *service.AccessService
}

type secureURLRequest struct {
	UserID  string `json:"userId"`
	VideoID string `json:"videoId"`
}

// ServeHTTP handles POST /api/video/secure-url.
//
//	@Summary		Issue a secure stream URL
//	@Description	Mints a short-lived stream token bound to the viewer, the video,
//	@Description	the requesting IP and the viewer session, and returns the
//	@Description	tokenized playlist URL the player should load.
//	@Tags			video
//	@Accept			json
//	@Produce		json
//	@Param			request	body		secureURLRequest	true	"viewer and video ids"
//	@Success		200		{object}	domain.IssuedToken
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		429		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/api/video/secure-url [post]
func (h *SecureURLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req secureURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.VideoID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Video ID and User ID are required")
		return
	}

	ok, err := h.Access.CanStream(ctx, req.UserID, req.VideoID)
	if err != nil {
		log.Error("access check failed", "err", err, "video_id", req.VideoID)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to generate secure URL")
		return
	}
	if !ok {
		log.Info("access denied", "user_id", req.UserID, "video_id", req.VideoID)
		httpx.WriteError(w, http.StatusForbidden, "Access denied")
		return
	}

	issued, err := h.Tokens.Issue(req.UserID, req.VideoID, httpx.ClientIP(r), httpx.SessionID(ctx))
	if err != nil {
		log.Error("token issuance failed", "err", err, "video_id", req.VideoID)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to generate secure URL")
		return
	}

	log.Info("stream token issued", "user_id", req.UserID, "video_id", req.VideoID)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, issued)
}
