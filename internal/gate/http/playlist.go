package http

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dramatize/streamgate/internal/gate/service"
	"github.com/dramatize/streamgate/pkg/httpx"
	"github.com/dramatize/streamgate/pkg/slogx"
)

// ManifestContentType is the registered media type for HLS playlists.
const ManifestContentType = "application/vnd.apple.mpegurl"

// PlaylistHandler serves the HLS manifest with the caller's token appended
// to every segment line. The gate middleware has already validated the
// token by the time this runs.
type PlaylistHandler struct {
	MediaRoot string
}

// ServeHTTP handles GET /api/video/{videoId}/playlist.m3u8.
//
//	@Summary	Fetch the tokenized HLS manifest
//	@Tags		video
//	@Produce	plain
//	@Param		videoId	path		string	true	"video id"
//	@Param		token	query		string	true	"stream token"
//	@Success	200		{string}	string	"rewritten manifest"
//	@Failure	403		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	429		{object}	map[string]string
//	@Router		/api/video/{videoId}/playlist.m3u8 [get]
func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	if !validMediaName(videoID) {
		httpx.WriteError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	manifest, err := os.ReadFile(filepath.Join(h.MediaRoot, videoID, "playlist.m3u8"))
	if err != nil {
		slogx.FromContext(r.Context()).Info("playlist not found", "video_id", videoID)
		httpx.WriteError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	// Rewritten fresh per fetch so a re-issued token reaches every segment.
	body := service.RewritePlaylist(string(manifest), r.URL.Query().Get("token"), time.Now())

	w.Header().Set("Content-Type", ManifestContentType)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
