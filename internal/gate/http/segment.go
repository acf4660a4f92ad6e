package http

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dramatize/streamgate/pkg/httpx"
	"github.com/dramatize/streamgate/pkg/slogx"
)

// SegmentContentType is the media type for MPEG transport stream segments.
const SegmentContentType = "video/mp2t"

// mediaNamePattern constrains path-derived file names to a single safe
// component. Anything else (traversal attempts, separators, hidden files)
// is treated as not found.
var mediaNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

func validMediaName(name string) bool {
	return mediaNamePattern.MatchString(name) && !strings.Contains(name, "..")
}

// SegmentHandler serves encrypted media segments. Segments are immutable
// once published, so unlike manifests and keys they cache aggressively.
type SegmentHandler struct {
	MediaRoot string
}

// ServeHTTP handles GET /api/video/{videoId}/{segment}.
//
//	@Summary	Fetch an encrypted media segment
//	@Tags		video
//	@Produce	octet-stream
//	@Param		videoId	path		string	true	"video id"
//	@Param		segment	path		string	true	"segment file name"
//	@Param		token	query		string	true	"stream token"
//	@Success	200		{file}		binary
//	@Failure	403		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	429		{object}	map[string]string
//	@Router		/api/video/{videoId}/{segment} [get]
func (h *SegmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")
	segment := r.PathValue("segment")

	if !validMediaName(videoID) || !validMediaName(segment) || !strings.HasSuffix(segment, ".ts") {
		httpx.WriteError(w, http.StatusNotFound, "Segment not found")
		return
	}

	f, err := os.Open(filepath.Join(h.MediaRoot, videoID, segment))
	if err != nil {
		slogx.FromContext(r.Context()).Info("segment not found",
			"video_id", videoID, "segment", segment)
		httpx.WriteError(w, http.StatusNotFound, "Segment not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		httpx.WriteError(w, http.StatusNotFound, "Segment not found")
		return
	}

	w.Header().Set("Content-Type", SegmentContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, segment, info.ModTime(), f)
}
