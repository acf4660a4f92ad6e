package http

import (
	"errors"
	"net/http"

	"github.com/dramatize/streamgate/internal/gate/service"
	"github.com/dramatize/streamgate/pkg/cryptox"
	"github.com/dramatize/streamgate/pkg/httpx"
	"github.com/dramatize/streamgate/pkg/slogx"
)

// refererGuard rejects media fetches whose Referer is not an allowed domain.
// Runs after rate limiting and before token validation, so hotlinkers are
// turned away without spending a signature verification on them.
func (r *Router) refererGuard() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			referer := req.Referer()
			if !r.Referer.Allow(referer) {
				slogx.FromContext(req.Context()).Info("referer rejected",
					"referer", referer,
					"endpoint", req.URL.Path,
				)
				httpx.WriteError(w, http.StatusForbidden, "Invalid referer")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// tokenGuard validates the stream token on every media fetch: signature and
// expiry, the (IP, session) binding, and that the token was minted for the
// video in the path. All failures collapse to one generic 403; the precise
// reason goes to the log with a token fingerprint, never the token itself.
func (r *Router) tokenGuard() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			log := slogx.FromContext(ctx)

			raw := req.URL.Query().Get("token")
			if raw == "" {
				log.Info("stream token missing", "endpoint", req.URL.Path)
				httpx.WriteError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			claims, err := r.Tokens.Validate(raw, httpx.ClientIP(req), httpx.SessionID(ctx))
			if err != nil {
				log.Info("stream token rejected",
					"reason", rejectionReason(err),
					"token_fp", cryptox.FingerprintToken(raw),
					"endpoint", req.URL.Path,
				)
				httpx.WriteError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			if claims.VideoID != req.PathValue("videoId") {
				log.Info("stream token rejected",
					"reason", "video_mismatch",
					"token_fp", cryptox.FingerprintToken(raw),
					"endpoint", req.URL.Path,
				)
				httpx.WriteError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "expired"
	case errors.Is(err, service.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, service.ErrBindingMismatch):
		return "binding_mismatch"
	case errors.Is(err, service.ErrBadSignature):
		return "bad_signature"
	default:
		return "unknown"
	}
}
