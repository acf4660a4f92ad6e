package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dramatize/streamgate/internal/gate/service"
	"github.com/dramatize/streamgate/internal/gate/store"
	"github.com/dramatize/streamgate/pkg/httpx"
	"github.com/dramatize/streamgate/pkg/ratelimit"
	"github.com/dramatize/streamgate/pkg/slogx"

	_ "github.com/dramatize/streamgate/api/gate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// SessionTTL is how long the viewer session cookie lives. Tokens bound to a
// session never outlive it: the cookie lasts a day, the token an hour.
const SessionTTL = 24 * time.Hour

// ReadyCheck is a named dependency probe consulted by readyz.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	logger    *slog.Logger
	startTime time.Time

	store store.Store

	Tokens  *service.TokenService
	Keys    *service.KeyService
	Referer *service.RefererPolicy
	Access  *service.AccessService

	// MediaRoot is the directory holding one subdirectory per video with
	// its manifest and segments.
	MediaRoot string

	// VideoLimiter throttles the whole video route group per client IP.
	// The configs feed the advisory X-RateLimit headers and must match
	// what the limiters were built from.
	VideoLimiter       ratelimit.Limiter
	VideoLimitConfig   ratelimit.Config
	LenientLimiter     ratelimit.Limiter
	LenientLimitConfig ratelimit.Config

	// ReadyChecks are extra probes (e.g. the Redis limiter backend)
	// consulted by readyz in addition to the store.
	ReadyChecks []ReadyCheck
}

func NewRouter(st store.Store, logger *slog.Logger, secureCookies bool) *Router {
	r := &Router{
		Mux:                http.NewServeMux(),
		logger:             logger,
		startTime:          time.Now(),
		store:              st,
		VideoLimitConfig:   ratelimit.VideoLimit,
		LenientLimitConfig: ratelimit.LenientLimit,
	}

	// Set default middleware chain. Every request gets a contextual logger
	// and a viewer session before any handler runs.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SessionMiddleware(SessionTTL, secureCookies),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerVideo()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Streamgate Video Security API
//	@version		0.1.0
//	@description	Access-control gateway for HLS video delivery. Issues short-lived
//	@description	stream tokens bound to viewer, video, IP and session, and gates every
//	@description	manifest, segment and key fetch behind referer, token and rate checks.
//
//	@contact.name	Dramatize Engineering
//	@contact.url	https://github.com/dramatize/streamgate
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerVideo() {
	secureURL := &SecureURLHandler{
		Tokens: r.Tokens,
		Access: r.Access,
	}

	// POST /secure-url - token issuance. Session and rate limit only; the
	// referer guard protects media fetches, not the player's own API call.
	r.Mux.Handle("POST /api/video/secure-url",
		httpx.Chain(secureURL,
			httpx.RateLimitByIP(r.VideoLimiter, r.VideoLimitConfig),
		),
	)

	// Media fetches share one ordered gate: rate limit, then referer, then
	// token. Each fetch re-validates independently; nothing is remembered
	// between a manifest fetch and the segment fetches it triggers.
	gate := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.RateLimitByIP(r.VideoLimiter, r.VideoLimitConfig),
			r.refererGuard(),
			r.tokenGuard(),
		)
	}

	playlist := &PlaylistHandler{MediaRoot: r.MediaRoot}
	r.Mux.Handle("GET /api/video/{videoId}/playlist.m3u8", gate(playlist))

	key := &KeyHandler{Keys: r.Keys}
	r.Mux.Handle("GET /api/video/{videoId}/key", gate(key))

	segment := &SegmentHandler{MediaRoot: r.MediaRoot}
	r.Mux.Handle("GET /api/video/{videoId}/{segment}", gate(segment))
}

func (r *Router) registerSystem() {
	system := &SystemHandler{
		Store:       r.store,
		ReadyChecks: r.ReadyChecks,
		StartTime:   r.startTime,
	}

	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(system.HandleLivez),
			httpx.RateLimitByIP(r.LenientLimiter, r.LenientLimitConfig),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(system.HandleReadyz),
			httpx.RateLimitByIP(r.LenientLimiter, r.LenientLimitConfig),
		),
	)
}
