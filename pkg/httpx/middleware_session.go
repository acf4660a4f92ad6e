package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/dramatize/streamgate/pkg/idx"
)

// SessionCookie is the name of the viewer session cookie.
const SessionCookie = "sid"

// SessionMiddleware guarantees every request carries a viewer session id and
// exposes it via request context. There is no server-side session record:
// the cookie value itself is the identity that stream tokens bind to, which
// keeps token validation stateless across instances.
//
// Cookies that fail ULID validation are replaced rather than trusted.
func SessionMiddleware(ttl time.Duration, secure bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string

			if c, err := r.Cookie(SessionCookie); err == nil {
				if id, err := idx.Parse(c.Value); err == nil {
					sid = id.String()
				}
			}

			if sid == "" {
				sid = idx.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), CtxKeySessionID, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
