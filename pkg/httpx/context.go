package httpx

import "context"

type ctxKey string

const (
	// CtxKeySessionID carries the viewer session id set by SessionMiddleware.
	CtxKeySessionID ctxKey = "session_id"
)

// SessionID returns the viewer session id for this request, or "" when no
// session middleware ran.
func SessionID(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySessionID).(string); ok {
		return v
	}
	return ""
}
