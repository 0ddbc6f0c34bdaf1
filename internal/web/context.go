package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/buildprops/internal/core"
)

// withReporter records the submitting client on the request context.
// RemoteAddr has already been rewritten by TrustedRealIP.
func withReporter(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithReporter(ctx, core.Reporter{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}
