package middleware

import (
	"log/slog"
	"net/http"

	"github.com/haimng/Bestopia/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// whatever correlation_id, user_id, and span identifiers earlier middleware
// put there. Handlers fetch it with logger.FromContext.
//
// Mount after RequestLogging and Tracing so their fields are visible.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// The auth middleware sets the user ID for signed-in requests;
			// the header is a fallback for trusted internal callers.
			userID := UserIDFromContext(ctx)
			if userID == "" {
				userID = r.Header.Get("X-User-ID")
			}
			if userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
