// Package ops guards the gateway's operational endpoints (metrics, detailed
// health) behind a shared ops token. The token is configured as a bcrypt
// hash so the plaintext never sits in the environment of a running process
// longer than startup.
package ops

import (
	"log/slog"
	"net/http"

	request "studioadmin/pkg/platform/middleware/request"
	"studioadmin/pkg/secrets"
)

// RequireOpsToken checks the X-Ops-Token header against the configured
// bcrypt hash. An empty hash disables the guard, which keeps local
// development friction-free.
func RequireOpsToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get("X-Ops-Token")
			if err := secrets.VerifyOpsToken(token, tokenHash); err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "ops token mismatch",
					"request_id", request.GetRequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"ops token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
