package dashboard

import (
	"context"
	"net/http"
	"strings"

	"studioadmin/internal/dashboard/token"
	dErrors "studioadmin/pkg/domain-errors"
	"studioadmin/pkg/platform/httputil"
)

type contextKey string

const claimsContextKey contextKey = "dashboard_claims"

// ClaimsFrom returns the dashboard session claims stored by
// RequireSession, or nil when the request is unauthenticated.
func ClaimsFrom(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*token.Claims)
	return claims
}

// RequireSession guards the dashboard API. It validates the session
// cookie, and when the backend has rejected our credentials it sends the
// admin back to the login surface. Browser navigations get a redirect,
// API calls a 401.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookie, err := r.Cookie(h.cookieName)
		if err != nil {
			h.reject(w, r, dErrors.New(dErrors.CodeUnauthorized, "missing session cookie"))
			return
		}

		claims, err := h.tokens.Validate(cookie.Value)
		if err != nil {
			h.reject(w, r, err)
			return
		}

		if claims.Fingerprint != "" {
			current := h.devices.ComputeFingerprint(r.UserAgent())
			if _, drift := h.devices.CompareFingerprints(claims.Fingerprint, current); drift {
				h.logger.WarnContext(ctx, "device fingerprint drift",
					"admin_id", claims.AdminID,
				)
			}
		}

		// A backend 401 invalidates the whole session even when our own
		// token is still within its lifetime.
		if !h.session.IsAuthenticated() && !h.session.IsResolving() &&
			h.session.FailureCode() == dErrors.CodeUnauthorized {
			h.setSessionCookie(w, "", -1)
			h.reject(w, r, dErrors.New(dErrors.CodeUnauthorized, "backend session expired"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, claimsContextKey, claims)))
	})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, err error) {
	if h.metrics != nil {
		h.metrics.AuthFailures.Inc()
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	httputil.WriteError(w, err)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
