package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/logging"
	"github.com/dmitrijs2005/punchkeeper/internal/server/api/response"
	"github.com/dmitrijs2005/punchkeeper/internal/server/auth"
	"github.com/go-chi/chi/v5"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalFromContext returns the caller stored by AuthRequired.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}

func withPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			token, ok := strings.CutPrefix(header, common.BearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				response.Unauthorized(w, "Missing bearer token")
				return
			}

			p, err := auth.ParseToken(strings.TrimSpace(token), secretKey)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := logging.ContextWith(withPrincipal(r.Context(), p), "tenant_id", p.TenantID, "user_id", p.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// TenantAccess checks the {tenantID} and, when routed, {userID} URL params
// against the caller.
func TenantAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, common.ErrorUnauthorized)
			return
		}

		if !p.CanAccess(chi.URLParam(r, "tenantID"), chi.URLParam(r, "userID")) {
			response.HandleError(w, common.ErrorForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
