package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
)

type verifier interface {
	Verify(token string) (jwt.Claims, error)
}

func middlewareAuthentication(v verifier, public map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := public[r.Method][matchedRoutePath(r)]; skip {
				next.ServeHTTP(w, r)
				return
			}

			p := strings.Fields(r.Header.Get("Authorization"))
			if len(p) != 2 || !strings.EqualFold(p[0], "Bearer") {
				writeError(w, "UNAUTHORIZED", "Authentication required", nil, http.StatusUnauthorized)
				return
			}

			claims, err := v.Verify(p[1])
			if err != nil {
				writeError(w, "UNAUTHORIZED", "Invalid or expired token", nil, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
