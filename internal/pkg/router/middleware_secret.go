package router

import (
	"crypto/subtle"
	"net/http"
)

// RequireHeaderSecret rejects requests whose header does not equal secret.
// An empty secret rejects everything.
func RequireHeaderSecret(header string, secret func() string, code string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			want := secret()
			got := r.Header.Get(header)
			if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
				writeError(w, code, "Invalid or missing "+header, nil, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
