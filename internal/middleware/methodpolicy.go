// AngelaMos | 2026
// methodpolicy.go

package middleware

import (
	"net/http"
)

// MethodPolicy rejects PUT platform-wide. Full-replace semantics are not
// offered anywhere in the API; partial updates go through PATCH.
func MethodPolicy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.Header().Set("Allow", "GET, POST, PATCH, DELETE")
			http.Error(
				w,
				http.StatusText(http.StatusMethodNotAllowed),
				http.StatusMethodNotAllowed,
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}
