// Package cors stamps the cross-origin headers the extension clients
// require on every response. The pair below is part of the wire contract,
// including on error responses, which is why this is a flat middleware
// rather than a preflight-only CORS library.
package cors

import "net/http"

// Middleware adds the cross-origin header pair to every response and
// short-circuits preflight requests.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "X-Requested-With")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
