package requestid

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Header carries the generated request identifier back to the client.
const Header = "X-Request-Id"

// Middleware tags each request with a fresh UUID, exposes it in the
// response headers, and attaches a request-scoped logger to the context.
func Middleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(Header, id)

			l := log.With().
				Str("request_id", id).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			l.Debug().Msg("request received")

			next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
		})
	}
}
