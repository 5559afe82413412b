package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/bindlehq/bindle/internal/api/cors"
	"github.com/bindlehq/bindle/internal/api/recovery"
	"github.com/bindlehq/bindle/internal/api/requestid"
	"github.com/bindlehq/bindle/internal/indexer"
	"github.com/bindlehq/bindle/internal/services"
	"github.com/bindlehq/bindle/internal/storage"
)

// NewRouter wires the HTTP boundary over the bookmark core. The owner is
// always explicit in the path; nothing is read from process-global state.
func NewRouter(store storage.Store, ix *indexer.Indexer, log zerolog.Logger) http.Handler {
	router := mux.NewRouter()

	// Domain services
	bookmarkSvc := services.NewBookmarkService(store, ix)
	tagSvc := services.NewTagService(store)
	syncSvc := services.NewSyncService(store)

	// Handlers
	bookmarkHandler := NewBookmarkHandler(bookmarkSvc)
	tagHandler := NewTagHandler(tagSvc)
	syncHandler := NewSyncHandler(syncSvc)
	healthHandler := NewHealthHandler(store)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.Check).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorage).Methods("GET")

	// Bookmark endpoints
	router.HandleFunc("/api/v1/{username}/bmark", bookmarkHandler.Upsert).Methods("POST")
	router.HandleFunc("/api/v1/{username}/bmark/{hash:[0-9a-f]{14}}", bookmarkHandler.Get).Methods("GET")
	router.HandleFunc("/api/v1/{username}/bmark/{hash:[0-9a-f]{14}}", bookmarkHandler.Delete).Methods("DELETE")
	router.HandleFunc("/api/v1/{username}/bmarks", bookmarkHandler.Recent).Methods("GET")
	router.HandleFunc("/api/v1/{username}/bmarks/search/{terms}", bookmarkHandler.Search).Methods("GET")

	// Tag completion
	router.HandleFunc("/api/v1/{username}/tags/complete", tagHandler.Complete).Methods("GET")

	// Extension sync protocol
	router.HandleFunc("/api/v1/{username}/extension/sync", syncHandler.Snapshot).Methods("GET")
	router.HandleFunc("/api/v1/{username}/extension/sync/diff", syncHandler.Diff).Methods("POST")

	// Middleware wraps the mux itself rather than using router.Use: mux
	// middlewares only run on matched routes, and the CORS header pair is
	// part of the wire contract on every response, 404s and malformed
	// hashes included.
	var h http.Handler = router
	h = requestid.Middleware(log)(h)
	h = cors.Middleware(h)
	h = recovery.Middleware(h)
	return h
}
