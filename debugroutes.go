package nab

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouteInfo represents a single registered route for debugging purposes.
type RouteInfo struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

// RegisterDebugRoutes exposes GET /debug/routes when enabled. The endpoint
// lists every route currently registered on the router.
func RegisterDebugRoutes(r chi.Router, enabled bool) {
	if !enabled || r == nil {
		return
	}

	r.Get("/debug/routes", func(w http.ResponseWriter, req *http.Request) {
		routes := make([]RouteInfo, 0)
		_ = chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			routes = append(routes, RouteInfo{Method: method, Pattern: route})
			return nil
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(routes)
	})
}
