package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (api *RestAPI) validateAPIKey(finalHandler http.HandlerFunc) http.Handler {
	return api.limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	}))
}

// SetRoutes registers the API endpoints on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/", http.HandlerFunc(api.rootHandler))
	router.Handler(http.MethodGet, "/healthz", http.HandlerFunc(api.healthHandler))

	router.Handler(http.MethodGet, "/api/current-time", api.validateAPIKey(api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/stop-names", api.validateAPIKey(api.stopNamesHandler))
	router.Handler(http.MethodGet, "/api/stop-schedule", api.validateAPIKey(api.stopScheduleHandler))
	router.Handler(http.MethodGet, "/api/predict-delay", api.validateAPIKey(api.predictDelayHandler))
	router.Handler(http.MethodGet, "/api/predict-next", api.validateAPIKey(api.predictNextHandler))
	router.Handler(http.MethodGet, "/api/bus-data", api.validateAPIKey(api.busDataHandler))
	router.Handler(http.MethodGet, "/api/filter-options", api.validateAPIKey(api.filterOptionsHandler))
	router.Handler(http.MethodGet, "/api/find-arrival", api.validateAPIKey(api.findArrivalHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)
	router.HandleOPTIONS = false
}

// Handler returns the router wrapped in compression and security headers.
func (api *RestAPI) Handler(router *httprouter.Router) http.Handler {
	return api.WithSecurityHeaders(CompressionMiddleware(router))
}
