package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"busdelay.org/internal/data"
	"busdelay.org/internal/logging"
	"busdelay.org/internal/models"
	"busdelay.org/internal/schedule"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, status int, text string) {
	api.sendResponse(w, r, models.ResponseModel{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     2,
	})
}

// invalidAPIKeyResponse sends a 401 Unauthorized response.
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "internal server error", err,
		slog.String("path", r.URL.Path),
		slog.String("request_id", logging.RequestIDFromContext(r.Context())))
	api.sendError(w, r, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		errorResponse
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		errorResponse: errorResponse{
			Code:        http.StatusBadRequest,
			CurrentTime: models.ResponseCurrentTime(),
			Text:        "invalid request parameters",
			Version:     2,
		},
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

// dataErrorResponse maps query errors onto HTTP statuses: unavailable
// data or model is 503, an unknown stop is 404 and anything else is 500.
func (api *RestAPI) dataErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrModelUnavailable):
		api.logUnavailable(r, err)
		api.sendError(w, r, http.StatusServiceUnavailable, "prediction model unavailable")
	case errors.Is(err, data.ErrDataUnavailable):
		api.logUnavailable(r, err)
		api.sendError(w, r, http.StatusServiceUnavailable, "bus data unavailable")
	case errors.Is(err, schedule.ErrStopNotFound):
		api.sendError(w, r, http.StatusNotFound, "no data found for stop name")
	default:
		api.serverErrorResponse(w, r, err)
	}
}

func (api *RestAPI) logUnavailable(r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn("query against unavailable data",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
}
