package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
)

// healthHandler reports 200 when observation data is loaded and 503
// otherwise. It is not behind the API key check.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := api.DataManager.Health()

	response := models.NewOKResponse(health)
	if !health.Healthy {
		response.Code = http.StatusServiceUnavailable
		response.Text = "bus data unavailable"
	}
	api.sendResponse(w, r, response)
}
