package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
)

func (api *RestAPI) rootHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewOKResponse(map[string]string{
		"message": "Welcome to the bus delay API.",
	}))
}
