package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
)

func (api *RestAPI) filterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	routes, infos, err := api.DataManager.Routes()
	if err != nil {
		api.dataErrorResponse(w, r, err)
		return
	}

	entry := models.FilterOptionsEntry{Routes: routes}
	api.sendResponse(w, r, models.NewEntryResponse(entry, buildRouteReferences(routes, infos)))
}
