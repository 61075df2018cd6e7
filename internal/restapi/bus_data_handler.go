package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
)

func (api *RestAPI) busDataHandler(w http.ResponseWriter, r *http.Request) {
	averages, err := api.DataManager.RouteAverages()
	if err != nil {
		api.dataErrorResponse(w, r, err)
		return
	}

	entry := models.NewBusDataEntry(averages)
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.routeReferencesFor(entry.Routes)))
}
