package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
)

func (api *RestAPI) stopNamesHandler(w http.ResponseWriter, r *http.Request) {
	names, err := api.DataManager.StopNames()
	if err != nil {
		api.dataErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewListResponse(names, models.NewEmptyReferences()))
}
