package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
	"busdelay.org/internal/utils"
)

func (api *RestAPI) predictDelayHandler(w http.ResponseWriter, r *http.Request) {
	at, fieldErrors := utils.ParseTimeOfDayParam(r.URL.Query(), "time_str", nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	delay, err := api.DataManager.PredictForTime(at)
	if err != nil {
		api.dataErrorResponse(w, r, err)
		return
	}

	entry := models.NewPredictionEntry(at, delay)
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
