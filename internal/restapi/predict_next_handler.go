package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
	"busdelay.org/internal/utils"
)

// predictNextHandler predicts the delay of the first scheduled arrival at
// or after time_str. Finding nothing is a 200 with null fields.
func (api *RestAPI) predictNextHandler(w http.ResponseWriter, r *http.Request) {
	at, fieldErrors := utils.ParseTimeOfDayParam(r.URL.Query(), "time_str", nil)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	prediction, err := api.DataManager.PredictNextScheduled(at)
	if err != nil {
		api.dataErrorResponse(w, r, err)
		return
	}

	entry := models.NewNextPredictionEntry(prediction)
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
