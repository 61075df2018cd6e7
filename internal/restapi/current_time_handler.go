package restapi

import (
	"net/http"
	"time"

	"busdelay.org/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	entry := models.NewCurrentTimeModel(time.Now())
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
