package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
	"busdelay.org/internal/utils"
)

// stopScheduleHandler serves the next arrival and schedule-keyed average
// of every route at stop_name from hour:minute[:second] onwards.
func (api *RestAPI) stopScheduleHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fieldErrors := make(map[string][]string)

	stopName := query.Get("stop_name")
	if err := utils.ValidateStopName(stopName); err != nil {
		fieldErrors["stop_name"] = append(fieldErrors["stop_name"], err.Error())
	}

	at, fieldErrors := utils.ParseClockParams(query, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	result, err := api.DataManager.ResolveStopSchedule(stopName, at)
	if err != nil {
		api.dataErrorResponse(w, r, err)
		return
	}

	lines := make([]string, 0, len(result.Routes))
	for _, route := range result.Routes {
		lines = append(lines, route.Route)
	}

	entry := models.NewStopScheduleEntry(result)
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.routeReferencesFor(lines)))
}
