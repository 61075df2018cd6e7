package restapi

import (
	"net/http"

	"busdelay.org/internal/models"
	"busdelay.org/internal/utils"
)

func (api *RestAPI) findArrivalHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fieldErrors := make(map[string][]string)

	route := query.Get("route")
	if err := utils.ValidateRoute(route); err != nil {
		fieldErrors["route"] = append(fieldErrors["route"], err.Error())
	}
	hour, _, fieldErrors := utils.ParseIntParam(query, "hour", 0, 23, true, fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	summary, ok, err := api.DataManager.RouteHourAverage(route, hour)
	if err != nil {
		api.dataErrorResponse(w, r, err)
		return
	}
	if !ok {
		api.sendError(w, r, http.StatusNotFound, "no data found for the given route and hour")
		return
	}

	entry := models.NewArrivalEntry(summary)
	api.sendResponse(w, r, models.NewEntryResponse(entry, api.routeReferencesFor([]string{route})))
}
