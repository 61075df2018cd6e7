package restapi

import (
	"busdelay.org/internal/data"
	"busdelay.org/internal/models"
)

// buildRouteReferences lists GTFS metadata for each line in lines that the
// feed knows about, in the order of lines.
func buildRouteReferences(lines []string, infos map[string]data.RouteInfo) models.ReferencesModel {
	references := models.NewEmptyReferences()
	for _, line := range lines {
		info, ok := infos[line]
		if !ok {
			continue
		}
		references.Routes = append(references.Routes, models.RouteReference{
			Line:      line,
			ID:        info.ID,
			ShortName: info.ShortName,
			LongName:  info.LongName,
			Color:     info.Color,
			TextColor: info.TextColor,
		})
	}
	return references
}

// routeReferencesFor looks up references for lines, dropping GTFS
// metadata silently when the route list cannot be read.
func (api *RestAPI) routeReferencesFor(lines []string) models.ReferencesModel {
	_, infos, err := api.DataManager.Routes()
	if err != nil {
		return models.NewEmptyReferences()
	}
	return buildRouteReferences(lines, infos)
}
