package data

import (
	"context"
	"fmt"

	"github.com/jamespfennell/gtfs"

	"busdelay.org/internal/ingest"
)

// RouteInfo is GTFS route metadata attached to a published line.
type RouteInfo struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

func loadRouteInfo(ctx context.Context, config Config) (map[string]RouteInfo, error) {
	b, err := ingest.Fetch(ctx, config.HTTPClient, config.GTFSSource)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	return routeInfoByLine(staticData.Routes), nil
}

// routeInfoByLine keys routes by id and by short name, which is what
// observation data publishes as the line. Short names win on collision.
func routeInfoByLine(routes []gtfs.Route) map[string]RouteInfo {
	infos := make(map[string]RouteInfo, len(routes)*2)
	for _, r := range routes {
		infos[r.Id] = toRouteInfo(r)
	}
	for _, r := range routes {
		if r.ShortName != "" {
			infos[r.ShortName] = toRouteInfo(r)
		}
	}
	return infos
}

func toRouteInfo(r gtfs.Route) RouteInfo {
	return RouteInfo{
		ID:        r.Id,
		ShortName: r.ShortName,
		LongName:  r.LongName,
		Color:     r.Color,
		TextColor: r.TextColor,
	}
}
