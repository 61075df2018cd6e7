package data

import (
	"time"

	"busdelay.org/internal/ingest"
)

// Health summarizes the published snapshot for health checks.
type Health struct {
	Healthy         bool                      `json:"healthy"`
	SnapshotID      string                    `json:"snapshotId"`
	Generation      uint64                    `json:"generation"`
	LoadedAt        time.Time                 `json:"loadedAt"`
	Records         int                       `json:"records"`
	Skipped         int                       `json:"skipped"`
	SkipReasons     map[ingest.SkipReason]int `json:"skipReasons,omitempty"`
	DataError       string                    `json:"dataError,omitempty"`
	ModelAvailable  bool                      `json:"modelAvailable"`
	ModelError      string                    `json:"modelError,omitempty"`
	GTFSRoutes      int                       `json:"gtfsRoutes"`
	GTFSError       string                    `json:"gtfsError,omitempty"`
	RemoteSource    bool                      `json:"remoteSource"`
	LastReloadAt    *time.Time                `json:"lastReloadAt,omitempty"`
	LastReloadError string                    `json:"lastReloadError,omitempty"`
}

// Health reports the state of the published snapshot. The service is
// healthy when observation data is loaded.
func (manager *Manager) Health() Health {
	snap := manager.Snapshot()
	health := Health{RemoteSource: manager.IsRemote()}
	if snap != nil {
		health.Healthy = snap.Store != nil
		health.SnapshotID = snap.ID
		health.Generation = snap.Generation
		health.LoadedAt = snap.LoadedAt
		health.Records = snap.RecordCount()
		health.Skipped = snap.Skipped
		health.SkipReasons = snap.SkipReasons
		health.DataError = errorString(snap.StoreErr)
		health.ModelAvailable = snap.Curve != nil
		health.ModelError = errorString(snap.CurveErr)
		health.GTFSRoutes = distinctRoutes(snap.Routes)
		health.GTFSError = errorString(snap.GTFSErr)
	}

	reloadAt, reloadErr := manager.LastReload()
	if !reloadAt.IsZero() {
		health.LastReloadAt = &reloadAt
	}
	health.LastReloadError = errorString(reloadErr)
	return health
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// distinctRoutes counts GTFS routes, which appear under both id and short
// name in the lookup.
func distinctRoutes(infos map[string]RouteInfo) int {
	ids := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		ids[info.ID] = struct{}{}
	}
	return len(ids)
}
