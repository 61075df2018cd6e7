package data

import (
	"time"

	"busdelay.org/internal/ingest"
	"busdelay.org/internal/schedule"
)

// Snapshot is an immutable, fully built view of the loaded data. A Manager
// publishes snapshots whole; readers never see a partially built one.
type Snapshot struct {
	ID         string
	Generation uint64
	LoadedAt   time.Time

	Store    *schedule.Store
	StoreErr error
	// Skipped and SkipReasons describe the observation rows dropped during ingestion.
	Skipped     int
	SkipReasons map[ingest.SkipReason]int

	Curve    *schedule.Curve
	CurveErr error

	Routes  map[string]RouteInfo
	GTFSErr error
	Field   schedule.Field
}

// RecordCount is the number of records in the store, zero when unavailable.
func (s *Snapshot) RecordCount() int {
	if s == nil || s.Store == nil {
		return 0
	}
	return s.Store.Len()
}
