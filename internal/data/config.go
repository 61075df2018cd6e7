package data

import (
	"net/http"
	"time"

	"busdelay.org/internal/appconf"
	"busdelay.org/internal/ingest"
	"busdelay.org/internal/schedule"
)

const (
	DefaultRefreshInterval = time.Hour
	DefaultCacheSize       = 1024
	defaultLoadTimeout     = 60 * time.Second
)

type Config struct {
	// ObservationsSource is a CSV path or URL, or a SQLite database path.
	ObservationsSource string
	// CurveSource is a JSON or CSV curve artifact. Empty disables prediction.
	CurveSource string
	// GTFSSource is an optional static GTFS zip used for route metadata.
	GTFSSource      string
	AggregateField  schedule.Field
	RefreshInterval time.Duration
	CacheSize       int
	Env             appconf.Environment
	Verbose         bool
	HTTPClient      *http.Client
}

func (config Config) hasRemoteSource() bool {
	return ingest.IsRemote(config.ObservationsSource) ||
		ingest.IsRemote(config.CurveSource) ||
		ingest.IsRemote(config.GTFSSource)
}

func (config Config) ingestOptions() ingest.Options {
	return ingest.Options{RequirePredictionError: config.AggregateField == schedule.FieldPredictionError}
}

func (config Config) cacheSize() int {
	if config.CacheSize <= 0 {
		return DefaultCacheSize
	}
	return config.CacheSize
}
