package app

import (
	"log/slog"

	"busdelay.org/internal/appconf"
	"busdelay.org/internal/data"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config      appconf.Config
	DataConfig  data.Config
	Logger      *slog.Logger
	DataManager *data.Manager
}
