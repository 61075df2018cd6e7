package webui

import "busdelay.org/internal/app"

// WebUI serves HTML pages for inspecting the loaded data.
type WebUI struct {
	*app.Application
}
