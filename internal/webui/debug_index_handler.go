package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"stats", "curve", "stops", "routes", "skips"}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
	Key       string
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func writeDebugData(w http.ResponseWriter, r *http.Request, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       dumpConfig.Sdump(data),
		DataTypes: dataTypes,
		Key:       r.URL.Query().Get("key"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.RequestHasInvalidAPIKey(r) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return
	}

	var data interface{}
	var title string

	snap := webUI.DataManager.Snapshot()

	switch r.URL.Query().Get("dataType") {
	case "stats":
		data = webUI.DataManager.Health()
		title = "Snapshot - Stats"
	case "curve":
		if snap == nil || snap.Curve == nil {
			data = map[string]string{"error": "no delay curve loaded"}
		} else {
			data = snap.Curve.Samples()
		}
		title = "Delay Model - Smoothed Curve"
	case "stops":
		names, err := webUI.DataManager.StopNames()
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = names
		}
		title = "Observations - Stop Names"
	case "routes":
		routes, infos, err := webUI.DataManager.Routes()
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = map[string]interface{}{"routes": routes, "gtfs": infos}
		}
		title = "Observations - Routes"
	case "skips":
		if snap == nil {
			data = map[string]string{"error": "no snapshot loaded"}
		} else {
			data = snap.SkipReasons
		}
		title = "Observations - Skipped Rows"
	default:
		data = map[string]string{
			"error": "Please use one of the following: stats, curve, stops, routes, skips.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, r, title, data)
}
