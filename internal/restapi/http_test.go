package restapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"busdelay.org/internal/app"
	"busdelay.org/internal/appconf"
	"busdelay.org/internal/data"
	"busdelay.org/internal/logging"
	"busdelay.org/internal/models"
)

func testDataConfig(t *testing.T) data.Config {
	return data.Config{
		ObservationsSource: models.GetFixturePath(t, "observations.csv"),
		CurveSource:        models.GetFixturePath(t, "curve.json"),
		GTFSSource:         models.GetFixturePath(t, "gtfs.zip"),
		Env:                appconf.Test,
	}
}

// createTestApiWithConfig creates a RestAPI backed by a data manager
// loaded from dataConfig.
func createTestApiWithConfig(t *testing.T, config appconf.Config, dataConfig data.Config) *RestAPI {
	t.Helper()
	manager, err := data.InitManager(context.Background(), dataConfig, nil)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config:      config,
		DataConfig:  dataConfig,
		Logger:      slog.New(slog.DiscardHandler),
		DataManager: manager,
	}
	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// createTestApi creates a RestAPI over the testdata fixtures that accepts
// the key TEST.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithConfig(t, appconf.Config{
		Env:     appconf.Test,
		ApiKeys: []string{"TEST"},
	}, testDataConfig(t))
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(api.Handler(router))
	t.Cleanup(server.Close)
	return server
}

// serveApiAndRetrieveEndpoint serves api, requests endpoint and decodes the
// response envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := newTestServer(t, api)

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

// entryOf returns data.entry of a decoded response.
func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	body, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := body["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry should be an object")
	return entry
}

// referencedRoutes returns data.references.routes of a decoded response.
func referencedRoutes(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	body, ok := model.Data.(map[string]interface{})
	require.True(t, ok)
	references, ok := body["references"].(map[string]interface{})
	require.True(t, ok)
	routes, ok := references["routes"].([]interface{})
	require.True(t, ok)
	return routes
}
