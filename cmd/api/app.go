package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"busdelay.org/internal/app"
	"busdelay.org/internal/appconf"
	"busdelay.org/internal/data"
	"busdelay.org/internal/logging"
	"busdelay.org/internal/restapi"
	"busdelay.org/internal/schedule"
	"busdelay.org/internal/webui"
)

// ParseAPIKeys splits a comma-separated string of API keys and trims whitespace from each key.
// Returns an empty slice if the input is empty.
func ParseAPIKeys(apiKeysFlag string) []string {
	return splitList(apiKeysFlag)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	items := strings.Split(s, ",")
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// dataConfigFromFile converts the data section of a config file.
func dataConfigFromFile(file appconf.DataFile, env appconf.Environment) (data.Config, error) {
	field, err := schedule.ParseField(file.AggregateField)
	if err != nil {
		return data.Config{}, err
	}
	refresh, err := file.Refresh()
	if err != nil {
		return data.Config{}, err
	}
	return data.Config{
		ObservationsSource: file.Observations,
		CurveSource:        file.Curve,
		GTFSSource:         file.GTFS,
		AggregateField:     field,
		RefreshInterval:    refresh,
		CacheSize:          file.CacheSize,
		Env:                env,
		Verbose:            file.Verbose,
	}, nil
}

// BuildApplication creates the logger and loads the initial data snapshot.
// A source that fails to load does not fail the build: the server starts
// and the affected queries report the data as unavailable.
func BuildApplication(cfg appconf.Config, dataCfg data.Config, logOutput io.Writer) (*app.Application, error) {
	logger := logging.NewLogger(logOutput, cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	manager, err := data.InitManager(ctx, dataCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data manager: %w", err)
	}

	health := manager.Health()
	logging.LogOperation(logger, "data_loaded",
		slog.String("snapshot_id", health.SnapshotID),
		slog.Int("records", health.Records),
		slog.Int("skipped", health.Skipped),
		slog.Bool("model_available", health.ModelAvailable),
		slog.Int("gtfs_routes", health.GTFSRoutes),
		slog.Duration("duration", time.Since(start)))

	return &app.Application{
		Config:      cfg,
		DataConfig:  dataCfg,
		Logger:      logger,
		DataManager: manager,
	}, nil
}

// CreateServer creates and configures the HTTP server with routes and middleware.
// Sets up both REST API routes and WebUI routes, applies compression and
// security headers, and adds request logging.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	webUI := &webui.WebUI{
		Application: coreApp,
	}

	router := httprouter.New()

	api.SetRoutes(router)
	webUI.SetWebUIRoutes(router)

	// request logging is outermost
	requestLogMiddleware := restapi.NewRequestLoggingMiddleware(coreApp.Logger)
	handler := requestLogMiddleware(api.Handler(router))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}

	return srv, api
}

// Run manages the server lifecycle with graceful shutdown.
// Starts the server in a goroutine, reloads data on SIGHUP, waits for shutdown signals (SIGINT, SIGTERM)
// or context cancellation, and performs graceful shutdown with a 30-second timeout.
// Returns an error if the server fails to start or shutdown fails.
func Run(ctx context.Context, srv *http.Server, manager *data.Manager, api *restapi.RestAPI, logger *slog.Logger) error {
	logger.Info("starting server", "addr", srv.Addr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	serverErrors := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

wait:
	for {
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server failed to start: %w", err)
		case <-reload:
			reloadData(ctx, manager, logger)
		case <-ctx.Done():
			logger.Info("shutting down server...")
			break wait
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// rate limiter first, then the data manager's refresh loop
	if api != nil {
		api.Shutdown()
	}
	if manager != nil {
		manager.Shutdown()
	}

	logger.Info("server exited")
	return nil
}

func reloadData(ctx context.Context, manager *data.Manager, logger *slog.Logger) {
	if manager == nil {
		return
	}
	logger.Info("reloading data")
	if err := manager.ForceUpdate(ctx); err != nil {
		logging.LogError(logger, "data reload finished with errors", err)
		return
	}
	logger.Info("data reloaded", "generation", manager.Snapshot().Generation)
}

// dumpConfigJSON writes the effective configuration as indented JSON.
// API keys are redacted.
func dumpConfigJSON(w io.Writer, cfg appconf.Config, dataCfg data.Config) error {
	apiKeys := make([]string, len(cfg.ApiKeys))
	for i := range cfg.ApiKeys {
		apiKeys[i] = "***REDACTED***"
	}

	jsonConfig := map[string]interface{}{
		"server": map[string]interface{}{
			"port":            cfg.Port,
			"env":             cfg.Env.String(),
			"api-keys":        apiKeys,
			"rate-limit":      cfg.RateLimit,
			"allowed-origins": cfg.AllowedOrigins,
			"log-level":       strings.ToLower(cfg.LogLevel.String()),
		},
		"data": map[string]interface{}{
			"observations":     dataCfg.ObservationsSource,
			"curve":            dataCfg.CurveSource,
			"gtfs":             dataCfg.GTFSSource,
			"aggregate-field":  dataCfg.AggregateField.String(),
			"refresh-interval": dataCfg.RefreshInterval.String(),
			"cache-size":       dataCfg.CacheSize,
			"verbose":          dataCfg.Verbose,
		},
	}

	output, err := json.MarshalIndent(jsonConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
