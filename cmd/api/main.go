package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"busdelay.org/internal/appconf"
	"busdelay.org/internal/data"
	"busdelay.org/internal/schedule"
)

func main() {
	cfg, dataCfg, dumpConfig, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if dumpConfig {
		if err := dumpConfigJSON(os.Stdout, cfg, dataCfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	coreApp, err := BuildApplication(cfg, dataCfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	srv, api := CreateServer(coreApp, cfg)
	if err := Run(context.Background(), srv, coreApp.DataManager, api, coreApp.Logger); err != nil {
		coreApp.Logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// parseConfig reads flags, or the YAML file named by -config which then
// replaces every other flag.
func parseConfig(args []string) (appconf.Config, data.Config, bool, error) {
	var (
		cfg            appconf.Config
		dataCfg        data.Config
		envFlag        string
		apiKeysFlag    string
		originsFlag    string
		fieldFlag      string
		logLevelFlag   string
		configFile     string
		dumpConfigFlag bool
	)

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", 4000, "API server port")
	fs.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", "", "Comma separated API keys; empty allows every request")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second per API key or client IP (0 disables)")
	fs.StringVar(&originsFlag, "allowed-origins", "", "Comma separated CORS origins, or * (default: local dashboard origins)")
	fs.StringVar(&logLevelFlag, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&dataCfg.ObservationsSource, "observations", "", "Observations CSV path or URL, or SQLite database path")
	fs.StringVar(&dataCfg.CurveSource, "curve", "", "Smoothed delay curve (JSON or CSV) path or URL")
	fs.StringVar(&dataCfg.GTFSSource, "gtfs", "", "Optional static GTFS zip path or URL for route metadata")
	fs.StringVar(&fieldFlag, "aggregate-field", "scheduled_delay", "Field averaged at a schedule (scheduled_delay|prediction_error)")
	fs.DurationVar(&dataCfg.RefreshInterval, "refresh-interval", data.DefaultRefreshInterval, "Reload interval for http(s) sources")
	fs.IntVar(&dataCfg.CacheSize, "cache-size", data.DefaultCacheSize, "Stop schedule cache entries")
	fs.BoolVar(&dataCfg.Verbose, "verbose", false, "Verbose database logging")
	fs.StringVar(&configFile, "config", "", "YAML config file; replaces the other flags")
	fs.BoolVar(&dumpConfigFlag, "dump-config", false, "Print the effective configuration as JSON and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, dataCfg, false, err
	}

	if configFile != "" {
		file, err := appconf.LoadFile(configFile)
		if err != nil {
			return cfg, dataCfg, false, err
		}
		cfg = file.ServerConfig()
		if cfg.Port == 0 {
			cfg.Port = 4000
		}
		dataCfg, err = dataConfigFromFile(file.Data, cfg.Env)
		if err != nil {
			return cfg, dataCfg, false, err
		}
		if dataCfg.RefreshInterval == 0 {
			dataCfg.RefreshInterval = data.DefaultRefreshInterval
		}
		return cfg, dataCfg, dumpConfigFlag, nil
	}

	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)
	cfg.ApiKeys = ParseAPIKeys(apiKeysFlag)
	cfg.AllowedOrigins = splitList(originsFlag)

	level, err := appconf.ParseLogLevel(logLevelFlag)
	if err != nil {
		return cfg, dataCfg, false, err
	}
	cfg.LogLevel = level

	field, err := schedule.ParseField(fieldFlag)
	if err != nil {
		return cfg, dataCfg, false, err
	}
	dataCfg.AggregateField = field
	dataCfg.Env = cfg.Env

	if dataCfg.ObservationsSource == "" {
		return cfg, dataCfg, false, fmt.Errorf("-observations is required")
	}
	if dataCfg.RefreshInterval < time.Second {
		return cfg, dataCfg, false, fmt.Errorf("-refresh-interval must be at least 1s")
	}

	return cfg, dataCfg, dumpConfigFlag, nil
}
