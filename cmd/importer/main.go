// Command importer validates an observations CSV and stores the kept rows
// in a SQLite database that the API server can use as its source.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"busdelay.org/busdb"
	"busdelay.org/internal/appconf"
	"busdelay.org/internal/ingest"
	"busdelay.org/internal/logging"
	"busdelay.org/internal/schedule"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	var (
		source    string
		dbPath    string
		envFlag   string
		fieldFlag string
		logLevel  string
		verbose   bool
		replace   bool
	)

	fs := flag.NewFlagSet("importer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&source, "csv", "", "Observations CSV path or URL")
	fs.StringVar(&dbPath, "db", "", "SQLite database path")
	fs.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	fs.StringVar(&fieldFlag, "aggregate-field", "scheduled_delay", "Require prediction_error_minutes when prediction_error")
	fs.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.BoolVar(&verbose, "verbose", false, "Log import details")
	fs.BoolVar(&replace, "replace", false, "Delete stored observations before importing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if source == "" || dbPath == "" {
		return errors.New("both -csv and -db are required")
	}

	env := appconf.EnvFlagToEnvironment(envFlag)
	level, err := appconf.ParseLogLevel(logLevel)
	if err != nil {
		return err
	}
	field, err := schedule.ParseField(fieldFlag)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(stderr, env, level)

	b, err := ingest.Fetch(ctx, nil, source)
	if err != nil {
		return err
	}
	result, err := ingest.ReadObservationsCSV(bytes.NewReader(b), ingest.Options{
		RequirePredictionError: field == schedule.FieldPredictionError,
	})
	if err != nil {
		return fmt.Errorf("error reading %s: %w", source, err)
	}
	for _, reason := range result.SortedReasons() {
		logger.Warn("dropped rows", slog.String("reason", string(reason)), slog.Int("count", result.SkipReasons[reason]))
	}

	client, err := busdb.NewClient(busdb.NewConfig(dbPath, env, verbose), logger)
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, client.Close, logger, "close_database")

	importResult := client.ImportResult
	if replace {
		importResult = client.ReplaceResult
	}
	if err := importResult(ctx, source, result); err != nil {
		return fmt.Errorf("error importing %s: %w", source, err)
	}

	counts, err := client.TableCounts(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "imported %d rows, skipped %d, in %s\n", result.Processed(), result.Skipped, client.ImportRuntime())
	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(stdout, "%s: %d\n", table, counts[table])
	}
	return nil
}
