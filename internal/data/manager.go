package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bluele/gcache"

	"busdelay.org/internal/ingest"
	"busdelay.org/internal/logging"
)

// Manager owns the published Snapshot and keeps it fresh.
type Manager struct {
	config   Config
	logger   *slog.Logger
	snapshot atomic.Pointer[Snapshot]
	cache    gcache.Cache

	updateMutex sync.Mutex // serializes ForceUpdate
	generation  uint64     // guarded by updateMutex

	statusMutex     sync.RWMutex
	lastReloadAt    time.Time
	lastReloadError error

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager loads the configured sources and publishes the first
// snapshot. Source failures do not fail initialization; they surface as
// unavailable data on the query operations.
func InitManager(ctx context.Context, config Config, logger *slog.Logger) (*Manager, error) {
	if config.ObservationsSource == "" {
		return nil, errors.New("an observations source is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}

	manager := &Manager{
		config:       config,
		logger:       logger.With(slog.String("component", "data_manager")),
		cache:        gcache.New(config.cacheSize()).LRU().Build(),
		shutdownChan: make(chan struct{}),
	}

	manager.updateMutex.Lock()
	snap := buildSnapshot(ctx, config, manager.logger)
	manager.publish(snap)
	manager.updateMutex.Unlock()

	if config.hasRemoteSource() {
		manager.wg.Add(1)
		go manager.updatePeriodically()
	}

	return manager, nil
}

// Snapshot returns the currently published snapshot.
func (manager *Manager) Snapshot() *Snapshot {
	return manager.snapshot.Load()
}

// ForceUpdate rebuilds the snapshot from the configured sources and swaps
// it in. A component that fails to reload keeps its previous good value,
// and the failure is returned and recorded as the last reload error.
func (manager *Manager) ForceUpdate(ctx context.Context) error {
	manager.updateMutex.Lock()
	defer manager.updateMutex.Unlock()

	start := time.Now()
	current := manager.Snapshot()
	next := buildSnapshot(ctx, manager.config, manager.logger)

	var errs []error
	if next.StoreErr != nil {
		errs = append(errs, fmt.Errorf("observations: %w", next.StoreErr))
		if current != nil && current.Store != nil {
			next.Store, next.StoreErr = current.Store, nil
			next.Skipped, next.SkipReasons = current.Skipped, current.SkipReasons
		}
	}
	if next.CurveErr != nil && !errors.Is(next.CurveErr, ErrNoCurveConfigured) {
		errs = append(errs, fmt.Errorf("curve: %w", next.CurveErr))
		if current != nil && current.Curve != nil {
			next.Curve, next.CurveErr = current.Curve, nil
		}
	}
	if next.GTFSErr != nil {
		errs = append(errs, fmt.Errorf("gtfs: %w", next.GTFSErr))
		if current != nil && current.Routes != nil {
			next.Routes, next.GTFSErr = current.Routes, nil
		}
	}

	manager.publish(next)
	err := errors.Join(errs...)

	manager.statusMutex.Lock()
	manager.lastReloadAt = time.Now()
	manager.lastReloadError = err
	manager.statusMutex.Unlock()

	if err != nil {
		logging.LogError(manager.logger, "data reload completed with errors", err,
			slog.Uint64("generation", next.Generation))
		return err
	}

	logging.LogOperation(manager.logger, "data_reloaded",
		slog.Uint64("generation", next.Generation),
		slog.Int("records", next.RecordCount()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// publish must be called with updateMutex held.
func (manager *Manager) publish(snap *Snapshot) {
	manager.generation++
	snap.Generation = manager.generation
	manager.snapshot.Store(snap)
	manager.cache.Purge()

	if manager.config.Verbose {
		logging.LogOperation(manager.logger, "snapshot_published",
			slog.String("snapshot_id", snap.ID),
			slog.Uint64("generation", snap.Generation),
			slog.Int("records", snap.RecordCount()),
			slog.Int("skipped", snap.Skipped))
	}
}

// LastReload reports when ForceUpdate last ran and the error it returned.
func (manager *Manager) LastReload() (time.Time, error) {
	manager.statusMutex.RLock()
	defer manager.statusMutex.RUnlock()
	return manager.lastReloadAt, manager.lastReloadError
}

// updatePeriodically reloads remote sources until Shutdown.
func (manager *Manager) updatePeriodically() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), defaultLoadTimeout)
			_ = manager.ForceUpdate(ctx)
			cancel()
		case <-manager.shutdownChan:
			logging.LogOperation(manager.logger, "periodic_updates_stopped",
				slog.String("observations_source", manager.config.ObservationsSource))
			return
		}
	}
}

// Shutdown stops background refreshes and waits for them to exit.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
	})
}

// IsRemote reports whether the observations come from a URL.
func (manager *Manager) IsRemote() bool {
	return ingest.IsRemote(manager.config.ObservationsSource)
}
