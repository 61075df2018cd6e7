package data

import (
	"errors"
	"fmt"

	"busdelay.org/internal/schedule"
)

var (
	// ErrDataUnavailable means the observation data could not be loaded.
	ErrDataUnavailable = errors.New("observation data unavailable")
	// ErrModelUnavailable means the delay curve is absent or invalid.
	ErrModelUnavailable = errors.New("delay model unavailable")
)

func (manager *Manager) store() (*Snapshot, error) {
	snap := manager.Snapshot()
	if snap == nil || snap.Store == nil {
		return snap, storeUnavailable(snap)
	}
	return snap, nil
}

func (manager *Manager) curve() (*Snapshot, error) {
	snap := manager.Snapshot()
	if snap == nil || snap.Curve == nil {
		var cause error
		if snap != nil {
			cause = snap.CurveErr
		}
		return snap, unavailable(ErrModelUnavailable, cause)
	}
	return snap, nil
}

func storeUnavailable(snap *Snapshot) error {
	if snap == nil {
		return ErrDataUnavailable
	}
	return unavailable(ErrDataUnavailable, snap.StoreErr)
}

func unavailable(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// ResolveStopSchedule returns the next arrival and the schedule-keyed
// average per route serving stopName at or after t. Results are cached
// per snapshot generation.
func (manager *Manager) ResolveStopSchedule(stopName string, t schedule.TimeOfDay) (schedule.StopSchedule, error) {
	snap, err := manager.store()
	if err != nil {
		return schedule.StopSchedule{}, err
	}

	key := stopScheduleKey{generation: snap.Generation, stopName: stopName, at: t}
	if cached, err := manager.cache.Get(key); err == nil {
		if result, ok := cached.(schedule.StopSchedule); ok {
			return result, nil
		}
	}

	result, err := snap.Store.StopSchedule(stopName, t, snap.Field)
	if err != nil {
		return schedule.StopSchedule{}, err
	}
	_ = manager.cache.Set(key, result)
	return result, nil
}

type stopScheduleKey struct {
	generation uint64
	stopName   string
	at         schedule.TimeOfDay
}

// PredictForTime evaluates the delay curve at t.
func (manager *Manager) PredictForTime(t schedule.TimeOfDay) (float64, error) {
	snap, err := manager.curve()
	if err != nil {
		return 0, err
	}
	return snap.Curve.Predict(t), nil
}

// PredictNextScheduled predicts the delay of the next globally scheduled
// time of day at or after t. The model is checked before the data.
func (manager *Manager) PredictNextScheduled(t schedule.TimeOfDay) (schedule.NextPrediction, error) {
	snap, err := manager.curve()
	if err != nil {
		return schedule.NextPrediction{}, err
	}
	if snap.Store == nil {
		return schedule.NextPrediction{}, storeUnavailable(snap)
	}
	return schedule.PredictNextScheduled(snap.Store, snap.Curve, t), nil
}

// StopNames returns the sorted unique stop names.
func (manager *Manager) StopNames() ([]string, error) {
	snap, err := manager.store()
	if err != nil {
		return nil, err
	}
	return snap.Store.StopNames(), nil
}

// Routes returns the sorted unique routes and GTFS metadata for those a
// configured feed knows about.
func (manager *Manager) Routes() ([]string, map[string]RouteInfo, error) {
	snap, err := manager.store()
	if err != nil {
		return nil, nil, err
	}
	routes := snap.Store.Routes()
	infos := make(map[string]RouteInfo)
	for _, route := range routes {
		if info, ok := snap.Routes[route]; ok {
			infos[route] = info
		}
	}
	return routes, infos, nil
}

// RouteAverages returns the mean scheduled delay of every route.
func (manager *Manager) RouteAverages() ([]schedule.RouteAverage, error) {
	snap, err := manager.store()
	if err != nil {
		return nil, err
	}
	return snap.Store.RouteAverages(), nil
}

// RouteHourAverage summarizes route during hour. ok is false when no
// record matches.
func (manager *Manager) RouteHourAverage(route string, hour int) (summary schedule.RouteHourSummary, ok bool, err error) {
	snap, err := manager.store()
	if err != nil {
		return schedule.RouteHourSummary{}, false, err
	}
	summary, ok = snap.Store.RouteHourAverage(route, hour)
	return summary, ok, nil
}
