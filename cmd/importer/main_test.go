package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busdelay.org/internal/appconf"
	"busdelay.org/internal/data"
	"busdelay.org/internal/models"
	"busdelay.org/internal/schedule"
)

func TestRunImportsObservations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "observations.db")
	var stdout bytes.Buffer

	err := run(context.Background(), []string{"-csv", models.GetFixturePath(t, "observations.csv"), "-db", dbPath}, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "imported 8 rows, skipped 1")
	assert.Contains(t, stdout.String(), "imports: 1\n")
	assert.Contains(t, stdout.String(), "observations: 8\n")

	// the database is a valid observations source
	manager, err := data.InitManager(context.Background(), data.Config{
		ObservationsSource: dbPath,
		Env:                appconf.Development,
	}, nil)
	require.NoError(t, err)
	defer manager.Shutdown()

	tod, err := schedule.NewTimeOfDay(16, 0, 0)
	require.NoError(t, err)
	result, err := manager.ResolveStopSchedule("8 AV/W 86 ST", tod)
	require.NoError(t, err)
	require.Len(t, result.Routes, 1)
	require.NotNil(t, result.Routes[0].Average)
	assert.Equal(t, 0.2, *result.Routes[0].Average)
}

func TestRunAppendsOrReplaces(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "observations.db")
	args := []string{"-csv", models.GetFixturePath(t, "observations.csv"), "-db", dbPath}

	require.NoError(t, run(context.Background(), args, io.Discard, io.Discard))

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), args, &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "observations: 16\n")

	stdout.Reset()
	require.NoError(t, run(context.Background(), append(args, "-replace"), &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "observations: 8\n")
	assert.Contains(t, stdout.String(), "imports: 3\n")
}

func TestRunErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "observations.db")

	tests := []struct {
		name string
		args []string
	}{
		{"missing flags", []string{"-csv", models.GetFixturePath(t, "observations.csv")}},
		{"missing csv", []string{"-csv", filepath.Join(t.TempDir(), "none.csv"), "-db", dbPath}},
		{"file database under test env", []string{"-csv", models.GetFixturePath(t, "observations.csv"), "-db", dbPath, "-env", "test"}},
		{"bad field", []string{"-csv", models.GetFixturePath(t, "observations.csv"), "-db", dbPath, "-aggregate-field", "speed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.args, io.Discard, io.Discard))
		})
	}
}
