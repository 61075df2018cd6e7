package schedule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 1.005, want: 1.01},
		{in: -1.005, want: -1.01},
		{in: 2.675, want: 2.68},
		{in: 1.004, want: 1.0},
		{in: 0.125, want: 0.13},
		{in: 0.1249, want: 0.12},
		{in: 1.6666666666666667, want: 1.67},
		{in: -0.001, want: 0},
		{in: 3, want: 3},
		{in: 2.5, want: 2.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}

	assert.True(t, math.IsNaN(Round2(math.NaN())))
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
}

func TestAverageAtSchedule(t *testing.T) {
	records := []Observation{
		obs("MAIN/1ST", "M1", "a", "2025-01-01 08:00:00", 2.0),
		obs("MAIN/1ST", "M1", "b", "2025-01-02 08:00:00", 4.0),
		obs("MAIN/1ST", "M1", "c", "2025-01-01 08:00:00", 3.0),
		obs("MAIN/1ST", "M1", "d", "2025-01-01 08:00:00", math.NaN()),
	}

	t.Run("averages exact timestamp matches only", func(t *testing.T) {
		avg := AverageAtSchedule(&records[0], records, FieldScheduledDelay)
		require.NotNil(t, avg)
		assert.Equal(t, 2.5, *avg)
	})

	t.Run("nil anchor", func(t *testing.T) {
		assert.Nil(t, AverageAtSchedule(nil, records, FieldScheduledDelay))
	})

	t.Run("no finite values", func(t *testing.T) {
		anchor := records[3]
		only := []Observation{anchor}
		assert.Nil(t, AverageAtSchedule(&anchor, only, FieldScheduledDelay))
	})

	t.Run("prediction error field", func(t *testing.T) {
		withErrors := []Observation{records[0], records[1], records[2]}
		withErrors[0].PredictionErrorMinutes = floatPtr(1.0)
		withErrors[2].PredictionErrorMinutes = floatPtr(2.25)

		avg := AverageAtSchedule(&withErrors[0], withErrors, FieldPredictionError)
		require.NotNil(t, avg)
		assert.Equal(t, 1.63, *avg)
	})

	t.Run("prediction error missing everywhere", func(t *testing.T) {
		assert.Nil(t, AverageAtSchedule(&records[1], records, FieldPredictionError))
	})
}

func TestStopSchedule(t *testing.T) {
	records := []Observation{
		obs("MAIN/1ST", "M1", "bus-2", "2025-01-02 08:00:00", 4.0),
		obs("MAIN/1ST", "M1", "bus-1", "2025-01-01 08:00:00", 2.0),
		obs("MAIN/1ST", "B9", "bus-9", "2025-01-01 06:00:00", 1.0),
		obs("MAIN/1ST", "A1", "bus-7", "2025-01-01 09:00:00", -1.0),
		obs("MAIN/1ST", "A1", "bus-8", "2025-01-01 09:00:00", -2.0),
		obs("ELM/2ND", "M1", "bus-5", "2025-01-01 08:00:00", 10.0),
	}
	store, err := NewStore(records)
	require.NoError(t, err)

	t.Run("scenario with same time of day on two dates", func(t *testing.T) {
		result, err := store.StopSchedule("MAIN/1ST", tod(t, 7, 59, 0), FieldScheduledDelay)
		require.NoError(t, err)

		assert.Equal(t, "MAIN/1ST", result.StopName)
		require.Len(t, result.Routes, 3)
		assert.Equal(t, []string{"A1", "B9", "M1"}, []string{
			result.Routes[0].Route, result.Routes[1].Route, result.Routes[2].Route,
		})

		m1 := result.Routes[2]
		require.NotNil(t, m1.Next)
		assert.Equal(t, "2025-01-01 08:00:00", m1.Next.ScheduledArrival)
		assert.Equal(t, "bus-1", m1.Next.BusID)
		require.NotNil(t, m1.Average)
		assert.Equal(t, 2.0, *m1.Average)

		a1 := result.Routes[0]
		require.NotNil(t, a1.Average)
		assert.Equal(t, -1.5, *a1.Average)
	})

	t.Run("route without a later arrival has null fields", func(t *testing.T) {
		result, err := store.StopSchedule("MAIN/1ST", tod(t, 7, 59, 0), FieldScheduledDelay)
		require.NoError(t, err)

		b9 := result.Routes[1]
		assert.Equal(t, "B9", b9.Route)
		assert.Nil(t, b9.Next)
		assert.Nil(t, b9.Average)
	})

	t.Run("unknown stop", func(t *testing.T) {
		_, err := store.StopSchedule("NOWHERE", tod(t, 8, 0, 0), FieldScheduledDelay)
		assert.ErrorIs(t, err, ErrStopNotFound)
	})

	t.Run("identical stores give identical answers", func(t *testing.T) {
		again, err := NewStore(records)
		require.NoError(t, err)

		for _, stop := range store.StopNames() {
			want, err := store.StopSchedule(stop, tod(t, 7, 0, 0), FieldScheduledDelay)
			require.NoError(t, err)
			got, err := again.StopSchedule(stop, tod(t, 7, 0, 0), FieldScheduledDelay)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})
}

func TestParseField(t *testing.T) {
	f, err := ParseField("")
	require.NoError(t, err)
	assert.Equal(t, FieldScheduledDelay, f)

	f, err = ParseField("prediction_error_minutes")
	require.NoError(t, err)
	assert.Equal(t, FieldPredictionError, f)
	assert.Equal(t, "prediction_error", f.String())

	_, err = ParseField("speed")
	assert.Error(t, err)
}
