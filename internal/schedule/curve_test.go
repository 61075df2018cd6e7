package schedule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleCurve(t *testing.T) *Curve {
	t.Helper()
	curve, err := NewCurve([]Sample{
		{MinuteOfDay: 0, PredictedDelay: 1.0},
		{MinuteOfDay: 60, PredictedDelay: 3.0},
		{MinuteOfDay: 120, PredictedDelay: 1.0},
	})
	require.NoError(t, err)
	return curve
}

func TestNewCurveValidation(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
		wantErr error
	}{
		{name: "empty", samples: nil, wantErr: ErrEmptyCurve},
		{name: "unsorted", samples: []Sample{{10, 1}, {5, 2}}, wantErr: ErrInvalidCurve},
		{name: "duplicate x", samples: []Sample{{10, 1}, {10, 2}}, wantErr: ErrInvalidCurve},
		{name: "negative x", samples: []Sample{{-1, 1}}, wantErr: ErrInvalidCurve},
		{name: "x at end of day", samples: []Sample{{1440, 1}}, wantErr: ErrInvalidCurve},
		{name: "NaN y", samples: []Sample{{1, math.NaN()}}, wantErr: ErrInvalidCurve},
		{name: "infinite x", samples: []Sample{{math.Inf(1), 1}}, wantErr: ErrInvalidCurve},
		{name: "valid", samples: []Sample{{0, 1}, {1439.5, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curve, err := NewCurve(tt.samples)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, curve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.samples), curve.Len())
		})
	}
}

func TestCurvePredictMinutes(t *testing.T) {
	curve := triangleCurve(t)

	tests := []struct {
		name    string
		minutes float64
		want    float64
	}{
		{name: "midpoint interpolation", minutes: 30, want: 2.0},
		{name: "descending segment", minutes: 90, want: 2.0},
		{name: "knot returns exact y", minutes: 60, want: 3.0},
		{name: "first knot", minutes: 0, want: 1.0},
		{name: "clamped after last sample", minutes: 1400, want: 1.0},
		{name: "fractional minutes", minutes: 15.5, want: 1.0 + 2.0*15.5/60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, curve.PredictMinutes(tt.minutes), 1e-12)
		})
	}
}

func TestCurveClampsBeforeFirstSample(t *testing.T) {
	curve, err := NewCurve([]Sample{{MinuteOfDay: 300, PredictedDelay: -0.5}, {MinuteOfDay: 600, PredictedDelay: 4}})
	require.NoError(t, err)

	assert.Equal(t, -0.5, curve.PredictMinutes(0))
	assert.Equal(t, -0.5, curve.PredictMinutes(300))
	assert.Equal(t, 4.0, curve.PredictMinutes(600))
	assert.Equal(t, 4.0, curve.PredictMinutes(1439))

	lo, hi := curve.Domain()
	assert.Equal(t, 300.0, lo)
	assert.Equal(t, 600.0, hi)
}

func TestCurveSingleSample(t *testing.T) {
	curve, err := NewCurve([]Sample{{MinuteOfDay: 720, PredictedDelay: 2.25}})
	require.NoError(t, err)

	for _, m := range []float64{0, 719.9, 720, 1000} {
		assert.Equal(t, 2.25, curve.PredictMinutes(m))
	}
}

func TestCurvePredictUsesSeconds(t *testing.T) {
	curve := triangleCurve(t)
	// 00:30:30 is minute 30.5
	assert.InDelta(t, 1.0+2.0*30.5/60, curve.Predict(tod(t, 0, 30, 30)), 1e-12)
}

func TestPredictNextScheduled(t *testing.T) {
	store, err := NewStore([]Observation{
		obs("A", "M1", "1", "2025-01-01 00:30:00", 1.0),
		obs("B", "B2", "2", "2025-01-02 01:30:00", 1.0),
	})
	require.NoError(t, err)
	curve := triangleCurve(t)

	t.Run("uses the next global schedule", func(t *testing.T) {
		result := PredictNextScheduled(store, curve, tod(t, 0, 10, 0))
		require.True(t, result.Found)
		assert.Equal(t, "00:30:00", result.NextScheduledTime.String())
		assert.InDelta(t, 2.0, result.PredictedDelayMinutes, 1e-12)
	})

	t.Run("nothing after the last schedule", func(t *testing.T) {
		result := PredictNextScheduled(store, curve, tod(t, 1, 30, 1))
		assert.False(t, result.Found)
		assert.Equal(t, "01:30:01", result.RequestedTime.String())
	})
}
