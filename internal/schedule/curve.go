package schedule

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// MinutesPerDay bounds the x axis of a Curve.
const MinutesPerDay = 1440

var (
	// ErrEmptyCurve is returned for a curve without samples.
	ErrEmptyCurve = errors.New("smoothed curve has no samples")
	// ErrInvalidCurve is returned for unsorted, duplicate or out-of-range samples.
	ErrInvalidCurve = errors.New("invalid smoothed curve")
)

// Sample is one point of a smoothed delay curve.
type Sample struct {
	MinuteOfDay    float64
	PredictedDelay float64
}

// Curve is an immutable, validated smoothed delay curve.
type Curve struct {
	samples []Sample
}

// NewCurve validates samples and returns a Curve. Samples must be finite,
// have x in [0, 1440) and be strictly increasing in x.
func NewCurve(samples []Sample) (*Curve, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyCurve
	}

	for i, sample := range samples {
		x, y := sample.MinuteOfDay, sample.PredictedDelay
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("%w: sample %d is not finite", ErrInvalidCurve, i)
		}
		if x < 0 || x >= MinutesPerDay {
			return nil, fmt.Errorf("%w: sample %d minute %v outside [0,%d)", ErrInvalidCurve, i, x, MinutesPerDay)
		}
		if i > 0 && x <= samples[i-1].MinuteOfDay {
			return nil, fmt.Errorf("%w: sample %d minute %v not greater than %v", ErrInvalidCurve, i, x, samples[i-1].MinuteOfDay)
		}
	}

	return &Curve{samples: append([]Sample(nil), samples...)}, nil
}

// Len returns the number of samples.
func (c *Curve) Len() int {
	return len(c.samples)
}

// Samples returns a copy of the samples.
func (c *Curve) Samples() []Sample {
	return append([]Sample(nil), c.samples...)
}

// Domain returns the smallest and largest sample minute.
func (c *Curve) Domain() (float64, float64) {
	return c.samples[0].MinuteOfDay, c.samples[len(c.samples)-1].MinuteOfDay
}

// PredictMinutes interpolates linearly between the samples bracketing m.
// Values outside the sampled range are clamped to the boundary sample.
func (c *Curve) PredictMinutes(m float64) float64 {
	first, last := c.samples[0], c.samples[len(c.samples)-1]
	if m <= first.MinuteOfDay {
		return first.PredictedDelay
	}
	if m >= last.MinuteOfDay {
		return last.PredictedDelay
	}

	// first sample with x >= m; 0 < i < len since m is strictly inside
	i := sort.Search(len(c.samples), func(i int) bool {
		return c.samples[i].MinuteOfDay >= m
	})
	hi := c.samples[i]
	if hi.MinuteOfDay == m {
		return hi.PredictedDelay
	}
	lo := c.samples[i-1]
	return lo.PredictedDelay + (hi.PredictedDelay-lo.PredictedDelay)*(m-lo.MinuteOfDay)/(hi.MinuteOfDay-lo.MinuteOfDay)
}

// Predict returns the predicted delay in minutes for a time of day.
func (c *Curve) Predict(t TimeOfDay) float64 {
	return c.PredictMinutes(t.Minutes())
}
