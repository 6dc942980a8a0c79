package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func series(values ...float64) []DataPoint {
	points := make([]DataPoint, len(values))
	for i, v := range values {
		points[i] = DataPoint{Date: day(i), X: float64(i), Y: v}
	}
	return points
}

func TestFitTooFewPoints(t *testing.T) {
	_, err := Fit(series(100))
	assert.Error(t, err)

	_, err = Fit(nil)
	assert.Error(t, err)
}

func TestFitPerfectLine(t *testing.T) {
	// y = 10x + 100
	res, err := Fit(series(100, 110, 120, 130, 140))
	require.NoError(t, err)

	assert.InDelta(t, 10, res.A, 1e-9)
	assert.InDelta(t, 100, res.B, 1e-9)
	assert.InDelta(t, 1, res.R2, 1e-9)
	assert.Equal(t, day(0), res.PeriodStart)
	assert.Equal(t, day(4), res.PeriodEnd)
}

func TestFitIdenticalX(t *testing.T) {
	points := []DataPoint{
		{Date: day(0), X: 5, Y: 100},
		{Date: day(0), X: 5, Y: 200},
	}
	_, err := Fit(points)
	assert.Error(t, err)
}

func TestPredictClampsNegative(t *testing.T) {
	// Steeply falling revenue: projections must bottom out at zero.
	res, err := Fit(series(100, 50, 0))
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Predict(10))
}

func TestForecastHorizon(t *testing.T) {
	res, err := Fit(series(100, 110, 120, 130))
	require.NoError(t, err)

	forecasts := res.Forecast(5, 0.95)
	require.Len(t, forecasts, 5)

	// Forecast days continue right after the observed period
	assert.Equal(t, day(4), forecasts[0].Date)
	assert.Equal(t, day(8), forecasts[4].Date)

	for _, fp := range forecasts {
		assert.GreaterOrEqual(t, fp.ForecastValue, 0.0)
		assert.LessOrEqual(t, fp.CILower, fp.ForecastValue)
		assert.GreaterOrEqual(t, fp.CIUpper, fp.ForecastValue)
	}

	// The trend keeps rising
	assert.Greater(t, forecasts[4].ForecastValue, forecasts[0].ForecastValue)
}
