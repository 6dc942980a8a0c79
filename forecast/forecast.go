// Package forecast fits a least-squares line to a daily revenue series and
// projects it forward.
package forecast

import (
	"fmt"
	"math"
	"time"
)

// DataPoint is one observed day. X is the day index (days since an
// arbitrary epoch); Y is the revenue for that day.
type DataPoint struct {
	Date time.Time
	X    float64
	Y    float64
}

// Result holds the fitted line y = A*x + B together with fit quality.
type Result struct {
	A           float64
	B           float64
	R           float64
	R2          float64
	PeriodStart time.Time
	PeriodEnd   time.Time
	DataPoints  []DataPoint
}

// ForecastPoint is one projected day with its confidence band. Negative
// projections are clamped to zero; a sock wholesaler does not sell negative
// quantities.
type ForecastPoint struct {
	Date          time.Time
	ForecastValue float64
	CILower       float64
	CIUpper       float64
}

// Fit computes the least-squares regression over the given points.
// At least two points are required.
func Fit(points []DataPoint) (*Result, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("linear regression needs at least 2 points, got %d", len(points))
	}

	minDate := points[0].Date
	maxDate := points[0].Date
	for _, p := range points {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	// a = (n*sum(xy) - sum(x)*sum(y)) / (n*sum(x^2) - sum(x)^2)
	// b = (sum(y) - a*sum(x)) / n
	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("all X values are identical, slope is undefined")
	}
	a := (n*sumXY - sumX*sumY) / denominator
	b := (sumY - a*sumX) / n

	// Pearson correlation
	numerator := n*sumXY - sumX*sumY
	denominator = math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	var r float64
	if math.Abs(denominator) >= 1e-10 {
		r = numerator / denominator
	}

	return &Result{
		A:           a,
		B:           b,
		R:           r,
		R2:          r * r,
		PeriodStart: minDate,
		PeriodEnd:   maxDate,
		DataPoints:  points,
	}, nil
}

// Predict evaluates the fitted line at x, clamped at zero.
func (res *Result) Predict(x float64) float64 {
	y := res.A*x + res.B
	if y < 0 {
		return 0
	}
	return y
}

// confidenceInterval computes the prediction band at x for the given
// confidence level (0.90, 0.95 or 0.99).
func (res *Result) confidenceInterval(x float64, confidenceLevel float64) (float64, float64) {
	n := float64(len(res.DataPoints))

	meanX := 0.0
	for _, p := range res.DataPoints {
		meanX += p.X
	}
	meanX /= n

	var sumSqDevX, sumSqResiduals float64
	for _, p := range res.DataPoints {
		predY := res.A*p.X + res.B
		sumSqDevX += (p.X - meanX) * (p.X - meanX)
		sumSqResiduals += (p.Y - predY) * (p.Y - predY)
	}

	if n <= 2 || sumSqDevX == 0 {
		y := res.Predict(x)
		return y, y
	}

	standardError := math.Sqrt(sumSqResiduals / (n - 2))

	// t-statistic approximations; good enough for a dashboard band.
	tStat := 2.0
	switch confidenceLevel {
	case 0.99:
		tStat = 2.58
	case 0.90:
		tStat = 1.64
	}

	predictionStdError := standardError * math.Sqrt(1+1/n+(x-meanX)*(x-meanX)/sumSqDevX)
	margin := tStat * predictionStdError
	y := res.A*x + res.B

	lower := y - margin
	if lower < 0 {
		lower = 0
	}
	upper := y + margin
	if upper < 0 {
		upper = 0
	}
	return lower, upper
}

// Forecast projects daysAhead days past the last observed date.
func (res *Result) Forecast(daysAhead int, confidenceLevel float64) []ForecastPoint {
	maxX := res.DataPoints[0].X
	for _, p := range res.DataPoints {
		if p.X > maxX {
			maxX = p.X
		}
	}

	forecasts := make([]ForecastPoint, daysAhead)
	for i := 0; i < daysAhead; i++ {
		x := maxX + float64(i+1)
		lower, upper := res.confidenceInterval(x, confidenceLevel)
		forecasts[i] = ForecastPoint{
			Date:          res.PeriodEnd.AddDate(0, 0, i+1),
			ForecastValue: res.Predict(x),
			CILower:       lower,
			CIUpper:       upper,
		}
	}
	return forecasts
}
