// internal/service/forecast/engine.go

package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/service/timeseries"
)

// Horizon limits in days
const (
	MinHorizon = 1
	MaxHorizon = 30
)

// MinDays is the number of distinct observed days needed to fit the model
const MinDays = 2

const (
	day          = 24 * time.Hour
	weeklyPeriod = 7.0
	fourierOrder = 3
	// Ridge penalty on the seasonal coefficients. Intercept and trend are free.
	seasonalPenalty = 1.0
	// Two-sided 80% normal interval
	intervalZ = 1.2815515655446004
)

// Engine fits an additive linear trend plus weekly seasonality to a daily
// series and projects it forward with an uncertainty band. Fitting is closed
// form and deterministic.
type Engine struct {
	penalty float64
}

// NewEngine creates a new forecasting engine
func NewEngine() *Engine {
	return &Engine{penalty: seasonalPenalty}
}

// ValidateHorizon checks that horizon is within [MinHorizon, MaxHorizon]
func ValidateHorizon(horizon int) error {
	if horizon < MinHorizon || horizon > MaxHorizon {
		return fmt.Errorf("horizon_days must be between %d and %d, got %d: %w", MinHorizon, MaxHorizon, horizon, pulse.ErrValidation)
	}
	return nil
}

// FitAndForecast fits series and returns the last horizon points of the
// fitted plus projected output, i.e. the days after the last observation.
func (e *Engine) FitAndForecast(ctx context.Context, series []pulse.TimeSeriesPoint, horizon int) ([]pulse.ForecastPoint, error) {
	full, err := e.Forecast(ctx, series, horizon)
	if err != nil {
		return nil, err
	}
	return full[len(full)-horizon:], nil
}

// Forecast returns one point per observed day followed by horizon consecutive
// days after the last observed day. All values are rounded to 2 decimals.
func (e *Engine) Forecast(ctx context.Context, series []pulse.TimeSeriesPoint, horizon int) ([]pulse.ForecastPoint, error) {
	if err := ValidateHorizon(horizon); err != nil {
		return nil, err
	}
	if err := validateSeries(series); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin := timeseries.Day(series[0].Date)
	last := timeseries.Day(series[len(series)-1].Date)
	span := daysBetween(origin, last)

	n := len(series)
	p := 2 + 2*fourierOrder

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, pt := range series {
		x.SetRow(i, features(timeseries.Day(pt.Date), origin, span))
		y.SetVec(i, pt.Value)
	}

	beta, err := e.solve(x, y)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fitted mat.VecDense
	fitted.MulVec(x, beta)

	resid := make([]float64, n)
	for i := range resid {
		resid[i] = y.AtVec(i) - fitted.AtVec(i)
	}
	sigma := floats.Norm(resid, 2) / math.Sqrt(float64(n))

	out := make([]pulse.ForecastPoint, 0, n+horizon)
	for i, pt := range series {
		point, err := makePoint(timeseries.Day(pt.Date), fitted.AtVec(i), sigma, 0, n)
		if err != nil {
			return nil, err
		}
		out = append(out, point)
	}

	for h := 1; h <= horizon; h++ {
		date := last.Add(time.Duration(h) * day)
		predicted := mat.Dot(mat.NewVecDense(p, features(date, origin, span)), beta)
		point, err := makePoint(date, predicted, sigma, h, n)
		if err != nil {
			return nil, err
		}
		out = append(out, point)
	}

	return out, nil
}

// solve computes ridge least squares coefficients via Cholesky
func (e *Engine) solve(x *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	_, p := x.Dims()

	var gram mat.SymDense
	gram.SymOuterK(1, x.T())
	for j := 2; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+e.penalty)
	}

	var rhs mat.VecDense
	rhs.MulVec(x.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return nil, fmt.Errorf("forecast: normal equations are not positive definite: %w", pulse.ErrModelFit)
	}

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &rhs); err != nil {
		return nil, fmt.Errorf("forecast: solve coefficients: %v: %w", err, pulse.ErrModelFit)
	}

	for j := 0; j < p; j++ {
		if v := beta.AtVec(j); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("forecast: coefficient %d is not finite: %w", j, pulse.ErrModelFit)
		}
	}

	return &beta, nil
}

// features returns the design row for date: intercept, scaled trend and the
// weekly Fourier terms. The weekly phase is anchored to the Unix epoch so it
// does not depend on where the series starts.
func features(date, origin time.Time, span int) []float64 {
	row := make([]float64, 0, 2+2*fourierOrder)
	row = append(row, 1, float64(daysBetween(origin, date))/float64(span))

	epochDay := float64(date.Unix() / int64(day/time.Second))
	for k := 1; k <= fourierOrder; k++ {
		angle := 2 * math.Pi * float64(k) * epochDay / weeklyPeriod
		row = append(row, math.Sin(angle), math.Cos(angle))
	}
	return row
}

func makePoint(date time.Time, predicted, sigma float64, stepsAhead, n int) (pulse.ForecastPoint, error) {
	half := intervalZ * sigma * math.Sqrt(1+float64(stepsAhead)/float64(n))
	point := pulse.ForecastPoint{
		Date:       date,
		Predicted:  round2(predicted),
		LowerBound: round2(predicted - half),
		UpperBound: round2(predicted + half),
	}

	for _, v := range []float64{point.Predicted, point.LowerBound, point.UpperBound} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return pulse.ForecastPoint{}, fmt.Errorf("forecast: non-finite value for %s: %w", date.Format(pulse.DateLayout), pulse.ErrModelFit)
		}
	}
	return point, nil
}

func validateSeries(series []pulse.TimeSeriesPoint) error {
	if len(series) < MinDays {
		return fmt.Errorf("need at least %d distinct days of data, got %d: %w", MinDays, len(series), pulse.ErrInsufficientData)
	}

	for i := 1; i < len(series); i++ {
		prev := timeseries.Day(series[i-1].Date)
		cur := timeseries.Day(series[i].Date)
		if !cur.After(prev) {
			return fmt.Errorf("series must be strictly ascending by day, %s follows %s: %w",
				cur.Format(pulse.DateLayout), prev.Format(pulse.DateLayout), pulse.ErrValidation)
		}
	}
	for _, pt := range series {
		if math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
			return fmt.Errorf("series value for %s is not finite: %w", pt.Date.Format(pulse.DateLayout), pulse.ErrValidation)
		}
	}
	return nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / day)
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // no negative zero on the wire
	}
	return r
}
