package forecast

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/domain/pulse"
)

func date(s string) time.Time {
	t, err := time.Parse(pulse.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func series(start string, values ...float64) []pulse.TimeSeriesPoint {
	first := date(start)
	out := make([]pulse.TimeSeriesPoint, len(values))
	for i, v := range values {
		out[i] = pulse.TimeSeriesPoint{Date: first.AddDate(0, 0, i), Value: v}
	}
	return out
}

func assertBands(t *testing.T, points []pulse.ForecastPoint) {
	t.Helper()
	for _, p := range points {
		assert.LessOrEqual(t, p.LowerBound, p.Predicted, p.Date.Format(pulse.DateLayout))
		assert.LessOrEqual(t, p.Predicted, p.UpperBound, p.Date.Format(pulse.DateLayout))
	}
}

func TestFitAndForecast_ThreeDayScenario(t *testing.T) {
	in := []pulse.TimeSeriesPoint{
		{Date: date("2024-01-01"), Value: 10},
		{Date: date("2024-01-02"), Value: 5},
		{Date: date("2024-01-03"), Value: 15},
	}

	out, err := NewEngine().FitAndForecast(context.Background(), in, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, date("2024-01-04"), out[0].Date)
	assert.Equal(t, date("2024-01-05"), out[1].Date)
	assertBands(t, out)
}

func TestForecast_CoversHistoryAndHorizon(t *testing.T) {
	in := series("2024-02-01", 3, 4, 8, 6, 7, 9, 12, 11, 13)

	full, err := NewEngine().Forecast(context.Background(), in, 5)
	require.NoError(t, err)
	require.Len(t, full, len(in)+5)

	for i, p := range in {
		assert.Equal(t, p.Date, full[i].Date)
	}
	for h := 1; h <= 5; h++ {
		assert.Equal(t, date("2024-02-09").AddDate(0, 0, h), full[len(in)+h-1].Date)
	}
	assertBands(t, full)
}

func TestForecast_GapsAreNotFilled(t *testing.T) {
	in := []pulse.TimeSeriesPoint{
		{Date: date("2024-01-01"), Value: 1},
		{Date: date("2024-01-10"), Value: 10},
	}

	full, err := NewEngine().Forecast(context.Background(), in, 1)
	require.NoError(t, err)
	require.Len(t, full, 3)
	assert.Equal(t, date("2024-01-11"), full[2].Date)
}

func TestForecast_LinearTrendIsRecovered(t *testing.T) {
	values := make([]float64, 28)
	for i := range values {
		values[i] = 10 + 2*float64(i)
	}

	out, err := NewEngine().FitAndForecast(context.Background(), series("2024-01-01", values...), 3)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.InDelta(t, 10+2*28.0, out[0].Predicted, 0.5)
	assert.InDelta(t, 10+2*30.0, out[2].Predicted, 0.5)
	assertBands(t, out)
}

func TestForecast_WeeklySeasonality(t *testing.T) {
	pattern := []float64{10, 12, 14, 30, 14, 12, 10}
	var values []float64
	for w := 0; w < 6; w++ {
		values = append(values, pattern...)
	}

	out, err := NewEngine().FitAndForecast(context.Background(), series("2024-01-01", values...), 7)
	require.NoError(t, err)
	require.Len(t, out, 7)

	// the spike day of the week should still be the highest projection
	peak := 0
	for i := range out {
		if out[i].Predicted > out[peak].Predicted {
			peak = i
		}
	}
	assert.Equal(t, 3, peak)
}

func TestForecast_Deterministic(t *testing.T) {
	in := series("2023-12-25", 5, 17, 3, 9, 22, 1, 8, 14)
	engine := NewEngine()

	first, err := engine.FitAndForecast(context.Background(), in, 30)
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := engine.FitAndForecast(context.Background(), in, 30)
		require.NoError(t, err)
		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(firstJSON), string(againJSON))
	}
}

func TestForecast_RoundsToTwoDecimals(t *testing.T) {
	out, err := NewEngine().FitAndForecast(context.Background(), series("2024-01-01", 1.234, 5.678, 2.345, 9.876), 4)
	require.NoError(t, err)

	for _, p := range out {
		for _, v := range []float64{p.Predicted, p.LowerBound, p.UpperBound} {
			assert.Equal(t, math.Round(v*100)/100, v)
		}
	}
}

func TestForecast_Validation(t *testing.T) {
	engine := NewEngine()
	ok := series("2024-01-01", 1, 2, 3)

	tests := []struct {
		name    string
		series  []pulse.TimeSeriesPoint
		horizon int
		wantErr error
	}{
		{"horizon zero", ok, 0, pulse.ErrValidation},
		{"horizon too large", ok, 31, pulse.ErrValidation},
		{"single day", series("2024-01-01", 5), 3, pulse.ErrInsufficientData},
		{"no data", nil, 3, pulse.ErrInsufficientData},
		{"not ascending", []pulse.TimeSeriesPoint{
			{Date: date("2024-01-02"), Value: 1},
			{Date: date("2024-01-01"), Value: 2},
		}, 3, pulse.ErrValidation},
		{"duplicate day", []pulse.TimeSeriesPoint{
			{Date: date("2024-01-01"), Value: 1},
			{Date: date("2024-01-01").Add(time.Hour), Value: 2},
		}, 3, pulse.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.FitAndForecast(context.Background(), tt.series, tt.horizon)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestForecast_HorizonBoundsAccepted(t *testing.T) {
	in := series("2024-01-01", 1, 2)
	for _, h := range []int{MinHorizon, MaxHorizon} {
		out, err := NewEngine().FitAndForecast(context.Background(), in, h)
		require.NoError(t, err)
		assert.Len(t, out, h)
		assertBands(t, out)
	}
}

func TestForecast_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().FitAndForecast(ctx, series("2024-01-01", 1, 2, 3), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForecastPoint_JSON(t *testing.T) {
	b, err := json.Marshal(pulse.ForecastPoint{Date: date("2024-01-04"), Predicted: 1.5, LowerBound: 1, UpperBound: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-04","predicted":1.5,"lower_bound":1,"upper_bound":2}`, string(b))
}
