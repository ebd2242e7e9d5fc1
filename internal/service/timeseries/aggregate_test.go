package timeseries

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/domain/pulse"
)

func day(s string) time.Time {
	t, err := time.Parse(pulse.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAggregate_SumsPerDay(t *testing.T) {
	obs := []pulse.Observation{
		{Timestamp: time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC), Value: 5},
		{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 4},
		{Timestamp: time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC), Value: 6},
		{Timestamp: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC), Value: 15},
	}

	points := Aggregate(obs)

	assert.Equal(t, []pulse.TimeSeriesPoint{
		{Date: day("2024-01-01"), Value: 10},
		{Date: day("2024-01-02"), Value: 5},
		{Date: day("2024-01-05"), Value: 15},
	}, points)
}

func TestAggregate_UsesUTCDay(t *testing.T) {
	tz := time.FixedZone("UTC+5", 5*3600)
	obs := []pulse.Observation{
		// 2024-01-02 02:00 local is 2024-01-01 21:00 UTC
		{Timestamp: time.Date(2024, 1, 2, 2, 0, 0, 0, tz), Value: 1},
	}

	points := Aggregate(obs)
	require.Len(t, points, 1)
	assert.Equal(t, day("2024-01-01"), points[0].Date)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestAggregate_OrderIndependent(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var obs []pulse.Observation
	for i := 0; i < 50; i++ {
		obs = append(obs, pulse.Observation{
			Timestamp: base.Add(time.Duration(i*7) * time.Hour),
			Value:     float64(i % 9),
		})
	}
	want := Aggregate(obs)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]pulse.Observation(nil), obs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Aggregate(shuffled))
	}
}

func TestFromPosts(t *testing.T) {
	posts := []pulse.Post{
		{ID: "a", Score: 10, CreatedAt: day("2024-01-01")},
		{ID: "b", Score: 3, CreatedAt: day("2024-01-01")},
	}

	assert.Equal(t, []pulse.TimeSeriesPoint{{Date: day("2024-01-01"), Value: 13}}, Aggregate(FromPosts(posts, MetricScore)))
	assert.Equal(t, []pulse.TimeSeriesPoint{{Date: day("2024-01-01"), Value: 2}}, Aggregate(FromPosts(posts, MetricPosts)))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricScore, m)

	m, err = ParseMetric("posts")
	require.NoError(t, err)
	assert.Equal(t, MetricPosts, m)

	_, err = ParseMetric("likes")
	assert.ErrorIs(t, err, pulse.ErrValidation)
}
