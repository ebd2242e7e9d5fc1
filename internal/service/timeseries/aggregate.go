// internal/service/timeseries/aggregate.go

package timeseries

import (
	"fmt"
	"sort"
	"time"

	"socialpulse/internal/domain/pulse"
)

// Metric selects which value of a post is summed per day
type Metric string

const (
	// MetricScore sums post scores
	MetricScore Metric = "score"
	// MetricPosts counts posts
	MetricPosts Metric = "posts"
)

// ParseMetric validates a metric name. An empty name means MetricScore.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case "", MetricScore:
		return MetricScore, nil
	case MetricPosts:
		return MetricPosts, nil
	default:
		return "", fmt.Errorf("unknown metric %q: %w", name, pulse.ErrValidation)
	}
}

// Day truncates t to midnight of its UTC calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Aggregate sums observations per UTC calendar day. The result is ascending by
// day and only contains days that had at least one observation.
func Aggregate(observations []pulse.Observation) []pulse.TimeSeriesPoint {
	sums := make(map[time.Time]float64)
	for _, o := range observations {
		sums[Day(o.Timestamp)] += o.Value
	}

	points := make([]pulse.TimeSeriesPoint, 0, len(sums))
	for day, value := range sums {
		points = append(points, pulse.TimeSeriesPoint{Date: day, Value: value})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// FromPosts turns posts into observations of the given metric
func FromPosts(posts []pulse.Post, metric Metric) []pulse.Observation {
	observations := make([]pulse.Observation, len(posts))
	for i, p := range posts {
		value := float64(p.Score)
		if metric == MetricPosts {
			value = 1
		}
		observations[i] = pulse.Observation{Timestamp: p.CreatedAt, Value: value}
	}
	return observations
}
