// internal/service/cluster/kmeans.go

package cluster

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"socialpulse/internal/domain/pulse"
)

// KMeans partitions points into K groups with Lloyd's algorithm and k-means++
// seeding. All randomness comes from Seed.
type KMeans struct {
	K        int
	Seed     int64
	Restarts int
	MaxIter  int
}

// Fit returns one label in [0, K) per point.
func (km KMeans) Fit(ctx context.Context, points [][]float64) ([]int, error) {
	n := len(points)
	if n == 0 {
		return nil, fmt.Errorf("kmeans: no points: %w", pulse.ErrEmptyResult)
	}
	if km.K <= 0 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d: %w", km.K, pulse.ErrModelFit)
	}

	labels := make([]int, n)

	// Fewer points than clusters: every point is its own cluster
	if n < km.K {
		for i := range labels {
			labels[i] = i
		}
		return labels, nil
	}

	// Empty vocabulary leaves nothing to separate
	if len(points[0]) == 0 {
		return labels, nil
	}

	restarts := km.Restarts
	if restarts <= 0 {
		restarts = 1
	}

	rng := rand.New(rand.NewSource(km.Seed))
	var best []int
	bestInertia := math.Inf(1)

	for r := 0; r < restarts; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		centers := km.initCenters(points, rng)
		candidate, inertia, err := km.lloyd(ctx, points, centers)
		if err != nil {
			return nil, err
		}

		if inertia < bestInertia {
			best = candidate
			bestInertia = inertia
		}
	}

	if best == nil {
		return nil, fmt.Errorf("kmeans: no finite solution: %w", pulse.ErrModelFit)
	}
	return best, nil
}

// initCenters picks K starting centers with k-means++
func (km KMeans) initCenters(points [][]float64, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, km.K)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centers) < km.K {
		total := 0.0
		for i, p := range points {
			_, dist[i] = nearest(p, centers)
			total += dist[i]
		}

		// All points coincide with a center: any pick is as good as another
		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				if d == 0 {
					continue
				}
				acc += d
				next = i
				if acc >= target {
					break
				}
			}
		}

		centers = append(centers, clone(points[next]))
	}

	return centers
}

// lloyd refines centers until assignments stop changing or MaxIter is hit
func (km KMeans) lloyd(ctx context.Context, points [][]float64, centers [][]float64) ([]int, float64, error) {
	dim := len(points[0])
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = 300
	}

	sums := make([][]float64, len(centers))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	counts := make([]int, len(centers))

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		changed := false
		for i, p := range points {
			c, _ := nearest(p, centers)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		for c := range sums {
			for j := range sums[c] {
				sums[c][j] = 0
			}
			counts[c] = 0
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centers {
			// An emptied cluster keeps its previous center
			if counts[c] == 0 {
				continue
			}
			floats.ScaleTo(centers[c], 1/float64(counts[c]), sums[c])
		}
	}

	inertia := 0.0
	for i, p := range points {
		d := floats.Distance(p, centers[labels[i]], 2)
		inertia += d * d
	}
	if math.IsNaN(inertia) || math.IsInf(inertia, 0) {
		return nil, 0, fmt.Errorf("kmeans: inertia is not finite: %w", pulse.ErrModelFit)
	}

	return labels, inertia, nil
}

// nearest returns the index of the closest center and the squared distance
// to it. Ties go to the lowest index.
func nearest(p []float64, centers [][]float64) (int, float64) {
	best := 0
	bestDist := math.Inf(1)
	for c, center := range centers {
		d := floats.Distance(p, center, 2)
		if d*d < bestDist {
			best = c
			bestDist = d * d
		}
	}
	return best, bestDist
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
