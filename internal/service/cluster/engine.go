package cluster

import (
	"context"
	"fmt"

	"socialpulse/internal/domain/pulse"
)

// Fixed clustering parameters. The seed makes membership reproducible for
// identical input; the numeric cluster ids still carry no meaning across calls.
const (
	K        = 3
	Seed     = 42
	Restarts = 10
	MaxIter  = 300
)

// Engine vectorizes a batch of texts and partitions it into K topic clusters
type Engine struct {
	kmeans KMeans
}

// NewEngine creates a new clustering engine with the fixed parameters
func NewEngine() *Engine {
	return &Engine{
		kmeans: KMeans{K: K, Seed: Seed, Restarts: Restarts, MaxIter: MaxIter},
	}
}

// Cluster returns one cluster id in [0, K) per text
func (e *Engine) Cluster(ctx context.Context, texts []string) ([]int, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("cluster: empty batch: %w", pulse.ErrEmptyResult)
	}

	matrix := Vectorize(texts)
	labels, err := e.kmeans.Fit(ctx, matrix.Vectors)
	if err != nil {
		return nil, err
	}

	if len(labels) != len(texts) {
		return nil, fmt.Errorf("cluster: %d labels for %d texts: %w", len(labels), len(texts), pulse.ErrModelFit)
	}
	for i, l := range labels {
		if l < 0 || l >= e.kmeans.K {
			return nil, fmt.Errorf("cluster: label %d of item %d out of range: %w", l, i, pulse.ErrModelFit)
		}
	}

	return labels, nil
}

// ClusterPosts assigns a cluster to every scored post by its title
func (e *Engine) ClusterPosts(ctx context.Context, posts []pulse.ScoredPost) ([]pulse.ClusteredPost, error) {
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Title
	}

	labels, err := e.Cluster(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make([]pulse.ClusteredPost, len(posts))
	for i, p := range posts {
		out[i] = pulse.ClusteredPost{ScoredPost: p, ClusterID: labels[i]}
	}
	return out, nil
}
