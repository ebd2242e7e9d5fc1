// internal/domain/pulse/ports.go

package pulse

import (
	"context"
)

// PageFetcher returns one page of posts for a channel from an upstream platform
type PageFetcher interface {
	// Name identifies the upstream platform, e.g. "reddit"
	Name() string

	// FetchPage returns up to limit posts after cursor and the upstream's own
	// continuation token
	FetchPage(ctx context.Context, channel string, limit int, cursor string) ([]Post, string, error)
}

// EntityExtractor finds named entity mentions in a text
type EntityExtractor interface {
	Extract(text string) []string
}

// RunRecorder archives completed runs. Nothing in the pipeline reads them back.
type RunRecorder interface {
	SaveRun(ctx context.Context, run Run) error
}

// EventPublisher announces completed runs to interested consumers
type EventPublisher interface {
	PublishRun(ctx context.Context, run Run) error
}
