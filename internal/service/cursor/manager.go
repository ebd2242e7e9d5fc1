// internal/service/cursor/manager.go

package cursor

import (
	"context"
	"fmt"
	"strings"

	"socialpulse/internal/domain/pulse"
)

// Page size limits
const (
	MinLimit = 1
	MaxLimit = 100
)

// Manager fetches one page at a time from an upstream source. It keeps no
// state between calls; callers persist and resend the cursor themselves.
type Manager struct {
	fetcher pulse.PageFetcher
}

// NewManager creates a new cursor manager over fetcher
func NewManager(fetcher pulse.PageFetcher) *Manager {
	return &Manager{
		fetcher: fetcher,
	}
}

// ValidateLimit checks that limit is within [MinLimit, MaxLimit]
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return fmt.Errorf("limit must be between %d and %d, got %d: %w", MinLimit, MaxLimit, limit, pulse.ErrValidation)
	}
	return nil
}

// Fetch returns up to limit posts of channel after cursor. The next cursor is
// the id of the last returned post.
func (m *Manager) Fetch(ctx context.Context, channel string, limit int, cursor string) (pulse.Page, error) {
	if err := ValidateLimit(limit); err != nil {
		return pulse.Page{}, err
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return pulse.Page{}, fmt.Errorf("channel is required: %w", pulse.ErrValidation)
	}

	posts, _, err := m.fetcher.FetchPage(ctx, channel, limit, cursor)
	if err != nil {
		return pulse.Page{}, fmt.Errorf("fetch %s/%s: %w", m.fetcher.Name(), channel, err)
	}

	if len(posts) == 0 {
		return pulse.Page{}, fmt.Errorf("no posts found for %s/%s: %w", m.fetcher.Name(), channel, pulse.ErrEmptyResult)
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}

	return pulse.Page{
		Posts:      posts,
		NextCursor: posts[len(posts)-1].ID,
	}, nil
}

// Source returns the name of the upstream platform
func (m *Manager) Source() string {
	return m.fetcher.Name()
}
