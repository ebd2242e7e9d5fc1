package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/metrics"
)

// RedditConfig contains configuration for the Reddit listing client
type RedditConfig struct {
	BaseURL   string
	UserAgent string
	Sort      string
	Timeout   time.Duration
}

// RedditClient fetches subreddit listings from Reddit's public JSON API
type RedditClient struct {
	httpClient *http.Client
	config     RedditConfig
}

// redditPost is the subset of a listing child we read
type redditPost struct {
	Name      string  `json:"name"`
	Title     string  `json:"title"`
	Score     int     `json:"score"`
	Subreddit string  `json:"subreddit"`
	Created   float64 `json:"created_utc"`
}

// redditListing represents the structure of a Reddit listing response
type redditListing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string     `json:"kind"`
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewRedditClient creates a new Reddit API client
func NewRedditClient(config RedditConfig) *RedditClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://www.reddit.com"
	}
	if config.UserAgent == "" {
		config.UserAgent = "socialpulse/1.0"
	}
	if config.Sort == "" {
		config.Sort = "new"
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &RedditClient{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// Name returns the platform name
func (c *RedditClient) Name() string {
	return "reddit"
}

// FetchPage fetches one listing page of a subreddit. cursor is the fullname of
// the last post already seen (Reddit's "after" parameter); post ids are
// fullnames too, so the id of the last post is a valid cursor.
func (c *RedditClient) FetchPage(ctx context.Context, channel string, limit int, cursor string) ([]pulse.Post, string, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("raw_json", "1")
	if cursor != "" {
		query.Set("after", cursor)
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s", c.config.BaseURL, url.PathEscape(channel), c.config.Sort, query.Encode())
	slog.Debug("Requesting Reddit listing", "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	// Reddit throttles requests without a descriptive User-Agent
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, "", fmt.Errorf("failed to connect to Reddit API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamFetchesTotal.WithLabelValues(c.Name(), strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusForbidden:
		// Unknown, private and banned subreddits have nothing to analyze
		return nil, "", nil
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("reddit API returned status code %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, "", fmt.Errorf("failed to decode Reddit API response: %w", err)
	}

	posts := make([]pulse.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		p := child.Data
		posts = append(posts, pulse.Post{
			ID:        p.Name,
			Title:     p.Title,
			Score:     p.Score,
			CreatedAt: time.Unix(int64(p.Created), 0).UTC(),
			Channel:   p.Subreddit,
			Source:    c.Name(),
		})
	}

	slog.Debug("Received Reddit listing", "subreddit", channel, "posts", len(posts), "after", listing.Data.After)
	return posts, listing.Data.After, nil
}
