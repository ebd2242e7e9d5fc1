package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/metrics"
)

// Recent search page size limits imposed by the Twitter API
const (
	twitterMinResults = 10
	twitterMaxResults = 100
)

// TwitterConfig contains configuration for the Twitter recent search client
type TwitterConfig struct {
	BearerToken string
	Host        string
	Timeout     time.Duration
}

// TwitterClient fetches recent tweets of an account or hashtag
type TwitterClient struct {
	client *twitter.Client
}

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// NewTwitterClient creates a new Twitter API client
func NewTwitterClient(config TwitterConfig) *TwitterClient {
	if config.Host == "" {
		config.Host = "https://api.twitter.com"
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &TwitterClient{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: config.BearerToken},
			Client:     &http.Client{Timeout: config.Timeout},
			Host:       config.Host,
		},
	}
}

// Name returns the platform name
func (c *TwitterClient) Name() string {
	return "twitter"
}

// FetchPage returns recent tweets for channel, newest first. A bare channel
// name is treated as an account handle; anything else is used as a search
// query. cursor is the id of the last tweet already seen and only older
// tweets are returned.
func (c *TwitterClient) FetchPage(ctx context.Context, channel string, limit int, cursor string) ([]pulse.Post, string, error) {
	opts := twitter.TweetRecentSearchOpts{
		TweetFields: []twitter.TweetField{twitter.TweetFieldCreatedAt, twitter.TweetFieldPublicMetrics},
		MaxResults:  clamp(limit, twitterMinResults, twitterMaxResults),
		UntilID:     cursor,
	}

	query := searchQuery(channel)
	slog.Debug("Requesting Twitter recent search", "query", query, "until_id", cursor)

	resp, err := c.client.TweetRecentSearch(ctx, query, opts)
	if err != nil {
		metrics.UpstreamFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, "", fmt.Errorf("twitter recent search: %w", err)
	}
	metrics.UpstreamFetchesTotal.WithLabelValues(c.Name(), "200").Inc()

	if resp == nil || resp.Raw == nil {
		return nil, "", nil
	}

	posts := make([]pulse.Post, 0, len(resp.Raw.Tweets))
	for _, tweet := range resp.Raw.Tweets {
		if tweet == nil {
			continue
		}

		createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
		if err != nil {
			slog.Warn("Skipping tweet with unparseable timestamp", "id", tweet.ID, "created_at", tweet.CreatedAt, "error", err)
			continue
		}

		score := 0
		if tweet.PublicMetrics != nil {
			score = tweet.PublicMetrics.Likes + tweet.PublicMetrics.Retweets
		}

		posts = append(posts, pulse.Post{
			ID:        tweet.ID,
			Title:     tweet.Text,
			Score:     score,
			CreatedAt: createdAt.UTC(),
			Channel:   channel,
			Source:    c.Name(),
		})
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}

	next := ""
	if len(posts) > 0 {
		next = posts[len(posts)-1].ID
	}
	return posts, next, nil
}

func searchQuery(channel string) string {
	channel = strings.TrimSpace(channel)
	if strings.ContainsAny(channel, " #:") {
		return channel + " -is:retweet"
	}
	return "from:" + strings.TrimPrefix(channel, "@") + " -is:retweet"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
