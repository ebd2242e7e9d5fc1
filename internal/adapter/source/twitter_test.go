package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recentSearchJSON = `{
	"data": [
		{"id": "300", "text": "Launching today", "created_at": "2024-01-03T10:00:00.000Z",
		 "public_metrics": {"retweet_count": 2, "reply_count": 1, "like_count": 10, "quote_count": 0}},
		{"id": "200", "text": "Teaser", "created_at": "2024-01-02T09:30:00.000Z",
		 "public_metrics": {"retweet_count": 0, "reply_count": 0, "like_count": 3, "quote_count": 0}}
	],
	"meta": {"result_count": 2, "newest_id": "300", "oldest_id": "200"}
}`

func TestTwitterClient_FetchPage(t *testing.T) {
	var gotQuery, gotUntil, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotUntil = r.URL.Query().Get("until_id")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(recentSearchJSON))
	}))
	defer srv.Close()

	c := NewTwitterClient(TwitterConfig{BearerToken: "secret", Host: srv.URL})
	posts, next, err := c.FetchPage(context.Background(), "@golang", 1, "400")
	require.NoError(t, err)

	assert.Equal(t, "from:golang -is:retweet", gotQuery)
	assert.Equal(t, "400", gotUntil)
	assert.Equal(t, "Bearer secret", gotAuth)

	// the API minimum page is 10; the result is trimmed back to the limit
	require.Len(t, posts, 1)
	assert.Equal(t, "300", posts[0].ID)
	assert.Equal(t, "Launching today", posts[0].Title)
	assert.Equal(t, 12, posts[0].Score)
	assert.Equal(t, time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC), posts[0].CreatedAt)
	assert.Equal(t, "300", next)
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "from:nasa -is:retweet", searchQuery("nasa"))
	assert.Equal(t, "from:nasa -is:retweet", searchQuery("@nasa"))
	assert.Equal(t, "#golang -is:retweet", searchQuery("#golang"))
	assert.Equal(t, "go generics -is:retweet", searchQuery("go generics"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 10, clamp(1, 10, 100))
	assert.Equal(t, 50, clamp(50, 10, 100))
	assert.Equal(t, 100, clamp(500, 10, 100))
}
