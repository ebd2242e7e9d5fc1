// internal/domain/pulse/model.go

package pulse

import (
	"encoding/json"
	"time"
)

// SentimentLabel is the three-way polarity class of a text
type SentimentLabel string

const (
	Positive SentimentLabel = "Positive"
	Neutral  SentimentLabel = "Neutral"
	Negative SentimentLabel = "Negative"
)

// Post is a single item fetched from an upstream channel
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	Channel   string    `json:"channel,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// Page is one page of posts plus the cursor for the next one
type Page struct {
	Posts      []Post `json:"posts"`
	NextCursor string `json:"next_cursor"`
}

// ScoredPost is a post with its sentiment
type ScoredPost struct {
	Post
	SentimentCompound float64        `json:"sentiment_compound"`
	SentimentLabel    SentimentLabel `json:"sentiment_label"`
}

// ClusteredPost is a scored post with its topic cluster. Cluster ids are only
// comparable within the batch they were computed from.
type ClusteredPost struct {
	ScoredPost
	ClusterID int `json:"cluster_id"`
}

// ClassifiedPage is the classify & cluster view of one fetched page
type ClassifiedPage struct {
	Posts      []ClusteredPost `json:"posts"`
	NextCursor string          `json:"next_cursor"`
}

// Observation is a timestamped value fed to the aggregator
type Observation struct {
	Timestamp time.Time
	Value     float64
}

// TimeSeriesPoint is the sum of observations for one UTC calendar day
type TimeSeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ForecastPoint is a fitted or projected value for one calendar day
type ForecastPoint struct {
	Date       time.Time `json:"-"`
	Predicted  float64   `json:"predicted"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
}

// MarshalJSON renders the date as YYYY-MM-DD
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	type alias ForecastPoint
	return json.Marshal(struct {
		Date string `json:"date"`
		alias
	}{
		Date:  p.Date.Format(DateLayout),
		alias: alias(p),
	})
}

// EntityCount is the number of mentions of one entity in a batch
type EntityCount struct {
	Entity string `json:"entity_text"`
	Count  int    `json:"count"`
}

// DateLayout is the calendar day format used on the wire
const DateLayout = "2006-01-02"

// View names one of the independent pipeline outputs
type View string

const (
	ViewClassify View = "classify"
	ViewTrend    View = "trend"
	ViewEntities View = "entities"
	ViewAnalyze  View = "analyze"
)

// Run is the write-only record of one completed view
type Run struct {
	ID          string
	View        View
	Source      string
	Channel     string
	Params      map[string]interface{}
	Result      interface{}
	ItemCount   int
	Duration    time.Duration
	CompletedAt time.Time
}
