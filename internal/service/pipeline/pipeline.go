// internal/service/pipeline/pipeline.go

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"socialpulse/internal/domain/pulse"
	"socialpulse/internal/metrics"
	"socialpulse/internal/service/cluster"
	"socialpulse/internal/service/cursor"
	"socialpulse/internal/service/entity"
	"socialpulse/internal/service/forecast"
	"socialpulse/internal/service/sentiment"
	"socialpulse/internal/service/timeseries"
	"socialpulse/internal/service/worker"
)

const (
	// TrendFetchLimit is the number of posts fetched to build a trend series
	TrendFetchLimit = cursor.MaxLimit

	// EntityFetchLimit is the default number of posts scanned for entities
	EntityFetchLimit = cursor.MaxLimit

	// WordCloudTerms is the number of terms kept for a word cloud
	WordCloudTerms = 40

	sinkTimeout = 5 * time.Second
)

// SourceResolver returns the fetcher registered under a source name
type SourceResolver interface {
	Get(name string) (pulse.PageFetcher, error)
}

// ClassifyRequest selects one page of posts to classify
type ClassifyRequest struct {
	Source  string
	Channel string
	Limit   int
	Cursor  string
}

// TrendRequest selects the posts a forecast is fitted to
type TrendRequest struct {
	Source  string
	Channel string
	Horizon int
	Metric  string
}

// EntitiesRequest selects the posts scanned for entities
type EntitiesRequest struct {
	Source  string
	Channel string
	Limit   int
}

// TrendReport is the full output of a trend run
type TrendReport struct {
	Metric   timeseries.Metric
	Series   []pulse.TimeSeriesPoint
	Fitted   []pulse.ForecastPoint
	Forecast []pulse.ForecastPoint
}

// Pipeline composes fetching, scoring, clustering, forecasting and ranking
// into the analytical views
type Pipeline struct {
	sources    SourceResolver
	scorer     *sentiment.Scorer
	clusterer  *cluster.Engine
	forecaster *forecast.Engine
	extractor  pulse.EntityExtractor
	pool       *worker.Pool
	recorder   pulse.RunRecorder
	publisher  pulse.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures optional pipeline collaborators
type Option func(*Pipeline)

// WithRecorder archives every completed run
func WithRecorder(r pulse.RunRecorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithPublisher announces every completed run
func WithPublisher(pub pulse.EventPublisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithLogger sets the logger used for sink failures
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a new pipeline
func New(
	sources SourceResolver,
	scorer *sentiment.Scorer,
	clusterer *cluster.Engine,
	forecaster *forecast.Engine,
	extractor pulse.EntityExtractor,
	pool *worker.Pool,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		sources:    sources,
		scorer:     scorer,
		clusterer:  clusterer,
		forecaster: forecaster,
		extractor:  extractor,
		pool:       pool,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze scores a single text
func (p *Pipeline) Analyze(ctx context.Context, text string) (pulse.SentimentLabel, error) {
	start := p.now()
	if strings.TrimSpace(text) == "" {
		metrics.ViewsTotal.WithLabelValues(string(pulse.ViewAnalyze), "error").Inc()
		return "", fmt.Errorf("text is required: %w", pulse.ErrValidation)
	}

	compound, label := p.scorer.Classify(text)
	p.complete(ctx, pulse.Run{
		View:   pulse.ViewAnalyze,
		Params: map[string]interface{}{"length": len(text)},
		Result: map[string]interface{}{
			"sentiment":          label,
			"sentiment_compound": compound,
		},
		ItemCount: 1,
	}, start)

	return label, nil
}

// Classify fetches one page, scores each post and clusters the page
func (p *Pipeline) Classify(ctx context.Context, req ClassifyRequest) (pulse.ClassifiedPage, error) {
	start := p.now()

	page, err := p.fetch(ctx, req.Source, req.Channel, req.Limit, req.Cursor)
	if err != nil {
		return pulse.ClassifiedPage{}, p.fail(pulse.ViewClassify, err)
	}

	scored := p.scorer.ScorePosts(page.Posts)

	var clustered []pulse.ClusteredPost
	err = p.pool.Do(ctx, "cluster", func(ctx context.Context) error {
		out, err := p.clusterer.ClusterPosts(ctx, scored)
		if err != nil {
			return err
		}
		clustered = out
		return nil
	})
	if err != nil {
		return pulse.ClassifiedPage{}, p.fail(pulse.ViewClassify, err)
	}

	result := pulse.ClassifiedPage{
		Posts:      clustered,
		NextCursor: page.NextCursor,
	}

	p.complete(ctx, pulse.Run{
		View:    pulse.ViewClassify,
		Source:  req.Source,
		Channel: req.Channel,
		Params: map[string]interface{}{
			"limit":  req.Limit,
			"cursor": req.Cursor,
		},
		Result:    result,
		ItemCount: len(clustered),
	}, start)

	return result, nil
}

// PredictTrends returns the forecast for the horizon days after the last
// observed day
func (p *Pipeline) PredictTrends(ctx context.Context, req TrendRequest) ([]pulse.ForecastPoint, error) {
	report, err := p.Trend(ctx, req)
	if err != nil {
		return nil, err
	}
	return report.Forecast, nil
}

// Trend aggregates posts into a daily series and fits a forecast to it
func (p *Pipeline) Trend(ctx context.Context, req TrendRequest) (*TrendReport, error) {
	start := p.now()

	if err := forecast.ValidateHorizon(req.Horizon); err != nil {
		return nil, p.fail(pulse.ViewTrend, err)
	}
	metric, err := timeseries.ParseMetric(req.Metric)
	if err != nil {
		return nil, p.fail(pulse.ViewTrend, err)
	}

	page, err := p.fetch(ctx, req.Source, req.Channel, TrendFetchLimit, "")
	if err != nil {
		return nil, p.fail(pulse.ViewTrend, err)
	}

	series := timeseries.Aggregate(timeseries.FromPosts(page.Posts, metric))

	var fitted []pulse.ForecastPoint
	err = p.pool.Do(ctx, "forecast", func(ctx context.Context) error {
		out, err := p.forecaster.Forecast(ctx, series, req.Horizon)
		if err != nil {
			return err
		}
		fitted = out
		return nil
	})
	if err != nil {
		return nil, p.fail(pulse.ViewTrend, err)
	}

	report := &TrendReport{
		Metric:   metric,
		Series:   series,
		Fitted:   fitted,
		Forecast: fitted[len(fitted)-req.Horizon:],
	}

	p.complete(ctx, pulse.Run{
		View:    pulse.ViewTrend,
		Source:  req.Source,
		Channel: req.Channel,
		Params: map[string]interface{}{
			"horizon_days": req.Horizon,
			"metric":       string(metric),
		},
		Result:    report.Forecast,
		ItemCount: len(page.Posts),
	}, start)

	return report, nil
}

// TopEntities ranks the entities mentioned in a page of post titles
func (p *Pipeline) TopEntities(ctx context.Context, req EntitiesRequest) ([]pulse.EntityCount, error) {
	start := p.now()

	page, err := p.fetch(ctx, req.Source, req.Channel, req.Limit, "")
	if err != nil {
		return nil, p.fail(pulse.ViewEntities, err)
	}

	lists := entity.ExtractAll(p.extractor, titles(page.Posts))
	ranked, err := entity.Rank(lists, entity.TopN)
	if err != nil {
		return nil, p.fail(pulse.ViewEntities, err)
	}

	p.complete(ctx, pulse.Run{
		View:      pulse.ViewEntities,
		Source:    req.Source,
		Channel:   req.Channel,
		Params:    map[string]interface{}{"limit": req.Limit},
		Result:    ranked,
		ItemCount: len(page.Posts),
	}, start)

	return ranked, nil
}

// Terms returns the heaviest TF-IDF terms of one page of post titles
func (p *Pipeline) Terms(ctx context.Context, req ClassifyRequest) ([]cluster.TermWeight, error) {
	page, err := p.fetch(ctx, req.Source, req.Channel, req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}

	var terms []cluster.TermWeight
	err = p.pool.Do(ctx, "terms", func(ctx context.Context) error {
		terms = cluster.Vectorize(titles(page.Posts)).TopTerms(WordCloudTerms)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("no terms in %d posts: %w", len(page.Posts), pulse.ErrEmptyResult)
	}
	return terms, nil
}

func (p *Pipeline) fetch(ctx context.Context, source, channel string, limit int, after string) (pulse.Page, error) {
	if err := cursor.ValidateLimit(limit); err != nil {
		return pulse.Page{}, err
	}
	fetcher, err := p.sources.Get(source)
	if err != nil {
		return pulse.Page{}, err
	}
	return cursor.NewManager(fetcher).Fetch(ctx, channel, limit, after)
}

func (p *Pipeline) fail(view pulse.View, err error) error {
	metrics.ViewsTotal.WithLabelValues(string(view), "error").Inc()
	return err
}

// complete stamps the run and hands it to the sinks. Sink errors are logged
// and counted, never returned.
func (p *Pipeline) complete(ctx context.Context, run pulse.Run, start time.Time) {
	metrics.ViewsTotal.WithLabelValues(string(run.View), "ok").Inc()

	run.ID = RunIDFromContext(ctx)
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CompletedAt = p.now().UTC()
	run.Duration = run.CompletedAt.Sub(start)

	if p.recorder == nil && p.publisher == nil {
		return
	}

	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	if p.recorder != nil {
		if err := p.recorder.SaveRun(sinkCtx, run); err != nil {
			metrics.SinkFailuresTotal.WithLabelValues("recorder").Inc()
			p.logger.Warn("failed to archive run", "run_id", run.ID, "view", run.View, "error", err)
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishRun(sinkCtx, run); err != nil {
			metrics.SinkFailuresTotal.WithLabelValues("publisher").Inc()
			p.logger.Warn("failed to publish run", "run_id", run.ID, "view", run.View, "error", err)
		}
	}
}

func titles(posts []pulse.Post) []string {
	out := make([]string, len(posts))
	for i, post := range posts {
		out[i] = post.Title
	}
	return out
}
