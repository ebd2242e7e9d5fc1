// internal/service/sentiment/scorer.go

package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"socialpulse/internal/domain/pulse"
)

// Label thresholds on the compound score. Boundary values belong to the
// non-neutral class.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Scorer rates text polarity with the VADER lexicon
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a new scorer. The lexicon is loaded once and only read
// afterwards, so a Scorer may be shared between requests.
func NewScorer() *Scorer {
	return &Scorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score returns the compound polarity of text in [-1, 1]
func (s *Scorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	compound := s.analyzer.PolarityScores(text).Compound
	switch {
	case compound > 1:
		return 1
	case compound < -1:
		return -1
	}
	return compound
}

// Classify returns the compound score and its label
func (s *Scorer) Classify(text string) (float64, pulse.SentimentLabel) {
	compound := s.Score(text)
	return compound, Label(compound)
}

// ScorePosts attaches sentiment to every post, preserving order
func (s *Scorer) ScorePosts(posts []pulse.Post) []pulse.ScoredPost {
	scored := make([]pulse.ScoredPost, len(posts))
	for i, p := range posts {
		compound, label := s.Classify(p.Title)
		scored[i] = pulse.ScoredPost{
			Post:              p,
			SentimentCompound: compound,
			SentimentLabel:    label,
		}
	}
	return scored
}

// Label maps a compound score to its sentiment class
func Label(compound float64) pulse.SentimentLabel {
	if compound >= PositiveThreshold {
		return pulse.Positive
	}
	if compound <= NegativeThreshold {
		return pulse.Negative
	}
	return pulse.Neutral
}
