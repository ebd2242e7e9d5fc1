package events

import (
	"encoding/json"
	"time"

	"socialpulse/internal/domain/pulse"
)

// RunCompleted is the message published when a pipeline view finishes
type RunCompleted struct {
	ID          string      `json:"id"`
	View        pulse.View  `json:"view"`
	Source      string      `json:"source,omitempty"`
	Channel     string      `json:"channel,omitempty"`
	ItemCount   int         `json:"item_count"`
	DurationMS  int64       `json:"duration_ms"`
	CompletedAt time.Time   `json:"completed_at"`
	Result      interface{} `json:"result,omitempty"`
}

// Encode serializes run as a RunCompleted message
func Encode(run pulse.Run) ([]byte, error) {
	return json.Marshal(RunCompleted{
		ID:          run.ID,
		View:        run.View,
		Source:      run.Source,
		Channel:     run.Channel,
		ItemCount:   run.ItemCount,
		DurationMS:  run.Duration.Milliseconds(),
		CompletedAt: run.CompletedAt,
		Result:      run.Result,
	})
}

// Subject returns the subject a run is published on, e.g. "pulse.trend.completed"
func Subject(prefix string, view pulse.View) string {
	return prefix + "." + string(view) + ".completed"
}
