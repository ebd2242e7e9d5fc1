// internal/adapter/events/nats.go

package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"socialpulse/internal/domain/pulse"
)

type natsConn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// NATSPublisher publishes completed runs on the event bus
type NATSPublisher struct {
	conn  natsConn
	topic string
}

// NewNATSPublisher creates a publisher using topic as the subject prefix
func NewNATSPublisher(conn *nats.Conn, topic string) *NATSPublisher {
	return &NATSPublisher{
		conn:  conn,
		topic: topic,
	}
}

// PublishRun publishes a run completed event
func (p *NATSPublisher) PublishRun(ctx context.Context, run pulse.Run) error {
	data, err := Encode(run)
	if err != nil {
		return fmt.Errorf("error encoding run event: %w", err)
	}

	if err := p.conn.Publish(Subject(p.topic, run.View), data); err != nil {
		return fmt.Errorf("error publishing run event: %w", err)
	}
	return nil
}

// NATSFeed relays run events from the bus, so listeners see runs completed by
// every instance of the service
type NATSFeed struct {
	conn  natsConn
	topic string
}

// NewNATSFeed creates a feed for all events under topic
func NewNATSFeed(conn *nats.Conn, topic string) *NATSFeed {
	return &NATSFeed{
		conn:  conn,
		topic: topic,
	}
}

// Subscribe calls fn with every event payload until the returned function is
// called
func (f *NATSFeed) Subscribe(fn func(data []byte)) (func(), error) {
	sub, err := f.conn.Subscribe(f.topic+".>", func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("error subscribing to %s events: %w", f.topic, err)
	}

	return func() { _ = sub.Unsubscribe() }, nil
}
