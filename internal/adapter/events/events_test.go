package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/domain/pulse"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	published []published
	err       error
	handler   nats.MsgHandler
	subject   string
}

func (c *fakeConn) Publish(subj string, data []byte) error {
	c.published = append(c.published, published{subject: subj, data: data})
	return c.err
}

func (c *fakeConn) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	c.subject = subj
	c.handler = cb
	return &nats.Subscription{Subject: subj}, c.err
}

func testRun() pulse.Run {
	return pulse.Run{
		ID:          "run-1",
		View:        pulse.ViewClassify,
		Source:      "reddit",
		Channel:     "golang",
		ItemCount:   3,
		Duration:    250 * time.Millisecond,
		CompletedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "pulse.trend.completed", Subject("pulse", pulse.ViewTrend))
}

func TestEncode(t *testing.T) {
	data, err := Encode(testRun())
	require.NoError(t, err)

	var ev RunCompleted
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "run-1", ev.ID)
	assert.Equal(t, int64(250), ev.DurationMS)
	assert.Equal(t, 3, ev.ItemCount)
}

func TestNATSPublisher(t *testing.T) {
	conn := &fakeConn{}
	p := &NATSPublisher{conn: conn, topic: "pulse"}

	require.NoError(t, p.PublishRun(context.Background(), testRun()))
	require.Len(t, conn.published, 1)
	assert.Equal(t, "pulse.classify.completed", conn.published[0].subject)
}

func TestNATSPublisherError(t *testing.T) {
	p := &NATSPublisher{conn: &fakeConn{err: nats.ErrConnectionClosed}, topic: "pulse"}

	err := p.PublishRun(context.Background(), testRun())
	assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
}

func TestNATSFeed(t *testing.T) {
	conn := &fakeConn{}
	feed := &NATSFeed{conn: conn, topic: "pulse"}

	var got []byte
	_, err := feed.Subscribe(func(data []byte) { got = data })
	require.NoError(t, err)
	assert.Equal(t, "pulse.>", conn.subject)

	conn.handler(&nats.Msg{Data: []byte(`{"id":"x"}`)})
	assert.Equal(t, `{"id":"x"}`, string(got))
}

func TestHub(t *testing.T) {
	hub := NewHub()

	var first, second int
	unsubscribe, err := hub.Subscribe(func([]byte) { first++ })
	require.NoError(t, err)
	_, err = hub.Subscribe(func([]byte) { second++ })
	require.NoError(t, err)

	require.NoError(t, hub.PublishRun(context.Background(), testRun()))
	unsubscribe()
	require.NoError(t, hub.PublishRun(context.Background(), testRun()))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
