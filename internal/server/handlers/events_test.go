package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/adapter/events"
	"socialpulse/internal/domain/pulse"
)

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestEventsWebSocketRelaysRuns(t *testing.T) {
	hub := events.NewHub()
	srv := httptest.NewServer(EventsWebSocketHandler(hub, DefaultWebSocketConfig()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "welcome", readJSON(t, conn)["type"])

	require.NoError(t, hub.PublishRun(context.Background(), pulse.Run{
		ID:   "run-7",
		View: pulse.ViewEntities,
	}))

	msg := readJSON(t, conn)
	assert.Equal(t, "run-7", msg["id"])
	assert.Equal(t, "entities", msg["view"])
}

func TestEventsWebSocketDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	EventsWebSocketHandler(nil, DefaultWebSocketConfig())(rec, httptest.NewRequest(http.MethodGet, "/ws/events", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
