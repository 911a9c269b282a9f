package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AndreyPae/storefront/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Publish(context.Context, Event) error {
	p.calls++
	return p.err
}

func TestMultiPublishesToEverySink(t *testing.T) {
	boom := errors.New("boom")
	failing := &countingPublisher{err: boom}
	ok := &countingPublisher{}

	err := Multi{failing, ok, Nop{}}.Publish(context.Background(), NewOrderPlaced(&models.Order{ID: 1}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls, "a failing sink must not stop the others")

	assert.NoError(t, Multi{ok}.Publish(context.Background(), Event{}))
}

func TestPublishingMessage(t *testing.T) {
	e := NewOrderPlaced(&models.Order{ID: 9, OrderRef: "20250908130500-abc"})
	msg, err := publishing(e)
	require.NoError(t, err)

	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, OrderPlaced, msg.Type)
	assert.Equal(t, "20250908130500-abc", msg.MessageId)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, uint(9), decoded.Order.ID)
}

func TestHubBroadcastsToClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", hub.Handler())
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), NewOrderPlaced(&models.Order{ID: 4})))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var got Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, OrderPlaced, got.Type)
	assert.Equal(t, uint(4), got.Order.ID)

	hub.Close()
	assert.Equal(t, 0, hub.Clients())
}

func TestHubDropsStalledClientWithoutBlocking(t *testing.T) {
	hub := NewHub()
	stalled := &client{send: make(chan []byte, 1)}
	stalled.send <- []byte("unread")
	live := &client{send: make(chan []byte, sendQueue)}
	hub.add(stalled)
	hub.add(live)

	done := make(chan error, 1)
	go func() { done <- hub.Publish(context.Background(), NewOrderPlaced(&models.Order{ID: 9})) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stalled client")
	}

	assert.Equal(t, 1, hub.Clients())
	_, open := <-stalled.send
	assert.True(t, open, "buffered message is still readable")
	_, open = <-stalled.send
	assert.False(t, open, "stalled client's queue is closed")
	assert.Len(t, live.send, 1)
}
