package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivewatch/internal/model"
	"hivewatch/internal/service"
)

// stubClient builds a hub-managed client without a network connection.
func stubClient(buffer int) *Client {
	return &Client{send: make(chan []byte, buffer), remote: "test"}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHub_BroadcastTelemetry(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer close(hub.broadcast)

	client := stubClient(4)
	hub.Register(client)

	hub.BroadcastTelemetry(&service.EvaluationResult{HiveID: "hive-07"})

	msg := receive(t, client)
	assert.Equal(t, MessageTelemetry, msg.Type)

	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hive-07", payload["hive_id"])
}

func TestHub_BroadcastAlert(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer close(hub.broadcast)

	client := stubClient(4)
	hub.Register(client)

	hub.BroadcastAlert(&model.Alert{
		ID:       "a-1",
		MetricID: model.MetricCO2,
		Severity: model.SeverityWarning,
		State:    model.AlertTriggered,
	})

	msg := receive(t, client)
	assert.Equal(t, MessageAlert, msg.Type)
}

func TestHub_FanOut(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer close(hub.broadcast)

	first := stubClient(4)
	second := stubClient(4)
	hub.Register(first)
	hub.Register(second)

	hub.BroadcastAlert(&model.Alert{ID: "a-2"})

	assert.Equal(t, MessageAlert, receive(t, first).Type)
	assert.Equal(t, MessageAlert, receive(t, second).Type)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer close(hub.broadcast)

	client := stubClient(4)
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer close(hub.broadcast)

	slow := stubClient(1)
	fast := stubClient(8)
	hub.Register(slow)
	hub.Register(fast)

	// Fill the slow client's buffer, then overflow it.
	hub.BroadcastAlert(&model.Alert{ID: "a-3"})
	hub.BroadcastAlert(&model.Alert{ID: "a-4"})

	// The fast client sees both.
	receive(t, fast)
	receive(t, fast)

	// The slow client got the first message and then its channel closed.
	receive(t, slow)
	select {
	case _, open := <-slow.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
}
