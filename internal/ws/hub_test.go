package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublish_NilHub(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(EventRecallExecuted, map[string]int{"lot": 1}) })
}

func TestPublish_WrapsPayload(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Publish(EventLotQuality, map[string]string{"status": "QUARANTINED"})

	select {
	case raw := <-h.Broadcast:
		var ev struct {
			ID         string            `json:"id"`
			Type       string            `json:"type"`
			Payload    map[string]string `json:"payload"`
			OccurredAt time.Time         `json:"occurredAt"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, EventLotQuality, ev.Type)
		assert.Equal(t, "QUARANTINED", ev.Payload["status"])
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event not broadcast")
	}
}

func TestPublish_UnencodablePayloadDropped(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Publish(EventLotConsumed, make(chan int))

	select {
	case <-h.Broadcast:
		t.Fatal("unexpected broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}
