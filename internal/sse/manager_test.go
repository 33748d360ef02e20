package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/logger"
)

func TestBroadcastReachesOnlyOwner(t *testing.T) {
	manager := NewManager(logger.New())
	defer manager.Close()

	mine := manager.AddClient("user-1")
	theirs := manager.AddClient("user-2")

	manager.BroadcastToUser("user-1", "open", map[string]string{"draft_id": "d1"})

	select {
	case raw := <-mine:
		var event map[string]interface{}
		assert.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, "open", event["type"])
	default:
		t.Fatal("expected an event on the owner's channel")
	}

	select {
	case <-theirs:
		t.Fatal("event leaked to another user's channel")
	default:
	}
}

func TestBroadcastSkipsFullBuffers(t *testing.T) {
	manager := NewManager(logger.New())
	defer manager.Close()

	channel := manager.AddClient("user-1")
	for i := 0; i < cap(channel)+5; i++ {
		manager.BroadcastToUser("user-1", "open", i)
	}

	// The channel holds at most its buffer; the rest were dropped
	assert.Equal(t, cap(channel), len(channel))
}

func TestRemoveClientClosesChannel(t *testing.T) {
	manager := NewManager(logger.New())
	defer manager.Close()

	channel := manager.AddClient("user-1")
	manager.RemoveClient("user-1", channel)

	_, open := <-channel
	assert.False(t, open)
	assert.False(t, manager.HasUserConnection("user-1"))

	// Removing twice is harmless
	manager.RemoveClient("user-1", channel)
}

func TestCloseIsIdempotent(t *testing.T) {
	manager := NewManager(logger.New())

	channel := manager.AddClient("user-1")
	manager.Close()
	manager.Close()

	_, open := <-channel
	assert.False(t, open)
}
