package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	a, cancelA := hub.Subscribe()
	b, cancelB := hub.Subscribe()
	defer cancelA()
	defer cancelB()

	hub.Notify()

	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestNotifyNeverBlocks(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	// A slow subscriber with a pending signal must not block the writer;
	// coalesced signals are fine since subscribers re-sync anyway.
	for i := 0; i < 10; i++ {
		hub.Notify()
	}
	assert.Len(t, ch, 1)
}

func TestCancelledSubscriberIsDropped(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()

	hub.Notify()
	assert.Len(t, ch, 0)
}

func TestNotifyWithoutSubscribers(t *testing.T) {
	NewHub().Notify()
}
