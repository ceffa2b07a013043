package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()

	userCh, userCleanup := hub.Subscribe("user-1")
	defer userCleanup()
	adminCh, adminCleanup := hub.Subscribe(AdminTopic)
	defer adminCleanup()

	hub.Publish(Event{Topic: "user-1", Kind: "update", UserID: "user-1"})
	hub.Publish(Event{Topic: AdminTopic, Kind: "update", UserID: "user-1"})

	select {
	case ev := <-userCh:
		assert.Equal(t, "update", ev.Kind)
		assert.Equal(t, "user-1", ev.UserID)
	default:
		t.Fatal("expected event on user channel")
	}

	select {
	case ev := <-adminCh:
		assert.Equal(t, "user-1", ev.UserID)
	default:
		t.Fatal("expected event on admin channel")
	}
}

func TestHubPublishSkipsOtherTopics(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	hub.Publish(Event{Topic: "user-2", Kind: "insert", UserID: "user-2"})

	assert.Empty(t, ch)
}

func TestHubCleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("user-1")
	require.Equal(t, 1, hub.SubscriberCount("user-1"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("user-1"))

	// Publishing to a drained topic is a no-op.
	hub.Publish(Event{Topic: "user-1", Kind: "delete"})
}

func TestHubFullChannelDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	for i := 0; i < 50; i++ {
		hub.Publish(Event{Topic: "user-1", Kind: "update"})
	}
}
