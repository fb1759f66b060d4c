package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("")
	defer sub.Close()

	hub.Publish(Event{Table: "boards", Type: EventInsert, BoardID: "b1", ID: "b1"})

	event := <-sub.Events()
	assert.Equal(t, "boards", event.Table)
	assert.Equal(t, EventInsert, event.Type)
	assert.Equal(t, uint64(1), event.Version)
}

func TestVersionsAreMonotonic(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("")
	defer sub.Close()

	for i := 0; i < 5; i++ {
		hub.Publish(Event{Table: "projects", Type: EventUpdate, ID: "p1"})
	}

	var last uint64
	for i := 0; i < 5; i++ {
		event := <-sub.Events()
		require.Greater(t, event.Version, last)
		last = event.Version
	}
}

func TestBoardScopedFiltering(t *testing.T) {
	hub := NewHub()
	boardSub := hub.Subscribe("board-a")
	defer boardSub.Close()

	hub.Publish(Event{Table: "projects", Type: EventInsert, BoardID: "board-b", ID: "p1"})
	hub.Publish(Event{Table: "projects", Type: EventInsert, BoardID: "board-a", ID: "p2"})

	event := <-boardSub.Events()
	assert.Equal(t, "p2", event.ID)
	assert.Len(t, boardSub.Events(), 0)
}

func TestGlobalTablesReachBoardSubscribers(t *testing.T) {
	hub := NewHub()
	boardSub := hub.Subscribe("board-a")
	defer boardSub.Close()

	hub.Publish(Event{Table: "users", Type: EventUpdate, ID: "u1"})

	event := <-boardSub.Events()
	assert.Equal(t, "users", event.Table)
}

func TestCloseDetachesSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("")
	require.Equal(t, 1, hub.SubscriberCount())

	sub.Close()
	assert.Equal(t, 0, hub.SubscriberCount())

	_, open := <-sub.Events()
	assert.False(t, open)

	// Publishing after close must not panic
	hub.Publish(Event{Table: "boards", Type: EventDelete, ID: "b1"})
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("")
	defer sub.Close()

	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(Event{Table: "projects", Type: EventUpdate, ID: "p1"})
	}

	// Buffer holds the first events; the overflow was dropped
	assert.Len(t, sub.Events(), subscriberBuffer)
}
