package events_test

import (
	"sync"
	"testing"
	"time"

	"streambox/internal/events"
	"streambox/internal/logging"
)

func newHub(buffer int) *events.Hub {
	return events.NewHub(buffer, logging.NewNop())
}

func receiveOne(t *testing.T, sub *events.Subscriber) events.ProcessingEvent {
	t.Helper()
	select {
	case event, ok := <-sub.C:
		if !ok {
			t.Fatal("subscriber channel closed before event arrived")
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return events.ProcessingEvent{}
}

func TestPublishReachesAllCurrentSubscribers(t *testing.T) {
	hub := newHub(4)
	defer hub.Close()

	first := hub.Subscribe()
	second := hub.Subscribe()

	event := events.ProcessingEvent{VideoID: "v1", Status: "processed", Sensitivity: "safe"}
	hub.Publish(event)

	if got := receiveOne(t, first); got != event {
		t.Fatalf("first subscriber got %+v, want %+v", got, event)
	}
	if got := receiveOne(t, second); got != event {
		t.Fatalf("second subscriber got %+v, want %+v", got, event)
	}
}

func TestLateSubscriberSeesNothing(t *testing.T) {
	hub := newHub(4)
	defer hub.Close()

	hub.Publish(events.ProcessingEvent{VideoID: "v1", Status: "processed", Sensitivity: "safe"})

	late := hub.Subscribe()
	select {
	case event := <-late.C:
		t.Fatalf("late subscriber received %+v, want nothing", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventsArriveInPublishOrder(t *testing.T) {
	hub := newHub(8)
	defer hub.Close()

	sub := hub.Subscribe()
	for i := 0; i < 5; i++ {
		hub.Publish(events.ProcessingEvent{VideoID: string(rune('a' + i))})
	}
	for i := 0; i < 5; i++ {
		got := receiveOne(t, sub)
		if got.VideoID != string(rune('a'+i)) {
			t.Fatalf("event %d = %q, want %q", i, got.VideoID, string(rune('a'+i)))
		}
	}
}

func TestSlowSubscriberIsDroppedWithoutBlockingOthers(t *testing.T) {
	hub := newHub(1)
	defer hub.Close()

	slow := hub.Subscribe()
	healthy := hub.Subscribe()

	// First publish fills the slow subscriber's queue; the second finds it
	// full and drops it.
	hub.Publish(events.ProcessingEvent{VideoID: "v1"})
	hub.Publish(events.ProcessingEvent{VideoID: "v2"})

	if got := receiveOne(t, healthy); got.VideoID != "v1" {
		t.Fatalf("healthy subscriber got %q, want v1", got.VideoID)
	}
	if got := receiveOne(t, healthy); got.VideoID != "v2" {
		t.Fatalf("healthy subscriber got %q, want v2", got.VideoID)
	}

	if got := receiveOne(t, slow); got.VideoID != "v1" {
		t.Fatalf("slow subscriber got %q, want v1", got.VideoID)
	}
	if _, ok := <-slow.C; ok {
		t.Fatal("expected slow subscriber channel to be closed after drop")
	}
	if hub.SubscriberCount() != 1 {
		t.Fatalf("subscriber count = %d, want 1", hub.SubscriberCount())
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := newHub(4)
	defer hub.Close()

	sub := hub.Subscribe()
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(nil)

	if hub.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d, want 0", hub.SubscriberCount())
	}
	if _, ok := <-sub.C; ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
}

func TestCloseTerminatesSubscribers(t *testing.T) {
	hub := newHub(4)
	sub := hub.Subscribe()
	hub.Close()

	if _, ok := <-sub.C; ok {
		t.Fatal("expected channel closed after hub close")
	}

	// Post-close operations are safe no-ops.
	hub.Publish(events.ProcessingEvent{VideoID: "v1"})
	late := hub.Subscribe()
	if _, ok := <-late.C; ok {
		t.Fatal("expected closed channel for post-close subscriber")
	}
}

func TestConcurrentSubscribePublishUnsubscribe(t *testing.T) {
	hub := newHub(4)
	defer hub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				sub := hub.Subscribe()
				hub.Publish(events.ProcessingEvent{VideoID: "v"})
				hub.Unsubscribe(sub)
			}
		}()
	}
	wg.Wait()

	if hub.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d, want 0", hub.SubscriberCount())
	}
}
