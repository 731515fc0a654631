package telemetry

import (
	"testing"
	"time"

	"confshare/internal/core/domain"
)

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe("cfg-1")
	other := hub.Subscribe("cfg-2")

	hub.Broadcast(domain.ConfigurationEvent{ID: "cfg-1", Action: domain.ActionUpdated, At: time.Now()})

	select {
	case ev := <-ch:
		if ev.ID != "cfg-1" || ev.Action != domain.ActionUpdated {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}

	select {
	case ev := <-other:
		t.Errorf("watcher of another id received event: %+v", ev)
	default:
	}
}

func TestHub_MultipleSubscribersSameID(t *testing.T) {
	hub := NewHub()

	first := hub.Subscribe("cfg")
	second := hub.Subscribe("cfg")

	hub.Broadcast(domain.ConfigurationEvent{ID: "cfg", Action: domain.ActionCreated})

	for _, ch := range []chan domain.ConfigurationEvent{first, second} {
		select {
		case ev := <-ch:
			if ev.Action != domain.ActionCreated {
				t.Errorf("unexpected action: %s", ev.Action)
			}
		case <-time.After(time.Second):
			t.Fatal("a subscriber missed the broadcast")
		}
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()

	ch := hub.Subscribe("cfg")
	hub.Unsubscribe("cfg", ch)

	if _, open := <-ch; open {
		t.Error("channel still open after Unsubscribe")
	}

	// Broadcasting to an id with no watchers must not panic or block.
	hub.Broadcast(domain.ConfigurationEvent{ID: "cfg", Action: domain.ActionDeleted})
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("cfg")

	// Fill the buffer and then some; the overflow must be dropped, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.Broadcast(domain.ConfigurationEvent{ID: "cfg", Action: domain.ActionUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a full subscriber buffer")
	}

	if got := len(ch); got != cap(ch) {
		t.Errorf("expected a full buffer of %d events, got %d", cap(ch), got)
	}
}
