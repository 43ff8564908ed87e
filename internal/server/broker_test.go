package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/playperu/picmatch/internal/engine"
	"github.com/playperu/picmatch/internal/picmatch"
)

func TestBrokerRoutesBySession(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("a")
	other := b.Subscribe("b")
	defer b.Unsubscribe("a", a)
	defer b.Unsubscribe("b", other)

	b.Publish(engine.Event{
		Type:      engine.EventMatch,
		SessionID: "a",
		Score:     10,
		Outcome:   &picmatch.MatchOutcome{ImageID: "bear", WordID: "bear", Correct: true},
	})

	select {
	case msg := <-a:
		if msg.Type != "match" {
			t.Errorf("type = %q, want match", msg.Type)
		}
		var ev EventMessage
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if ev.SessionID != "a" || ev.Score != 10 || ev.Outcome == nil || !ev.Outcome.Correct {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber a got nothing")
	}

	select {
	case msg := <-other:
		t.Errorf("subscriber b got %s", msg.Data)
	default:
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("s")
	if n := b.Subscribers("s"); n != 1 {
		t.Fatalf("subscribers = %d, want 1", n)
	}
	b.Unsubscribe("s", ch)
	if n := b.Subscribers("s"); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}

	b.Publish(engine.Event{Type: engine.EventTick, SessionID: "s"})
	select {
	case msg := <-ch:
		t.Errorf("unsubscribed channel got %s", msg.Data)
	default:
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("s")
	defer b.Unsubscribe("s", ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(engine.Event{Type: engine.EventTick, SessionID: "s", Remaining: time.Duration(i) * time.Second})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	if got := len(ch); got != cap(ch) {
		t.Errorf("buffered = %d, want %d", got, cap(ch))
	}
}
