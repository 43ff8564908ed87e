package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/picmatch/internal/engine"
)

// Message is one encoded event ready for a subscriber.
type Message struct {
	Type string
	Data []byte
}

// Broker is an in-process pub/sub for controller events, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Message]struct{}),
	}
}

// Subscribe returns a channel that receives the session's events.
func (b *Broker) Subscribe(sessionID string) chan Message {
	ch := make(chan Message, 32)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan Message]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan Message) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Subscribers counts the open subscriptions of a session.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}

// Publish is an engine.Observer once bound to a session; it never blocks
// on a slow subscriber.
func (b *Broker) Publish(e engine.Event) {
	data, _ := json.Marshal(eventMessage(e))
	msg := Message{Type: string(e.Type), Data: data}

	b.mu.RLock()
	for ch := range b.subs[e.SessionID] {
		select {
		case ch <- msg:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
