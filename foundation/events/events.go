// Package events fans ledger events out to subscribers such as websocket
// clients. An event is a line like "state: sealBlock: blk[2]" where the text
// before the first colon is the topic of the package that raised it.
package events

import (
	"fmt"
	"strings"
	"sync"
)

// messageBuffer is the number of events a subscriber can fall behind by
// before events are dropped for it. A websocket write can be slow.
const messageBuffer = 100

// subscriber is a single receiver of ledger events.
type subscriber struct {
	ch      chan string
	topics  map[string]bool
	dropped int
}

// wants reports whether the event belongs to one of the subscriber's topics.
// A subscriber with no topics receives everything.
func (sub *subscriber) wants(event string) bool {
	if len(sub.topics) == 0 {
		return true
	}
	topic, _, _ := strings.Cut(event, ":")
	return sub.topics[topic]
}

// Events tracks the subscribers of the ledger event stream by id.
type Events struct {
	mu   sync.RWMutex
	subs map[string]*subscriber
}

// New constructs an empty event stream.
func New() *Events {
	return &Events{
		subs: make(map[string]*subscriber),
	}
}

// Shutdown closes every subscriber channel so the receivers can exit.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.subs {
		delete(evt.subs, id)
		close(sub.ch)
	}
}

// Acquire registers a subscriber for the specified topics, for example
// "state" or "worker", and returns the channel its events arrive on. No
// topics means every event. Acquiring an id twice returns the same channel.
func (evt *Events) Acquire(id string, topics ...string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.subs[id]; exists {
		return sub.ch
	}

	sub := subscriber{
		ch:     make(chan string, messageBuffer),
		topics: make(map[string]bool, len(topics)),
	}
	for _, topic := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			sub.topics[topic] = true
		}
	}
	evt.subs[id] = &sub

	return sub.ch
}

// Release removes the subscriber and closes its channel. It returns the
// number of events the subscriber missed because it fell behind.
func (evt *Events) Release(id string) (int, error) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.subs[id]
	if !exists {
		return 0, fmt.Errorf("subscriber %q does not exist", id)
	}

	delete(evt.subs, id)
	close(sub.ch)

	return sub.dropped, nil
}

// Send delivers the event to every interested subscriber without blocking.
// A subscriber whose buffer is full misses the event.
func (evt *Events) Send(event string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for _, sub := range evt.subs {
		if !sub.wants(event) {
			continue
		}

		select {
		case sub.ch <- event:
		default:
			sub.dropped++
		}
	}
}
