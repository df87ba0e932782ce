package stream

import (
	"context"
	"sync"
)

// Kind names a change event.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event is an outbound change notification routed to a private channel.
type Event struct {
	Kind    Kind   `json:"kind"`
	Channel string `json:"channel"`
	Payload any    `json:"payload"`
}

// ChannelForUser returns the private channel name for a todo owner.
func ChannelForUser(userID string) string {
	return "todos." + userID
}

type subscriber struct {
	channel string
	ch      chan Event
}

// Hub fan-outs change events to subscribers of the affected channel
// (SSE/WebSocket clients). Delivery is fire-and-forget: publishing never
// blocks and never fails the operation that triggered it.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int

	// onSubscribe is invoked with +1/-1 on subscriber churn, if set.
	onSubscribe func(delta float64)
}

// New initialises an empty hub.
func New() *Hub {
	return &Hub{subs: make(map[int]subscriber)}
}

// OnSubscriberChange registers a callback observed on subscribe/unsubscribe.
func (h *Hub) OnSubscriberChange(fn func(delta float64)) {
	h.mu.Lock()
	h.onSubscribe = fn
	h.mu.Unlock()
}

// Subscribe registers a subscriber for the given channel and returns a
// channel which will receive its events. The channel is closed when the
// provided context ends.
func (h *Hub) Subscribe(ctx context.Context, channel string) <-chan Event {
	ch := make(chan Event, 16)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = subscriber{channel: channel, ch: ch}
	churn := h.onSubscribe
	h.mu.Unlock()

	if churn != nil {
		churn(1)
	}

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
		if churn != nil {
			churn(-1)
		}
	}()

	return ch
}

// Publish fan-outs the event to all subscribers of its channel.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.channel != evt.Channel {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}
