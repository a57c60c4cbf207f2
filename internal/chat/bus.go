package chat

import (
	"sync"
)

// Bus fans room events out to every subscribed session. Publish never
// blocks: each subscription owns a bounded queue, and a subscriber that
// lets its queue overflow is marked lagged and cut off rather than slowing
// the room down. Publishes are serialized, so every subscriber observes
// events in the one global publication order.
type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	depth  int
	closed bool
}

// Subscription is one session's receive cursor on the bus. It observes
// every event published after Subscribe, none before.
type Subscription struct {
	b      *Bus
	ch     chan Event
	lagged bool
	once   sync.Once
}

func NewBus(depth int) *Bus {
	if depth <= 0 {
		depth = 64
	}
	return &Bus{
		subs:  make(map[*Subscription]struct{}),
		depth: depth,
	}
}

func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{b: b, ch: make(chan Event, b.depth)}
	if b.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Publish hands ev to every live subscription. A subscription whose queue
// is full is dropped from the bus with its lagged flag set; it cannot be
// resynchronized without breaking the ordering guarantee, so its session
// must terminate.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			delete(b.subs, sub)
			sub.lagged = true
			sub.once.Do(func() { close(sub.ch) })
		}
	}
}

// Close shuts the bus down, closing every subscription's channel. Pending
// queued events remain readable; after them the channel reports closed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Events exposes the receive channel so sessions can select over it
// together with their inbound line source. A closed channel means the
// subscription ended; Lagged tells overflow apart from bus shutdown.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Lagged reports whether this subscription was cut off for falling behind.
func (s *Subscription) Lagged() bool {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	return s.lagged
}

// Close detaches the subscription from the bus. Idempotent.
func (s *Subscription) Close() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	delete(s.b.subs, s)
	s.once.Do(func() { close(s.ch) })
}
