// Package notify carries host time notifications to UI components.
package notify

import (
	"slices"
	"sync"

	"clockface/looper"
)

// Kind identifies a host notification.
type Kind uint8

const (
	// TimeTick is sent on every wall-clock minute boundary.
	TimeTick Kind = iota + 1
	// TimeChanged is sent when the wall clock was set.
	TimeChanged
	// TimezoneChanged is sent when the system zone changed; Event.Zone
	// carries the new identifier when the host knows it.
	TimezoneChanged
)

func (k Kind) String() string {
	switch k {
	case TimeTick:
		return "TIME_TICK"
	case TimeChanged:
		return "TIME_CHANGED"
	case TimezoneChanged:
		return "TIMEZONE_CHANGED"
	default:
		return "UNKNOWN"
	}
}

// Event is one notification.
type Event struct {
	Kind Kind
	Zone string
}

// Publisher is the producer side of a Bus.
type Publisher interface {
	Publish(ev Event) bool
}

// Bus fans events out to subscribers on the looper's goroutine.
type Bus struct {
	lp *looper.Looper

	mu   sync.Mutex
	next uint64
	subs map[uint64]func(Event)
}

// NewBus returns a bus delivering through lp.
func NewBus(lp *looper.Looper) *Bus {
	return &Bus{lp: lp, subs: make(map[uint64]func(Event))}
}

// Subscription is released with Cancel.
type Subscription struct {
	bus *Bus
	id  uint64
}

// Subscribe registers fn. fn runs on the looper's goroutine.
func (b *Bus) Subscribe(fn func(Event)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs[b.next] = fn
	return &Subscription{bus: b, id: b.next}
}

// Cancel unregisters the subscriber. Events already published but not yet
// delivered are not delivered to it. Safe to call twice or on nil.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()
	s.bus = nil
}

// Publish queues ev for delivery. It is safe from any goroutine and
// reports false if the looper rejected it.
func (b *Bus) Publish(ev Event) bool {
	return b.lp.Post(func() { b.deliver(ev) })
}

// Subscribers reports the number of registered subscribers.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) deliver(ev Event) {
	b.mu.Lock()
	ids := make([]uint64, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	b.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		b.mu.Lock()
		fn, ok := b.subs[id]
		b.mu.Unlock()
		if ok {
			fn(ev)
		}
	}
}
