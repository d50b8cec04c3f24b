package looper

import "sync"

// DefaultSlots is the mailbox capacity used by New.
const DefaultSlots = 64

// Mailbox is a fixed-size multi-producer, single-consumer queue of
// callbacks. It never allocates after construction.
type Mailbox struct {
	_ [0]func() // prevent accidental copying.

	mu    sync.Mutex
	head  uint32
	tail  uint32
	slots []func()
}

// NewMailbox returns a mailbox holding up to n callbacks.
func NewMailbox(n int) *Mailbox {
	if n <= 0 {
		n = DefaultSlots
	}
	return &Mailbox{slots: make([]func(), n)}
}

// TrySend enqueues fn, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(fn func()) bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	n := uint32(len(mb.slots))
	if mb.head-mb.tail >= n {
		return false
	}
	mb.slots[mb.head%n] = fn
	mb.head++
	return true
}

// TryRecv dequeues one callback, returning false if empty.
func (mb *Mailbox) TryRecv() (func(), bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if mb.tail == mb.head {
		return nil, false
	}
	n := uint32(len(mb.slots))
	i := mb.tail % n
	fn := mb.slots[i]
	mb.slots[i] = nil
	mb.tail++
	return fn, true
}

// Len reports the number of queued callbacks.
func (mb *Mailbox) Len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return int(mb.head - mb.tail)
}
