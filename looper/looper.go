// Package looper runs callbacks on a single goroutine: the host's UI loop.
//
// Producers on any goroutine Post work; the owner calls Drain once per
// frame. Delayed posts are backed by a clockwork.Clock so tests can drive
// time with a fake clock.
package looper

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Looper is a UI-thread work queue.
type Looper struct {
	clock clockwork.Clock
	mb    *Mailbox
	ready chan struct{}

	dropped atomic.Uint64
	onPanic func(PanicInfo)

	// Fired delayed posts that did not fit in the mailbox. They are never
	// dropped: a lost tick would end a self-rescheduling chain.
	lateMu sync.Mutex
	late   []func()
}

// PanicInfo describes a callback panic recovered by Drain.
type PanicInfo struct {
	Value any
	Stack []byte
}

// New returns a looper using clock for delayed posts. A nil clock means the
// real wall clock.
func New(clock clockwork.Clock) *Looper {
	return NewWithSlots(clock, DefaultSlots)
}

// NewWithSlots is New with an explicit mailbox capacity.
func NewWithSlots(clock clockwork.Clock, slots int) *Looper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Looper{
		clock: clock,
		mb:    NewMailbox(slots),
		ready: make(chan struct{}, 1),
	}
}

// Clock returns the time source delayed posts use.
func (l *Looper) Clock() clockwork.Clock { return l.clock }

// Post queues fn to run on the next Drain. It is safe from any goroutine.
// It returns false (and counts a drop) when the mailbox is full.
func (l *Looper) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	if !l.mb.TrySend(fn) {
		l.dropped.Add(1)
		return false
	}
	l.wake()
	return true
}

// Token is the handle of a delayed post.
type Token struct {
	timer     clockwork.Timer
	cancelled atomic.Bool
}

// Cancel prevents the delayed callback from running, whether or not its
// timer already fired. It is safe to call more than once or on nil.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	t.cancelled.Store(true)
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Cancelled reports whether Cancel was called.
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// PostDelayed queues fn to run on a Drain after d has elapsed on the
// looper's clock.
func (l *Looper) PostDelayed(d time.Duration, fn func()) *Token {
	tok := &Token{}
	if fn == nil {
		tok.cancelled.Store(true)
		return tok
	}
	run := func() {
		if tok.cancelled.Load() {
			return
		}
		fn()
	}
	if d <= 0 {
		l.deliver(run)
		return tok
	}
	tok.timer = l.clock.AfterFunc(d, func() { l.deliver(run) })
	return tok
}

// deliver queues a fired delayed post, spilling to the late list when the
// mailbox is full.
func (l *Looper) deliver(fn func()) {
	if !l.mb.TrySend(fn) {
		l.lateMu.Lock()
		l.late = append(l.late, fn)
		l.lateMu.Unlock()
	}
	l.wake()
}

func (l *Looper) wake() {
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *Looper) takeLate() []func() {
	l.lateMu.Lock()
	defer l.lateMu.Unlock()
	fns := l.late
	l.late = nil
	return fns
}

// SetPanicHandler makes Drain recover callback panics and report them to
// fn. Without a handler panics propagate. Call before the first Drain.
func (l *Looper) SetPanicHandler(fn func(PanicInfo)) { l.onPanic = fn }

// Drain runs every queued callback on the calling goroutine and returns how
// many ran. Callbacks posted while draining run in the same call.
func (l *Looper) Drain() int {
	n := 0
	for {
		fn, ok := l.mb.TryRecv()
		if ok {
			l.run(fn)
			n++
			continue
		}
		late := l.takeLate()
		if len(late) == 0 {
			return n
		}
		for _, fn := range late {
			l.run(fn)
			n++
		}
	}
}

func (l *Looper) run(fn func()) {
	if l.onPanic != nil {
		defer func() {
			if v := recover(); v != nil {
				l.onPanic(PanicInfo{Value: v, Stack: debug.Stack()})
			}
		}()
	}
	fn()
}

// Ready is signalled after a successful Post. Loops that block between
// frames can select on it.
func (l *Looper) Ready() <-chan struct{} { return l.ready }

// Pending reports the number of queued callbacks.
func (l *Looper) Pending() int {
	l.lateMu.Lock()
	n := len(l.late)
	l.lateMu.Unlock()
	return l.mb.Len() + n
}

// Dropped reports how many posts were rejected because the mailbox was full.
// Delayed posts are never dropped.
func (l *Looper) Dropped() uint64 { return l.dropped.Load() }
