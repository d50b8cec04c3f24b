package looper

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func waitReady(t *testing.T, l *Looper) {
	t.Helper()
	select {
	case <-l.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("looper was never signalled")
	}
}

func TestPostRunsOnDrain(t *testing.T) {
	l := New(clockwork.NewFakeClockAt(epoch))

	var got []int
	require.True(t, l.Post(func() { got = append(got, 1) }))
	require.True(t, l.Post(func() { got = append(got, 2) }))
	assert.Empty(t, got, "callbacks ran before Drain")
	assert.Equal(t, 2, l.Pending())

	assert.Equal(t, 2, l.Drain())
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, l.Drain())
}

func TestPostFromOtherGoroutines(t *testing.T) {
	l := New(clockwork.NewFakeClockAt(epoch))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() {})
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, l.Drain())
}

func TestPostRejectsWhenFull(t *testing.T) {
	l := NewWithSlots(clockwork.NewFakeClockAt(epoch), 2)

	require.True(t, l.Post(func() {}))
	require.True(t, l.Post(func() {}))
	assert.False(t, l.Post(func() {}))
	assert.Equal(t, uint64(1), l.Dropped())
	assert.False(t, l.Post(nil))
}

func TestPostDelayedSurvivesFullMailbox(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	l := NewWithSlots(clock, 2)

	ran := false
	l.PostDelayed(time.Second, func() { ran = true })
	require.True(t, l.Post(func() {}))
	require.True(t, l.Post(func() {}))
	<-l.Ready()

	clock.Advance(time.Second)
	waitReady(t, l)
	assert.Equal(t, 3, l.Pending())
	assert.Equal(t, 3, l.Drain())
	assert.True(t, ran)
	assert.Zero(t, l.Dropped())
	assert.Zero(t, l.Pending())
}

func TestDrainRunsNestedPosts(t *testing.T) {
	l := New(clockwork.NewFakeClockAt(epoch))

	ran := 0
	l.Post(func() {
		ran++
		l.Post(func() { ran++ })
	})
	assert.Equal(t, 2, l.Drain())
	assert.Equal(t, 2, ran)
}

func TestPostDelayedFiresAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	l := New(clock)

	ran := false
	l.PostDelayed(500*time.Millisecond, func() { ran = true })

	clock.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, l.Drain())
	assert.False(t, ran)

	clock.Advance(time.Millisecond)
	waitReady(t, l)
	assert.Equal(t, 1, l.Drain())
	assert.True(t, ran)
}

func TestPostDelayedZeroIsImmediate(t *testing.T) {
	l := New(clockwork.NewFakeClockAt(epoch))

	ran := false
	l.PostDelayed(0, func() { ran = true })
	assert.Equal(t, 1, l.Drain())
	assert.True(t, ran)
}

func TestCancelBeforeFire(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	l := New(clock)

	ran := false
	tok := l.PostDelayed(time.Second, func() { ran = true })
	tok.Cancel()
	assert.True(t, tok.Cancelled())

	clock.Advance(5 * time.Second)
	select {
	case <-l.Ready():
	case <-time.After(50 * time.Millisecond):
	}
	l.Drain()
	assert.False(t, ran, "cancelled callback ran")
}

func TestCancelAfterFireBeforeDrain(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	l := New(clock)

	ran := false
	tok := l.PostDelayed(time.Second, func() { ran = true })
	clock.Advance(time.Second)
	waitReady(t, l)

	tok.Cancel()
	l.Drain()
	assert.False(t, ran, "callback ran after Cancel")
}

func TestNilTokenCancel(t *testing.T) {
	var tok *Token
	tok.Cancel()
	assert.False(t, tok.Cancelled())
}

func TestPanicHandlerRecovers(t *testing.T) {
	l := New(clockwork.NewFakeClockAt(epoch))

	var got []PanicInfo
	l.SetPanicHandler(func(info PanicInfo) { got = append(got, info) })

	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })

	assert.Equal(t, 2, l.Drain())
	require.Len(t, got, 1)
	assert.Equal(t, "boom", got[0].Value)
	assert.NotEmpty(t, got[0].Stack)
	assert.True(t, ran, "callbacks after the panic did not run")
}

func TestPanicWithoutHandlerPropagates(t *testing.T) {
	l := New(clockwork.NewFakeClockAt(epoch))
	l.Post(func() { panic("boom") })
	assert.PanicsWithValue(t, "boom", func() { l.Drain() })
}
