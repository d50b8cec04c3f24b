package app

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"clockface/face"
	"clockface/hal"
	"clockface/notify"
	"clockface/widget"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFB(w, h int) *memFB {
	fb := &memFB{}
	fb.resize(w, h)
	return fb
}

func (f *memFB) resize(w, h int) {
	f.w, f.h = w, h
	f.buf = make([]byte, w*h*2)
}

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int        { return f.w * 2 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) Present() error          { f.presents++; return nil }

func (f *memFB) ClearRGB(r, g, b uint8) {
	p := hal.RGB565(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

type memLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLog) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *memLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *memLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeNotifier struct {
	pub      notify.Publisher
	startErr error
	stopped  int
}

func (n *fakeNotifier) Start(pub notify.Publisher) error {
	n.pub = pub
	return n.startErr
}

func (n *fakeNotifier) Stop() { n.stopped++ }

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakeHAL struct {
	fb    *memFB
	keys  chan hal.KeyEvent
	clock *clockwork.FakeClock
	notes *fakeNotifier
	log   *memLog
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{
		fb:    newMemFB(64, 64),
		keys:  make(chan hal.KeyEvent, 8),
		clock: clockwork.NewFakeClockAt(epoch),
		notes: &fakeNotifier{},
		log:   &memLog{},
	}
}

func (h *fakeHAL) Logger() hal.Logger           { return h.log }
func (h *fakeHAL) Display() hal.Display         { return h }
func (h *fakeHAL) Input() hal.Input             { return h }
func (h *fakeHAL) Clock() clockwork.Clock       { return h.clock }
func (h *fakeHAL) Notifier() hal.Notifier       { return h.notes }
func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) Keyboard() hal.Keyboard       { return fakeKeyboard{ch: h.keys} }

func newApp(t *testing.T, h *fakeHAL, cfg Config) *App {
	t.Helper()
	if cfg.Zone == "" {
		cfg.Zone = "UTC"
	}
	a, err := New(h, cfg)
	require.NoError(t, err)
	return a
}

// stepUntil steps the app until cond holds.
func stepUntil(t *testing.T, a *App, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		select {
		case <-a.lp.Ready():
		case <-time.After(10 * time.Millisecond):
		}
		require.NoError(t, a.Step())
	}
}

func TestFirstStepRenders(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{})

	require.NoError(t, a.Step())
	assert.Equal(t, uint64(1), a.Stats().Frames)
	assert.Equal(t, 1, h.fb.presents)
	assert.Equal(t, 32.0, a.Clock().Geometry().Radius)
	assert.True(t, a.Clock().Attached())

	// Nothing changed, nothing drawn.
	require.NoError(t, a.Step())
	assert.Equal(t, uint64(1), a.Stats().Frames)
	assert.Equal(t, 1, h.fb.presents)
}

func TestTickRedraws(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{})
	require.NoError(t, a.Step())

	h.clock.Advance(time.Second)
	stepUntil(t, a, func() bool { return a.Stats().Frames == 2 })
	assert.Equal(t, 1, a.Clock().Reading().Second)
}

func TestNotificationRedraws(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{})
	require.NoError(t, a.Step())
	require.NotNil(t, h.notes.pub)

	require.True(t, h.notes.pub.Publish(notify.Event{Kind: notify.TimeChanged}))
	require.NoError(t, a.Step())
	assert.Equal(t, uint64(2), a.Stats().Frames)
}

func TestResizeFollowsFramebuffer(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{})
	require.NoError(t, a.Step())

	h.fb.resize(100, 50)
	require.NoError(t, a.Step())
	g := a.Clock().Geometry()
	assert.Equal(t, 25.0, g.Radius)
	assert.Equal(t, 50.0, g.CenterX)
	assert.Equal(t, uint64(2), a.Stats().Frames)
}

func TestEscapeQuits(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{Stats: true})
	require.NoError(t, a.Step())

	h.keys <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	err := a.Step()
	assert.True(t, errors.Is(err, hal.ErrQuit))
	assert.False(t, a.Clock().Attached())
	assert.Equal(t, 1, h.notes.stopped)
	assert.True(t, h.log.contains("stats: frames=1"))

	assert.ErrorIs(t, a.Step(), hal.ErrQuit)
	a.Close()
	assert.Equal(t, 1, h.notes.stopped)
}

func TestSpaceTogglesAttach(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{})
	require.NoError(t, a.Step())

	h.keys <- hal.KeyEvent{Code: hal.KeySpace, Press: true, Rune: ' '}
	require.NoError(t, a.Step())
	assert.False(t, a.Clock().Attached())

	h.keys <- hal.KeyEvent{Code: hal.KeySpace, Press: false}
	require.NoError(t, a.Step())
	assert.False(t, a.Clock().Attached(), "release must not toggle")

	h.keys <- hal.KeyEvent{Code: hal.KeySpace, Press: true, Rune: ' '}
	require.NoError(t, a.Step())
	assert.True(t, a.Clock().Attached())
}

func TestStyleKeyCycles(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{})
	require.NoError(t, a.Step())

	h.keys <- hal.KeyEvent{Press: true, Rune: 's'}
	require.NoError(t, a.Step())
	assert.Equal(t, "slim", a.Clock().Style().Name)
	assert.Equal(t, face.NewGeometry(64, 64, face.Slim()), a.Clock().Geometry())

	h.keys <- hal.KeyEvent{Press: true, Rune: 's'}
	require.NoError(t, a.Step())
	assert.Equal(t, "classic", a.Clock().Style().Name)
}

func TestStyleKeyKeepsOverrides(t *testing.T) {
	h := newFakeHAL()
	restyle := func(name string) (face.Style, error) {
		st, ok := face.Preset(name)
		require.True(t, ok, name)
		st.HandWidth = 1.5
		return st, nil
	}
	a := newApp(t, h, Config{Restyle: restyle})
	require.NoError(t, a.Step())

	h.keys <- hal.KeyEvent{Press: true, Rune: 's'}
	require.NoError(t, a.Step())
	assert.Equal(t, "slim", a.Clock().Style().Name)
	assert.Equal(t, 1.5, a.Clock().Style().HandWidth)

	h.keys <- hal.KeyEvent{Press: true, Rune: 's'}
	require.NoError(t, a.Step())
	assert.Equal(t, "classic", a.Clock().Style().Name)
	assert.Equal(t, 1.5, a.Clock().Style().HandWidth)
}

func TestUnknownZoneFailsSetup(t *testing.T) {
	_, err := New(newFakeHAL(), Config{Zone: "Mars/Olympus"})
	assert.ErrorIs(t, err, widget.ErrUnknownZone)
}

func TestNotifierErrorIsLogged(t *testing.T) {
	h := newFakeHAL()
	h.notes.startErr = errors.New("no inotify")
	a := newApp(t, h, Config{})
	assert.True(t, h.log.contains("no inotify"))
	require.NoError(t, a.Step())
	assert.Equal(t, uint64(1), a.Stats().Frames)
}

func TestPhaseStats(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{StatsWindow: 4})
	for i := 0; i < 6; i++ {
		a.Invalidate()
	}
	assert.Len(t, a.phases, 4)
	s := a.Stats()
	assert.Equal(t, time.Duration(0), s.PhaseMedian)
	assert.Equal(t, time.Duration(0), s.PhaseP95)
}

func TestCallbackPanicBecomesFault(t *testing.T) {
	h := newFakeHAL()
	a := newApp(t, h, Config{})
	require.NoError(t, a.Step())

	a.lp.Post(func() { panic("bad hand") })
	err := a.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad hand")
	assert.True(t, h.log.contains("clockface panic: bad hand"))
	assert.False(t, a.Clock().Attached())
	assert.ErrorIs(t, a.Step(), hal.ErrQuit)
}
