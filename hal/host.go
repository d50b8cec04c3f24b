//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jonboulle/clockwork"
)

// HostConfig sizes the host HAL.
type HostConfig struct {
	Width  int
	Height int

	// ZoneDir is watched for localtime/timezone changes. Empty means /etc.
	ZoneDir string

	// Log defaults to stdout.
	Log io.Writer
}

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Host  HostConfig
	Scale int
	Title string
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	clock  clockwork.Clock
	notes  *hostNotifier
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = 320
	}
	if cfg.Height <= 0 {
		cfg.Height = 320
	}
	if cfg.Log == nil {
		cfg.Log = os.Stdout
	}
	if cfg.ZoneDir == "" {
		cfg.ZoneDir = "/etc"
	}
	logger := &hostLogger{w: cfg.Log}
	return &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		clock:  clockwork.NewRealClock(),
		notes:  newHostNotifier(logger, newZoneWatcher(cfg.ZoneDir)),
	}
}

func (h *hostHAL) Logger() Logger         { return h.logger }
func (h *hostHAL) Display() Display       { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input           { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Clock() clockwork.Clock { return h.clock }
func (h *hostHAL) Notifier() Notifier     { return h.notes }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
