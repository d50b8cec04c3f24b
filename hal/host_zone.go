//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const (
	localtimeName = "localtime"
	timezoneName  = "timezone"
)

// zoneWatcher reports the system zone whenever dir/localtime or
// dir/timezone changes. Both names are watched through their directory
// because tools replace them with rename or re-link rather than writing.
type zoneWatcher struct {
	dir string

	mu      sync.Mutex
	w       *fsnotify.Watcher
	done    chan struct{}
	stopped chan struct{}
}

func newZoneWatcher(dir string) *zoneWatcher {
	return &zoneWatcher{dir: dir}
}

// start calls onChange with the resolved zone id ("" if unknown) after
// every relevant change. onChange runs on the watcher goroutine.
func (z *zoneWatcher) start(onChange func(zone string), onError func(error)) error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.w != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("zone watcher: %w", err)
	}
	if err := w.Add(z.dir); err != nil {
		w.Close()
		return fmt.Errorf("zone watcher: watch %s: %w", z.dir, err)
	}

	z.w = w
	z.done = make(chan struct{})
	z.stopped = make(chan struct{})
	go z.loop(w, z.done, z.stopped, onChange, onError)
	return nil
}

func (z *zoneWatcher) loop(w *fsnotify.Watcher, done, stopped chan struct{}, onChange func(string), onError func(error)) {
	defer close(stopped)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if name != localtimeName && name != timezoneName {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			onChange(resolveZone(z.dir))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

func (z *zoneWatcher) stop() {
	z.mu.Lock()
	w, done, stopped := z.w, z.done, z.stopped
	z.w = nil
	z.mu.Unlock()
	if w == nil {
		return
	}
	close(done)
	w.Close()
	<-stopped
}

// resolveZone returns the IANA id configured under dir: the target of the
// localtime symlink below a zoneinfo directory, else the first line of the
// timezone file, else "".
func resolveZone(dir string) string {
	if id, err := zoneFromLink(filepath.Join(dir, localtimeName)); err == nil && id != "" {
		return id
	}
	b, err := os.ReadFile(filepath.Join(dir, timezoneName))
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimSpace(line)
}

var errNotZoneLink = errors.New("not a zoneinfo link")

func zoneFromLink(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	target = filepath.ToSlash(target)
	const marker = "zoneinfo/"
	i := strings.LastIndex(target, marker)
	if i < 0 {
		return "", errNotZoneLink
	}
	id := strings.TrimSuffix(target[i+len(marker):], "/")
	id = strings.TrimPrefix(id, "posix/")
	id = strings.TrimPrefix(id, "right/")
	if id == "" {
		return "", errNotZoneLink
	}
	return id, nil
}
