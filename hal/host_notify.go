//go:build !tinygo

package hal

import (
	"sync"

	"clockface/notify"
)

// hostNotifier publishes TIME_TICK and TIME_CHANGED from per-frame wall
// clock samples and TIMEZONE_CHANGED from the zone watcher.
type hostNotifier struct {
	logger Logger
	zones  *zoneWatcher
	mono   monoClock

	mu   sync.Mutex
	pub  notify.Publisher
	wall wallObserver
}

func newHostNotifier(logger Logger, zones *zoneWatcher) *hostNotifier {
	return &hostNotifier{logger: logger, zones: zones, mono: newMonoClock()}
}

func (n *hostNotifier) Start(pub notify.Publisher) error {
	n.mu.Lock()
	n.pub = pub
	n.mu.Unlock()

	if n.zones == nil {
		return nil
	}
	return n.zones.start(
		func(zone string) {
			Logf(n.logger, "notify: %s zone=%q", notify.TimezoneChanged, zone)
			n.publish(notify.Event{Kind: notify.TimezoneChanged, Zone: zone})
		},
		func(err error) {
			Logf(n.logger, "notify: zone watcher: %v", err)
		},
	)
}

func (n *hostNotifier) Stop() {
	if n.zones != nil {
		n.zones.stop()
	}
	n.mu.Lock()
	n.pub = nil
	n.mu.Unlock()
}

// step samples the wall clock; runners call it once per frame.
func (n *hostNotifier) step() {
	wall, mono := n.mono.sample()

	n.mu.Lock()
	kinds := n.wall.observe(wall, mono)
	n.mu.Unlock()

	for _, k := range kinds {
		if k == notify.TimeChanged {
			Logf(n.logger, "notify: %s", k)
		}
		n.publish(notify.Event{Kind: k})
	}
}

func (n *hostNotifier) publish(ev notify.Event) {
	n.mu.Lock()
	pub := n.pub
	n.mu.Unlock()
	if pub == nil {
		return
	}
	if !pub.Publish(ev) {
		Logf(n.logger, "notify: dropped %s", ev.Kind)
	}
}
