// Package bridge moves callback invocations off the goroutines that receive
// OS hotkey events.
//
// Each lane (one per hotkey) runs its invocations in order on a goroutine
// owned by the Dispatcher. Lanes are independent, so a slow callback only
// delays later presses of the same hotkey. Schedule never blocks on
// callback execution.
package bridge

import (
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher schedules zero-argument invocations onto per-lane queues.
type Dispatcher[K comparable] struct {
	mu     sync.Mutex
	lanes  map[K]*lane
	closed bool
	wg     sync.WaitGroup
	log    zerolog.Logger
}

type lane struct {
	queue   []func()
	running bool
}

// New creates a Dispatcher. Invocations that panic are recovered and logged to log.
func New[K comparable](log zerolog.Logger) *Dispatcher[K] {
	return &Dispatcher[K]{
		lanes: make(map[K]*lane),
		log:   log,
	}
}

// Schedule queues fn on the lane for key and returns immediately.
// It returns false, dropping fn, once the Dispatcher is closed.
func (d *Dispatcher[K]) Schedule(key K, fn func()) bool {
	if fn == nil {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	l, ok := d.lanes[key]
	if !ok {
		l = &lane{}
		d.lanes[key] = l
	}
	l.queue = append(l.queue, fn)
	if !l.running {
		l.running = true
		d.wg.Add(1)
		go d.drain(key, l)
	}
	return true
}

// drain runs queued invocations for one lane until it is empty or the
// Dispatcher is closed. An idle lane is removed from the map.
func (d *Dispatcher[K]) drain(key K, l *lane) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		if d.closed || len(l.queue) == 0 {
			dropped := len(l.queue)
			l.queue = nil
			l.running = false
			if d.lanes[key] == l {
				delete(d.lanes, key)
			}
			d.mu.Unlock()
			if dropped > 0 {
				d.log.Debug().Int("dropped", dropped).Interface("lane", key).Msg("dispatcher closed, dropping queued invocations")
			}
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		d.mu.Unlock()

		d.invoke(key, fn)
	}
}

func (d *Dispatcher[K]) invoke(key K, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Interface("lane", key).Msg("recovered from panic in hotkey callback")
		}
	}()
	fn()
}

// Pending returns the number of queued, not yet started invocations.
func (d *Dispatcher[K]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, l := range d.lanes {
		n += len(l.queue)
	}
	return n
}

// Close stops accepting invocations. Queued invocations that have not
// started are dropped; running ones finish normally.
func (d *Dispatcher[K]) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Wait blocks until every lane goroutine has exited. After Close this
// means all in-flight callbacks have returned.
func (d *Dispatcher[K]) Wait() {
	d.wg.Wait()
}
