package engine

import "sync"

// Listener receives engine events. Calls arrive in order on the engine's
// dispatcher goroutine, never while engine locks are held.
type Listener interface {
	OnPlaybackStateChanged(State)
	OnIsPlayingChanged(playing bool)
}

type event struct {
	isPlaying bool // which callback
	state     State
	playing   bool
}

// dispatcher delivers events from an unbounded queue.
type dispatcher struct {
	mu       sync.Mutex
	pending  []event
	listener Listener
	wake     chan struct{}
	quit     chan struct{}
	done     chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) setListener(l Listener) {
	d.mu.Lock()
	d.listener = l
	d.mu.Unlock()
}

func (d *dispatcher) push(ev event) {
	d.mu.Lock()
	d.pending = append(d.pending, ev)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.wake:
		case <-d.quit:
			return
		}

		for {
			d.mu.Lock()
			if len(d.pending) == 0 {
				d.mu.Unlock()
				break
			}
			ev := d.pending[0]
			d.pending = d.pending[1:]
			l := d.listener
			d.mu.Unlock()

			if l == nil {
				continue
			}
			if ev.isPlaying {
				l.OnIsPlayingChanged(ev.playing)
			} else {
				l.OnPlaybackStateChanged(ev.state)
			}
		}
	}
}

// stop ends delivery; pending events are dropped.
func (d *dispatcher) stop() {
	select {
	case <-d.quit:
	default:
		close(d.quit)
	}
	<-d.done
}
