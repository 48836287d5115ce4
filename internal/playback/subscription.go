package playback

import (
	"context"
	"sync"
)

// Subscription is a live stream of state updates. Updates arrive on C in
// emission order; none are dropped. C is closed when the subscription's
// context is cancelled or the coordinator is closed.
type Subscription struct {
	C <-chan Update

	c       chan Update
	mu      sync.Mutex
	pending []Update
	wake    chan struct{}
	stop    chan struct{}
	once    sync.Once
}

func newSubscription() *Subscription {
	s := &Subscription{
		c:    make(chan Update),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	s.C = s.c
	return s
}

// push queues u for delivery. It never blocks.
func (s *Subscription) push(u Update) {
	s.mu.Lock()
	s.pending = append(s.pending, u)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// close ends delivery. Safe to call more than once.
func (s *Subscription) close() {
	s.once.Do(func() { close(s.stop) })
}

// run forwards queued updates to C until ctx is done or close is called.
func (s *Subscription) run(ctx context.Context, onDone func()) {
	defer close(s.c)
	defer onDone()
	for {
		u, ok := s.next(ctx)
		if !ok {
			return
		}
		select {
		case s.c <- u:
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}
	}
}

func (s *Subscription) next(ctx context.Context) (Update, bool) {
	for {
		s.mu.Lock()
		if len(s.pending) > 0 {
			u := s.pending[0]
			s.pending[0] = Update{}
			s.pending = s.pending[1:]
			s.mu.Unlock()
			return u, true
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-ctx.Done():
			return Update{}, false
		case <-s.stop:
			return Update{}, false
		}
	}
}
