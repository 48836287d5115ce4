package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/engine"
	"github.com/llehouerou/nightingale/internal/playback"
)

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []Notification
	nextID uint32
	err    error
	gate   chan struct{} // when set, Notify waits for it to close
}

func (f *fakeNotifier) Notify(n Notification) (uint32, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeNotifier) Close(uint32) error { return nil }

func (f *fakeNotifier) Sent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.sent...)
}

type watchFixture struct {
	n     *fakeNotifier
	m     *engine.Mock
	coord *playback.Coordinator
}

func newWatchFixture(t *testing.T) *watchFixture {
	t.Helper()
	n := &fakeNotifier{}
	m := engine.NewMock()
	coord := playback.New(m)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewWatcher(n).Run(ctx, coord)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		coord.Close()
	})

	err := coord.SetQueue([]catalog.Track{
		catalog.NewTrack(1, "a.mp3", "Artist", "A", "/music/a.mp3", 180*time.Second),
		catalog.NewTrack(2, "b.mp3", "Artist", "B", "/music/b.mp3", 200*time.Second),
	})
	if err != nil {
		t.Fatalf("SetQueue() error = %v", err)
	}
	synctest.Wait()
	return &watchFixture{n: n, m: m, coord: coord}
}

func (f *watchFixture) submit(t *testing.T, cmd playback.Command) {
	t.Helper()
	if err := f.coord.Submit(t.Context(), cmd); err != nil {
		t.Fatalf("Submit(%v) error = %v", cmd.Kind, err)
	}
	synctest.Wait()
}

func TestWatcher_AnnouncesNewTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t)
		if len(f.n.Sent()) != 0 {
			t.Fatalf("notified before playback: %v", f.n.Sent())
		}

		f.submit(t, playback.SelectTrack(1))
		sent := f.n.Sent()
		if len(sent) != 1 || sent[0].Title != "B" {
			t.Fatalf("sent = %+v, want one for B", sent)
		}
		if sent[0].ReplacesID != 0 {
			t.Errorf("first ReplacesID = %d, want 0", sent[0].ReplacesID)
		}

		f.submit(t, playback.SelectTrack(0))
		sent = f.n.Sent()
		if len(sent) != 2 || sent[1].Title != "A" {
			t.Fatalf("sent = %+v, want second for A", sent)
		}
		if sent[1].ReplacesID != 1 {
			t.Errorf("ReplacesID = %d, want 1", sent[1].ReplacesID)
		}
	})
}

func TestWatcher_ResumeDoesNotRepeat(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t)
		f.submit(t, playback.SelectTrack(1))
		f.submit(t, playback.PlayPause())
		f.submit(t, playback.PlayPause())

		if got := len(f.n.Sent()); got != 1 {
			t.Errorf("notifications = %d, want 1", got)
		}
	})
}

func TestWatcher_SilentWhilePaused(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t)
		f.m.SetIndex(1)
		f.m.FirePlaying(false)
		synctest.Wait()

		if got := len(f.n.Sent()); got != 0 {
			t.Errorf("notifications = %d, want 0", got)
		}

		f.m.FirePlaying(true)
		synctest.Wait()
		if sent := f.n.Sent(); len(sent) != 1 || sent[0].Title != "B" {
			t.Errorf("sent = %+v, want one for B", sent)
		}
	})
}

func TestWatcher_NewQueueAnnouncesAgain(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t)
		f.submit(t, playback.SelectTrack(1))
		f.submit(t, playback.Stop())

		if err := f.coord.SetQueue(f.coord.Queue()); err != nil {
			t.Fatalf("SetQueue() error = %v", err)
		}
		synctest.Wait()
		f.submit(t, playback.SelectTrack(1))

		if got := len(f.n.Sent()); got != 2 {
			t.Errorf("notifications = %d, want 2", got)
		}
	})
}

func TestWatcher_NotifyErrorIsIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t)
		f.n.mu.Lock()
		f.n.err = errors.New("no daemon")
		f.n.mu.Unlock()

		f.submit(t, playback.SelectTrack(1))
		if got := len(f.n.Sent()); got != 0 {
			t.Errorf("notifications = %d, want 0", got)
		}
	})
}

func TestWatcher_AnnouncesFromQueueOfUpdate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newWatchFixture(t)
		gate := make(chan struct{})
		f.n.mu.Lock()
		f.n.gate = gate
		f.n.mu.Unlock()

		// The watcher stalls on B while two more queues go by.
		f.submit(t, playback.SelectTrack(1))
		if err := f.coord.SetQueue([]catalog.Track{
			catalog.NewTrack(3, "x.mp3", "Artist", "X", "/music/x.mp3", time.Minute),
			catalog.NewTrack(4, "y.mp3", "Artist", "Y", "/music/y.mp3", time.Minute),
		}); err != nil {
			t.Fatalf("SetQueue() error = %v", err)
		}
		f.submit(t, playback.SelectTrack(1))
		if err := f.coord.SetQueue([]catalog.Track{
			catalog.NewTrack(5, "p.mp3", "Artist", "P", "/music/p.mp3", time.Minute),
			catalog.NewTrack(6, "q.mp3", "Artist", "Q", "/music/q.mp3", time.Minute),
		}); err != nil {
			t.Fatalf("SetQueue() error = %v", err)
		}

		close(gate)
		synctest.Wait()

		sent := f.n.Sent()
		if len(sent) != 2 || sent[0].Title != "B" || sent[1].Title != "Y" {
			t.Errorf("sent = %+v, want B then Y", sent)
		}
	})
}
