package presenter

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/engine"
	"github.com/llehouerou/nightingale/internal/playback"
)

type failingLoader struct{ err error }

func (f failingLoader) Load(context.Context) (catalog.Snapshot, error) {
	return catalog.Snapshot{}, f.err
}

func twoTracks() catalog.Static {
	return catalog.Static{
		catalog.NewTrack(1, "a.mp3", "Artist", "A", "/music/a.mp3", 180000*time.Millisecond),
		catalog.NewTrack(2, "b.mp3", "Artist", "B", "/music/b.mp3", 200000*time.Millisecond),
	}
}

type fixture struct {
	engine *engine.Mock
	coord  *playback.Coordinator
	p      *Presenter
}

// newFixture starts a presenter over a real coordinator driving a mock
// engine. Run stops with the test.
func newFixture(t *testing.T, src catalog.Source) *fixture {
	t.Helper()
	m := engine.NewMock()
	coord := playback.New(m)
	p := New(coord, catalog.NewRepository(src))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		coord.Close()
	})
	synctest.Wait()
	return &fixture{engine: m, coord: coord, p: p}
}

func TestPresenter_InitialModel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())
		m := f.p.Model()
		if m.Status != StatusInitial || m.Loaded || m.CurrentIndex != -1 {
			t.Errorf("initial model = %+v", m)
		}
		if m.ProgressText != "00:00" {
			t.Errorf("ProgressText = %q, want 00:00", m.ProgressText)
		}
	})
}

func TestPresenter_EmptyCatalogIssuesNoCommands(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, catalog.Static{})

		if err := f.p.LoadCatalog(context.Background()); err != nil {
			t.Fatalf("LoadCatalog() error = %v", err)
		}
		synctest.Wait()

		m := f.p.Model()
		if !m.Loaded || !m.Empty {
			t.Errorf("Loaded=%v Empty=%v, want both true", m.Loaded, m.Empty)
		}
		if calls := f.engine.Calls(); len(calls) != 0 {
			t.Errorf("engine calls = %v, want none", calls)
		}
	})
}

func TestPresenter_FailedLoadShowsEmptyState(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		boom := errors.New("index unavailable")
		f := newFixture(t, twoTracks())
		f.p.loader = failingLoader{err: boom}

		if err := f.p.LoadCatalog(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("LoadCatalog() error = %v, want %v", err, boom)
		}
		m := f.p.Model()
		if !m.Empty || !errors.Is(m.LastError, boom) {
			t.Errorf("Empty=%v LastError=%v", m.Empty, m.LastError)
		}
		if calls := f.engine.Calls(); len(calls) != 0 {
			t.Errorf("engine calls = %v, want none", calls)
		}
	})
}

func TestPresenter_LoadCatalogSetsQueue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())

		if err := f.p.LoadCatalog(context.Background()); err != nil {
			t.Fatalf("LoadCatalog() error = %v", err)
		}
		synctest.Wait()

		m := f.p.Model()
		if len(m.Tracks) != 2 || m.Empty {
			t.Errorf("Tracks=%d Empty=%v", len(m.Tracks), m.Empty)
		}
		if got := f.engine.Calls(); len(got) != 2 || got[0] != "SetItems" || got[1] != "Prepare" {
			t.Errorf("engine calls = %v, want [SetItems Prepare]", got)
		}
		if len(f.coord.Queue()) != 2 {
			t.Errorf("queue len = %d, want 2", len(f.coord.Queue()))
		}
	})
}

func TestPresenter_ReloadToEmptyClearsQueue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())
		ctx := context.Background()
		if err := f.p.LoadCatalog(ctx); err != nil {
			t.Fatalf("LoadCatalog() error = %v", err)
		}
		if err := f.p.Select(ctx, 1); err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		synctest.Wait()
		f.engine.ResetCalls()

		f.p.loader = catalog.NewRepository(catalog.Static{})
		if err := f.p.LoadCatalog(ctx); err != nil {
			t.Fatalf("reload error = %v", err)
		}
		synctest.Wait()

		m := f.p.Model()
		if !m.Empty || len(m.Tracks) != 0 {
			t.Errorf("Empty=%v Tracks=%d", m.Empty, len(m.Tracks))
		}
		if m.Current != nil || m.CurrentIndex != -1 || m.IsPlaying {
			t.Errorf("Current=%+v CurrentIndex=%d IsPlaying=%v", m.Current, m.CurrentIndex, m.IsPlaying)
		}
		if n := len(f.coord.Queue()); n != 0 {
			t.Errorf("coordinator queue len = %d, want 0", n)
		}
		if f.coord.State().IsPlaying() {
			t.Error("coordinator still playing")
		}

		if err := f.p.Next(ctx); !errors.Is(err, playback.ErrEmptyQueue) {
			t.Errorf("Next() error = %v, want ErrEmptyQueue", err)
		}
		if got := f.engine.Calls(); len(got) != 1 || got[0] != "SetItems" {
			t.Errorf("engine calls = %v, want [SetItems]", got)
		}
	})
}

func TestPresenter_FoldsPlaybackState(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())
		f.engine.SetDuration(200 * time.Second)
		_ = f.p.LoadCatalog(context.Background())

		if err := f.p.Select(context.Background(), 1); err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		f.engine.FireState(engine.StateReady)
		f.engine.SetPosition(50 * time.Second)
		time.Sleep(playback.DefaultPollInterval)
		synctest.Wait()

		m := f.p.Model()
		if m.Status != StatusReady {
			t.Errorf("Status = %v, want Ready", m.Status)
		}
		if !m.IsPlaying || m.CurrentIndex != 1 || m.Current == nil || m.Current.Title != "B" {
			t.Errorf("playing=%v index=%d current=%+v", m.IsPlaying, m.CurrentIndex, m.Current)
		}
		if m.Duration != 200*time.Second || m.Position != 50*time.Second {
			t.Errorf("Duration=%v Position=%v", m.Duration, m.Position)
		}
		if m.ProgressPercent != 25 {
			t.Errorf("ProgressPercent = %v, want 25", m.ProgressPercent)
		}
		if m.ProgressText != "00:50" || m.DurationText != "03:20" {
			t.Errorf("texts = %q / %q", m.ProgressText, m.DurationText)
		}

		select {
		case latest := <-f.p.Changes():
			if latest.Position != 50*time.Second {
				t.Errorf("Changes() model Position = %v, want 50s", latest.Position)
			}
		default:
			t.Error("Changes() has no model")
		}

		if err := f.p.Stop(context.Background()); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
		synctest.Wait()
		if f.p.Model().IsPlaying {
			t.Error("IsPlaying after Stop")
		}
	})
}

func TestPresenter_BufferingPosition(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())
		_ = f.p.LoadCatalog(context.Background())
		f.engine.SetDuration(180 * time.Second)
		f.engine.SetPosition(90 * time.Second)

		f.engine.FireState(engine.StateBuffering)
		synctest.Wait()

		m := f.p.Model()
		if !m.Buffering || m.Position != 90*time.Second {
			t.Errorf("Buffering=%v Position=%v", m.Buffering, m.Position)
		}
	})
}

func TestPresenter_SeekPercentConvertsToFraction(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())
		_ = f.p.LoadCatalog(context.Background())
		f.engine.SetDuration(200 * time.Second)

		if err := f.p.SeekPercent(context.Background(), 40); err != nil {
			t.Fatalf("SeekPercent() error = %v", err)
		}
		if got := f.engine.Position(); got != 80*time.Second {
			t.Errorf("Position = %v, want 1m20s", got)
		}
	})
}

func TestPresenter_IntentsMapOneToOne(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())
		_ = f.p.LoadCatalog(context.Background())
		f.engine.ResetCalls()

		ctx := context.Background()
		_ = f.p.Next(ctx)
		_ = f.p.Previous(ctx)
		_ = f.p.Forward(ctx)
		_ = f.p.Backward(ctx)
		_ = f.p.PlayPause(ctx)

		want := []string{"SeekToNext", "SeekToPrevious", "SeekForward", "SeekBack", "Play"}
		got := f.engine.Calls()
		if len(got) != len(want) {
			t.Fatalf("calls = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("call %d = %s, want %s", i, got[i], want[i])
			}
		}
	})
}

func TestPresenter_IntentErrorRecorded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoTracks())
		_ = f.p.LoadCatalog(context.Background())

		err := f.p.Select(context.Background(), 5)
		if !errors.Is(err, playback.ErrIndexOutOfRange) {
			t.Fatalf("Select(5) error = %v", err)
		}
		if !errors.Is(f.p.Model().LastError, playback.ErrIndexOutOfRange) {
			t.Errorf("LastError = %v", f.p.Model().LastError)
		}
	})
}

func TestPresenter_RunEndsWithContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		coord := playback.New(engine.NewMock())
		defer coord.Close()
		p := New(coord, catalog.NewRepository(twoTracks()))

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- p.Run(ctx) }()
		synctest.Wait()
		cancel()
		if err := <-errc; !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{180000 * time.Millisecond, "03:00"},
		{200000 * time.Millisecond, "03:20"},
		{61*time.Minute + 5*time.Second, "61:05"},
		{1500 * time.Millisecond, "00:01"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestProgressPercent(t *testing.T) {
	if got := progressPercent(0, time.Minute); got != 0 {
		t.Errorf("zero position = %v", got)
	}
	if got := progressPercent(time.Minute, 0); got != 0 {
		t.Errorf("unknown duration = %v", got)
	}
	if got := progressPercent(2*time.Minute, time.Minute); got != 100 {
		t.Errorf("past end = %v, want 100", got)
	}
}
