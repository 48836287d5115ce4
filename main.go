package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/nightingale/internal/app"
	"github.com/llehouerou/nightingale/internal/catalog"
	"github.com/llehouerou/nightingale/internal/config"
	"github.com/llehouerou/nightingale/internal/engine"
	"github.com/llehouerou/nightingale/internal/errmsg"
	"github.com/llehouerou/nightingale/internal/logger"
	"github.com/llehouerou/nightingale/internal/mediaindex"
	"github.com/llehouerou/nightingale/internal/mpris"
	"github.com/llehouerou/nightingale/internal/notify"
	"github.com/llehouerou/nightingale/internal/playback"
	"github.com/llehouerou/nightingale/internal/presenter"
	"github.com/llehouerou/nightingale/internal/stderr"
)

var (
	cli        = kingpin.New("nightingale", "Terminal music player for a local library")
	configPath = cli.Flag("config", "Path to an extra config file").Short('c').String()
	verbose    = cli.Flag("verbose", "Enable debug logging").Short('v').Bool()
	logfile    = cli.Flag("logfile", "Path to the log file").String()

	playCmd  = cli.Command("play", "Open the player (default)").Default()
	scanCmd  = cli.Command("scan", "Refresh the media index and exit")
	scanFull = scanCmd.Flag("full", "Re-read every file, ignoring modification times").Bool()
	listCmd  = cli.Command("list", "Print the catalog and exit")
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	command := kingpin.MustParse(cli.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command); err != nil {
		stderr.WriteOriginal(fmt.Sprintf("nightingale: %v\n", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	closeLog, err := initLogger(cfg, command != playCmd.FullCommand())
	if err != nil {
		return err
	}
	defer closeLog.Close()

	index, err := mediaindex.Open(cfg.IndexPath,
		mediaindex.WithWorkers(cfg.ScanWorkers),
		mediaindex.WithMinDuration(cfg.MinDuration),
	)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpIndexOpen, err))
	}
	defer index.Close()

	switch command {
	case scanCmd.FullCommand():
		return runScan(ctx, cfg, index, *scanFull)
	case listCmd.FullCommand():
		return runList(ctx, index)
	default:
		return runPlayer(ctx, cfg, index)
	}
}

// initLogger logs to the console for one-shot commands and to a file while
// the TUI owns the terminal.
func initLogger(cfg *config.Config, console bool) (io.Closer, error) {
	lc := logger.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
	}
	if *verbose {
		lc.Level = "debug"
	}
	if *logfile != "" {
		lc.File = *logfile
		lc.Console = false
	}
	closer, err := logger.Init(lc)
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	return closer, nil
}

func runScan(ctx context.Context, cfg *config.Config, index *mediaindex.Index, full bool) error {
	if !cfg.HasLibrary() {
		return errors.Newf("no library sources configured (set library_sources or %s)", config.EnvLibrary)
	}

	progress := make(chan mediaindex.ScanProgress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			zlog.Debug().Str("phase", p.Phase).Int("current", p.Current).Int("total", p.Total).Msg("scan progress")
		}
	}()

	scan := index.Scan
	if full {
		scan = index.Rescan
	}
	stats, err := scan(ctx, cfg.LibrarySources, progress)
	<-done
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLibraryScan, err))
	}

	total, err := index.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count tracks")
	}
	fmt.Printf("%s tracks indexed: %s added, %s updated, %s removed, %s unchanged\n",
		humanize.Comma(int64(total)),
		humanize.Comma(int64(stats.Added)),
		humanize.Comma(int64(stats.Updated)),
		humanize.Comma(int64(stats.Removed)),
		humanize.Comma(int64(stats.Unchanged)),
	)
	return nil
}

func runList(ctx context.Context, index *mediaindex.Index) error {
	snap, err := catalog.NewRepository(index).Load(ctx)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLibraryLoad, err))
	}
	for _, t := range snap.Tracks {
		fmt.Printf("%s\t%s\t%s\n", presenter.FormatDuration(t.Duration), t.Label(), t.Path)
	}
	return nil
}

func runPlayer(ctx context.Context, cfg *config.Config, index *mediaindex.Index) error {
	// Audio libraries write to fd 2 and would corrupt the TUI.
	if err := stderr.Start(zlog.Logger); err != nil {
		zlog.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	eng := engine.New(
		engine.WithSeekIncrements(cfg.Playback.SeekForward, cfg.Playback.SeekBackward),
		engine.WithRestartThreshold(cfg.Playback.PreviousRestartThreshold),
		engine.WithVolume(float64(cfg.Playback.Volume)/100),
	)
	defer eng.Close()

	coord := playback.New(eng, playback.WithPollInterval(cfg.Playback.PollInterval))
	defer coord.Close()

	p := presenter.New(coord, catalog.NewRepository(index))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Error().Err(err).Msg("presenter stopped")
		}
	}()

	if cfg.Integration.MPRIS {
		adapter, err := mpris.New(coord)
		if err != nil {
			zlog.Warn().Msg(errmsg.Format(errmsg.OpMPRIS, err))
		} else {
			defer adapter.Close()
		}
	}

	if cfg.Integration.Notifications {
		n, err := notify.New()
		if err != nil {
			zlog.Warn().Msg(errmsg.Format(errmsg.OpNotify, err))
		} else {
			go func() { _ = notify.NewWatcher(n).Run(ctx, coord) }()
		}
	}

	// Without library sources reload only re-reads the index.
	var rescan app.RescanFunc
	if cfg.HasLibrary() {
		rescan = func(ctx context.Context) (mediaindex.ScanStats, error) {
			return index.Scan(ctx, cfg.LibrarySources, nil)
		}
	}

	if err := app.Run(ctx, p, rescan); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	return nil
}
