// Package app is the root bubbletea model: it lays out the track list and
// the player bar, turns keys into presenter intents and redraws on every
// presenter model change.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/nightingale/internal/keymap"
	"github.com/llehouerou/nightingale/internal/mediaindex"
	"github.com/llehouerou/nightingale/internal/presenter"
	"github.com/llehouerou/nightingale/internal/ui/playerbar"
	"github.com/llehouerou/nightingale/internal/ui/tracklist"
)

// Presenter is what the UI needs from the presentation layer.
type Presenter interface {
	Model() presenter.Model
	Changes() <-chan presenter.Model
	LoadCatalog(ctx context.Context) error

	PlayPause(ctx context.Context) error
	Select(ctx context.Context, index int) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Forward(ctx context.Context) error
	Backward(ctx context.Context) error
	Stop(ctx context.Context) error
	SeekPercent(ctx context.Context, percent float64) error
}

var _ Presenter = (*presenter.Presenter)(nil)

// RescanFunc refreshes the media index before the catalog is reloaded.
type RescanFunc func(ctx context.Context) (mediaindex.ScanStats, error)

// Model is the root model.
type Model struct {
	ctx    context.Context
	p      Presenter
	rescan RescanFunc

	keys     *keymap.Resolver
	helpKeys keymap.Help
	help     help.Model

	list   tracklist.Model
	bar    playerbar.Model
	view   presenter.Model
	detail bool

	status    string
	statusErr bool
	reloading bool

	width, height int
}

// New creates the root model. rescan may be nil, in which case reload
// only re-reads the index.
func New(ctx context.Context, p Presenter, rescan RescanFunc) Model {
	return Model{
		ctx:      ctx,
		p:        p,
		rescan:   rescan,
		keys:     keymap.NewResolver(keymap.All),
		helpKeys: keymap.NewHelp(keymap.All),
		help:     help.New(),
		list:     tracklist.New(),
		bar:      playerbar.New(),
		view:     p.Model(),
	}
}

// Init starts the first library load and the model watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.reloadCmd(),
		watchModel(m.p.Changes()),
	)
}

// Run runs the program on the alternate screen until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, p Presenter, rescan RescanFunc) error {
	m := New(ctx, p, rescan)
	m.reloading = true
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
