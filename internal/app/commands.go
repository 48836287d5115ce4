package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/nightingale/internal/errmsg"
	"github.com/llehouerou/nightingale/internal/presenter"
)

// waitForChannel turns the next value of ch into a message. It returns
// nil once ch is closed.
func waitForChannel[T any](ch <-chan T, toMsg func(T) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return toMsg(v)
	}
}

func watchModel(ch <-chan presenter.Model) tea.Cmd {
	return waitForChannel(ch, func(pm presenter.Model) tea.Msg {
		return ModelMsg{Model: pm}
	})
}

// intentCmd runs a presenter intent off the update loop.
func (m Model) intentCmd(op errmsg.Op, intent func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := intent(ctx); err != nil {
			return CommandErrMsg{Op: op, Err: err}
		}
		return nil
	}
}

// reloadCmd rescans the library when a scanner is configured, then loads
// the catalog.
func (m Model) reloadCmd() tea.Cmd {
	ctx, p, rescan := m.ctx, m.p, m.rescan
	return func() tea.Msg {
		var msg ReloadedMsg
		if rescan != nil {
			stats, err := rescan(ctx)
			if err != nil {
				return ReloadedMsg{Err: err, Op: errmsg.OpLibraryScan}
			}
			msg.Stats, msg.Scanned = stats, true
		}
		if err := p.LoadCatalog(ctx); err != nil {
			return ReloadedMsg{Err: err, Op: errmsg.OpLibraryLoad}
		}
		return msg
	}
}
