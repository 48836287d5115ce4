package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/nightingale/internal/errmsg"
	"github.com/llehouerou/nightingale/internal/keymap"
	"github.com/llehouerou/nightingale/internal/ui/playerbar"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case ModelMsg:
		m.view = msg.Model
		m.list.Sync(msg.Model)
		return m, watchModel(m.p.Changes())

	case ReloadedMsg:
		m.reloading = false
		m.view = m.p.Model()
		m.list.Sync(m.view)
		if msg.Err != nil {
			m.setError(errmsg.Format(msg.Op, msg.Err))
			return m, nil
		}
		m.setStatus(reloadSummary(msg, len(m.view.Tracks)))
		return m, nil

	case CommandErrMsg:
		m.setError(errmsg.Format(msg.Op, msg.Err))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	action := m.keys.Resolve(key)
	if action != keymap.ActionQuit && action != "" {
		m.setStatus("")
	}

	if m.list.Handle(action) {
		return m, nil
	}

	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case keymap.ActionReload:
		if m.reloading {
			return m, nil
		}
		m.reloading = true
		m.setStatus("Reloading library…")
		return m, m.reloadCmd()
	case keymap.ActionToggleDetail:
		m.detail = !m.detail
		return m, nil

	case keymap.ActionPlayPause:
		return m, m.intentCmd(errmsg.OpPlayPause, m.p.PlayPause)
	case keymap.ActionNext:
		return m, m.intentCmd(errmsg.OpSkip, m.p.Next)
	case keymap.ActionPrevious:
		return m, m.intentCmd(errmsg.OpSkip, m.p.Previous)
	case keymap.ActionSeekForward:
		return m, m.intentCmd(errmsg.OpSeek, m.p.Forward)
	case keymap.ActionSeekBackward:
		return m, m.intentCmd(errmsg.OpSeek, m.p.Backward)
	case keymap.ActionStop:
		return m, m.intentCmd(errmsg.OpStop, m.p.Stop)
	case keymap.ActionSeekPercent:
		percent, ok := keymap.SeekPercent(key)
		if !ok {
			return m, nil
		}
		return m, m.intentCmd(errmsg.OpSeek, func(ctx context.Context) error {
			return m.p.SeekPercent(ctx, percent)
		})
	case keymap.ActionPlaySelected:
		i, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		return m, m.intentCmd(errmsg.OpSelectTrack, func(ctx context.Context) error {
			return m.p.Select(ctx, i)
		})
	}
	return m, nil
}

// layout splits the height between the list, the player bar and the
// footer.
func (m *Model) layout() {
	m.help.Width = m.width
	m.bar.SetSize(m.width, playerbar.Height)
	footer := strings.Count(m.footer(), "\n") + 1
	m.list.SetSize(m.width, m.height-playerbar.Height-footer)
}

// setStatus and setError replace the footer, which may change its height.
func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
	m.layout()
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
	m.layout()
}

// reloadSummary describes a finished reload.
func reloadSummary(msg ReloadedMsg, tracks int) string {
	loaded := fmt.Sprintf("%s tracks", humanize.Comma(int64(tracks)))
	if !msg.Scanned {
		return "Loaded " + loaded
	}
	s := msg.Stats
	if !s.Changed() {
		return fmt.Sprintf("Loaded %s, library unchanged", loaded)
	}
	return fmt.Sprintf("Loaded %s (%s added, %s updated, %s removed)", loaded,
		humanize.Comma(int64(s.Added)), humanize.Comma(int64(s.Updated)), humanize.Comma(int64(s.Removed)))
}
