package app

import (
	"strings"

	"github.com/llehouerou/nightingale/internal/ui/render"
	"github.com/llehouerou/nightingale/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	body := m.list.View()
	if m.detail {
		body = m.list.DetailView()
	}
	return strings.Join([]string{
		body,
		m.bar.View(m.view),
		m.footer(),
	}, "\n")
}

// footer is the status message when there is one, the key help
// otherwise.
func (m Model) footer() string {
	s := styles.T().S()
	switch {
	case m.status != "" && m.statusErr:
		return s.Error.Render(render.Truncate(m.status, m.width))
	case m.status != "":
		return s.Muted.Render(render.Truncate(m.status, m.width))
	default:
		return m.help.View(m.helpKeys)
	}
}
