// Package render fits text into terminal cells.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops invalid UTF-8 and control characters other than tab,
// and turns non-breaking spaces into spaces. Tag metadata is not trusted
// to be printable.
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u00a0':
			return ' '
		case r != '\t' && unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// Truncate sanitizes s and cuts it to maxWidth cells, ending with "…"
// when it was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// Fit truncates s and pads it with spaces to exactly width cells.
func Fit(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Row places left and right at the two ends of width cells, keeping at
// least one space between them.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator is a horizontal rule of width cells.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}
