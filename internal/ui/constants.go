// Package ui holds layout constants and helpers shared by the TUI
// components.
package ui

const (
	// ScrollMargin is the number of rows kept visible around the cursor.
	ScrollMargin = 3

	// BorderHeight and BorderWidth are consumed by a rounded panel border.
	BorderHeight = 2
	BorderWidth  = 2

	// HeaderHeight is the panel title plus its separator.
	HeaderHeight = 2

	// PanelOverhead is what a list panel spends outside its rows.
	PanelOverhead = BorderHeight + HeaderHeight

	// MinProgressBarWidth is the narrowest progress bar worth drawing.
	MinProgressBarWidth = 5
)
