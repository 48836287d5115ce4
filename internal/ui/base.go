package ui

// Base holds the size every component is laid out with. Embed it in
// component models.
type Base struct {
	width, height int
}

// SetSize sets the component dimensions.
func (b *Base) SetSize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
}

// Size returns the component dimensions.
func (b Base) Size() (width, height int) {
	return b.width, b.height
}

func (b Base) Width() int  { return b.width }
func (b Base) Height() int { return b.height }

// InnerSize returns the space left inside a bordered panel.
func (b Base) InnerSize() (width, height int) {
	return max(b.width-BorderWidth, 0), max(b.height-BorderHeight, 0)
}
