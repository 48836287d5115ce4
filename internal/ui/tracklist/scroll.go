package tracklist

// scroll keeps a cursor inside a list and the viewport around it. The
// list length and viewport height are passed in because both change.
type scroll struct {
	pos    int
	offset int // first visible row
	margin int // rows kept visible above and below pos
}

func (s *scroll) move(delta, n, height int) {
	s.jump(s.pos+delta, n, height)
}

func (s *scroll) jump(pos, n, height int) {
	if n == 0 {
		s.pos, s.offset = 0, 0
		return
	}
	s.pos = min(max(pos, 0), n-1)
	s.follow(n, height)
}

// follow moves the viewport so pos stays at least margin rows from
// either edge.
func (s *scroll) follow(n, height int) {
	if height <= 0 || n == 0 {
		return
	}
	margin := min(s.margin, (height-1)/2)
	if s.pos < s.offset+margin {
		s.offset = s.pos - margin
	}
	if s.pos >= s.offset+height-margin {
		s.offset = s.pos - height + margin + 1
	}
	s.offset = min(max(s.offset, 0), max(n-height, 0))
}

// visible returns the visible index range [start, end).
func (s scroll) visible(n, height int) (start, end int) {
	if n == 0 || height <= 0 {
		return 0, 0
	}
	return s.offset, min(s.offset+height, n)
}
