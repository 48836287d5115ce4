package app

import (
	"github.com/llehouerou/nightingale/internal/errmsg"
	"github.com/llehouerou/nightingale/internal/mediaindex"
	"github.com/llehouerou/nightingale/internal/presenter"
)

// ModelMsg carries a new presenter model.
type ModelMsg struct {
	Model presenter.Model
}

// ReloadedMsg reports the end of a library reload.
type ReloadedMsg struct {
	Stats   mediaindex.ScanStats
	Scanned bool
	Err     error
	Op      errmsg.Op
}

// CommandErrMsg reports a failed playback intent.
type CommandErrMsg struct {
	Op  errmsg.Op
	Err error
}
