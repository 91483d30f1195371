package badger

import "errors"

var (
	ErrDirRequired  = errors.New("badger: dir is required unless running in memory")
	ErrFailedToOpen = errors.New("badger: failed to open database")
	ErrGCFailed     = errors.New("badger: value log gc failed")
)
