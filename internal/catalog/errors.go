package catalog

import "errors"

var (
	ErrIndexFetch     = errors.New("deck index fetch failed")
	ErrDeckFetch      = errors.New("deck fetch failed")
	ErrDeckNotFound   = errors.New("deck not found")
	ErrSpreadNotFound = errors.New("spread not found")
	ErrNotLoaded      = errors.New("catalog not loaded")
	ErrBundledData    = errors.New("invalid bundled catalog data")
)
