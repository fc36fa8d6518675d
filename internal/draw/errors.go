package draw

import "errors"

var (
	ErrWrongStep       = errors.New("action not allowed in current step")
	ErrEmptyDeck       = errors.New("deck has no cards")
	ErrUnknownPosition = errors.New("unknown spread position")
	ErrNoActiveViewer  = errors.New("no position is open")
	ErrNothingToSave   = errors.New("no position is filled")
	ErrTooLong         = errors.New("text too long")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrNotFreeBoard    = errors.New("board is not a free draw")
)
