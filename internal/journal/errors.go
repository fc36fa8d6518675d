package journal

import "errors"

var (
	ErrInvalidFormat = errors.New("invalid data format")
	ErrImportParse   = errors.New("import parse failed")
	ErrInvalidRecord = errors.New("invalid record")
	ErrNotStored     = errors.New("journal not stored")
)
