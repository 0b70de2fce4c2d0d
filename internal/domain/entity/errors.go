package entity

import "errors"

var (
	ErrOutlineTooShort   = errors.New("outline must keep at least 3 entries")
	ErrOutlineIndex      = errors.New("outline index out of range")
	ErrBlankOutlineEntry = errors.New("outline entries must not be blank")
	ErrMarkNotExplicit   = errors.New("only draft or completed can be set explicitly")
	ErrMarkEmptyChapter  = errors.New("cannot mark a chapter without content")
)
