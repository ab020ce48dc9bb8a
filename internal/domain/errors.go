package domain

import "errors"

var (
	ErrInvalidID      = errors.New("invalid id")
	ErrInvalidTitle   = errors.New("invalid title")
	ErrInvalidContent = errors.New("invalid content")
	ErrDuplicateID    = errors.New("duplicate id")
)
