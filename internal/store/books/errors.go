package books

import "errors"

var (
	ErrNotFound      = errors.New("book not found")
	ErrInvalidStatus = errors.New("invalid status")
)
