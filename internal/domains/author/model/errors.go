package model

import "errors"

var (
	ErrAuthorNotFound  = errors.New("author not found")
	ErrInvalidAuthorID = errors.New("invalid author id")
)
