package service

import "errors"

var (
	ErrPageNotFound = errors.New("page not found")
	ErrConflict     = errors.New("page url already in use")
	ErrMissingURL   = errors.New("url is required")
)
