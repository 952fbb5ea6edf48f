package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("product source unavailable")
	ErrInvalidFilter     = errors.New("invalid filter value")
)
