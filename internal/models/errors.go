package models

import "errors"

// Custom errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrOutOfOrder = errors.New("game log entry out of date order")
)
