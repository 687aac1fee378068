package repository

import "errors"

var (
	ErrNotFound          = errors.New("key not found")
	ErrMalformedSnapshot = errors.New("stored cart snapshot is malformed")
	ErrStoreClosed       = errors.New("store is closed")
	ErrConnectionFailed  = errors.New("store connection failed")
)
