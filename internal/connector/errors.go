package connector

import "errors"

var (
	ErrResolution     = errors.New("address resolution failed")
	ErrConnectTimeout = errors.New("connection timed out")
	ErrConnect        = errors.New("connection failed")
	ErrInitialWrite   = errors.New("initial write failed")
)
