package gateway

import "errors"

// Gateway errors
var (
	ErrConnClosed       = errors.New("connection closed")
	ErrWriteChannelFull = errors.New("write channel full")
	ErrInvalidEvent     = errors.New("invalid event")
	ErrSenderMismatch   = errors.New("sender id mismatch")
	ErrPanic            = errors.New("panic error")
)
