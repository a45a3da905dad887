package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Common errors (1xxx)
	ErrInvalidParam    = New(1001, "invalid parameter")
	ErrInternalServer  = New(1002, "internal server error")
	ErrUnauthorized    = New(1003, "unauthorized")
	ErrForbidden       = New(1004, "forbidden")
	ErrNotFound        = New(1005, "not found")
	ErrTooManyRequests = New(1006, "too many requests")
	ErrNoPermission    = New(1007, "no permission to access this resource")

	// Auth errors (2xxx)
	ErrTokenInvalid  = New(2001, "token invalid")
	ErrTokenExpired  = New(2002, "token expired")
	ErrTokenMissing  = New(2003, "token missing")
	ErrTokenMismatch = New(2004, "token user mismatch")
	ErrLoginFailed   = New(2005, "login failed")
	ErrUserNotFound  = New(2006, "user not found")
	ErrUserExists    = New(2007, "user already exists")
	ErrPasswordWrong = New(2008, "password wrong")

	// Message errors (3xxx)
	ErrMessageNotFound = New(3001, "message not found")
	ErrSendFailed      = New(3002, "message send failed")
	ErrHistoryFailed   = New(3003, "message history query failed")
	ErrMarkReadFailed  = New(3004, "mark read failed")
	ErrNotAuthor       = New(3005, "only the author can delete a message")
	ErrReceiverMissing = New(3006, "receiver not found")

	// Real-time errors (4xxx)
	ErrConnOverLimit   = New(4001, "connection over max limit")
	ErrConnClosed      = New(4002, "connection closed")
	ErrInvalidEvent    = New(4003, "invalid event payload")
	ErrSenderMismatch  = New(4004, "sender id does not match connection identity")
	ErrPeerUnreachable = New(4005, "peer has no live connection")
	ErrInvalidStatus   = New(4006, "unknown presence status")
)
