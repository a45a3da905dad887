package sdk

import "fmt"

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Common error codes, mirroring the server side
const (
	// Success
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam    = 1001
	CodeInternalServer  = 1002
	CodeUnauthorized    = 1003
	CodeForbidden       = 1004
	CodeNotFound        = 1005
	CodeTooManyRequests = 1006
	CodeNoPermission    = 1007

	// Auth errors (2xxx)
	CodeTokenInvalid  = 2001
	CodeTokenExpired  = 2002
	CodeTokenMissing  = 2003
	CodeTokenMismatch = 2004
	CodeLoginFailed   = 2005
	CodeUserNotFound  = 2006
	CodeUserExists    = 2007
	CodePasswordWrong = 2008

	// Message errors (3xxx)
	CodeMessageNotFound = 3001
	CodeSendFailed      = 3002
	CodeHistoryFailed   = 3003
	CodeMarkReadFailed  = 3004
	CodeNotAuthor       = 3005
	CodeReceiverMissing = 3006

	// Real-time errors (4xxx)
	CodeConnOverLimit   = 4001
	CodeConnClosed      = 4002
	CodeInvalidEvent    = 4003
	CodeSenderMismatch  = 4004
	CodePeerUnreachable = 4005
	CodeInvalidStatus   = 4006
)

// Predefined errors
var (
	ErrInvalidParam   = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized   = NewError(CodeUnauthorized, "unauthorized")
	ErrNotFound       = NewError(CodeNotFound, "not found")

	ErrTokenInvalid  = NewError(CodeTokenInvalid, "token invalid")
	ErrTokenMissing  = NewError(CodeTokenMissing, "token missing")
	ErrUserNotFound  = NewError(CodeUserNotFound, "user not found")
	ErrUserExists    = NewError(CodeUserExists, "user already exists")
	ErrPasswordWrong = NewError(CodePasswordWrong, "password wrong")

	ErrSendFailed      = NewError(CodeSendFailed, "message send failed")
	ErrNotAuthor       = NewError(CodeNotAuthor, "only the author can delete a message")
	ErrReceiverMissing = NewError(CodeReceiverMissing, "receiver not found")
)
