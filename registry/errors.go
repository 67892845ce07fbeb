package registry

import "fmt"

// Error codes
const (
	CodeDuplicateServer = 4001
	CodeDiscoveryFailed = 4002
	CodeServerNotFound  = 4040
	CodeStorage         = 7000
)

// Error is returned by the registry operations
type Error struct {
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %s", e.Code, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code int, cause error, msg string) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}
