package errorx

import "fmt"

// UnavailableErrorf creates an Error with type ErrorTypeUnavailable and a formatted message.
// It is used when a remote endpoint could not be reached at all.
func UnavailableErrorf(format string, args ...any) *Error {
	return newWithStack(
		ErrorTypeUnavailable,
		fmt.Sprintf(format, args...),
	)
}

func IsUnavailableError(e error) bool {
	return isType(e, ErrorTypeUnavailable)
}
