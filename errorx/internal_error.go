package errorx

import "fmt"

// InternalErrorf creates an Error with type ErrorTypeInternal and a formatted message
func InternalErrorf(format string, args ...any) *Error {
	return newWithStack(
		ErrorTypeInternal,
		fmt.Sprintf(format, args...),
	)
}

func IsInternalError(e error) bool {
	return isType(e, ErrorTypeInternal)
}
