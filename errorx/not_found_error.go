package errorx

import "fmt"

// NotFoundErrorf creates an Error with type ErrorTypeNotFound and a formatted message
func NotFoundErrorf(format string, args ...any) *Error {
	return newWithStack(
		ErrorTypeNotFound,
		fmt.Sprintf(format, args...),
	)
}

func IsNotFoundError(e error) bool {
	return isType(e, ErrorTypeNotFound)
}
