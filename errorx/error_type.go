package errorx

type ErrorType string

// Errors status code are defined here:
// https://chromium.googlesource.com/external/github.com/grpc/grpc/+/refs/tags/v1.21.4-pre1/doc/statuscodes.md

const (
	// The Invalid type should not be used, only useful to assert whether or not an error is an Error during cast
	ErrorTypeUnspecified        = ErrorType("")
	ErrorTypeFailedPrecondition = ErrorType("FAILED_PRECONDITION")
	ErrorTypeInternal           = ErrorType("INTERNAL")
	ErrorTypeInvalidArgument    = ErrorType("INVALID_ARGUMENT")
	ErrorTypeNotFound           = ErrorType("NOT_FOUND")
	ErrorTypeUnavailable        = ErrorType("UNAVAILABLE")
)

func ParseErrorType(s string) (ErrorType, error) {
	e := ErrorType(s)
	if err := e.Validate(); err != nil {
		return ErrorTypeUnspecified, err
	}

	return e, nil
}

func (e ErrorType) String() string {
	return string(e)
}

func (e ErrorType) Validate() error {
	switch e {
	case ErrorTypeFailedPrecondition,
		ErrorTypeInternal,
		ErrorTypeInvalidArgument,
		ErrorTypeNotFound,
		ErrorTypeUnavailable:
		return nil
	default:
		return InvalidArgumentErrorf("invalid error type: %s", e)
	}
}
