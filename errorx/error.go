package errorx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Error is the typed error returned by every package of this module.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details []Error   `json:"details,omitempty"`

	OriginalError error `json:"-"` // Not rendered to users

	stack Callers
}

var _ error = (*Error)(nil)

var messageRegexp = regexp.MustCompile(`\[(.*?)\] (.*)`)

func newWithStack(t ErrorType, msg string) *Error {
	return &Error{
		Type:    t,
		Message: msg,
		stack:   callers(2),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

// Unwrap returns the error this one was built from, if any.
func (e *Error) Unwrap() error {
	return e.OriginalError
}

// StackTrace returns the frames captured when the error was created.
func (e *Error) StackTrace() Callers {
	return e.stack
}

// WithDetails returns a copy of e with the given errors appended to its details.
func (e *Error) WithDetails(details ...*Error) *Error {
	c := *e
	c.Details = append(append([]Error{}, e.Details...), flatten(details)...)
	return &c
}

// WithOriginalError returns a copy of e wrapping err.
func (e *Error) WithOriginalError(err error) *Error {
	c := *e
	c.OriginalError = err
	return &c
}

func flatten(details []*Error) []Error {
	out := make([]Error, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		dd := *d
		dd.stack = nil
		out = append(out, dd)
	}
	return out
}

// NewErrorFromMessage parses a message produced by Error.Error back into an Error.
func NewErrorFromMessage(msg string) (*Error, error) {
	m := messageRegexp.FindStringSubmatch(msg)
	if len(m) < 3 {
		return nil, fmt.Errorf("%q is not a valid error message", msg)
	}

	eT, err := ParseErrorType(m[1])
	if err != nil {
		return nil, err
	}

	return &Error{
		Type:    eT,
		Message: m[2],
	}, nil
}

// IsError reports whether e, or any error it wraps, is a typed *Error.
func IsError(e error) (*Error, bool) {
	if e == nil {
		return nil, false
	}

	var xe *Error
	if !errors.As(errors.Cause(e), &xe) && !errors.As(e, &xe) {
		return nil, false
	}

	if xe.Type == ErrorTypeUnspecified {
		return nil, false
	}

	return xe, true
}

func isType(e error, t ErrorType) bool {
	xe, ok := IsError(e)
	if !ok {
		return false
	}

	return xe.Type == t
}

// NewEnumOutOfRangeError reports a value that is not one of the allowed enum values.
func NewEnumOutOfRangeError(actual string, expectedOneOf []string, enumName string) *Error {
	return newWithStack(
		ErrorTypeInvalidArgument,
		fmt.Sprintf("%q is not a valid %s. Possible values: [%s]", actual, enumName, strings.Join(expectedOneOf, ", ")),
	)
}
