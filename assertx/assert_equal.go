package assertx

import (
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func Equal(t assert.TestingT, expected interface{}, actual interface{}, opts ...cmp.Option) (ok bool) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !cmp.Equal(expected, actual, opts...) {
		t.Errorf("Not equal: \n%s", cmp.Diff(expected, actual, opts...))
		return false
	}

	return true
}

// EqualWire compares two wire payloads line by line. Lines are quoted in the diff so
// that missing or extra "\r" show up.
func EqualWire(t assert.TestingT, expected, actual []byte) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if string(expected) == string(actual) {
		return true
	}

	t.Errorf("Wire payloads differ (-expected +actual):\n%s", cmp.Diff(quotedLines(expected), quotedLines(actual)))
	return false
}

func quotedLines(b []byte) []string {
	lines := strings.SplitAfter(string(b), "\n")
	for i, l := range lines {
		lines[i] = strconv.Quote(l)
	}
	return lines
}
