package stringsx

import (
	"strings"

	"github.com/avdatabase/x/errorx"
)

// RegisteredCases collects the cases of a switch statement so that an
// unmatched value can be reported with every accepted alternative.
//
//	switch f := stringsx.SwitchExact(provider); {
//	case f.AddCase("stdout"):
//	default:
//		return f.ToUnknownCaseErr()
//	}
type RegisteredCases struct {
	cases  []string
	actual string
}

func SwitchExact(actual string) *RegisteredCases {
	return &RegisteredCases{actual: actual}
}

func (r *RegisteredCases) AddCase(c string) bool {
	r.cases = append(r.cases, c)
	return r.actual == c
}

func (r *RegisteredCases) ToUnknownCaseErr() error {
	quoted := make([]string, len(r.cases))
	for i, c := range r.cases {
		quoted[i] = `"` + c + `"`
	}
	return errorx.InvalidArgumentErrorf("expected one of [%s] but got %q", strings.Join(quoted, ", "), r.actual)
}
