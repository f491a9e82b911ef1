// Package assertx holds assertions testify lacks: go-cmp based comparisons, which accept
// options such as cmpopts.IgnoreFields, JSON comparisons and wire payload diffs.
package assertx

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type tHelper interface {
	Helper()
}

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
	MaxDepth:                10,
}

// ElementsMatch asserts that both slices hold the same elements in any order, compared
// with cmp.Equal. Duplicates must appear the same number of times on both sides.
func ElementsMatch(t assert.TestingT, listA, listB interface{}, opts ...cmp.Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	a, ok := elements(t, listA)
	if !ok {
		return false
	}
	b, ok := elements(t, listB)
	if !ok {
		return false
	}

	extraA, extraB := diffElements(a, b, opts...)
	if len(extraA) == 0 && len(extraB) == 0 {
		return true
	}

	return assert.Fail(t, formatElementsDiff(listA, listB, extraA, extraB))
}

// elements returns the items of an array or slice. nil is an empty list.
func elements(t assert.TestingT, list interface{}) ([]interface{}, bool) {
	if list == nil {
		return nil, true
	}

	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
		return nil, assert.Fail(t, fmt.Sprintf("%q has an unsupported type %s, expecting array or slice", list, v.Kind()))
	}

	out := make([]interface{}, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out, true
}

func diffElements(a, b []interface{}, opts ...cmp.Option) (extraA, extraB []interface{}) {
	used := make([]bool, len(b))

outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && cmp.Equal(y, x, opts...) {
				used[j] = true
				continue outer
			}
		}
		extraA = append(extraA, x)
	}

	for j, y := range b {
		if !used[j] {
			extraB = append(extraB, y)
		}
	}
	return extraA, extraB
}

func formatElementsDiff(listA, listB interface{}, extraA, extraB []interface{}) string {
	var msg bytes.Buffer

	msg.WriteString("elements differ")
	if len(extraA) > 0 {
		msg.WriteString("\n\nextra elements in list A:\n")
		msg.WriteString(spewConfig.Sdump(extraA))
	}
	if len(extraB) > 0 {
		msg.WriteString("\n\nextra elements in list B:\n")
		msg.WriteString(spewConfig.Sdump(extraB))
	}
	msg.WriteString("\n\nlistA:\n")
	msg.WriteString(spewConfig.Sdump(listA))
	msg.WriteString("\n\nlistB:\n")
	msg.WriteString(spewConfig.Sdump(listB))

	return msg.String()
}
