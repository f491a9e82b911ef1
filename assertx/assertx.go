// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package assertx

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PrettifyJSONPayload renders payload as indented JSON for failure messages.
func PrettifyJSONPayload(t require.TestingT, payload interface{}) string {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	o, err := json.MarshalIndent(payload, "", "  ")
	require.NoError(t, err)
	return string(o)
}

// EqualAsJSON compares both values after encoding them to JSON.
func EqualAsJSON(t require.TestingT, expected, actual interface{}, args ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	var eb, ab bytes.Buffer
	if len(args) == 0 {
		args = []interface{}{PrettifyJSONPayload(t, actual)}
	}

	require.NoError(t, json.NewEncoder(&eb).Encode(expected), args...)
	require.NoError(t, json.NewEncoder(&ab).Encode(actual), args...)
	return assert.JSONEq(t, strings.TrimSpace(eb.String()), strings.TrimSpace(ab.String()), args...)
}

// EqualAsJSONExcept is EqualAsJSON with the given sjson paths removed from both sides.
func EqualAsJSONExcept(t require.TestingT, expected, actual interface{}, except []string, args ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	var eb, ab bytes.Buffer
	if len(args) == 0 {
		args = []interface{}{PrettifyJSONPayload(t, actual)}
	}

	require.NoError(t, json.NewEncoder(&eb).Encode(expected), args...)
	require.NoError(t, json.NewEncoder(&ab).Encode(actual), args...)

	var err error
	ebs, abs := eb.String(), ab.String()
	for _, k := range except {
		ebs, err = sjson.Delete(ebs, k)
		require.NoError(t, err)

		abs, err = sjson.Delete(abs, k)
		require.NoError(t, err)
	}

	return assert.JSONEq(t, strings.TrimSpace(ebs), strings.TrimSpace(abs), args...)
}
