// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package snapshotx

import (
	"encoding/json"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"
)

type (
	Opt    = func(*options)
	options struct {
		except []string
	}
)

var snapshotter = cupaloy.New(
	cupaloy.SnapshotSubdirectory(".snapshots"),
	cupaloy.FailOnUpdate(false),
)

// ExceptPaths removes the given JSON paths from the value before it is compared.
func ExceptPaths(keys ...string) Opt {
	return func(o *options) {
		o.except = append(o.except, keys...)
	}
}

// SnapshotT compares actual with the snapshot stored next to the test. Missing
// snapshots are created on the first run.
func SnapshotT(t *testing.T, actual interface{}, opts ...Opt) {
	t.Helper()

	o := new(options)
	for _, opt := range opts {
		opt(o)
	}

	if len(o.except) == 0 {
		snapshotter.SnapshotT(t, actual)
		return
	}

	compare, err := json.MarshalIndent(actual, "", "  ")
	require.NoError(t, err, "%+v", actual)
	for _, k := range o.except {
		compare, err = sjson.DeleteBytes(compare, k)
		require.NoError(t, err, k)
	}

	snapshotter.SnapshotT(t, string(compare))
}
