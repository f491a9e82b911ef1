// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"encoding/json"

	"github.com/knadh/koanf/maps"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

// MergeAllTypes writes every leaf of src into dst, keeping the dst leaves src does not set.
// Arrays are replaced as a whole. dst must not be nil.
func MergeAllTypes(src, dst map[string]interface{}) error {
	dstRaw, err := json.Marshal(dst)
	if err != nil {
		return errors.WithStack(err)
	}

	flat, _ := maps.Flatten(src, nil, Delimiter)
	for key, value := range flat {
		dstRaw, err = sjson.SetBytes(dstRaw, key, value)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(json.Unmarshal(dstRaw, &dst))
}
