// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/knadh/koanf"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/ory/jsonschema/v3"
)

func (p *Provider) printHumanReadableValidationErrors(k *koanf.Koanf, w io.Writer, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		_, _ = fmt.Fprintf(w, "The configuration could not be validated: %s\n", err)
		return
	}

	raw, _ := json.Marshal(k.Raw())

	_, _ = fmt.Fprintln(w, "The configuration contains values or keys which are invalid:")
	for _, cause := range leafCauses(ve) {
		key := InstanceKey(cause.InstancePtr)
		value := "<missing>"
		if key == "" {
			value = "<root>"
		} else if r := gjson.GetBytes(raw, key); r.Exists() {
			value = r.Raw
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", displayKey(key), value)
		_, _ = fmt.Fprintf(w, "%s^-- %s\n", strings.Repeat(" ", len(displayKey(key))+2), cause.Message)
	}
	_, _ = fmt.Fprintln(w)
}

func displayKey(key string) string {
	if key == "" {
		return "(root)"
	}
	return key
}

func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leafCauses(c)...)
	}
	return out
}

// InstanceKey turns a JSON pointer such as "#/server/url" into the key "server.url".
func InstanceKey(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	return strings.ReplaceAll(ptr, "/", Delimiter)
}
