// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"github.com/knadh/koanf/maps"
	"github.com/pkg/errors"

	"github.com/ory/jsonschema/v3"
)

// KoanfSchemaDefaults provides the "default" annotations of a compiled schema.
type KoanfSchemaDefaults struct {
	paths []SchemaPath
}

// NewKoanfSchemaDefaults needs a schema compiled with ExtractAnnotations enabled.
func NewKoanfSchemaDefaults(schema *jsonschema.Schema) (*KoanfSchemaDefaults, error) {
	if schema == nil {
		return nil, errors.New("configx: schema must not be nil")
	}
	return &KoanfSchemaDefaults{paths: ListPaths(schema)}, nil
}

func (k *KoanfSchemaDefaults) ReadBytes() ([]byte, error) {
	return nil, errors.New("schema defaults provider does not support this method")
}

func (k *KoanfSchemaDefaults) Read() (map[string]interface{}, error) {
	values := map[string]interface{}{}
	for _, p := range k.paths {
		if p.Default != nil {
			values[p.Name] = p.Default
		}
	}

	return maps.Unflatten(values, Delimiter), nil
}
