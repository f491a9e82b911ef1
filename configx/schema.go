// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/avdatabase/x/otelx"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/ory/jsonschema/v3"
)

func newCompiler(schema []byte) (string, *jsonschema.Compiler, error) {
	id := gjson.GetBytes(schema, "$id").String()
	if id == "" {
		id = fmt.Sprintf("%s.json", uuid.Must(uuid.NewRandom()).String())
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(id, bytes.NewBuffer(schema)); err != nil {
		return "", nil, errors.WithStack(err)
	}

	// DO NOT REMOVE THIS
	compiler.ExtractAnnotations = true

	if err := otelx.AddTracerConfigSchema(compiler); err != nil {
		return "", nil, err
	}
	if err := otelx.AddMeterConfigSchema(compiler); err != nil {
		return "", nil, err
	}

	return id, compiler, nil
}

// SchemaPath is a leaf of the configuration schema.
type SchemaPath struct {
	// Name is the dot separated key, e.g. "server.url".
	Name    string
	Type    string
	Default interface{}
}

// maxSchemaDepth stops the walk on recursive $refs.
const maxSchemaDepth = 16

// ListPaths returns every leaf key of the schema, sorted by name.
func ListPaths(schema *jsonschema.Schema) []SchemaPath {
	var paths []SchemaPath
	listPaths(schema, nil, 0, &paths)
	sort.Slice(paths, func(i, j int) bool { return paths[i].Name < paths[j].Name })
	return paths
}

func listPaths(s *jsonschema.Schema, parents []string, depth int, out *[]SchemaPath) {
	if s == nil || depth > maxSchemaDepth {
		return
	}
	if s.Ref != nil {
		// Annotations on the referencing schema win over the referenced one.
		if s.Default != nil && len(parents) > 0 {
			*out = append(*out, SchemaPath{Name: strings.Join(parents, "."), Type: schemaType(s.Ref), Default: s.Default})
			return
		}
		listPaths(s.Ref, parents, depth+1, out)
		return
	}

	if len(s.Properties) == 0 {
		if len(parents) > 0 {
			*out = append(*out, SchemaPath{Name: strings.Join(parents, "."), Type: schemaType(s), Default: s.Default})
		}
		return
	}

	for name, prop := range s.Properties {
		listPaths(prop, append(append([]string{}, parents...), name), depth+1, out)
	}
}

func schemaType(s *jsonschema.Schema) string {
	for s != nil && len(s.Types) == 0 && s.Ref != nil {
		s = s.Ref
	}
	if s == nil || len(s.Types) == 0 {
		return ""
	}
	return s.Types[0]
}
