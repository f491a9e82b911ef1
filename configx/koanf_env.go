package configx

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/spf13/cast"
)

// EnvKey is the environment variable read for a configuration key.
// "client.boundary_check" with prefix "PROJECTADDER_" reads PROJECTADDER_CLIENT_BOUNDARY_CHECK.
func EnvKey(prefix, key string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(key, Delimiter, "_"))
}

func newEnvProvider(prefix string, paths []SchemaPath) *env.Env {
	byVar := make(map[string]SchemaPath, len(paths))
	for _, p := range paths {
		v := EnvKey("", p.Name)
		if _, ok := byVar[v]; !ok {
			byVar[v] = p
		}
	}

	return env.ProviderWithValue(prefix, Delimiter, func(key, value string) (string, interface{}) {
		p, ok := byVar[strings.ToUpper(strings.TrimPrefix(key, prefix))]
		if !ok {
			return "", nil
		}
		return p.Name, castValue(p.Type, value)
	})
}

// castValue converts raw strings into the schema type. Values that do not convert are
// kept as strings so validation reports them.
func castValue(typ string, value string) interface{} {
	var (
		v   interface{}
		err error
	)
	switch typ {
	case "boolean":
		v, err = cast.ToBoolE(value)
	case "integer":
		v, err = cast.ToInt64E(value)
	case "number":
		v, err = cast.ToFloat64E(value)
	case "array":
		return cast.ToStringSlice(strings.Split(value, ","))
	default:
		return value
	}
	if err != nil {
		return value
	}
	return v
}
