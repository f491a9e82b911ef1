package configx

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"
)

var flagReplacer = strings.NewReplacer(Delimiter, "-", "_", "-")

// FlagName is the command line flag bound to a configuration key.
// "client.boundary_check" is bound to --client-boundary-check.
func FlagName(key string) string {
	return flagReplacer.Replace(key)
}

// newFlagProvider maps flags named after schema keys. Other flags are ignored and
// flags left at their default never override values loaded before.
func newFlagProvider(flags *pflag.FlagSet, k *koanf.Koanf, paths []SchemaPath) *posflag.Posflag {
	byFlag := make(map[string]SchemaPath, len(paths))
	for _, p := range paths {
		byFlag[FlagName(p.Name)] = p
	}

	return posflag.ProviderWithValue(flags, Delimiter, k, func(name, value string) (string, interface{}) {
		p, ok := byFlag[name]
		if !ok {
			return "", nil
		}
		return p.Name, castValue(p.Type, value)
	})
}
