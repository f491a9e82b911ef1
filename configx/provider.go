// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"

	"github.com/ory/jsonschema/v3"
)

// Delimiter separates the segments of a configuration key.
const Delimiter = "."

type tuple struct {
	Key   string
	Value interface{}
}

// Provider loads the configuration in this order, later sources win:
// schema defaults, base values, config files, user providers, environment, flags, forced values.
type Provider struct {
	l sync.RWMutex
	k *koanf.Koanf

	schema   []byte
	compiled *jsonschema.Schema
	paths    []SchemaPath

	files             []string
	flags             *pflag.FlagSet
	envPrefix         string
	skipValidation    bool
	disableEnvLoading bool
	baseValues        []tuple
	forcedValues      []tuple
	userProviders     []koanf.Provider
	onValidationError func(k *koanf.Koanf, err error)

	logger *logrusx.Logger
}

// New loads and validates the configuration described by the JSON schema.
func New(ctx context.Context, schema []byte, modifiers ...OptionModifier) (*Provider, error) {
	id, compiler, err := newCompiler(schema)
	if err != nil {
		return nil, err
	}

	compiled, err := compiler.Compile(ctx, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	p := &Provider{
		schema:            schema,
		compiled:          compiled,
		paths:             ListPaths(compiled),
		onValidationError: func(k *koanf.Koanf, err error) {},
		logger:            logrusx.New("avdatabase/configx", ""),
	}

	for _, m := range modifiers {
		m(p)
	}

	k, err := p.newKoanf(ctx)
	if err != nil {
		return nil, err
	}

	p.k = k
	return p, nil
}

func (p *Provider) newKoanf(ctx context.Context) (*koanf.Koanf, error) {
	k := koanf.New(Delimiter)

	defaults, err := NewKoanfSchemaDefaults(p.compiled)
	if err != nil {
		return nil, err
	}
	if err := k.Load(defaults, nil); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := p.loadTuples(k, p.baseValues); err != nil {
		return nil, err
	}

	for _, f := range p.files {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := loadFile(k, f); err != nil {
			return nil, err
		}
		p.logger.WithField("file", f).Debug("loaded configuration file")
	}

	for _, up := range p.userProviders {
		if err := k.Load(up, nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if !p.disableEnvLoading {
		if err := k.Load(newEnvProvider(p.envPrefix, p.paths), nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if p.flags != nil {
		if err := k.Load(newFlagProvider(p.flags, k, p.paths), nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := p.loadTuples(k, p.forcedValues); err != nil {
		return nil, err
	}

	if !p.skipValidation {
		if err := p.validate(k); err != nil {
			p.onValidationError(k, err)
			return nil, err
		}
	}

	return k, nil
}

func (p *Provider) loadTuples(k *koanf.Koanf, tuples []tuple) error {
	for _, t := range tuples {
		if err := k.Load(confmap.Provider(map[string]interface{}{t.Key: t.Value}, Delimiter), nil); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch e := strings.ToLower(filepath.Ext(path)); e {
	case ".json":
		parser = kjson.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return errorx.InvalidArgumentErrorf("unknown config file extension %q of %s, use one of .json, .yaml, .yml, .toml", e, path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, "unable to load config file %s", path)
	}
	return nil
}

func (p *Provider) validate(k *koanf.Koanf) error {
	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return errors.WithStack(err)
	}
	if err := p.compiled.Validate(bytes.NewReader(raw)); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Set overrides a single value. The result is validated unless validation is skipped.
func (p *Provider) Set(key string, value interface{}) error {
	p.l.Lock()
	defer p.l.Unlock()

	k := p.k.Copy()
	if err := k.Load(confmap.Provider(map[string]interface{}{key: value}, Delimiter), nil); err != nil {
		return errors.WithStack(err)
	}

	if !p.skipValidation {
		if err := p.validate(k); err != nil {
			p.onValidationError(k, err)
			return err
		}
	}

	p.k = k
	return nil
}

func (p *Provider) get(key string) interface{} {
	p.l.RLock()
	defer p.l.RUnlock()
	return p.k.Get(key)
}

func (p *Provider) Exists(key string) bool {
	p.l.RLock()
	defer p.l.RUnlock()
	return p.k.Exists(key)
}

func (p *Provider) Get(key string) interface{} {
	return p.get(key)
}

func (p *Provider) String(key string) string {
	return cast.ToString(p.get(key))
}

func (p *Provider) StringF(key string, fallback string) string {
	if !p.Exists(key) {
		return fallback
	}
	return p.String(key)
}

func (p *Provider) Bool(key string) bool {
	return cast.ToBool(p.get(key))
}

func (p *Provider) BoolF(key string, fallback bool) bool {
	if !p.Exists(key) {
		return fallback
	}
	return p.Bool(key)
}

func (p *Provider) Int(key string) int {
	return cast.ToInt(p.get(key))
}

func (p *Provider) IntF(key string, fallback int) int {
	if !p.Exists(key) {
		return fallback
	}
	return p.Int(key)
}

func (p *Provider) Float64F(key string, fallback float64) float64 {
	if !p.Exists(key) {
		return fallback
	}
	return cast.ToFloat64(p.get(key))
}

// DurationF accepts Go duration strings ("1m30s") and plain numbers of nanoseconds.
func (p *Provider) DurationF(key string, fallback time.Duration) time.Duration {
	if !p.Exists(key) {
		return fallback
	}
	d, err := cast.ToDurationE(p.get(key))
	if err != nil {
		return fallback
	}
	return d
}

// All returns a flat copy of every loaded key.
func (p *Provider) All() map[string]interface{} {
	p.l.RLock()
	defer p.l.RUnlock()
	return p.k.All()
}

// Raw returns the nested configuration.
func (p *Provider) Raw() map[string]interface{} {
	p.l.RLock()
	defer p.l.RUnlock()
	return p.k.Raw()
}

func (p *Provider) unmarshal(key string, v interface{}) error {
	p.l.RLock()
	defer p.l.RUnlock()
	return errors.WithStack(p.k.UnmarshalWithConf(key, v, koanf.UnmarshalConf{Tag: "json"}))
}

// TracingConfig reads the "tracing" section. serviceName is used when none is configured.
func (p *Provider) TracingConfig(serviceName string) *otelx.TracerConfig {
	c := new(otelx.TracerConfig)
	if err := p.unmarshal("tracing", c); err != nil {
		p.logger.WithError(err).Warn("unable to decode the tracing configuration, tracing is disabled")
		c = new(otelx.TracerConfig)
	}
	if c.ServiceName == "" {
		c.ServiceName = serviceName
	}
	return c
}

// MetricsConfig reads the "metrics" section. serviceName is used when none is configured.
func (p *Provider) MetricsConfig(serviceName string) *otelx.MeterConfig {
	c := new(otelx.MeterConfig)
	if err := p.unmarshal("metrics", c); err != nil {
		p.logger.WithError(err).Warn("unable to decode the metrics configuration, metrics are disabled")
		c = new(otelx.MeterConfig)
	}
	if c.ServiceName == "" {
		c.ServiceName = serviceName
	}
	return c
}

// Paths lists the configuration keys known by the schema.
func (p *Provider) Paths() []SchemaPath {
	return p.paths
}
