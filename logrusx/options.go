// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package logrusx

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type (
	options struct {
		level            *logrus.Level
		formatter        logrus.Formatter
		format           string
		out              io.Writer
		hooks            []logrus.Hook
		exitFunc         func(int)
		leakSensitive    bool
		redactionText    string
		sensitiveHeaders []string
	}
	Option func(*options)
)

const defaultRedactionText = "Value is sensitive and has been redacted. To see the value set config key \"log.leak_sensitive_values = true\" or environment variable \"LOG_LEAK_SENSITIVE_VALUES=true\"."

func ForceLevel(level logrus.Level) Option {
	return func(o *options) {
		o.level = &level
	}
}

// ForceFormat selects the "json" or "text" formatter. Anything else falls back to text.
func ForceFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

func ForceFormatter(formatter logrus.Formatter) Option {
	return func(o *options) {
		o.formatter = formatter
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

func WithHook(hook logrus.Hook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hook)
	}
}

func WithExitFunc(exitFunc func(int)) Option {
	return func(o *options) {
		o.exitFunc = exitFunc
	}
}

func LeakSensitive() Option {
	return func(o *options) {
		o.leakSensitive = true
	}
}

func RedactionText(text string) Option {
	return func(o *options) {
		o.redactionText = text
	}
}

// WithSensitiveHeaders adds headers to the always-redacted set (authorization, cookie, set-cookie).
func WithSensitiveHeaders(headers ...string) Option {
	return func(o *options) {
		o.sensitiveHeaders = append(o.sensitiveHeaders, headers...)
	}
}

func newLogger(o *options) *logrus.Logger {
	l := logrus.New()

	l.SetOutput(os.Stderr)
	if o.out != nil {
		l.SetOutput(o.out)
	}

	if o.level != nil {
		l.SetLevel(*o.level)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	switch {
	case o.formatter != nil:
		l.Formatter = o.formatter
	case strings.EqualFold(o.format, "json"):
		l.Formatter = &logrus.JSONFormatter{}
	default:
		l.Formatter = &logrus.TextFormatter{
			DisableQuote:     true,
			DisableTimestamp: false,
			FullTimestamp:    true,
		}
	}

	for _, hook := range o.hooks {
		l.AddHook(hook)
	}

	if o.exitFunc != nil {
		l.ExitFunc = o.exitFunc
	}

	return l
}

// New creates a logger for the named component. The name and version are attached to every entry.
func New(name string, version string, opts ...Option) *Logger {
	o := &options{redactionText: defaultRedactionText}
	for _, f := range opts {
		f(o)
	}

	sensitive := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"set-cookie":    true,
	}
	for _, h := range o.sensitiveHeaders {
		sensitive[strings.ToLower(h)] = true
	}

	fields := logrus.Fields{"audience": "application", "service_name": name}
	if version != "" {
		fields["service_version"] = version
	}

	return &Logger{
		Entry:            newLogger(o).WithFields(fields),
		leakSensitive:    o.leakSensitive,
		redactionText:    o.redactionText,
		sensitiveHeaders: sensitive,
		opts:             opts,
		name:             name,
		version:          version,
	}
}
