// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package logrusx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/avdatabase/x/errorx"
)

type Logger struct {
	*logrus.Entry
	leakSensitive    bool
	redactionText    string
	sensitiveHeaders map[string]bool
	opts             []Option
	name             string
	version          string
}

var opts = otelhttptrace.WithPropagators(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

func (l *Logger) LeakSensitiveData() bool {
	return l.leakSensitive
}

func (l *Logger) Logrus() *logrus.Logger {
	return l.Entry.Logger
}

func (l *Logger) NewEntry() *Logger {
	ll := *l
	ll.Entry = logrus.NewEntry(l.Logger)
	return &ll
}

func (l *Logger) WithContext(ctx context.Context) *Logger {
	ll := *l
	ll.Entry = l.Entry.WithContext(ctx)
	return &ll
}

// WithSensitiveHeaders returns a copy of the logger which also redacts the given headers.
func (l *Logger) WithSensitiveHeaders(headers ...string) *Logger {
	ll := *l
	ll.sensitiveHeaders = make(map[string]bool, len(l.sensitiveHeaders)+len(headers))
	for k, v := range l.sensitiveHeaders {
		ll.sensitiveHeaders[k] = v
	}
	for _, h := range headers {
		ll.sensitiveHeaders[strings.ToLower(h)] = true
	}
	return &ll
}

func (l *Logger) HTTPHeadersRedacted(h http.Header) map[string]interface{} {
	headers := map[string]interface{}{}

	for key, value := range h {
		keyLower := strings.ToLower(key)
		if l.sensitiveHeaders[keyLower] {
			headers[keyLower] = l.maybeRedact(value)
		} else {
			headers[keyLower] = h.Get(key)
		}
	}

	return headers
}

// WithRequest attaches a description of r. Both incoming and outgoing requests are supported:
// for outgoing requests the scheme and host are taken from the URL.
func (l *Logger) WithRequest(r *http.Request) *Logger {
	headers := l.HTTPHeadersRedacted(r.Header)
	if ua := r.UserAgent(); len(ua) > 0 {
		headers["user-agent"] = ua
	}

	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.TLS == nil {
			scheme = "http"
		}
	}

	host := r.Host
	if host == "" {
		host = r.URL.Host
	}

	fields := map[string]interface{}{
		"proto":   r.Proto,
		"method":  r.Method,
		"path":    r.URL.EscapedPath(),
		"query":   l.maybeRedact(r.URL.RawQuery),
		"scheme":  scheme,
		"host":    host,
		"headers": headers,
	}
	if remoteIP != "" {
		fields["remote"] = remoteIP
	}

	ll := l.WithField("http_request", fields)

	spanCtx := trace.SpanContextFromContext(r.Context())
	if !spanCtx.IsValid() {
		_, _, spanCtx = otelhttptrace.Extract(r.Context(), r, opts)
	}
	if spanCtx.IsValid() {
		if spanCtx.HasTraceID() {
			ll = ll.WithField("TraceID", spanCtx.TraceID().String())
		}
		if spanCtx.HasSpanID() {
			ll = ll.WithField("SpanID", spanCtx.SpanID().String())
		}
	}
	return ll
}

// WithSpanStartOptions copies the attributes of the span start options into log fields.
func (l *Logger) WithSpanStartOptions(opts ...trace.SpanStartOption) *Logger {
	cfg := trace.NewSpanStartConfig(opts...)
	attrs := cfg.Attributes()
	if len(attrs) == 0 {
		return l
	}
	return l.WithFields(NewLogFields(attrs...))
}

func (l *Logger) Logf(level logrus.Level, format string, args ...interface{}) {
	// Add traces information if available in context
	if l.Context != nil {
		spanCtx := trace.SpanContextFromContext(l.Context)
		if spanCtx.IsValid() {
			if spanCtx.HasTraceID() {
				l = l.WithField("TraceID", spanCtx.TraceID().String())
			}
			if spanCtx.HasSpanID() {
				l = l.WithField("SpanID", spanCtx.SpanID().String())
			}
		}
	}
	if !l.leakSensitive {
		for i, arg := range args {
			switch urlArg := arg.(type) {
			case url.URL:
				urlCopy := url.URL{Scheme: urlArg.Scheme, Host: urlArg.Host, Path: urlArg.Path}
				args[i] = urlCopy
			case *url.URL:
				urlCopy := url.URL{Scheme: urlArg.Scheme, Host: urlArg.Host, Path: urlArg.Path}
				args[i] = &urlCopy
			default:
				continue
			}
		}
	}
	l.Entry.Logf(level, format, args...)
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.Logf(logrus.TraceLevel, format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Logf(logrus.DebugLevel, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Logf(logrus.InfoLevel, format, args...)
}

func (l *Logger) Printf(format string, args ...interface{}) {
	l.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Logf(logrus.WarnLevel, format, args...)
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Logf(logrus.ErrorLevel, format, args...)
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.Logf(logrus.FatalLevel, format, args...)
	l.Entry.Logger.Exit(1)
}

func (l *Logger) Panicf(format string, args ...interface{}) {
	l.Logf(logrus.PanicLevel, format, args...)
}

func (l *Logger) WithFields(f logrus.Fields) *Logger {
	ll := *l
	ll.Entry = l.Entry.WithFields(f)
	return &ll
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	ll := *l
	ll.Entry = l.Entry.WithField(key, value)
	return &ll
}

func (l *Logger) maybeRedact(value interface{}) interface{} {
	if value == nil || fmt.Sprintf("%v", value) == "" {
		return nil
	}
	if !l.leakSensitive {
		return l.redactionText
	}
	return value
}

func (l *Logger) WithSensitiveField(key string, value interface{}) *Logger {
	return l.WithField(key, l.maybeRedact(value))
}

func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	ctx := errorCtx(err)
	if l.Entry.Logger.IsLevelEnabled(logrus.DebugLevel) {
		if xe, ok := errorx.IsError(err); ok && len(xe.StackTrace()) > 0 {
			ctx["stack_trace"] = xe.StackTrace().String()
		}
	}

	return l.WithField("error", ctx)
}

func errorCtx(err error) map[string]interface{} {
	ctx := map[string]interface{}{"message": err.Error()}

	xe, ok := errorx.IsError(err)
	if !ok || len(xe.Details) == 0 {
		return ctx
	}

	details := make([]map[string]interface{}, 0, len(xe.Details))
	for i := range xe.Details {
		details = append(details, errorCtx(&xe.Details[i]))
	}
	ctx["details"] = details

	return ctx
}
