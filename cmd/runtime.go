package cmd

import (
	"context"
	_ "embed"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/avdatabase/x/configx"
	"github.com/avdatabase/x/httpx"
	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
	"github.com/avdatabase/x/projectx"
	"github.com/avdatabase/x/retryx"
)

//go:embed config.schema.json
var ConfigSchema []byte

const (
	ServiceName = "project-adder"
	// EnvPrefix is prepended to every environment variable, e.g. PROJECTADDER_SERVER_URL.
	EnvPrefix = "PROJECTADDER_"

	flagConfig = "config"
)

// RegisterConfigFlags binds the most used configuration keys to flags. Flags left at
// their default never override the config files or the environment.
func RegisterConfigFlags(flags *pflag.FlagSet) {
	flags.StringSliceP(flagConfig, "c", nil, "Config files to load (.json, .yaml, .yml, .toml). Later files win.")
	flags.String(configx.FlagName("server.url"), "", "Base URL of the AV database server.")
	flags.String(configx.FlagName("server.route"), "", "Path receiving new projects.")
	flags.Duration(configx.FlagName("client.timeout"), 0, "Upper bound of a single request.")
	flags.String(configx.FlagName("client.boundary"), "", `Multipart boundary: "fixed" or "random".`)
	flags.Bool(configx.FlagName("client.boundary_check"), false, "Reject forms whose values contain the boundary.")
	flags.Int(configx.FlagName("client.retries"), 0, "Retries after a transport error.")
	flags.Bool(configx.FlagName("client.skip_tls_verification"), false, "Do not verify the server certificate.")
	flags.String(configx.FlagName("log.level"), "", "Log level.")
	flags.String(configx.FlagName("log.format"), "", `Log format: "text" or "json".`)
	flags.Bool(configx.FlagName("log.leak_sensitive_values"), false, "Log sensitive values unredacted.")
	flags.String(configx.FlagName("tracing.provider"), "", `Tracing backend: "otel" or "stdout". Empty disables tracing.`)
	flags.String(configx.FlagName("metrics.provider"), "", `Metrics backend: "otel", "stdout" or "prometheus". Empty disables metrics.`)
}

// Runtime holds everything a command needs, built from the configuration.
type Runtime struct {
	Config  *configx.Provider
	Logger  *logrusx.Logger
	Tracer  *otelx.Tracer
	Meter   *otelx.Meter
	Metrics *projectx.Metrics
	Client  *httpx.Client
}

// NewRuntime loads the configuration for cmd. Options stored in the command context with
// configx.ContextWithConfigOptions are applied last.
func NewRuntime(cmd *cobra.Command) (*Runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := cmd.Flags().GetStringSlice(flagConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	c, err := configx.New(ctx, ConfigSchema,
		configx.WithEnvPrefix(EnvPrefix),
		configx.WithConfigFiles(files...),
		configx.WithFlags(cmd.Flags()),
		configx.WithStandardValidationReporter(cmd.ErrOrStderr()),
		configx.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}

	l, err := newLogger(c, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	tc := c.TracingConfig(ServiceName)
	tc.Providers.Stdout.Writer = cmd.ErrOrStderr()
	tracer, err := otelx.New(l, tc)
	if err != nil {
		return nil, err
	}

	mc := c.MetricsConfig(ServiceName)
	mc.Providers.Stdout.Writer = cmd.ErrOrStderr()
	meter, err := otelx.NewMeter(l, mc)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		return nil, err
	}

	metrics, err := projectx.NewMetrics(meter.Meter())
	if err != nil {
		_ = tracer.Shutdown(ctx)
		_ = meter.Shutdown(ctx)
		return nil, err
	}

	return &Runtime{
		Config:  c,
		Logger:  l,
		Tracer:  tracer,
		Meter:   meter,
		Metrics: metrics,
		Client:  httpx.NewClientWithOptions(clientOptions(c, l, tracer)...),
	}, nil
}

func newLogger(c *configx.Provider, out io.Writer) (*logrusx.Logger, error) {
	level, err := logrus.ParseLevel(c.StringF("log.level", "info"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	opts := []logrusx.Option{
		logrusx.ForceLevel(level),
		logrusx.ForceFormat(c.StringF("log.format", "text")),
		logrusx.WithOutput(out),
	}
	if c.BoolF("log.leak_sensitive_values", false) {
		opts = append(opts, logrusx.LeakSensitive())
	}

	return logrusx.New(ServiceName, Version, opts...), nil
}

func clientOptions(c *configx.Provider, l *logrusx.Logger, t *otelx.Tracer) []httpx.Option {
	opts := []httpx.Option{
		httpx.WithTimeout(c.DurationF("client.timeout", time.Minute)),
		httpx.WithUserAgent(ServiceName + "/" + Version),
		httpx.WithLogger(l),
		httpx.WithTracer(t),
	}
	if c.StringF("client.boundary", "fixed") == "random" {
		opts = append(opts, httpx.WithRandomBoundary())
	}
	if c.BoolF("client.boundary_check", false) {
		opts = append(opts, httpx.WithBoundaryCheck())
	}
	if c.BoolF("client.skip_tls_verification", false) {
		opts = append(opts, httpx.WithSkipTLSVerification())
	}
	if retries := c.IntF("client.retries", 0); retries > 0 {
		opts = append(opts, httpx.WithRetry(retryPolicy(retries, c.DurationF("client.timeout", time.Minute))...))
	}
	return opts
}

// retryPolicy allows retries+1 attempts. The elapsed time budget covers every attempt
// running into timeout plus the longest randomized wait before each retry, so the
// backoff never stops before the retry count is used up.
func retryPolicy(retries int, timeout time.Duration) []retryx.RetryOption {
	return []retryx.RetryOption{
		retryx.WithRetryCount(retries + 1),
		retryx.WithMaxElapsedTime(retryBudget(retries, timeout)),
	}
}

func retryBudget(retries int, timeout time.Duration) time.Duration {
	const maxWait = retryx.DefaultMaxInterval * 3 / 2
	return time.Duration(retries+1)*timeout + time.Duration(retries)*maxWait
}

// Adder returns a template submitting to the configured server.
func (r *Runtime) Adder() projectx.Adder {
	return projectx.Adder{
		URL:     r.Config.String("server.url"),
		Route:   r.Config.String("server.route"),
		Sender:  r.Client,
		Logger:  r.Logger,
		Tracer:  r.Tracer,
		Metrics: r.Metrics,
	}
}

// Shutdown flushes the tracer and the meter.
func (r *Runtime) Shutdown(ctx context.Context) {
	if err := r.Tracer.Shutdown(ctx); err != nil {
		r.Logger.WithError(err).Warn("unable to flush the tracer")
	}
	if err := r.Meter.Shutdown(ctx); err != nil {
		r.Logger.WithError(err).Warn("unable to flush the meter")
	}
}
