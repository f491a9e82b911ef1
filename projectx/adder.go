package projectx

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/httpx"
	"github.com/avdatabase/x/logrusx"
	"github.com/avdatabase/x/otelx"
	"github.com/avdatabase/x/tracex"
)

const componentName = "projectx.Adder"

// Adder submits one Project to URL with its path replaced by Route.
//
// Sender, Logger and Tracer default to a plain httpx client, a stderr logger and a no-op
// tracer. Callbacks may be nil.
type Adder struct {
	URL     string
	Route   string
	Project Project

	OnSuccess func()
	OnFailure func(responseText string)

	Sender  httpx.Sender
	Logger  *logrusx.Logger
	Tracer  *otelx.Tracer
	Metrics *Metrics
}

// Result describes a finished submission.
type Result struct {
	Project    Project
	Outcome    Outcome
	StatusCode int
	// Text is the response body, or the error message when no body was received.
	Text string
	// Created is set when the server answered with the id of the new project.
	Created *Created
	Err     error
}

// Send submits the project and raises exactly one callback. The returned error is nil
// on success, FAILED_PRECONDITION for a non-200 answer and UNAVAILABLE for a transport error.
func (a *Adder) Send(ctx context.Context) (Outcome, error) {
	res := a.Submit(ctx)
	a.raise(res)
	return res.Outcome, res.Err
}

func (a *Adder) raise(res Result) {
	if res.Outcome == OutcomeSuccess {
		if a.OnSuccess != nil {
			a.OnSuccess()
		}
		return
	}
	if a.OnFailure != nil {
		a.OnFailure(res.Text)
	}
}

// Submit sends the project without raising callbacks. It never modifies a, so one Adder
// can be used from several goroutines.
func (a *Adder) Submit(ctx context.Context) Result {
	a = a.withDefaults()
	ctx, span, l := tracex.Instrument(ctx, a.logger, a.tracer, componentName, "Submit")
	defer span.End()

	res := Result{Project: a.Project, StatusCode: httpx.StatusTransportError}
	l = l.WithField("project_code", a.Project.ProjectCode).WithField("title", a.Project.Title)

	start := time.Now()
	defer func() {
		a.Metrics.record(ctx, res.Outcome, time.Since(start))
		span.SetAttributes(attribute.String("project.outcome", res.Outcome.String()))
		if res.Err != nil {
			span.SetStatus(codes.Error, res.Err.Error())
		}
	}()

	target, err := TargetURL(a.URL, a.Route)
	if err != nil {
		return a.fail(l, res, err)
	}

	fields, err := a.Project.FormData()
	if err != nil {
		return a.fail(l, res, err)
	}

	resp, err := a.Sender.Send(ctx, target, fields)
	if resp == nil && err == nil {
		err = errorx.InternalErrorf("sender returned neither a response nor an error")
	}
	if resp != nil {
		res.StatusCode = resp.StatusCode
		res.Text = resp.Text()
	}
	if err != nil {
		return a.fail(l, res, err)
	}

	res.Outcome = Interpret(res.StatusCode)
	if res.Outcome != OutcomeSuccess {
		err := errorx.FailedPreconditionErrorf("server answered %d: %s", res.StatusCode, res.Text)
		return a.fail(l, res, err)
	}

	if created, ok := ParseCreated(resp.Body); ok {
		res.Created = &created
		l = l.WithField("project_id", created.ID)
	}
	l.Infof("Project was added")

	return res
}

func (a *Adder) fail(l *logrusx.Logger, res Result, err error) Result {
	res.Outcome = OutcomeFailure
	res.Err = err
	if res.Text == "" {
		res.Text = err.Error()
	}
	l.WithError(err).WithField("status", res.StatusCode).Warnf("Project was not added: %s", res.Text)
	return res
}

// withDefaults returns a copy of a with the missing Sender, Logger and Tracer filled in.
func (a *Adder) withDefaults() *Adder {
	c := *a
	if c.Sender == nil {
		c.Sender = httpx.NewHTTPClient()
	}
	if c.Logger == nil {
		c.Logger = logrusx.New("avdatabase/projectx", "")
	}
	if !c.Tracer.IsLoaded() {
		c.Tracer = otelx.NewNoopTracer(componentName)
	}
	return &c
}

func (a *Adder) logger(context.Context) *logrusx.Logger {
	return a.Logger
}

func (a *Adder) tracer(context.Context) *otelx.Tracer {
	return a.Tracer
}
