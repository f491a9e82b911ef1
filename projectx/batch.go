package projectx

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/httpx"
	"github.com/avdatabase/x/tracex"
)

// DefaultConcurrency bounds SubmitAll when no positive concurrency is given.
const DefaultConcurrency = 4

// SubmitAll submits every project with the settings of template, at most concurrency at a
// time. Submissions are independent: a failure does not stop the others. Results follow the
// order of projects. The template callbacks are raised from several goroutines.
func SubmitAll(ctx context.Context, template Adder, projects []Project, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Resolve the defaults once so that the copies share them.
	template = *template.withDefaults()

	results := make([]Result, len(projects))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, p := range projects {
		g.Go(func() error {
			defer tracex.RecoverWithStackTracef(template.Logger, "panic while submitting project %q", p.ProjectCode)

			results[i] = Result{
				Project:    p,
				StatusCode: httpx.StatusTransportError,
				Err:        errorx.InternalErrorf("submission of %q did not complete", p.ProjectCode),
			}

			a := template
			a.Project = p
			results[i] = a.Submit(ctx)
			a.raise(results[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Summarize counts the outcomes of results.
func Summarize(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.Outcome == OutcomeSuccess {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
