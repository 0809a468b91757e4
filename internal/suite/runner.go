package suite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/screens"
)

// Status is the outcome of one case
type Status int

const (
	Passed Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// CaseError attaches the case name to a failure
type CaseError struct {
	Case string
	Err  error
}

func (e *CaseError) Error() string { return fmt.Sprintf("case %q: %v", e.Case, e.Err) }

func (e *CaseError) Unwrap() error { return e.Err }

type Result struct {
	Case     Case
	Status   Status
	Err      error
	Duration time.Duration
	// Artifact is the path of the failure screenshot, if one was captured.
	Artifact string
}

// Report summarises one run.
type Report struct {
	RunID   uuid.UUID
	Results []Result
	Elapsed time.Duration
}

func (r Report) count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

func (r Report) Passed() int  { return r.count(Passed) }
func (r Report) Failed() int  { return r.count(Failed) }
func (r Report) Skipped() int { return r.count(Skipped) }

// OK reports whether no case failed or was skipped
func (r Report) OK() bool { return r.Failed() == 0 && r.Skipped() == 0 }

// Err joins every case failure, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, &CaseError{Case: res.Case.Name, Err: res.Err})
		}
	}
	return errors.Join(errs...)
}

// ArtifactSink captures evidence for a failed case. failing is the locator
// that did not become visible, when known.
type ArtifactSink interface {
	Capture(ctx context.Context, runID, caseName string, doc locator.Document, failing *locator.Locator) (string, error)
}

// Runner executes cases sequentially against one App.
type Runner struct {
	logger    *zap.Logger
	timeout   time.Duration
	artifacts ArtifactSink
	observer  func(Result)
}

type RunnerOption func(*Runner)

func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithCaseTimeout bounds each case; zero means no limit
func WithCaseTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// WithArtifacts captures a screenshot for every failed case
func WithArtifacts(s ArtifactSink) RunnerOption {
	return func(r *Runner) { r.artifacts = s }
}

// OnResult is called after each case finishes, in order.
func OnResult(fn func(Result)) RunnerOption {
	return func(r *Runner) { r.observer = fn }
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cases in order. A failed setup case skips every case after
// it. Cancelling ctx skips the cases not yet started.
func (r *Runner) Run(ctx context.Context, app *screens.App, cases []Case) Report {
	report := Report{RunID: uuid.New()}
	log := r.logger.With(zap.String("run_id", report.RunID.String()))
	start := time.Now()
	log.Info("run started", zap.Int("cases", len(cases)))

	var blocked error
	for _, c := range cases {
		res := Result{Case: c}
		switch {
		case blocked != nil:
			res.Status = Skipped
			res.Err = blocked
		case ctx.Err() != nil:
			res.Status = Skipped
			res.Err = ctx.Err()
		default:
			res = r.runCase(ctx, log, report.RunID, app, c)
			if res.Status == Failed && c.Setup {
				blocked = fmt.Errorf("setup %q failed", c.Name)
			}
		}
		report.Results = append(report.Results, res)
		if r.observer != nil {
			r.observer(res)
		}
	}

	report.Elapsed = time.Since(start)
	log.Info("run finished",
		zap.Int("passed", report.Passed()),
		zap.Int("failed", report.Failed()),
		zap.Int("skipped", report.Skipped()),
		zap.Duration("elapsed", report.Elapsed))
	return report
}

func (r *Runner) runCase(ctx context.Context, log *zap.Logger, runID uuid.UUID, app *screens.App, c Case) Result {
	log = log.With(zap.String("case", c.Name), zap.Strings("tags", c.Tags))
	caseCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		caseCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log.Debug("case started")
	start := time.Now()
	err := safeCall(caseCtx, app, c.Body)
	res := Result{Case: c, Duration: time.Since(start), Err: err}
	if err == nil {
		res.Status = Passed
		log.Info("case passed", zap.Duration("elapsed", res.Duration))
		return res
	}

	res.Status = Failed
	log.Warn("case failed", zap.Error(err), zap.Duration("elapsed", res.Duration))
	if r.artifacts != nil {
		var failing *locator.Locator
		var verr *locator.VisibilityError
		if errors.As(err, &verr) {
			failing = &verr.Locator
		}
		// The case context may already be expired; evidence gets its own budget.
		captureCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		path, cerr := r.artifacts.Capture(captureCtx, runID.String(), c.Name, app.Document(), failing)
		switch {
		case cerr != nil:
			log.Warn("artifact capture failed", zap.Error(cerr))
		default:
			res.Artifact = path
			log.Info("artifact saved", zap.String("path", path))
		}
	}
	return res
}

func safeCall(ctx context.Context, app *screens.App, body Body) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return body(ctx, app)
}
