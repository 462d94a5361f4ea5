package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/dehashscan/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the scan state
// accumulated by previous steps.
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the scan to modify.
	Do(ctx context.Context, scan *model.Scan) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// onStep is called before each step starts.
	onStep func(name string)
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithOnStep sets a hook that is called with each step name before the
// step runs. The CLI uses it to drive the progress spinner.
func WithOnStep(fn func(name string)) Option {
	return func(p *Pipeline) {
		p.onStep = fn
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Cancellation is checked before each step; a step in progress is expected
// to honor ctx itself. The scan's FinishedAt is set when Execute returns.
// Execution stops at the first failing step, whose error is returned and
// recorded on the scan.
func (p *Pipeline) Execute(ctx context.Context, scan *model.Scan) error {
	defer func() {
		scan.FinishedAt = time.Now()
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			p.recordError(scan, ctx.Err())
			return ctx.Err()
		default:
		}

		if p.onStep != nil {
			p.onStep(step.Name())
		}
		p.logger.Debug("executing step",
			"step", step.Name(),
			"domain", scan.Domain,
		)

		if err := step.Do(ctx, scan); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"domain", scan.Domain,
				"error", err,
			)
			p.recordError(scan, err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"domain", scan.Domain,
		)
		scan.PerformedSteps = append(scan.PerformedSteps, step.Name())
	}

	return nil
}

// recordError stores the first error on the scan.
func (p *Pipeline) recordError(scan *model.Scan, err error) {
	if scan.Error != nil {
		return
	}
	scan.Error = err
	scan.ErrorMessage = err.Error()
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
