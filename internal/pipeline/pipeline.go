package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/privacyaudit/internal/analyzer"
)

// State accumulates the results of an audit as it moves through the steps.
// Each audit gets its own State, so steps never share mutable data.
type State struct {
	// URL is the audited URL as supplied by the client.
	URL string

	// Domain is the lowercased host of URL.
	Domain string

	// CookieNames are the cookie names supplied by the client.
	CookieNames []string

	// Cookies is the cookie classification result.
	Cookies analyzer.CookieResult

	// Body is the fetched page body. Empty when the fetch failed.
	Body string

	// PageAccessible is true when the fetch returned a response body.
	PageAccessible bool

	// PageAccessError is the fetch failure reason, if any.
	PageAccessError string

	// Findings are appended by each step in execution order.
	Findings []string

	// Warnings are conditions that limited the analysis.
	Warnings []string
}

// addFindings appends findings in order.
func (s *State) addFindings(findings ...string) {
	s.Findings = append(s.Findings, findings...)
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the state
// accumulated by the previous steps.
//
// Design decision: We use an interface rather than function types because
// it lets steps carry their scanners and loggers, and Name() gives every
// log line a stable step identifier.
type Step interface {
	// Do executes the pipeline step.
	// Non-critical failures are recorded in the state and return nil.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
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
// Cancellation is checked before each step; a running step handles its
// own timeout. Execution stops at the first step error.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", state.URL,
		)

		if err := step.Do(ctx, state); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", state.URL,
				"error", err,
			)
			return err
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
