package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spachava753/packtool/internal/models"
	"github.com/spachava753/packtool/internal/project"
)

// ActionExecutor executes a single action and returns the files it produced.
type ActionExecutor interface {
	Execute(ctx context.Context, p *project.Project, entry *models.ActionEntry) ([]string, error)
}

// Publisher uploads a produced file and returns where it was stored.
type Publisher interface {
	Publish(ctx context.Context, pkg, version, file string) (string, error)
}

// Runner runs an action and its dependencies in resolved order.
type Runner struct {
	project   *project.Project
	executor  ActionExecutor
	publisher Publisher
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor replaces the default action executor.
func WithExecutor(e ActionExecutor) Option {
	return func(r *Runner) { r.executor = e }
}

// WithPublisher uploads every verified output after its action completes.
func WithPublisher(p Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// NewRunner creates a runner for p.
func NewRunner(p *project.Project, opts ...Option) *Runner {
	r := &Runner{
		project:  p,
		executor: NewActionExecutor(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run resolves name and executes the plan one action at a time. Resolution
// errors are returned without a result. Once execution starts a result is
// always returned; the first failing action stops the sequence and its error
// is returned alongside the result.
func (r *Runner) Run(ctx context.Context, name string) (*models.RunResult, error) {
	plan, err := r.project.Resolve(name)
	if err != nil {
		return nil, err
	}

	pkg := r.project.Package
	result := &models.RunResult{
		Package:     pkg.Name,
		Version:     pkg.Version.String(),
		GitCommitID: r.project.GitCommitID,
		Target:      name,
		Plan:        plan,
		OutputDir:   r.project.OutputDir,
		StartedAt:   time.Now(),
		Steps:       make([]models.StepResult, 0, len(plan)),
	}
	defer func() {
		result.EndedAt = time.Now()
		result.TotalDurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	if err := os.MkdirAll(r.project.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}

	slog.Info("running action", "action", name, "plan", plan, "output_dir", r.project.OutputDir)

	for _, actionName := range plan {
		if ctx.Err() != nil {
			result.Cancelled = true
			return result, ctx.Err()
		}

		step, err := r.runStep(ctx, actionName)
		result.Steps = append(result.Steps, step)
		if err != nil {
			result.Failed = true
			slog.Error("action failed", "action", actionName, "error", err)
			return result, err
		}
		result.Completed++
	}

	return result, nil
}

func (r *Runner) runStep(ctx context.Context, name string) (step models.StepResult, err error) {
	entry, ok := r.project.Action(name)
	if !ok {
		err = models.Errorf(models.ErrTypeUnknownAction, name, "action %q is not declared", name)
		return models.StepResult{Action: name, Error: runError(err)}, err
	}

	step = models.StepResult{Action: name, Kind: entry.Config.Kind()}
	start := time.Now()
	defer func() {
		step.DurationSec = time.Since(start).Seconds()
	}()

	slog.Debug("executing action", "action", name, "kind", step.Kind)

	outputs, err := r.executor.Execute(ctx, r.project, entry)
	step.Outputs = outputs
	if err != nil {
		failure := &models.Error{
			Type:    models.ErrTypeActionFailed,
			Subject: name,
			Message: fmt.Sprintf("action %q failed", name),
			Err:     err,
		}
		step.Error = runError(failure)
		return step, failure
	}

	if err := r.verifyOutputs(name); err != nil {
		step.Error = runError(err)
		return step, err
	}

	if r.publisher != nil {
		for _, f := range r.project.ProjectedOutputs(name) {
			uri, err := r.publisher.Publish(ctx, r.project.Package.Name, r.project.Package.Version.String(), f)
			if err != nil {
				failure := &models.Error{
					Type:    models.ErrTypeActionFailed,
					Subject: name,
					Message: fmt.Sprintf("publishing output of %q", name),
					Err:     err,
				}
				step.Error = runError(failure)
				return step, failure
			}
			step.Published = append(step.Published, uri)
		}
	}

	return step, nil
}

// verifyOutputs checks that every projected output of name exists on disk.
func (r *Runner) verifyOutputs(name string) error {
	for _, f := range r.project.ProjectedOutputs(name) {
		info, err := os.Stat(f)
		if err != nil {
			return models.Errorf(models.ErrTypeOutputMissing, f, "action %q did not produce %s", name, f)
		}
		if info.IsDir() {
			return models.Errorf(models.ErrTypeOutputMissing, f, "action %q output %s is a directory", name, f)
		}
	}
	return nil
}

func runError(err error) *models.RunError {
	typ := models.ErrorTypeOf(err)
	if typ == "" {
		typ = models.ErrTypeActionFailed
	}
	return &models.RunError{Type: typ, Message: err.Error()}
}

// WriteReport saves result as indented JSON at path.
func WriteReport(path string, result *models.RunResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// RunFromPath loads the project document at path and runs name.
func RunFromPath(ctx context.Context, path, outputDir, name string, opts ...Option) (*models.RunResult, error) {
	p, err := project.Load(ctx, path, outputDir)
	if err != nil {
		return nil, err
	}
	return NewRunner(p, opts...).Run(ctx, name)
}
