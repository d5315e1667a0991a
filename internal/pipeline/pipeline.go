// Task runner that applies independent transformations to one source buffer
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pixel-transforms/internal/algorithms"
	"pixel-transforms/internal/core"
	"pixel-transforms/internal/metrics"
)

// Task is one invocation of an algorithm with a single parameter value
type Task struct {
	ID        string
	Algorithm string
	Parameter string // name of the swept parameter, used for reporting
	Params    algorithms.Params
}

// Value returns the swept parameter value.
func (t Task) Value() interface{} {
	return t.Params[t.Parameter]
}

// Metadata describes a produced buffer for encoders and visualizers
type Metadata struct {
	TaskID    string
	Algorithm string
	Parameter string
	Value     interface{}
	Rows      int
	Cols      int
	Channels  int
	Duration  time.Duration
	Metrics   map[string]float64
}

// ResultHandler receives every successfully transformed buffer. Calls are
// serialized by the runner; a returned error marks the task as failed.
type ResultHandler func(taskID string, buf *core.Buffer, meta Metadata) error

// TaskResult is the outcome of a single task
type TaskResult struct {
	Task     Task
	Metadata Metadata
	Err      error
}

// Report collects task outcomes in submission order
type Report struct {
	Results []TaskResult
}

// Failed returns the results whose task did not complete.
func (r *Report) Failed() []TaskResult {
	var failed []TaskResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Succeeded counts completed tasks.
func (r *Report) Succeeded() int {
	return len(r.Results) - len(r.Failed())
}

// Runner executes tasks against a shared, read-only source buffer
type Runner struct {
	logger      *logrus.Logger
	evaluator   *metrics.Evaluator
	concurrency int
}

// Option configures a Runner
type Option func(*Runner)

// WithConcurrency bounds the number of tasks running at once. Values <= 0
// select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithEvaluator replaces the metrics evaluator. A nil evaluator disables
// metrics.
func WithEvaluator(e *metrics.Evaluator) Option {
	return func(r *Runner) {
		r.evaluator = e
	}
}

func NewRunner(logger *logrus.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:    logger,
		evaluator: metrics.NewEvaluator(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency <= 0 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}
	return r
}

// Run applies every task to src. The source buffer is validated first and a
// malformed source aborts the run. Individual task failures are recorded in
// the report and do not stop other tasks. Cancellation of ctx is observed
// before each task starts; a running transformation is never interrupted.
func (r *Runner) Run(ctx context.Context, src *core.Buffer, tasks []Task, onResult ResultHandler) (*Report, error) {
	if err := src.ValidateSource(); err != nil {
		return nil, fmt.Errorf("invalid source buffer: %w", err)
	}
	if err := checkTaskIDs(tasks); err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"tasks":       len(tasks),
		"concurrency": r.concurrency,
		"source":      src.String(),
	}).Info("PIPELINE: Starting run")

	report := &Report{Results: make([]TaskResult, len(tasks))}
	var handlerMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, task := range tasks {
		g.Go(func() error {
			report.Results[i] = r.runTask(ctx, src, task, onResult, &handlerMu)
			return nil
		})
	}
	_ = g.Wait()

	failed := len(report.Failed())
	r.logger.WithFields(logrus.Fields{
		"succeeded": len(tasks) - failed,
		"failed":    failed,
	}).Info("PIPELINE: Run finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Runner) runTask(ctx context.Context, src *core.Buffer, task Task, onResult ResultHandler, handlerMu *sync.Mutex) TaskResult {
	result := TaskResult{Task: task}
	entry := r.logger.WithFields(logrus.Fields{
		"task_id":   task.ID,
		"algorithm": task.Algorithm,
		"parameter": task.Parameter,
		"value":     task.Value(),
	})

	if err := ctx.Err(); err != nil {
		result.Err = err
		entry.WithError(err).Warn("PIPELINE: Task skipped")
		return result
	}

	if err := algorithms.ValidateParameters(task.Algorithm, task.Params); err != nil {
		result.Err = fmt.Errorf("task %s: %w", task.ID, err)
		entry.WithError(err).Error("PIPELINE: Invalid parameters")
		return result
	}

	start := time.Now()
	out, err := algorithms.Apply(task.Algorithm, src, task.Params)
	duration := time.Since(start)
	if err != nil {
		result.Err = fmt.Errorf("task %s: %w", task.ID, err)
		entry.WithError(err).Error("PIPELINE: Task failed")
		return result
	}

	meta := Metadata{
		TaskID:    task.ID,
		Algorithm: task.Algorithm,
		Parameter: task.Parameter,
		Value:     task.Value(),
		Rows:      out.Rows,
		Cols:      out.Cols,
		Channels:  out.Channels,
		Duration:  duration,
	}
	if r.evaluator != nil {
		meta.Metrics = r.evaluator.CalculateAll(src, out)
	}
	result.Metadata = meta

	entry = entry.WithFields(logrus.Fields{
		"rows":     out.Rows,
		"cols":     out.Cols,
		"duration": duration,
	})

	if onResult != nil {
		handlerMu.Lock()
		err := onResult(task.ID, out, meta)
		handlerMu.Unlock()
		if err != nil {
			result.Err = fmt.Errorf("task %s: result handler: %w", task.ID, err)
			entry.WithError(err).Error("PIPELINE: Result handler failed")
			return result
		}
	}

	entry.Info("PIPELINE: Task completed")
	return result
}

func checkTaskIDs(tasks []Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		if task.ID == "" {
			return fmt.Errorf("%w: task without id (algorithm %q)", core.ErrInvalidParameter, task.Algorithm)
		}
		if seen[task.ID] {
			return fmt.Errorf("%w: duplicate task id %q", core.ErrInvalidParameter, task.ID)
		}
		seen[task.ID] = true
	}
	return nil
}
