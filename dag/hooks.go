package dag

import (
	"context"
	"time"

	"github.com/kbukum/taskflow/logger"
	"github.com/kbukum/taskflow/observability"
	"github.com/kbukum/taskflow/task"
)

// Hook observes node lifecycle events during a run. Hooks are called from
// worker goroutines; implementations must be safe for concurrent use.
type Hook interface {
	// TaskStarted fires just before a node's body executes.
	TaskStarted(ctx context.Context, id task.Identity)
	// TaskSkipped fires when a node is already complete and its body is not
	// invoked.
	TaskSkipped(ctx context.Context, id task.Identity)
	// TaskDone fires when a node's body returns nil.
	TaskDone(ctx context.Context, id task.Identity, duration time.Duration)
	// TaskFailed fires when a node's body returns an error, or when the node
	// is failed because a dependency failed (err wraps the dependency error).
	TaskFailed(ctx context.Context, id task.Identity, err error)
}

// NopHook implements Hook with no behavior. Embed it to implement a subset.
type NopHook struct{}

func (NopHook) TaskStarted(context.Context, task.Identity)             {}
func (NopHook) TaskSkipped(context.Context, task.Identity)             {}
func (NopHook) TaskDone(context.Context, task.Identity, time.Duration) {}
func (NopHook) TaskFailed(context.Context, task.Identity, error)       {}

// LoggingHook logs node lifecycle events. A zero value logs through the
// global logger.
type LoggingHook struct {
	Log *logger.Logger
}

func (h *LoggingHook) log(ctx context.Context) *logger.Logger {
	l := h.Log
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return l.WithContext(ctx)
}

func (h *LoggingHook) TaskStarted(ctx context.Context, id task.Identity) {
	h.log(ctx).Debug("task started", logger.Fields(logger.FieldTask, id.String()))
}

func (h *LoggingHook) TaskSkipped(ctx context.Context, id task.Identity) {
	h.log(ctx).Debug("task already complete", logger.Fields(logger.FieldTask, id.String()))
}

func (h *LoggingHook) TaskDone(ctx context.Context, id task.Identity, duration time.Duration) {
	h.log(ctx).Info("task done", logger.Fields(
		logger.FieldTask, id.String(),
		logger.FieldDuration, duration.Milliseconds(),
	))
}

func (h *LoggingHook) TaskFailed(ctx context.Context, id task.Identity, err error) {
	h.log(ctx).Error("task failed", logger.Fields(
		logger.FieldTask, id.String(),
		logger.FieldError, err.Error(),
	))
}

// MetricsHook records node outcomes on OpenTelemetry instruments.
type MetricsHook struct {
	NopHook
	Metrics *observability.Metrics
}

func (h *MetricsHook) TaskDone(ctx context.Context, id task.Identity, duration time.Duration) {
	h.Metrics.RecordOperation(ctx, id.Kind, "task.run", "ok", duration)
}

func (h *MetricsHook) TaskFailed(ctx context.Context, id task.Identity, err error) {
	h.Metrics.RecordError(ctx, "task.run", id.Kind)
}
