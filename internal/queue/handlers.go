package queue

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandlersRegistry collects task handlers before the worker starts. Every
// handler is wrapped so failures are logged with the task type attached,
// since asynq retries silently otherwise.
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{
		mux: asynq.NewServeMux(),
	}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		if err := handler.ProcessTask(ctx, t); err != nil {
			slog.Error("task failed", "type", taskType, "error", err)
			return err
		}
		return nil
	}))
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}
