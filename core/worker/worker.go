package worker

import (
	"fmt"

	"secret-santa-api/core/config"
	"secret-santa-api/core/logger"

	"github.com/hibiken/asynq"
)

// Worker wraps the asynq server and scheduler. Modules register handlers
// and periodic tasks before Start.
type Worker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func New(cfg config.RedisConfig, concurrency int) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
	})

	scheduler := asynq.NewScheduler(redisOpt, nil)

	return &Worker{
		srv:       srv,
		scheduler: scheduler,
		mux:       asynq.NewServeMux(),
	}
}

// HandleFunc registers a task handler.
func (w *Worker) HandleFunc(pattern string, handler asynq.HandlerFunc) {
	w.mux.HandleFunc(pattern, handler)
}

// Schedule registers a periodic task using a cron spec (asynq also accepts
// "@every ..." syntax).
func (w *Worker) Schedule(cronspec string, task *asynq.Task) error {
	entryID, err := w.scheduler.Register(cronspec, task)
	if err != nil {
		return fmt.Errorf("register scheduled task %q: %w", task.Type(), err)
	}
	logger.Info("Worker:Schedule", "task", task.Type(), "cron", cronspec, "entry_id", entryID)
	return nil
}

// Start runs the server and scheduler in background goroutines.
func (w *Worker) Start() error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("start worker server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.srv.Shutdown()
		return fmt.Errorf("start worker scheduler: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler and waits for in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}
