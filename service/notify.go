package service

import (
	"errors"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NotifyTask is one unit of background delivery work (an email or an SMS).
type NotifyTask struct {
	Name string
	Run  func() error
}

// NotifyQueue decouples notification delivery from request handling and
// from the transactions that trigger it. Delivery failures are logged and
// swallowed; they can never roll back an already-committed state change.
type NotifyQueue struct {
	tasks   chan *NotifyTask
	workers int
}

// NewNotifyQueue initializes a new queue that limits the max amount of
// deliveries that can be waiting at once
func NewNotifyQueue() *NotifyQueue {
	workers := viper.GetInt("notify.workers")
	size := viper.GetInt("notify.queue_size")

	zap.L().Debug("Initializing notify queue",
		zap.Int("workers", workers),
		zap.Int("queue_size", size))

	return &NotifyQueue{
		tasks:   make(chan *NotifyTask, size),
		workers: workers,
	}
}

func (q *NotifyQueue) StartWorkerPool() {
	for n := 0; n < q.workers; n++ {
		go q.worker()
	}
}

func (q *NotifyQueue) worker() {
	for task := range q.tasks {
		if err := task.Run(); err != nil {
			zap.L().Error("Notification delivery failed",
				zap.String("task", task.Name),
				zap.Error(err))
		} else {
			zap.L().Debug("Notification delivered", zap.String("task", task.Name))
		}
	}
}

// Enqueue hands a task to the worker pool without blocking the caller. A
// full queue drops the task, which is acceptable for best-effort delivery.
func (q *NotifyQueue) Enqueue(task *NotifyTask) error {
	select {
	case q.tasks <- task:
		return nil
	default:
		return errors.New("notify queue full")
	}
}
