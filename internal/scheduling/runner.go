package scheduling

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/metrics"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// ReplyPublisher hands a collected reply batch to the egress channel.
type ReplyPublisher func(replies []protocol.Reply)

// EngineRunner pairs one engine queue with the shared worker pool and
// guarantees the queue is drained by at most one worker at a time. That
// per-engine serialisation is the only concurrency guarantee the engine
// relies on.
type EngineRunner struct {
	label     string
	queue     *CommandQueue
	pool      *WorkerPool
	publisher ReplyPublisher
	logger    *zap.Logger

	draining int32
}

// NewEngineRunner creates a runner draining the given queue.
func NewEngineRunner(label string, queue *CommandQueue, pool *WorkerPool, publisher ReplyPublisher, logger *zap.Logger) *EngineRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineRunner{
		label:     label,
		queue:     queue,
		pool:      pool,
		publisher: publisher,
		logger:    logger.With(zap.String("engine", label)),
	}
}

// Dispatch enqueues a command and schedules a drain. Backpressure is
// applied by blocking the sender; enqueue timeout is a hard error.
func (r *EngineRunner) Dispatch(command *Command) error {
	if err := r.queue.Enqueue(command); err != nil {
		r.logger.Error("failed to enqueue command",
			zap.String("command", command.Name()),
			zap.Error(err),
		)
		return err
	}
	metrics.QueueDepth.WithLabelValues(r.label).Set(float64(r.queue.Len()))
	r.scheduleDrain()
	return nil
}

// scheduleDrain submits a drain task unless one is already running for
// this queue. The running drain observes commands enqueued meanwhile, so
// at most one task per queue is ever needed.
func (r *EngineRunner) scheduleDrain() {
	if !atomic.CompareAndSwapInt32(&r.draining, 0, 1) {
		return
	}
	if err := r.pool.Submit(r.drain); err != nil {
		atomic.StoreInt32(&r.draining, 0)
		r.logger.Error("failed to schedule queue drain",
			zap.Error(err),
		)
	}
}

func (r *EngineRunner) drain() {
	for {
		for {
			command := r.queue.TryDequeue()
			if command == nil {
				break
			}
			replies := command.Execute()
			metrics.CommandsProcessed.WithLabelValues(command.Name()).Inc()
			if len(replies) > 0 && r.publisher != nil {
				r.publisher(replies)
			}
		}

		atomic.StoreInt32(&r.draining, 0)
		// Re-check after clearing the flag: a command may have been
		// enqueued between the last dequeue and the store.
		if r.queue.Len() == 0 {
			metrics.QueueDepth.WithLabelValues(r.label).Set(0)
			return
		}
		if !atomic.CompareAndSwapInt32(&r.draining, 0, 1) {
			return
		}
	}
}
