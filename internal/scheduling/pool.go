package scheduling

import (
	"runtime"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// WorkerPool is the bounded pool of workers draining engine command
// queues. Work distribution across queues is delegated to ants; the
// per-engine serial execution guarantee is enforced by the runners.
type WorkerPool struct {
	pool   *ants.Pool
	logger *zap.Logger
}

// PoolSize computes the worker count: min(instruments, cpu_count), at
// least one.
func PoolSize(instruments int) int {
	size := runtime.NumCPU()
	if instruments < size {
		size = instruments
	}
	if size < 1 {
		size = 1
	}
	return size
}

// NewWorkerPool creates a worker pool of the given size.
func NewWorkerPool(size int, logger *zap.Logger) (*WorkerPool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size < 1 {
		size = 1
	}

	pool, err := ants.NewPool(size, ants.WithOptions(ants.Options{
		PanicHandler: func(v interface{}) {
			logger.Error("panic in queue worker",
				zap.Any("panic", v))
		},
	}))
	if err != nil {
		return nil, err
	}

	logger.Info("worker pool started",
		zap.Int("workers", size),
	)

	return &WorkerPool{pool: pool, logger: logger}, nil
}

// Submit schedules a task on the pool.
func (p *WorkerPool) Submit(task func()) error {
	return p.pool.Submit(task)
}

// Release joins the pool on shutdown.
func (p *WorkerPool) Release() {
	p.pool.Release()
	p.logger.Info("worker pool released")
}
