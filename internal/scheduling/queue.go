package scheduling

import (
	"time"

	simerrors "github.com/abdoElHodaky/marketsim/internal/common/errors"
)

// Queue defaults applied when the configuration leaves them unset.
const (
	DefaultQueueCapacity  = 1024
	DefaultEnqueueTimeout = 5 * time.Second
)

// ErrEnqueueTimeout is reported to the sender when an engine queue stays
// full past the configured timeout. Commands are never dropped silently.
var ErrEnqueueTimeout = simerrors.New(
	simerrors.ErrorCode("QUEUE_TIMEOUT"), "engine command queue is full")

// CommandQueue is the bounded FIFO queue of one engine. Senders block
// while the queue is full; a queue is drained by at most one worker at
// a time.
type CommandQueue struct {
	commands chan *Command
	timeout  time.Duration
}

// NewCommandQueue creates a bounded command queue. Non-positive
// parameters fall back to the defaults.
func NewCommandQueue(capacity int, enqueueTimeout time.Duration) *CommandQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	if enqueueTimeout <= 0 {
		enqueueTimeout = DefaultEnqueueTimeout
	}
	return &CommandQueue{
		commands: make(chan *Command, capacity),
		timeout:  enqueueTimeout,
	}
}

// Enqueue appends a command, blocking while the queue is full. Timeout
// expiry is a hard error to the caller.
func (q *CommandQueue) Enqueue(command *Command) error {
	select {
	case q.commands <- command:
		return nil
	default:
	}

	timer := time.NewTimer(q.timeout)
	defer timer.Stop()
	select {
	case q.commands <- command:
		return nil
	case <-timer.C:
		return ErrEnqueueTimeout
	}
}

// TryDequeue removes the oldest pending command, or returns nil when
// the queue is empty.
func (q *CommandQueue) TryDequeue() *Command {
	select {
	case command := <-q.commands:
		return command
	default:
		return nil
	}
}

// Len returns the number of pending commands.
func (q *CommandQueue) Len() int { return len(q.commands) }
