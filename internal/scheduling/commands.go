package scheduling

import (
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// Command is one unit of work executed under an engine's exclusive
// ownership. Three shapes exist:
//
//   - replying commands return the reply batch collected by the engine,
//     which the worker publishes through the egress channel;
//   - action commands have a void result and signal completion through
//     the done channel (state capture, store, recover);
//   - event commands are replying commands emitted by the event loop
//     rather than a client request.
type Command struct {
	name string
	run  func() []protocol.Reply
	done chan struct{}
}

// NewReplyingCommand creates a command whose reply batch is published
// after execution.
func NewReplyingCommand(name string, run func() []protocol.Reply) *Command {
	return &Command{name: name, run: run}
}

// NewActionCommand creates a void command. Wait blocks until a worker
// executed it.
func NewActionCommand(name string, run func()) *Command {
	return &Command{
		name: name,
		run: func() []protocol.Reply {
			run()
			return nil
		},
		done: make(chan struct{}),
	}
}

// NewEventCommand creates a command for a tick, phase transition or
// session termination event.
func NewEventCommand(name string, run func() []protocol.Reply) *Command {
	return &Command{name: name, run: run}
}

// Name identifies the command in logs and metrics.
func (c *Command) Name() string { return c.name }

// Execute runs the command and returns the collected replies.
func (c *Command) Execute() []protocol.Reply {
	replies := c.run()
	if c.done != nil {
		close(c.done)
	}
	return replies
}

// Wait blocks until an action command completed. Replying commands
// return immediately.
func (c *Command) Wait() {
	if c.done != nil {
		<-c.done
	}
}
