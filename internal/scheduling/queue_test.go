package scheduling

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

func TestCommandQueue_Fifo(t *testing.T) {
	queue := NewCommandQueue(8, time.Second)

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, queue.Enqueue(NewReplyingCommand(name, func() []protocol.Reply { return nil })))
	}

	assert.Equal(t, "first", queue.TryDequeue().Name())
	assert.Equal(t, "second", queue.TryDequeue().Name())
	assert.Equal(t, "third", queue.TryDequeue().Name())
	assert.Nil(t, queue.TryDequeue())
}

func TestCommandQueue_EnqueueTimeoutIsHardError(t *testing.T) {
	queue := NewCommandQueue(1, 50*time.Millisecond)

	require.NoError(t, queue.Enqueue(NewReplyingCommand("fill", func() []protocol.Reply { return nil })))

	err := queue.Enqueue(NewReplyingCommand("overflow", func() []protocol.Reply { return nil }))
	assert.ErrorIs(t, err, ErrEnqueueTimeout)
	assert.Equal(t, 1, queue.Len())
}

func TestCommandQueue_BlockedSenderUnblocksOnDequeue(t *testing.T) {
	queue := NewCommandQueue(1, 2*time.Second)
	require.NoError(t, queue.Enqueue(NewReplyingCommand("fill", func() []protocol.Reply { return nil })))

	enqueued := make(chan error, 1)
	go func() {
		enqueued <- queue.Enqueue(NewReplyingCommand("second", func() []protocol.Reply { return nil }))
	}()

	time.Sleep(20 * time.Millisecond)
	require.NotNil(t, queue.TryDequeue())

	select {
	case err := <-enqueued:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("blocked sender never unblocked")
	}
}

func TestActionCommand_WaitBlocksUntilExecuted(t *testing.T) {
	var executed int32
	command := NewActionCommand("store_state", func() {
		atomic.StoreInt32(&executed, 1)
	})

	go command.Execute()
	command.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&executed))
}

func TestEngineRunner_SerialExecutionInSubmissionOrder(t *testing.T) {
	pool, err := NewWorkerPool(4, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer pool.Release()

	queue := NewCommandQueue(128, time.Second)

	var mu sync.Mutex
	var order []int
	var inFlight, maxInFlight int32

	runner := NewEngineRunner("AAPL", queue, pool, nil, zaptest.NewLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		i := i
		wg.Add(1)
		command := NewReplyingCommand("work", func() []protocol.Reply {
			defer wg.Done()
			current := atomic.AddInt32(&inFlight, 1)
			for {
				observed := atomic.LoadInt32(&maxInFlight)
				if current <= observed || atomic.CompareAndSwapInt32(&maxInFlight, observed, current) {
					break
				}
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			atomic.AddInt32(&inFlight, -1)
			return nil
		})
		require.NoError(t, runner.Dispatch(command))
	}
	wg.Wait()

	// The queue is drained by one worker at a time, in submission order.
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
	require.Len(t, order, 64)
	for i, value := range order {
		assert.Equal(t, i, value)
	}
}

func TestEngineRunner_PublishesReplies(t *testing.T) {
	pool, err := NewWorkerPool(2, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer pool.Release()

	var mu sync.Mutex
	var published []protocol.Reply
	publisher := func(replies []protocol.Reply) {
		mu.Lock()
		published = append(published, replies...)
		mu.Unlock()
	}

	runner := NewEngineRunner("AAPL", NewCommandQueue(8, time.Second), pool, publisher, zaptest.NewLogger(t))

	done := make(chan struct{})
	command := NewReplyingCommand("place_order", func() []protocol.Reply {
		defer close(done)
		return []protocol.Reply{protocol.ExecutionReport{}}
	})
	require.NoError(t, runner.Dispatch(command))

	<-done
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(published) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPoolSize(t *testing.T) {
	assert.Equal(t, 1, PoolSize(1))
	assert.Equal(t, 1, PoolSize(0))
	assert.LessOrEqual(t, PoolSize(10_000), 10_000)
}
