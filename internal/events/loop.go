package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// Broadcaster fans events out to every engine. Implementations enqueue
// onto engine command queues; the loop goroutine never runs engine code.
type Broadcaster interface {
	BroadcastTick(event Tick)
	BroadcastPhaseTransition(event PhaseTransition)
}

// DefaultTickInterval is used when the configuration does not override
// the timer period.
const DefaultTickInterval = 100 * time.Millisecond

// Loop is the single-threaded phase/tick event loop. On each timer tick
// it emits a Tick event; administrative halt/resume and phase changes
// emit PhaseTransition events.
type Loop struct {
	interval    time.Duration
	broadcaster Broadcaster
	logger      *zap.Logger

	mu    sync.Mutex
	phase domain.MarketPhase
	stop  chan struct{}
	done  chan struct{}
}

// NewLoop creates an event loop. A non-positive interval falls back to
// DefaultTickInterval.
func NewLoop(interval time.Duration, broadcaster Broadcaster, logger *zap.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		interval:    interval,
		broadcaster: broadcaster,
		logger:      logger,
		phase:       domain.MarketPhaseOpen(),
	}
}

// Start launches the loop goroutine. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(l.stop, l.done)

	l.logger.Info("event loop started",
		zap.Duration("tickInterval", l.interval),
	)
}

// Stop terminates the loop goroutine and waits for it to exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	stop, done := l.stop, l.done
	l.stop, l.done = nil, nil
	l.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	l.logger.Info("event loop stopped")
}

func (l *Loop) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.broadcaster.BroadcastTick(Tick{Now: now})
		case <-stop:
			return
		}
	}
}

// CurrentPhase returns the phase last announced by the loop.
func (l *Loop) CurrentPhase() domain.MarketPhase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Halt suspends matching, keeping the current trading phase.
func (l *Loop) Halt() {
	l.transition(func(phase domain.MarketPhase) domain.MarketPhase {
		phase.Status = domain.TradingStatusHalt
		return phase
	})
}

// Resume re-enables matching, keeping the current trading phase.
func (l *Loop) Resume() {
	l.transition(func(phase domain.MarketPhase) domain.MarketPhase {
		phase.Status = domain.TradingStatusResume
		return phase
	})
}

// SetTradingPhase announces a scheduled trading phase change.
func (l *Loop) SetTradingPhase(tradingPhase domain.TradingPhase) {
	l.transition(func(phase domain.MarketPhase) domain.MarketPhase {
		phase.Phase = tradingPhase
		return phase
	})
}

func (l *Loop) transition(change func(domain.MarketPhase) domain.MarketPhase) {
	l.mu.Lock()
	next := change(l.phase)
	changed := next != l.phase
	l.phase = next
	l.mu.Unlock()

	if !changed {
		return
	}

	l.logger.Info("market phase transition",
		zap.String("phase", next.String()),
	)
	l.broadcaster.BroadcastPhaseTransition(PhaseTransition{Phase: next})
}
