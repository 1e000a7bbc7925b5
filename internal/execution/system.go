package execution

import (
	"errors"
	"time"

	"go.uber.org/zap"

	simerrors "github.com/abdoElHodaky/marketsim/internal/common/errors"
	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/events"
	"github.com/abdoElHodaky/marketsim/internal/instruments"
	"github.com/abdoElHodaky/marketsim/internal/marketstate"
	"github.com/abdoElHodaky/marketsim/internal/matching"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
	"github.com/abdoElHodaky/marketsim/internal/scheduling"
)

// Executor is the contract the trading system facade and the persistence
// controller operate against.
type Executor interface {
	ExecuteOrderPlacementRequest(request protocol.OrderPlacementRequest)
	ExecuteOrderModificationRequest(request protocol.OrderModificationRequest)
	ExecuteOrderCancellationRequest(request protocol.OrderCancellationRequest)
	ExecuteMarketDataRequest(request protocol.MarketDataRequest)
	ExecuteSecurityStatusRequest(request protocol.SecurityStatusRequest)
	ExecuteInstrumentStateRequest(request protocol.InstrumentStateRequest, reply *protocol.InstrumentState)

	StoreStateRequest(states []marketstate.InstrumentState)
	RecoverStateRequest(states []marketstate.InstrumentState)

	HandleSessionTerminated(event protocol.SessionTerminatedEvent)
	BroadcastTick(event events.Tick)
	BroadcastPhaseTransition(event events.PhaseTransition)
}

// Config carries the execution system scheduling settings.
type Config struct {
	QueueCapacity  int
	EnqueueTimeout time.Duration
}

// engineBinding pairs one engine with its command queue runner.
type engineBinding struct {
	engine *matching.Engine
	runner *scheduling.EngineRunner
}

// ExecutionSystem routes every inbound request to the engine owning the
// target instrument. The destination is resolved through the instrument
// resolver; resolution failures are answered with typed rejections on
// the egress reply channel. Engines are owned exactly once per
// instrument, in catalogue order.
type ExecutionSystem struct {
	catalogue *instruments.Catalogue
	resolver  instruments.Resolver
	pool      *scheduling.WorkerPool
	rejects   *RejectNotifier
	logger    *zap.Logger

	bindings []*engineBinding
	byId     map[instruments.InstrumentId]*engineBinding
}

// NewExecutionSystem builds one engine, queue and runner per catalogue
// instrument.
func NewExecutionSystem(
	catalogue *instruments.Catalogue,
	resolver instruments.Resolver,
	pool *scheduling.WorkerPool,
	publisher scheduling.ReplyPublisher,
	config Config,
	logger *zap.Logger,
) *ExecutionSystem {
	if logger == nil {
		logger = zap.NewNop()
	}

	system := &ExecutionSystem{
		catalogue: catalogue,
		resolver:  resolver,
		pool:      pool,
		rejects:   NewRejectNotifier(logger),
		logger:    logger,
		byId:      make(map[instruments.InstrumentId]*engineBinding, catalogue.Size()),
	}

	catalogue.ForEach(func(instrument instruments.Instrument) {
		engine := matching.NewEngine(instrument, matching.EngineConfig{}, logger)
		queue := scheduling.NewCommandQueue(config.QueueCapacity, config.EnqueueTimeout)
		runner := scheduling.NewEngineRunner(instrument.Symbol, queue, pool, publisher, logger)

		binding := &engineBinding{engine: engine, runner: runner}
		system.bindings = append(system.bindings, binding)
		system.byId[instrument.Id] = binding
	})

	logger.Info("execution system initialised",
		zap.Int("engines", len(system.bindings)),
	)

	return system
}

// ExecuteOrderPlacementRequest routes an order placement request.
func (s *ExecutionSystem) ExecuteOrderPlacementRequest(request protocol.OrderPlacementRequest) {
	binding, reason := s.resolveBinding(request.Instrument)
	if binding == nil {
		s.rejects.RejectPlacement(request, reason)
		return
	}
	s.dispatch(binding, scheduling.NewReplyingCommand("place_order", func() []protocol.Reply {
		binding.engine.ExecutePlacement(request)
		return binding.engine.CollectNotifications()
	}))
}

// ExecuteOrderModificationRequest routes an order modification request.
func (s *ExecutionSystem) ExecuteOrderModificationRequest(request protocol.OrderModificationRequest) {
	binding, reason := s.resolveBinding(request.Instrument)
	if binding == nil {
		s.rejects.RejectModification(request, reason)
		return
	}
	s.dispatch(binding, scheduling.NewReplyingCommand("amend_order", func() []protocol.Reply {
		binding.engine.ExecuteModification(request)
		return binding.engine.CollectNotifications()
	}))
}

// ExecuteOrderCancellationRequest routes an order cancellation request.
func (s *ExecutionSystem) ExecuteOrderCancellationRequest(request protocol.OrderCancellationRequest) {
	binding, reason := s.resolveBinding(request.Instrument)
	if binding == nil {
		s.rejects.RejectCancellation(request, reason)
		return
	}
	s.dispatch(binding, scheduling.NewReplyingCommand("cancel_order", func() []protocol.Reply {
		binding.engine.ExecuteCancellation(request)
		return binding.engine.CollectNotifications()
	}))
}

// ExecuteMarketDataRequest routes a market data request. A valid request
// targets exactly one instrument.
func (s *ExecutionSystem) ExecuteMarketDataRequest(request protocol.MarketDataRequest) {
	switch {
	case len(request.Instruments) == 0:
		s.rejects.NotifyNoInstrumentsRequested(request)
		return
	case len(request.Instruments) > 1:
		s.rejects.NotifyMultipleInstrumentsRequested(request)
		return
	}

	binding, reason := s.resolveBinding(request.Instruments[0])
	if binding == nil {
		s.rejects.RejectMarketData(request, reason)
		return
	}
	s.dispatch(binding, scheduling.NewReplyingCommand("process_market_data_request", func() []protocol.Reply {
		binding.engine.ExecuteMarketDataRequest(request)
		return binding.engine.CollectNotifications()
	}))
}

// ExecuteSecurityStatusRequest routes a security status request.
func (s *ExecutionSystem) ExecuteSecurityStatusRequest(request protocol.SecurityStatusRequest) {
	binding, reason := s.resolveBinding(request.Instrument)
	if binding == nil {
		s.rejects.RejectSecurityStatus(request, reason)
		return
	}
	s.dispatch(binding, scheduling.NewReplyingCommand("process_security_status_request", func() []protocol.Reply {
		binding.engine.ExecuteSecurityStatusRequest(request)
		return binding.engine.CollectNotifications()
	}))
}

// ExecuteInstrumentStateRequest synchronously fills the top-of-book
// reply for one instrument.
func (s *ExecutionSystem) ExecuteInstrumentStateRequest(request protocol.InstrumentStateRequest, reply *protocol.InstrumentState) {
	binding, _ := s.resolveBinding(request.Instrument)
	if binding == nil {
		reply.Instrument = request.Instrument
		return
	}
	command := scheduling.NewActionCommand("capture_instrument_state", func() {
		binding.engine.ProvideState(reply)
	})
	if err := binding.runner.Dispatch(command); err != nil {
		return
	}
	command.Wait()
}

// StoreStateRequest captures the persisted state of every engine, in
// catalogue order. The call returns after every engine completed.
func (s *ExecutionSystem) StoreStateRequest(states []marketstate.InstrumentState) {
	commands := make([]*scheduling.Command, 0, len(states))
	for idx := range states {
		if idx >= len(s.bindings) {
			break
		}
		binding := s.bindings[idx]
		state := &states[idx]
		command := scheduling.NewActionCommand("store_state", func() {
			binding.engine.StoreState(state)
		})
		if err := binding.runner.Dispatch(command); err != nil {
			continue
		}
		commands = append(commands, command)
	}
	for _, command := range commands {
		command.Wait()
	}
}

// RecoverStateRequest routes each persisted instrument state to the
// engine owning the instrument. Engines are matched by the instrument's
// identifying attributes, not by position. Unmatched states are logged
// and skipped.
func (s *ExecutionSystem) RecoverStateRequest(states []marketstate.InstrumentState) {
	var commands []*scheduling.Command
	for _, state := range states {
		state := state
		instrument, found := s.catalogue.FindByIdentity(
			state.Instrument.Symbol,
			state.Instrument.SecurityExchange,
			state.Instrument.SecurityType,
		)
		if !found {
			s.logger.Warn("no engine matches the recovered instrument state",
				zap.String("symbol", state.Instrument.Symbol),
				zap.String("exchange", state.Instrument.SecurityExchange),
			)
			continue
		}
		binding := s.byId[instrument.Id]
		command := scheduling.NewActionCommand("recover_state", func() {
			binding.engine.RecoverState(state)
		})
		if err := binding.runner.Dispatch(command); err != nil {
			continue
		}
		commands = append(commands, command)
	}
	for _, command := range commands {
		command.Wait()
	}
}

// HandleSessionTerminated fans a session termination out to every
// engine through the normal queue path, so all prior requests from the
// session are observed before cleanup.
func (s *ExecutionSystem) HandleSessionTerminated(event protocol.SessionTerminatedEvent) {
	for _, binding := range s.bindings {
		binding := binding
		s.dispatch(binding, scheduling.NewEventCommand("notify_client_disconnected", func() []protocol.Reply {
			binding.engine.HandleSessionTerminated(event)
			return binding.engine.CollectNotifications()
		}))
	}
}

// BroadcastTick fans a timer tick out to every engine.
func (s *ExecutionSystem) BroadcastTick(event events.Tick) {
	for _, binding := range s.bindings {
		binding := binding
		s.dispatch(binding, scheduling.NewEventCommand("tick", func() []protocol.Reply {
			binding.engine.HandleTick(event.Now)
			return binding.engine.CollectNotifications()
		}))
	}
}

// BroadcastPhaseTransition fans a phase transition out to every engine.
func (s *ExecutionSystem) BroadcastPhaseTransition(event events.PhaseTransition) {
	for _, binding := range s.bindings {
		binding := binding
		s.dispatch(binding, scheduling.NewEventCommand("phase_transition", func() []protocol.Reply {
			binding.engine.HandlePhaseTransition(event.Phase)
			return binding.engine.CollectNotifications()
		}))
	}
}

func (s *ExecutionSystem) dispatch(binding *engineBinding, command *scheduling.Command) {
	if err := binding.runner.Dispatch(command); err != nil {
		s.logger.Error("failed to dispatch command",
			zap.String("command", command.Name()),
			zap.Error(err),
		)
	}
}

// resolveBinding maps a descriptor onto an engine binding, or returns
// the stable rejection text of the resolution failure.
func (s *ExecutionSystem) resolveBinding(descriptor domain.InstrumentDescriptor) (*engineBinding, string) {
	id, err := s.resolver.Resolve(descriptor)
	if err != nil {
		return nil, describeResolutionFailure(err)
	}
	binding, ok := s.byId[id]
	if !ok {
		// The resolver and the registry are built from the same
		// catalogue; a missing binding is a wiring defect.
		s.logger.Error("no engine registered for resolved instrument",
			zap.Uint64("instrumentID", uint64(id)),
		)
		return nil, rejectUnknownInstrument
	}
	return binding, ""
}

func describeResolutionFailure(err error) string {
	switch {
	case errors.Is(err, instruments.ErrAmbiguous),
		simerrors.GetErrorCode(err) == simerrors.ErrInstrumentAmbiguous:
		return rejectAmbiguousDescriptor
	case errors.Is(err, instruments.ErrEmpty),
		simerrors.GetErrorCode(err) == simerrors.ErrDescriptorEmpty:
		return rejectEmptyDescriptor
	default:
		return rejectUnknownInstrument
	}
}
