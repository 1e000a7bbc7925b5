// Package middleware provides the process-wide named channels binding
// protocol adapters to the trading core. A channel is a named slot
// holding at most one receiver; sends dispatch synchronously on the
// calling goroutine. Binding a new receiver replaces any previous one.
package middleware

import (
	"sync"

	simerrors "github.com/abdoElHodaky/marketsim/internal/common/errors"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// ErrChannelUnbound is reported when a message is sent to a channel with
// no bound receiver.
var ErrChannelUnbound = simerrors.New(
	simerrors.ErrChannelUnbound, "channel is not bound to a receiver")

// TradingRequestReceiver consumes the trading request records decoded by
// protocol adapters.
type TradingRequestReceiver interface {
	ExecuteOrderPlacementRequest(request protocol.OrderPlacementRequest)
	ExecuteOrderModificationRequest(request protocol.OrderModificationRequest)
	ExecuteOrderCancellationRequest(request protocol.OrderCancellationRequest)
	ExecuteMarketDataRequest(request protocol.MarketDataRequest)
	ExecuteSecurityStatusRequest(request protocol.SecurityStatusRequest)
	ExecuteInstrumentStateRequest(request protocol.InstrumentStateRequest, reply *protocol.InstrumentState)
}

// TradingReplyReceiver consumes the reply records produced by the core,
// normally the egress protocol adapter.
type TradingReplyReceiver interface {
	PublishTradingReply(reply protocol.Reply)
}

// TradingSessionEventReceiver consumes session lifecycle events.
type TradingSessionEventReceiver interface {
	HandleSessionTerminated(event protocol.SessionTerminatedEvent)
}

// GeneratorAdminReceiver consumes administrative generator requests.
type GeneratorAdminReceiver interface {
	StartGeneration(request protocol.StartGenerationRequest, reply *protocol.StartGenerationReply)
	StopGeneration(request protocol.StopGenerationRequest, reply *protocol.StopGenerationReply)
	GenerationStatus(request protocol.GenerationStatusRequest, reply *protocol.GenerationStatusReply)
}

// channel is a single-receiver slot. Rebinding is serialised against
// sends by the internal lock.
type channel[R any] struct {
	mu       sync.RWMutex
	receiver *R
}

func (c *channel[R]) bind(receiver R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiver = &receiver
}

func (c *channel[R]) unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiver = nil
}

func (c *channel[R]) send(dispatch func(receiver R)) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.receiver == nil {
		return ErrChannelUnbound
	}
	dispatch(*c.receiver)
	return nil
}

var (
	tradingRequestChannel      channel[TradingRequestReceiver]
	tradingReplyChannel        channel[TradingReplyReceiver]
	tradingSessionEventChannel channel[TradingSessionEventReceiver]
	generatorAdminChannel      channel[GeneratorAdminReceiver]
)

// BindTradingRequestChannel binds the trading request channel receiver,
// replacing any previous one.
func BindTradingRequestChannel(receiver TradingRequestReceiver) {
	tradingRequestChannel.bind(receiver)
}

// UnbindTradingRequestChannel removes the trading request channel receiver.
func UnbindTradingRequestChannel() { tradingRequestChannel.unbind() }

// SendOrderPlacementRequest dispatches a placement request to the bound
// trading request receiver.
func SendOrderPlacementRequest(request protocol.OrderPlacementRequest) error {
	return tradingRequestChannel.send(func(r TradingRequestReceiver) {
		r.ExecuteOrderPlacementRequest(request)
	})
}

// SendOrderModificationRequest dispatches a modification request to the
// bound trading request receiver.
func SendOrderModificationRequest(request protocol.OrderModificationRequest) error {
	return tradingRequestChannel.send(func(r TradingRequestReceiver) {
		r.ExecuteOrderModificationRequest(request)
	})
}

// SendOrderCancellationRequest dispatches a cancellation request to the
// bound trading request receiver.
func SendOrderCancellationRequest(request protocol.OrderCancellationRequest) error {
	return tradingRequestChannel.send(func(r TradingRequestReceiver) {
		r.ExecuteOrderCancellationRequest(request)
	})
}

// SendMarketDataRequest dispatches a market data request to the bound
// trading request receiver.
func SendMarketDataRequest(request protocol.MarketDataRequest) error {
	return tradingRequestChannel.send(func(r TradingRequestReceiver) {
		r.ExecuteMarketDataRequest(request)
	})
}

// SendSecurityStatusRequest dispatches a security status request to the
// bound trading request receiver.
func SendSecurityStatusRequest(request protocol.SecurityStatusRequest) error {
	return tradingRequestChannel.send(func(r TradingRequestReceiver) {
		r.ExecuteSecurityStatusRequest(request)
	})
}

// SendInstrumentStateRequest dispatches a synchronous instrument state
// request; the reply record is filled before the call returns.
func SendInstrumentStateRequest(request protocol.InstrumentStateRequest, reply *protocol.InstrumentState) error {
	return tradingRequestChannel.send(func(r TradingRequestReceiver) {
		r.ExecuteInstrumentStateRequest(request, reply)
	})
}

// BindTradingReplyChannel binds the trading reply channel receiver,
// replacing any previous one.
func BindTradingReplyChannel(receiver TradingReplyReceiver) {
	tradingReplyChannel.bind(receiver)
}

// UnbindTradingReplyChannel removes the trading reply channel receiver.
func UnbindTradingReplyChannel() { tradingReplyChannel.unbind() }

// SendTradingReply dispatches a reply record to the bound egress receiver.
func SendTradingReply(reply protocol.Reply) error {
	return tradingReplyChannel.send(func(r TradingReplyReceiver) {
		r.PublishTradingReply(reply)
	})
}

// BindTradingSessionEventChannel binds the session event channel
// receiver, replacing any previous one.
func BindTradingSessionEventChannel(receiver TradingSessionEventReceiver) {
	tradingSessionEventChannel.bind(receiver)
}

// UnbindTradingSessionEventChannel removes the session event channel
// receiver.
func UnbindTradingSessionEventChannel() { tradingSessionEventChannel.unbind() }

// SendSessionTerminatedEvent dispatches a session terminated event to the
// bound receiver.
func SendSessionTerminatedEvent(event protocol.SessionTerminatedEvent) error {
	return tradingSessionEventChannel.send(func(r TradingSessionEventReceiver) {
		r.HandleSessionTerminated(event)
	})
}

// BindGeneratorAdminChannel binds the generator admin channel receiver,
// replacing any previous one.
func BindGeneratorAdminChannel(receiver GeneratorAdminReceiver) {
	generatorAdminChannel.bind(receiver)
}

// UnbindGeneratorAdminChannel removes the generator admin channel receiver.
func UnbindGeneratorAdminChannel() { generatorAdminChannel.unbind() }

// SendStartGenerationRequest dispatches a generator start request.
func SendStartGenerationRequest(request protocol.StartGenerationRequest, reply *protocol.StartGenerationReply) error {
	return generatorAdminChannel.send(func(r GeneratorAdminReceiver) {
		r.StartGeneration(request, reply)
	})
}

// SendStopGenerationRequest dispatches a generator stop request.
func SendStopGenerationRequest(request protocol.StopGenerationRequest, reply *protocol.StopGenerationReply) error {
	return generatorAdminChannel.send(func(r GeneratorAdminReceiver) {
		r.StopGeneration(request, reply)
	})
}

// SendGenerationStatusRequest dispatches a generator status poll.
func SendGenerationStatusRequest(request protocol.GenerationStatusRequest, reply *protocol.GenerationStatusReply) error {
	return generatorAdminChannel.send(func(r GeneratorAdminReceiver) {
		r.GenerationStatus(request, reply)
	})
}
