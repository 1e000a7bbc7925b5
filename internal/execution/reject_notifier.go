package execution

import (
	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/middleware"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// Stable texts for routing rejections.
const (
	rejectUnknownInstrument   = "unknown instrument"
	rejectAmbiguousDescriptor = "ambiguous instrument descriptor"
	rejectEmptyDescriptor     = "instrument descriptor is empty"
	rejectNoInstruments       = "no instruments requested"
	rejectMultipleInstruments = "multiple instruments requested"
)

// RejectNotifier composes typed rejections for requests that cannot be
// routed to an engine and pushes them onto the egress reply channel.
type RejectNotifier struct {
	idGenerator *orderIdGenerator
	logger      *zap.Logger
}

// NewRejectNotifier creates a reject notifier with a fresh identifier
// generator.
func NewRejectNotifier(logger *zap.Logger) *RejectNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RejectNotifier{
		idGenerator: newOrderIdGenerator(),
		logger:      logger,
	}
}

// RejectPlacement rejects an unroutable order placement request.
func (n *RejectNotifier) RejectPlacement(request protocol.OrderPlacementRequest, reason string) {
	venueOrderId := n.idGenerator.GenerateVenueOrderId()
	n.publish(protocol.OrderPlacementReject{
		Session:       request.Session,
		Instrument:    request.Instrument,
		VenueOrderId:  venueOrderId,
		ClientOrderId: request.ClientOrderId,
		ExecutionId:   domain.NewExecutionId(venueOrderId, 1),
		RejectText:    domain.RejectText(reason),
		OrderType:     request.OrderType,
		Side:          request.Side,
		TimeInForce:   request.TimeInForce,
		OrderPrice:    request.OrderPrice,
		OrderQuantity: request.OrderQuantity,
	})
}

// RejectModification rejects an unroutable order modification request.
func (n *RejectNotifier) RejectModification(request protocol.OrderModificationRequest, reason string) {
	n.publish(protocol.OrderModificationReject{
		Session:           request.Session,
		Instrument:        request.Instrument,
		VenueOrderId:      request.VenueOrderId,
		ClientOrderId:     request.ClientOrderId,
		OrigClientOrderId: request.OrigClientOrderId,
		RejectText:        domain.RejectText(reason),
	})
}

// RejectCancellation rejects an unroutable order cancellation request.
func (n *RejectNotifier) RejectCancellation(request protocol.OrderCancellationRequest, reason string) {
	n.publish(protocol.OrderCancellationReject{
		Session:           request.Session,
		Instrument:        request.Instrument,
		VenueOrderId:      request.VenueOrderId,
		ClientOrderId:     request.ClientOrderId,
		OrigClientOrderId: request.OrigClientOrderId,
		RejectText:        domain.RejectText(reason),
	})
}

// RejectMarketData rejects an unroutable market data request.
func (n *RejectNotifier) RejectMarketData(request protocol.MarketDataRequest, reason string) {
	n.publish(protocol.MarketDataReject{
		Session:    request.Session,
		RequestId:  request.RequestId,
		Reason:     domain.MdRejectReasonUnknownSymbol,
		RejectText: domain.RejectText(reason),
	})
}

// NotifyNoInstrumentsRequested rejects a market data request carrying no
// instrument descriptor.
func (n *RejectNotifier) NotifyNoInstrumentsRequested(request protocol.MarketDataRequest) {
	n.publish(protocol.MarketDataReject{
		Session:    request.Session,
		RequestId:  request.RequestId,
		Reason:     domain.MdRejectReasonUnknownSymbol,
		RejectText: rejectNoInstruments,
	})
}

// NotifyMultipleInstrumentsRequested rejects a market data request
// carrying more than one instrument descriptor.
func (n *RejectNotifier) NotifyMultipleInstrumentsRequested(request protocol.MarketDataRequest) {
	n.publish(protocol.MarketDataReject{
		Session:    request.Session,
		RequestId:  request.RequestId,
		Reason:     domain.MdRejectReasonUnknownSymbol,
		RejectText: rejectMultipleInstruments,
	})
}

// RejectSecurityStatus rejects an unroutable security status request.
func (n *RejectNotifier) RejectSecurityStatus(request protocol.SecurityStatusRequest, reason string) {
	messageType := domain.RejectedMessageTypeSecurityStatusRequest
	reject := protocol.BusinessMessageReject{
		Session:        request.Session,
		Reason:         domain.BusinessRejectReasonUnknownSecurity,
		Text:           domain.RejectText(reason),
		RefMessageType: &messageType,
		RefSeqNum:      request.SeqNum,
	}
	if request.RequestId != nil {
		refId := string(*request.RequestId)
		reject.RefId = &refId
	}
	n.publish(reject)
}

func (n *RejectNotifier) publish(reply protocol.Reply) {
	if err := middleware.SendTradingReply(reply); err != nil {
		n.logger.Error("failed to publish rejection",
			zap.Error(err),
		)
	}
}
