package protocol

import (
	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// Reply is implemented by every record the core emits towards clients
// through the trading reply channel.
type Reply interface {
	// ReplySession identifies the client session the reply is routed to.
	ReplySession() Session
}

// OrderPlacementConfirmation confirms an accepted order placement.
type OrderPlacementConfirmation struct {
	Session    Session
	Instrument domain.InstrumentDescriptor
	Parties    []domain.Party

	VenueOrderId  domain.VenueOrderId
	ClientOrderId *domain.ClientOrderId
	ExecutionId   domain.ExecutionId

	OrderType   domain.OrderType
	Side        domain.Side
	TimeInForce domain.TimeInForce

	OrderPrice    *domain.Price
	OrderQuantity domain.Quantity

	ExpireTime               *domain.UTCTimestamp
	ExpireDate               *domain.LocalDate
	ShortSaleExemptionReason *domain.ShortSaleExemptionReason
}

// OrderPlacementReject rejects an order placement request.
type OrderPlacementReject struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	VenueOrderId  domain.VenueOrderId
	ClientOrderId *domain.ClientOrderId
	ExecutionId   domain.ExecutionId

	RejectText domain.RejectText

	OrderType   *domain.OrderType
	Side        *domain.Side
	TimeInForce *domain.TimeInForce

	OrderPrice    *domain.Price
	OrderQuantity *domain.Quantity
}

// OrderModificationConfirmation confirms an accepted order modification.
type OrderModificationConfirmation struct {
	Session    Session
	Instrument domain.InstrumentDescriptor
	Parties    []domain.Party

	VenueOrderId      domain.VenueOrderId
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId
	ExecutionId       domain.ExecutionId

	OrderType   domain.OrderType
	Side        domain.Side
	TimeInForce domain.TimeInForce
	OrderStatus domain.OrderStatus

	OrderPrice          domain.Price
	OrderQuantity       domain.Quantity
	CumExecutedQuantity domain.Quantity
	LeavesQuantity      domain.Quantity
}

// OrderModificationReject rejects an order modification request.
type OrderModificationReject struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	VenueOrderId      *domain.VenueOrderId
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId

	RejectText domain.RejectText
}

// OrderCancellationConfirmation confirms an accepted order cancellation.
type OrderCancellationConfirmation struct {
	Session    Session
	Instrument domain.InstrumentDescriptor
	Parties    []domain.Party

	VenueOrderId      domain.VenueOrderId
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId
	ExecutionId       domain.ExecutionId

	OrderType   domain.OrderType
	Side        domain.Side
	TimeInForce domain.TimeInForce
	OrderStatus domain.OrderStatus

	OrderPrice          domain.Price
	OrderQuantity       domain.Quantity
	CumExecutedQuantity domain.Quantity
	LeavesQuantity      domain.Quantity

	RejectText *domain.RejectText
}

// OrderCancellationReject rejects an order cancellation request.
type OrderCancellationReject struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	VenueOrderId      *domain.VenueOrderId
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId

	RejectText domain.RejectText
}

// ExecutionReport reports one execution of an order.
type ExecutionReport struct {
	Session    Session
	Instrument domain.InstrumentDescriptor
	Parties    []domain.Party

	VenueOrderId  domain.VenueOrderId
	ClientOrderId *domain.ClientOrderId
	ExecutionId   domain.ExecutionId

	ExecutionType domain.ExecutionType
	OrderStatus   domain.OrderStatus

	OrderType   domain.OrderType
	Side        domain.Side
	TimeInForce domain.TimeInForce

	ExecutedPrice    *domain.Price
	ExecutedQuantity *domain.Quantity

	OrderPrice          *domain.Price
	OrderQuantity       domain.Quantity
	CumExecutedQuantity domain.Quantity
	LeavesQuantity      domain.Quantity

	CounterpartyId *domain.PartyId
	RejectText     *domain.RejectText
}

// MarketDataSnapshot is a one-shot description of the current book state
// sent to a subscriber.
type MarketDataSnapshot struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	RequestId *domain.MdRequestId
	Entries   []domain.MarketDataEntry
}

// MarketDataUpdate is an incremental book update sent to a subscriber.
type MarketDataUpdate struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	RequestId *domain.MdRequestId
	Entries   []domain.MarketDataEntry
}

// MarketDataReject rejects a market data request.
type MarketDataReject struct {
	Session Session

	RequestId  *domain.MdRequestId
	Reason     domain.MdRejectReason
	RejectText domain.RejectText
}

// SecurityStatus reports the current trading phase of an instrument to
// a security status subscriber.
type SecurityStatus struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	RequestId     *domain.SecurityStatusReqId
	TradingPhase  domain.TradingPhase
	TradingStatus domain.TradingStatus
}

// InstrumentState is the synchronous top-of-book reply for an
// InstrumentStateRequest.
type InstrumentState struct {
	Instrument domain.InstrumentDescriptor

	BestBidPrice      *domain.Price
	CurrentBidDepth   *domain.Quantity
	BestOfferPrice    *domain.Price
	CurrentOfferDepth *domain.Quantity
}

// BusinessMessageReject reports a structural problem with a request that
// cannot be answered with an operation-specific reject.
type BusinessMessageReject struct {
	Session Session

	Reason         domain.BusinessRejectReason
	Text           domain.RejectText
	RefMessageType *domain.RejectedMessageType
	RefSeqNum      domain.SeqNum
	RefId          *string
}

func (r OrderPlacementConfirmation) ReplySession() Session    { return r.Session }
func (r OrderPlacementReject) ReplySession() Session          { return r.Session }
func (r OrderModificationConfirmation) ReplySession() Session { return r.Session }
func (r OrderModificationReject) ReplySession() Session       { return r.Session }
func (r OrderCancellationConfirmation) ReplySession() Session { return r.Session }
func (r OrderCancellationReject) ReplySession() Session       { return r.Session }
func (r ExecutionReport) ReplySession() Session               { return r.Session }
func (r MarketDataSnapshot) ReplySession() Session            { return r.Session }
func (r MarketDataUpdate) ReplySession() Session              { return r.Session }
func (r MarketDataReject) ReplySession() Session              { return r.Session }
func (r SecurityStatus) ReplySession() Session                { return r.Session }
func (r BusinessMessageReject) ReplySession() Session         { return r.Session }
