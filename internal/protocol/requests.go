package protocol

import (
	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// OrderPlacementRequest asks an engine to accept a new order.
type OrderPlacementRequest struct {
	Session    Session
	Instrument domain.InstrumentDescriptor
	Parties    []domain.Party

	OrderType   *domain.OrderType
	Side        *domain.Side
	TimeInForce *domain.TimeInForce

	OrderPrice    *domain.Price
	OrderQuantity *domain.Quantity

	ClientOrderId *domain.ClientOrderId

	ExpireTime               *domain.UTCTimestamp
	ExpireDate               *domain.LocalDate
	ShortSaleExemptionReason *domain.ShortSaleExemptionReason

	SeqNum domain.SeqNum
}

// OrderModificationRequest asks an engine to change a resting order.
// The target order is addressed by VenueOrderId when present, otherwise
// by OrigClientOrderId.
type OrderModificationRequest struct {
	Session    Session
	Instrument domain.InstrumentDescriptor
	Parties    []domain.Party

	VenueOrderId      *domain.VenueOrderId
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId

	OrderType   *domain.OrderType
	Side        *domain.Side
	TimeInForce *domain.TimeInForce

	OrderPrice    *domain.Price
	OrderQuantity *domain.Quantity

	ExpireTime               *domain.UTCTimestamp
	ExpireDate               *domain.LocalDate
	ShortSaleExemptionReason *domain.ShortSaleExemptionReason

	SeqNum domain.SeqNum
}

// OrderCancellationRequest asks an engine to cancel a resting order.
type OrderCancellationRequest struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	VenueOrderId      *domain.VenueOrderId
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId

	Side *domain.Side

	SeqNum domain.SeqNum
}

// MarketDataRequest installs, removes or polls a market data subscription.
// A valid request targets exactly one instrument.
type MarketDataRequest struct {
	Session     Session
	Instruments []domain.InstrumentDescriptor

	RequestId   *domain.MdRequestId
	RequestType *domain.MdSubscriptionRequestType
	UpdateType  *domain.MarketDataUpdateType
	MarketDepth *domain.MarketDepth
	EntryTypes  []domain.MdEntryType

	SeqNum domain.SeqNum
}

// SecurityStatusRequest installs, removes or polls a security status
// subscription.
type SecurityStatusRequest struct {
	Session    Session
	Instrument domain.InstrumentDescriptor

	RequestId   *domain.SecurityStatusReqId
	RequestType *domain.MdSubscriptionRequestType

	SeqNum domain.SeqNum
}

// InstrumentStateRequest asks for the synchronous top-of-book state of
// one instrument. The reply record is filled in place.
type InstrumentStateRequest struct {
	Instrument domain.InstrumentDescriptor
}

// SessionTerminatedEvent announces that a client session disappeared.
type SessionTerminatedEvent struct {
	Session Session
}
