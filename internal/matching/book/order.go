package book

import (
	"time"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// LimitOrder is a resting order owned by the book. The book mutates it
// only through matching and modification on the owning engine's worker.
type LimitOrder struct {
	OrderId domain.OrderId

	ClientSession     protocol.Session
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId

	// Original client view, preserved for replies.
	ClientInstrumentDescriptor domain.InstrumentDescriptor
	OrderParties               []domain.Party

	Side        domain.Side
	OrderType   domain.OrderType
	TimeInForce domain.TimeInForce

	OrderPrice          domain.Price
	TotalQuantity       domain.Quantity
	CumExecutedQuantity domain.Quantity

	OrderStatus domain.OrderStatus

	// Engine-local wall clock at acceptance, microsecond precision.
	OrderTime time.Time

	ExpireTime               *domain.UTCTimestamp
	ExpireDate               *domain.LocalDate
	ShortSaleExemptionReason *domain.ShortSaleExemptionReason

	executionSeq uint64
}

// LeavesQuantity is the quantity still open for execution.
func (o *LimitOrder) LeavesQuantity() domain.Quantity {
	return domain.NewQuantity(o.TotalQuantity.Value() - o.CumExecutedQuantity.Value())
}

// VenueOrderId is the wire identifier of the order.
func (o *LimitOrder) VenueOrderId() domain.VenueOrderId {
	return domain.NewVenueOrderId(o.OrderId)
}

// NextExecutionId mints the next execution identifier for the order.
// Sequences start at 1 and never repeat for one order.
func (o *LimitOrder) NextExecutionId() domain.ExecutionId {
	o.executionSeq++
	return domain.NewExecutionId(o.VenueOrderId(), o.executionSeq)
}

// Expired reports whether the order's lifetime has ended at the given
// instant. Day orders expire when now is past the acceptance day.
func (o *LimitOrder) Expired(now time.Time) bool {
	switch o.TimeInForce {
	case domain.TimeInForceDay:
		accepted := domain.NewLocalDate(o.OrderTime)
		return !now.Before(accepted.EndOfDay(now.Location()))
	case domain.TimeInForceGoodTillDate:
		if o.ExpireTime != nil {
			return !now.Before(o.ExpireTime.Time())
		}
		if o.ExpireDate != nil {
			return !now.Before(o.ExpireDate.EndOfDay(now.Location()))
		}
	}
	return false
}

// MarketOrder is an aggressing order that never rests. Residual quantity
// is cancelled once the opposite side is exhausted.
type MarketOrder struct {
	OrderId domain.OrderId

	ClientSession     protocol.Session
	ClientOrderId     *domain.ClientOrderId
	OrigClientOrderId *domain.OrigClientOrderId

	ClientInstrumentDescriptor domain.InstrumentDescriptor
	OrderParties               []domain.Party

	Side                domain.Side
	TotalQuantity       domain.Quantity
	CumExecutedQuantity domain.Quantity

	OrderTime time.Time

	ShortSaleExemptionReason *domain.ShortSaleExemptionReason

	executionSeq uint64
}

// LeavesQuantity is the quantity still open for execution.
func (o *MarketOrder) LeavesQuantity() domain.Quantity {
	return domain.NewQuantity(o.TotalQuantity.Value() - o.CumExecutedQuantity.Value())
}

// VenueOrderId is the wire identifier of the order.
func (o *MarketOrder) VenueOrderId() domain.VenueOrderId {
	return domain.NewVenueOrderId(o.OrderId)
}

// NextExecutionId mints the next execution identifier for the order.
func (o *MarketOrder) NextExecutionId() domain.ExecutionId {
	o.executionSeq++
	return domain.NewExecutionId(o.VenueOrderId(), o.executionSeq)
}
