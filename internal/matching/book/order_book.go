package book

import (
	"github.com/shopspring/decimal"

	simerrors "github.com/abdoElHodaky/marketsim/internal/common/errors"
	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// Book errors. These never cross the engine boundary directly; the
// engine converts them into reject notifications.
var (
	ErrOrderNotFound     = simerrors.New(simerrors.ErrOrderNotFound, "order is not present in the book")
	ErrNoEffect          = simerrors.New(simerrors.ErrNoEffect, "modification has no effect on the order")
	ErrUnderflowExecuted = simerrors.New(simerrors.ErrUnderflowExecuted, "modified quantity does not exceed the executed quantity")
)

// priceLevel is a FIFO queue of resting orders at one price.
type priceLevel struct {
	price  domain.Price
	orders []*LimitOrder
}

func (l *priceLevel) aggregatedQuantity() domain.Quantity {
	var total float64
	for _, order := range l.orders {
		total += order.LeavesQuantity().Value()
	}
	return domain.NewQuantity(total)
}

// bookSide holds price levels in book order: best level first. Buy side
// is ordered by price descending, sell side ascending.
type bookSide struct {
	buy    bool
	levels []*priceLevel
}

// beats reports whether price a is closer to the top than price b.
func (s *bookSide) beats(a, b domain.Price) bool {
	if s.buy {
		return a.Value() > b.Value()
	}
	return a.Value() < b.Value()
}

// levelFor returns the level at the exact price, creating it in book
// order when absent.
func (s *bookSide) levelFor(price domain.Price) *priceLevel {
	for idx, level := range s.levels {
		if level.price == price {
			return level
		}
		if s.beats(price, level.price) {
			created := &priceLevel{price: price}
			s.levels = append(s.levels, nil)
			copy(s.levels[idx+1:], s.levels[idx:])
			s.levels[idx] = created
			return created
		}
	}
	created := &priceLevel{price: price}
	s.levels = append(s.levels, created)
	return created
}

func (s *bookSide) removeOrder(order *LimitOrder) bool {
	for levelIdx, level := range s.levels {
		for orderIdx, resting := range level.orders {
			if resting.OrderId != order.OrderId {
				continue
			}
			level.orders = append(level.orders[:orderIdx], level.orders[orderIdx+1:]...)
			if len(level.orders) == 0 {
				s.levels = append(s.levels[:levelIdx], s.levels[levelIdx+1:]...)
			}
			return true
		}
	}
	return false
}

// OrderBook holds the two price-ordered sides of resting limit orders
// for one instrument. It is owned exclusively by the engine's queue
// worker and performs no internal locking.
type OrderBook struct {
	buySide  bookSide
	sellSide bookSide
	index    map[domain.OrderId]*LimitOrder
}

// NewOrderBook creates an empty order book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		buySide:  bookSide{buy: true},
		sellSide: bookSide{buy: false},
		index:    make(map[domain.OrderId]*LimitOrder),
	}
}

func (b *OrderBook) side(side domain.Side) *bookSide {
	if side == domain.SideBuy {
		return &b.buySide
	}
	return &b.sellSide
}

// Empty reports whether no order is resting on either side.
func (b *OrderBook) Empty() bool { return len(b.index) == 0 }

// Insert places the order at the tail of its price level. The level is
// created if absent.
func (b *OrderBook) Insert(order *LimitOrder) {
	level := b.side(order.Side).levelFor(order.OrderPrice)
	level.orders = append(level.orders, order)
	b.index[order.OrderId] = order
}

// Lookup finds a resting order by identifier.
func (b *OrderBook) Lookup(orderId domain.OrderId) (*LimitOrder, bool) {
	order, ok := b.index[orderId]
	return order, ok
}

// FindByClientOrderId scans for a resting order satisfying the match
// predicate, in book order. Used to address orders by their
// client-assigned identifiers.
func (b *OrderBook) FindByClientOrderId(match func(order *LimitOrder) bool) (*LimitOrder, bool) {
	for _, side := range []*bookSide{&b.buySide, &b.sellSide} {
		for _, level := range side.levels {
			for _, order := range level.orders {
				if match(order) {
					return order, true
				}
			}
		}
	}
	return nil, false
}

// LimitUpdate is the diff applied by an order modification.
type LimitUpdate struct {
	OrderPrice    domain.Price
	TotalQuantity domain.Quantity
	TimeInForce   domain.TimeInForce
	ExpireTime    *domain.UTCTimestamp
	ExpireDate    *domain.LocalDate
}

// Modify applies a diff to a resting order. A price change, or a
// quantity increase past the executed quantity, moves the order to the
// tail of its (possibly new) price level; a pure quantity decrease
// preserves book position. The order status becomes Modified.
func (b *OrderBook) Modify(orderId domain.OrderId, update LimitUpdate) (*LimitOrder, error) {
	order, ok := b.index[orderId]
	if !ok {
		return nil, ErrOrderNotFound
	}

	priceChanged := update.OrderPrice != order.OrderPrice
	quantityChanged := update.TotalQuantity != order.TotalQuantity

	if !priceChanged && !quantityChanged &&
		update.TimeInForce == order.TimeInForce &&
		equalExpiry(order, update) {
		return nil, ErrNoEffect
	}

	if update.TotalQuantity.Value() <= order.CumExecutedQuantity.Value() {
		return nil, ErrUnderflowExecuted
	}

	quantityIncreased := update.TotalQuantity.Value() > order.TotalQuantity.Value()

	if priceChanged || quantityIncreased {
		side := b.side(order.Side)
		side.removeOrder(order)
		order.OrderPrice = update.OrderPrice
		order.TotalQuantity = update.TotalQuantity
		level := side.levelFor(order.OrderPrice)
		level.orders = append(level.orders, order)
	} else {
		order.TotalQuantity = update.TotalQuantity
	}

	order.TimeInForce = update.TimeInForce
	order.ExpireTime = update.ExpireTime
	order.ExpireDate = update.ExpireDate
	order.OrderStatus = domain.OrderStatusModified

	return order, nil
}

func equalExpiry(order *LimitOrder, update LimitUpdate) bool {
	switch {
	case order.ExpireTime == nil && update.ExpireTime != nil,
		order.ExpireTime != nil && update.ExpireTime == nil,
		order.ExpireDate == nil && update.ExpireDate != nil,
		order.ExpireDate != nil && update.ExpireDate == nil:
		return false
	}
	if order.ExpireTime != nil && !order.ExpireTime.Equal(*update.ExpireTime) {
		return false
	}
	if order.ExpireDate != nil && !order.ExpireDate.Equal(*update.ExpireDate) {
		return false
	}
	return true
}

// Cancel removes a resting order and returns its last state.
func (b *OrderBook) Cancel(orderId domain.OrderId) (*LimitOrder, error) {
	order, ok := b.index[orderId]
	if !ok {
		return nil, ErrOrderNotFound
	}
	b.Remove(order)
	return order, nil
}

// Remove detaches an order from its level and the index.
func (b *OrderBook) Remove(order *LimitOrder) {
	b.side(order.Side).removeOrder(order)
	delete(b.index, order.OrderId)
}

// Best returns the price and aggregated quantity of the top level of a
// side, or ok=false if the side is empty.
func (b *OrderBook) Best(side domain.Side) (domain.Price, domain.Quantity, bool) {
	levels := b.side(side).levels
	if len(levels) == 0 {
		return 0, 0, false
	}
	top := levels[0]
	return top.price, top.aggregatedQuantity(), true
}

// ForEachPriceLevel visits price levels of a side in book order,
// aggregating quantity per level.
func (b *OrderBook) ForEachPriceLevel(side domain.Side, visit func(price domain.Price, quantity domain.Quantity) bool) {
	for _, level := range b.side(side).levels {
		if !visit(level.price, level.aggregatedQuantity()) {
			return
		}
	}
}

// CollectOrders returns the resting orders of a side in book order:
// levels best-first, FIFO within a level.
func (b *OrderBook) CollectOrders(side domain.Side) []*LimitOrder {
	var orders []*LimitOrder
	for _, level := range b.side(side).levels {
		orders = append(orders, level.orders...)
	}
	return orders
}

// TakeMatching removes and returns every resting order satisfying the
// predicate, in book order across both sides.
func (b *OrderBook) TakeMatching(predicate func(order *LimitOrder) bool) []*LimitOrder {
	var taken []*LimitOrder
	for _, side := range []domain.Side{domain.SideBuy, domain.SideSell} {
		for _, order := range b.CollectOrders(side) {
			if predicate(order) {
				b.Remove(order)
				taken = append(taken, order)
			}
		}
	}
	return taken
}

// Execution is one step of the matching loop: the resting counterparty,
// the executed price and quantity, and whether the resting order was
// fully consumed (and removed).
type Execution struct {
	Resting       *LimitOrder
	Price         domain.Price
	Quantity      domain.Quantity
	RestingFilled bool
}

// CrossableQuantity is the total resting quantity an aggressor of the
// given side could execute against. A nil limit price crosses every
// level (market order).
func (b *OrderBook) CrossableQuantity(aggressorSide domain.Side, limitPrice *domain.Price) domain.Quantity {
	opposite := b.side(aggressorSide.Opposite())
	var total float64
	for _, level := range opposite.levels {
		if limitPrice != nil && !crosses(aggressorSide, *limitPrice, level.price) {
			break
		}
		total += level.aggregatedQuantity().Value()
	}
	return domain.NewQuantity(total)
}

// MatchAggressor executes an aggressing order against the opposite side
// under price-time priority. Resting orders are mutated in place; fully
// consumed orders (and emptied levels) are removed. The execution price
// is always the resting order's price. Executed quantities are truncated
// to a whole multiple of quantityTick.
func (b *OrderBook) MatchAggressor(
	aggressorSide domain.Side,
	limitPrice *domain.Price,
	leavesQuantity domain.Quantity,
	quantityTick domain.Quantity,
) []Execution {
	opposite := b.side(aggressorSide.Opposite())
	var executions []Execution
	remaining := leavesQuantity.Value()

	for remaining > 0 && len(opposite.levels) > 0 {
		top := opposite.levels[0]
		if limitPrice != nil && !crosses(aggressorSide, *limitPrice, top.price) {
			break
		}

		resting := top.orders[0]
		executed := truncateToTick(
			minFloat(remaining, resting.LeavesQuantity().Value()), quantityTick)
		if executed.Value() <= 0 {
			break
		}

		resting.CumExecutedQuantity = domain.NewQuantity(
			resting.CumExecutedQuantity.Value() + executed.Value())
		remaining -= executed.Value()

		restingFilled := resting.LeavesQuantity().Value() <= 0
		if restingFilled {
			resting.OrderStatus = domain.OrderStatusFilled
			b.Remove(resting)
		} else {
			resting.OrderStatus = domain.OrderStatusPartiallyFilled
		}

		executions = append(executions, Execution{
			Resting:       resting,
			Price:         top.price,
			Quantity:      executed,
			RestingFilled: restingFilled,
		})
	}

	return executions
}

// crosses reports whether an aggressor limit price crosses a resting
// level price.
func crosses(aggressorSide domain.Side, limitPrice, levelPrice domain.Price) bool {
	if aggressorSide == domain.SideBuy {
		return limitPrice.Value() >= levelPrice.Value()
	}
	return limitPrice.Value() <= levelPrice.Value()
}

func truncateToTick(quantity float64, tick domain.Quantity) domain.Quantity {
	if tick.Value() <= 0 {
		return domain.NewQuantity(quantity)
	}
	ticks := decimal.NewFromFloat(quantity).
		Div(decimal.NewFromFloat(tick.Value())).
		Floor()
	truncated, _ := ticks.Mul(decimal.NewFromFloat(tick.Value())).Float64()
	return domain.NewQuantity(truncated)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
