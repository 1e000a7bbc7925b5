package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

func testSession() protocol.Session {
	return protocol.NewFixSession(protocol.FixSession{
		BeginString:  "FIX.4.4",
		SenderCompId: "CLIENT",
		TargetCompId: "SIM",
	})
}

func limitOrder(id uint64, side domain.Side, price, quantity float64) *LimitOrder {
	return &LimitOrder{
		OrderId:       domain.OrderId(id),
		ClientSession: testSession(),
		Side:          side,
		OrderType:     domain.OrderTypeLimit,
		TimeInForce:   domain.TimeInForceGoodTillCancel,
		OrderPrice:    domain.NewPrice(price),
		TotalQuantity: domain.NewQuantity(quantity),
		OrderStatus:   domain.OrderStatusNew,
		OrderTime:     time.Now(),
	}
}

func TestOrderBook_InsertKeepsSidesOrdered(t *testing.T) {
	orderBook := NewOrderBook()

	orderBook.Insert(limitOrder(1, domain.SideBuy, 10.00, 100))
	orderBook.Insert(limitOrder(2, domain.SideBuy, 10.02, 100))
	orderBook.Insert(limitOrder(3, domain.SideBuy, 10.01, 100))
	orderBook.Insert(limitOrder(4, domain.SideSell, 10.06, 100))
	orderBook.Insert(limitOrder(5, domain.SideSell, 10.04, 100))

	var bidPrices []float64
	orderBook.ForEachPriceLevel(domain.SideBuy, func(price domain.Price, _ domain.Quantity) bool {
		bidPrices = append(bidPrices, price.Value())
		return true
	})
	assert.Equal(t, []float64{10.02, 10.01, 10.00}, bidPrices)

	var offerPrices []float64
	orderBook.ForEachPriceLevel(domain.SideSell, func(price domain.Price, _ domain.Quantity) bool {
		offerPrices = append(offerPrices, price.Value())
		return true
	})
	assert.Equal(t, []float64{10.04, 10.06}, offerPrices)
}

func TestOrderBook_BestAggregatesLevelQuantity(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideBuy, 10.00, 100))
	orderBook.Insert(limitOrder(2, domain.SideBuy, 10.00, 50))

	price, quantity, ok := orderBook.Best(domain.SideBuy)
	require.True(t, ok)
	assert.Equal(t, domain.NewPrice(10.00), price)
	assert.Equal(t, domain.NewQuantity(150), quantity)

	_, _, ok = orderBook.Best(domain.SideSell)
	assert.False(t, ok)
}

func TestOrderBook_FifoWithinLevel(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideSell, 10.00, 40))
	orderBook.Insert(limitOrder(2, domain.SideSell, 10.00, 40))

	executions := orderBook.MatchAggressor(
		domain.SideBuy, pricePtr(10.00), domain.NewQuantity(40), domain.NewQuantity(1))
	require.Len(t, executions, 1)
	assert.Equal(t, domain.OrderId(1), executions[0].Resting.OrderId)
	assert.True(t, executions[0].RestingFilled)
}

func TestOrderBook_MatchUsesRestingPrice(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideSell, 10.00, 50))

	executions := orderBook.MatchAggressor(
		domain.SideBuy, pricePtr(10.05), domain.NewQuantity(50), domain.NewQuantity(1))
	require.Len(t, executions, 1)
	assert.Equal(t, domain.NewPrice(10.00), executions[0].Price)
}

func TestOrderBook_MatchStopsAtLimitPrice(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideSell, 10.00, 50))
	orderBook.Insert(limitOrder(2, domain.SideSell, 10.10, 50))

	executions := orderBook.MatchAggressor(
		domain.SideBuy, pricePtr(10.00), domain.NewQuantity(100), domain.NewQuantity(1))
	require.Len(t, executions, 1)
	assert.Equal(t, domain.OrderId(1), executions[0].Resting.OrderId)

	// The far level survives.
	price, _, ok := orderBook.Best(domain.SideSell)
	require.True(t, ok)
	assert.Equal(t, domain.NewPrice(10.10), price)
}

func TestOrderBook_MarketAggressorCrossesEveryLevel(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideSell, 10.00, 50))
	orderBook.Insert(limitOrder(2, domain.SideSell, 10.10, 50))

	executions := orderBook.MatchAggressor(
		domain.SideBuy, nil, domain.NewQuantity(100), domain.NewQuantity(1))
	require.Len(t, executions, 2)
	assert.True(t, orderBook.Empty())
}

func TestOrderBook_PartialFillKeepsResidual(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideSell, 10.00, 100))

	executions := orderBook.MatchAggressor(
		domain.SideBuy, pricePtr(10.00), domain.NewQuantity(40), domain.NewQuantity(1))
	require.Len(t, executions, 1)
	assert.False(t, executions[0].RestingFilled)
	assert.Equal(t, domain.OrderStatusPartiallyFilled, executions[0].Resting.OrderStatus)
	assert.Equal(t, domain.NewQuantity(60), executions[0].Resting.LeavesQuantity())
}

func TestOrderBook_CrossableQuantity(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideSell, 10.00, 50))
	orderBook.Insert(limitOrder(2, domain.SideSell, 10.10, 70))

	assert.Equal(t, domain.NewQuantity(50),
		orderBook.CrossableQuantity(domain.SideBuy, pricePtr(10.00)))
	assert.Equal(t, domain.NewQuantity(120),
		orderBook.CrossableQuantity(domain.SideBuy, pricePtr(10.10)))
	assert.Equal(t, domain.NewQuantity(120),
		orderBook.CrossableQuantity(domain.SideBuy, nil))
	assert.Equal(t, domain.NewQuantity(0),
		orderBook.CrossableQuantity(domain.SideSell, pricePtr(10.20)))
}

func TestOrderBook_ModifyPriceResetsTimePriority(t *testing.T) {
	orderBook := NewOrderBook()
	first := limitOrder(1, domain.SideBuy, 10.00, 100)
	second := limitOrder(2, domain.SideBuy, 10.00, 100)
	orderBook.Insert(first)
	orderBook.Insert(second)

	// Move order 1 away and back: it must now queue behind order 2.
	_, err := orderBook.Modify(first.OrderId, LimitUpdate{
		OrderPrice:    domain.NewPrice(9.99),
		TotalQuantity: domain.NewQuantity(100),
		TimeInForce:   first.TimeInForce,
	})
	require.NoError(t, err)
	_, err = orderBook.Modify(first.OrderId, LimitUpdate{
		OrderPrice:    domain.NewPrice(10.00),
		TotalQuantity: domain.NewQuantity(100),
		TimeInForce:   first.TimeInForce,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusModified, first.OrderStatus)

	executions := orderBook.MatchAggressor(
		domain.SideSell, pricePtr(10.00), domain.NewQuantity(100), domain.NewQuantity(1))
	require.Len(t, executions, 1)
	assert.Equal(t, domain.OrderId(2), executions[0].Resting.OrderId)
}

func TestOrderBook_ModifyQuantityDecreaseKeepsPosition(t *testing.T) {
	orderBook := NewOrderBook()
	first := limitOrder(1, domain.SideBuy, 10.00, 100)
	second := limitOrder(2, domain.SideBuy, 10.00, 100)
	orderBook.Insert(first)
	orderBook.Insert(second)

	_, err := orderBook.Modify(first.OrderId, LimitUpdate{
		OrderPrice:    domain.NewPrice(10.00),
		TotalQuantity: domain.NewQuantity(60),
		TimeInForce:   first.TimeInForce,
	})
	require.NoError(t, err)

	executions := orderBook.MatchAggressor(
		domain.SideSell, pricePtr(10.00), domain.NewQuantity(60), domain.NewQuantity(1))
	require.Len(t, executions, 1)
	assert.Equal(t, domain.OrderId(1), executions[0].Resting.OrderId)
}

func TestOrderBook_ModifyQuantityIncreaseResetsTimePriority(t *testing.T) {
	orderBook := NewOrderBook()
	first := limitOrder(1, domain.SideBuy, 10.00, 100)
	second := limitOrder(2, domain.SideBuy, 10.00, 100)
	orderBook.Insert(first)
	orderBook.Insert(second)

	_, err := orderBook.Modify(first.OrderId, LimitUpdate{
		OrderPrice:    domain.NewPrice(10.00),
		TotalQuantity: domain.NewQuantity(150),
		TimeInForce:   first.TimeInForce,
	})
	require.NoError(t, err)

	executions := orderBook.MatchAggressor(
		domain.SideSell, pricePtr(10.00), domain.NewQuantity(100), domain.NewQuantity(1))
	require.Len(t, executions, 1)
	assert.Equal(t, domain.OrderId(2), executions[0].Resting.OrderId)
}

func TestOrderBook_ModifyErrors(t *testing.T) {
	orderBook := NewOrderBook()
	order := limitOrder(1, domain.SideBuy, 10.00, 100)
	order.CumExecutedQuantity = domain.NewQuantity(40)
	orderBook.Insert(order)

	_, err := orderBook.Modify(domain.OrderId(99), LimitUpdate{})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = orderBook.Modify(order.OrderId, LimitUpdate{
		OrderPrice:    order.OrderPrice,
		TotalQuantity: order.TotalQuantity,
		TimeInForce:   order.TimeInForce,
	})
	assert.ErrorIs(t, err, ErrNoEffect)

	_, err = orderBook.Modify(order.OrderId, LimitUpdate{
		OrderPrice:    order.OrderPrice,
		TotalQuantity: domain.NewQuantity(40),
		TimeInForce:   order.TimeInForce,
	})
	assert.ErrorIs(t, err, ErrUnderflowExecuted)
}

func TestOrderBook_CancelRemovesOrderAndEmptyLevel(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideBuy, 10.00, 100))

	cancelled, err := orderBook.Cancel(domain.OrderId(1))
	require.NoError(t, err)
	assert.Equal(t, domain.OrderId(1), cancelled.OrderId)
	assert.True(t, orderBook.Empty())

	_, err = orderBook.Cancel(domain.OrderId(1))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderBook_ExecutedQuantityTruncatedToTick(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideSell, 10.00, 100))

	executions := orderBook.MatchAggressor(
		domain.SideBuy, pricePtr(10.00), domain.NewQuantity(35), domain.NewQuantity(10))
	require.Len(t, executions, 1)
	assert.Equal(t, domain.NewQuantity(30), executions[0].Quantity)
}

func TestOrderBook_TakeMatching(t *testing.T) {
	orderBook := NewOrderBook()
	orderBook.Insert(limitOrder(1, domain.SideBuy, 10.00, 100))
	dayOrder := limitOrder(2, domain.SideSell, 10.10, 100)
	dayOrder.TimeInForce = domain.TimeInForceDay
	orderBook.Insert(dayOrder)

	taken := orderBook.TakeMatching(func(order *LimitOrder) bool {
		return order.TimeInForce == domain.TimeInForceDay
	})
	require.Len(t, taken, 1)
	assert.Equal(t, domain.OrderId(2), taken[0].OrderId)

	_, ok := orderBook.Lookup(domain.OrderId(1))
	assert.True(t, ok)
}

func TestLimitOrder_Expiry(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	dayOrder := limitOrder(1, domain.SideBuy, 10.00, 100)
	dayOrder.TimeInForce = domain.TimeInForceDay
	dayOrder.OrderTime = now
	assert.False(t, dayOrder.Expired(now))
	assert.True(t, dayOrder.Expired(now.AddDate(0, 0, 1)))

	deadline := domain.NewUTCTimestamp(now.Add(time.Hour))
	gtdOrder := limitOrder(2, domain.SideBuy, 10.00, 100)
	gtdOrder.TimeInForce = domain.TimeInForceGoodTillDate
	gtdOrder.ExpireTime = &deadline
	assert.False(t, gtdOrder.Expired(now))
	assert.True(t, gtdOrder.Expired(now.Add(2*time.Hour)))

	gtcOrder := limitOrder(3, domain.SideBuy, 10.00, 100)
	assert.False(t, gtcOrder.Expired(now.AddDate(1, 0, 0)))
}

func pricePtr(v float64) *domain.Price {
	price := domain.NewPrice(v)
	return &price
}
