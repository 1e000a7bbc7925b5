package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/instruments"
	"github.com/abdoElHodaky/marketsim/internal/marketstate"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

func testInstrument() instruments.Instrument {
	return instruments.Instrument{
		Id:               0,
		Symbol:           "AAPL",
		SecurityType:     domain.SecurityTypeCommonStock,
		PriceCurrency:    "USD",
		SecurityExchange: "XNAS",
		PriceTick:        domain.NewPrice(0.01),
		QuantityTick:     domain.NewQuantity(1),
		MinQuantity:      domain.NewQuantity(1),
		MaxQuantity:      domain.NewQuantity(1_000_000),
	}
}

func clientSession(sender string) protocol.Session {
	return protocol.NewFixSession(protocol.FixSession{
		BeginString:  "FIX.4.4",
		SenderCompId: sender,
		TargetCompId: "SIM",
	})
}

type engineFixture struct {
	engine *Engine
	now    time.Time
}

func newEngineFixture(t *testing.T) *engineFixture {
	fixture := &engineFixture{
		now: time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC),
	}
	fixture.engine = NewEngine(testInstrument(), EngineConfig{
		Clock: func() time.Time { return fixture.now },
	}, zaptest.NewLogger(t))
	return fixture
}

func placement(session protocol.Session, side domain.Side, orderType domain.OrderType, tif domain.TimeInForce, price, quantity float64, clOrdId string) protocol.OrderPlacementRequest {
	request := protocol.OrderPlacementRequest{
		Session:       session,
		OrderType:     &orderType,
		Side:          &side,
		TimeInForce:   &tif,
		OrderQuantity: quantityPtr(quantity),
	}
	if orderType == domain.OrderTypeLimit {
		request.OrderPrice = pricePtr(price)
	}
	if clOrdId != "" {
		clientOrderId := domain.ClientOrderId(clOrdId)
		request.ClientOrderId = &clientOrderId
	}
	return request
}

func (f *engineFixture) place(request protocol.OrderPlacementRequest) []protocol.Reply {
	f.engine.ExecutePlacement(request)
	return f.engine.CollectNotifications()
}

func TestEngine_RestingThenAggressiveMatch(t *testing.T) {
	fixture := newEngineFixture(t)
	buyer := clientSession("BUYER")
	seller := clientSession("SELLER")

	replies := fixture.place(placement(
		buyer, domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, "A"))
	require.Len(t, replies, 1)

	confirmationA, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok)
	assert.Equal(t, domain.VenueOrderId("1"), confirmationA.VenueOrderId)
	assert.Equal(t, domain.ClientOrderId("A"), *confirmationA.ClientOrderId)

	replies = fixture.place(placement(
		seller, domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceImmediateOrCancel, 10.00, 40, "B"))
	require.Len(t, replies, 3)

	confirmationB, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok)
	assert.Equal(t, domain.VenueOrderId("2"), confirmationB.VenueOrderId)

	reportA, ok := replies[1].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.VenueOrderId("1"), reportA.VenueOrderId)
	assert.Equal(t, domain.NewQuantity(40), *reportA.ExecutedQuantity)
	assert.Equal(t, domain.NewPrice(10.00), *reportA.ExecutedPrice)
	assert.Equal(t, domain.NewQuantity(40), reportA.CumExecutedQuantity)
	assert.Equal(t, domain.NewQuantity(60), reportA.LeavesQuantity)
	assert.Equal(t, domain.OrderStatusPartiallyFilled, reportA.OrderStatus)

	reportB, ok := replies[2].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.VenueOrderId("2"), reportB.VenueOrderId)
	assert.Equal(t, domain.NewQuantity(40), *reportB.ExecutedQuantity)
	assert.Equal(t, domain.NewQuantity(0), reportB.LeavesQuantity)
	assert.Equal(t, domain.OrderStatusFilled, reportB.OrderStatus)

	price, quantity, hasBid := fixture.engine.book.Best(domain.SideBuy)
	require.True(t, hasBid)
	assert.Equal(t, domain.NewPrice(10.00), price)
	assert.Equal(t, domain.NewQuantity(60), quantity)

	_, _, hasOffer := fixture.engine.book.Best(domain.SideSell)
	assert.False(t, hasOffer)
}

func TestEngine_FokRejectedOnInsufficientLiquidity(t *testing.T) {
	fixture := newEngineFixture(t)
	seller := clientSession("SELLER")
	buyer := clientSession("BUYER")

	fixture.place(placement(
		seller, domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 50, ""))

	replies := fixture.place(placement(
		buyer, domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceFillOrKill, 10.00, 80, ""))
	require.Len(t, replies, 1)

	report, ok := replies[0].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusCancelled, report.OrderStatus)
	assert.Equal(t, domain.RejectText("insufficient liquidity for FOK"), *report.RejectText)

	// The resting offer is untouched.
	_, quantity, hasOffer := fixture.engine.book.Best(domain.SideSell)
	require.True(t, hasOffer)
	assert.Equal(t, domain.NewQuantity(50), quantity)
}

func TestEngine_FokExecutesWhenFullyConsumable(t *testing.T) {
	fixture := newEngineFixture(t)
	fixture.place(placement(
		clientSession("SELLER"), domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, ""))

	replies := fixture.place(placement(
		clientSession("BUYER"), domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceFillOrKill, 10.00, 80, ""))
	require.Len(t, replies, 3)

	report, ok := replies[2].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusFilled, report.OrderStatus)
}

func TestEngine_IocResidualCancelledNoLiquidity(t *testing.T) {
	fixture := newEngineFixture(t)

	replies := fixture.place(placement(
		clientSession("BUYER"), domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceImmediateOrCancel, 10.00, 100, ""))
	require.Len(t, replies, 2)

	report, ok := replies[1].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusCancelled, report.OrderStatus)
	assert.Equal(t, domain.RejectText("no liquidity"), *report.RejectText)
	assert.True(t, fixture.engine.book.Empty())
}

func TestEngine_MarketOrderResidualCancelled(t *testing.T) {
	fixture := newEngineFixture(t)
	fixture.place(placement(
		clientSession("SELLER"), domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 40, ""))

	replies := fixture.place(placement(
		clientSession("BUYER"), domain.SideBuy, domain.OrderTypeMarket, domain.TimeInForceImmediateOrCancel, 0, 100, ""))
	require.Len(t, replies, 4)

	confirmation, ok := replies[0].(protocol.OrderPlacementConfirmation)
	require.True(t, ok)
	assert.Equal(t, domain.OrderTypeMarket, confirmation.OrderType)

	cancel, ok := replies[3].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusCancelled, cancel.OrderStatus)
	assert.Equal(t, domain.NewQuantity(40), cancel.CumExecutedQuantity)
	assert.Equal(t, domain.RejectText("no liquidity"), *cancel.RejectText)
}

func TestEngine_ValidationRejects(t *testing.T) {
	fixture := newEngineFixture(t)
	session := clientSession("CLIENT")
	limit := domain.OrderTypeLimit
	buy := domain.SideBuy
	gtc := domain.TimeInForceGoodTillCancel
	gtd := domain.TimeInForceGoodTillDate

	cases := []struct {
		name    string
		request protocol.OrderPlacementRequest
		reject  string
	}{
		{
			name:    "missing side",
			request: protocol.OrderPlacementRequest{Session: session, OrderType: &limit, OrderPrice: pricePtr(10), OrderQuantity: quantityPtr(100)},
			reject:  "order side is missing",
		},
		{
			name:    "missing order type",
			request: protocol.OrderPlacementRequest{Session: session, Side: &buy, OrderPrice: pricePtr(10), OrderQuantity: quantityPtr(100)},
			reject:  "order type is missing",
		},
		{
			name:    "missing quantity",
			request: protocol.OrderPlacementRequest{Session: session, Side: &buy, OrderType: &limit, OrderPrice: pricePtr(10)},
			reject:  "order quantity is missing",
		},
		{
			name:    "quantity below minimum",
			request: placement(session, buy, limit, gtc, 10.00, 0.5, ""),
			reject:  "order quantity is less than the minimal instrument quantity",
		},
		{
			name:    "quantity above maximum",
			request: placement(session, buy, limit, gtc, 10.00, 2_000_000, ""),
			reject:  "order quantity is greater than the maximal instrument quantity",
		},
		{
			name:    "quantity off tick",
			request: placement(session, buy, limit, gtc, 10.00, 100.5, ""),
			reject:  "order quantity is not a multiple of the instrument quantity tick",
		},
		{
			name:    "missing limit price",
			request: protocol.OrderPlacementRequest{Session: session, Side: &buy, OrderType: &limit, TimeInForce: &gtc, OrderQuantity: quantityPtr(100)},
			reject:  "order price is missing",
		},
		{
			name:    "price off tick",
			request: placement(session, buy, limit, gtc, 10.005, 100, ""),
			reject:  "order price is not a multiple of the instrument price tick",
		},
		{
			name:    "gtd without expire info",
			request: placement(session, buy, limit, gtd, 10.00, 100, ""),
			reject:  "expire time or expire date is required for a good-till-date order",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			replies := fixture.place(testCase.request)
			require.Len(t, replies, 1)

			reject, ok := replies[0].(protocol.OrderPlacementReject)
			require.True(t, ok)
			assert.Equal(t, domain.RejectText(testCase.reject), reject.RejectText)
		})
	}
}

func TestEngine_MarketOrderWithPriceRejected(t *testing.T) {
	fixture := newEngineFixture(t)
	market := domain.OrderTypeMarket
	buy := domain.SideBuy

	replies := fixture.place(protocol.OrderPlacementRequest{
		Session:       clientSession("CLIENT"),
		Side:          &buy,
		OrderType:     &market,
		OrderPrice:    pricePtr(10.00),
		OrderQuantity: quantityPtr(100),
	})
	require.Len(t, replies, 1)

	reject, ok := replies[0].(protocol.OrderPlacementReject)
	require.True(t, ok)
	assert.Equal(t, domain.RejectText("order price is not expected for a market order"), reject.RejectText)
}

func TestEngine_GtdAlreadyExpiredRejected(t *testing.T) {
	fixture := newEngineFixture(t)
	expired := domain.NewUTCTimestamp(fixture.now.Add(-time.Hour))

	request := placement(clientSession("CLIENT"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillDate, 10.00, 100, "")
	request.ExpireTime = &expired

	replies := fixture.place(request)
	require.Len(t, replies, 1)

	reject, ok := replies[0].(protocol.OrderPlacementReject)
	require.True(t, ok)
	assert.Equal(t, domain.RejectText("order is already expired"), reject.RejectText)
}

func TestEngine_GtdExpiresOnTick(t *testing.T) {
	fixture := newEngineFixture(t)
	deadline := domain.NewUTCTimestamp(fixture.now.Add(time.Hour))

	request := placement(clientSession("CLIENT"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillDate, 10.00, 100, "GTD-1")
	request.ExpireTime = &deadline
	fixture.place(request)

	// Before the deadline a tick emits nothing.
	fixture.engine.HandleTick(fixture.now.Add(30 * time.Minute))
	assert.Empty(t, fixture.engine.CollectNotifications())

	fixture.engine.HandleTick(fixture.now.Add(time.Hour))
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 1)

	report, ok := replies[0].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusCancelled, report.OrderStatus)
	assert.Equal(t, domain.RejectText("expired"), *report.RejectText)
	assert.True(t, fixture.engine.book.Empty())
}

func TestEngine_ModificationRepositionsAndConfirms(t *testing.T) {
	fixture := newEngineFixture(t)
	session := clientSession("CLIENT")

	fixture.place(placement(session,
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, "A"))

	venueOrderId := domain.VenueOrderId("1")
	limit := domain.OrderTypeLimit
	buy := domain.SideBuy
	newClOrdId := domain.ClientOrderId("A2")
	origClOrdId := domain.OrigClientOrderId("A")

	fixture.engine.ExecuteModification(protocol.OrderModificationRequest{
		Session:           session,
		VenueOrderId:      &venueOrderId,
		ClientOrderId:     &newClOrdId,
		OrigClientOrderId: &origClOrdId,
		OrderType:         &limit,
		Side:              &buy,
		OrderPrice:        pricePtr(10.05),
		OrderQuantity:     quantityPtr(100),
	})
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 1)

	confirmation, ok := replies[0].(protocol.OrderModificationConfirmation)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusModified, confirmation.OrderStatus)
	assert.Equal(t, domain.NewPrice(10.05), confirmation.OrderPrice)
	assert.Equal(t, domain.ClientOrderId("A2"), *confirmation.ClientOrderId)
	assert.Equal(t, domain.OrigClientOrderId("A"), *confirmation.OrigClientOrderId)

	price, _, ok2 := fixture.engine.book.Best(domain.SideBuy)
	require.True(t, ok2)
	assert.Equal(t, domain.NewPrice(10.05), price)
}

func TestEngine_ModificationUnknownOrderRejected(t *testing.T) {
	fixture := newEngineFixture(t)
	venueOrderId := domain.VenueOrderId("99")
	limit := domain.OrderTypeLimit
	buy := domain.SideBuy

	fixture.engine.ExecuteModification(protocol.OrderModificationRequest{
		Session:       clientSession("CLIENT"),
		VenueOrderId:  &venueOrderId,
		OrderType:     &limit,
		Side:          &buy,
		OrderPrice:    pricePtr(10.00),
		OrderQuantity: quantityPtr(100),
	})
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 1)

	reject, ok := replies[0].(protocol.OrderModificationReject)
	require.True(t, ok)
	assert.Equal(t, domain.RejectText("order not found"), reject.RejectText)
}

func TestEngine_ModificationBelowExecutedIsFillThenCancel(t *testing.T) {
	fixture := newEngineFixture(t)
	session := clientSession("CLIENT")

	fixture.place(placement(session,
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, "A"))
	fixture.place(placement(clientSession("OTHER"),
		domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceImmediateOrCancel, 10.00, 40, "B"))

	venueOrderId := domain.VenueOrderId("1")
	limit := domain.OrderTypeLimit
	buy := domain.SideBuy

	// Reducing to the executed quantity closes the order as filled.
	fixture.engine.ExecuteModification(protocol.OrderModificationRequest{
		Session:       session,
		VenueOrderId:  &venueOrderId,
		OrderType:     &limit,
		Side:          &buy,
		OrderPrice:    pricePtr(10.00),
		OrderQuantity: quantityPtr(40),
	})
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 2)

	confirmation, ok := replies[0].(protocol.OrderModificationConfirmation)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusModified, confirmation.OrderStatus)

	report, ok := replies[1].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusFilled, report.OrderStatus)
	assert.Equal(t, domain.NewQuantity(0), report.LeavesQuantity)

	assert.True(t, fixture.engine.book.Empty())
}

func TestEngine_CancellationConfirmsAndRemoves(t *testing.T) {
	fixture := newEngineFixture(t)
	session := clientSession("CLIENT")

	fixture.place(placement(session,
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, "A"))

	venueOrderId := domain.VenueOrderId("1")
	buy := domain.SideBuy
	fixture.engine.ExecuteCancellation(protocol.OrderCancellationRequest{
		Session:      session,
		VenueOrderId: &venueOrderId,
		Side:         &buy,
	})
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 1)

	confirmation, ok := replies[0].(protocol.OrderCancellationConfirmation)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusCancelled, confirmation.OrderStatus)
	assert.True(t, fixture.engine.book.Empty())
}

func TestEngine_CancellationByOrigClientOrderId(t *testing.T) {
	fixture := newEngineFixture(t)
	session := clientSession("CLIENT")

	fixture.place(placement(session,
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, "A"))

	buy := domain.SideBuy
	origClOrdId := domain.OrigClientOrderId("A")
	fixture.engine.ExecuteCancellation(protocol.OrderCancellationRequest{
		Session:           session,
		OrigClientOrderId: &origClOrdId,
		Side:              &buy,
	})
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 1)
	_, ok := replies[0].(protocol.OrderCancellationConfirmation)
	assert.True(t, ok)
}

func TestEngine_CancellationUnknownOrderRejected(t *testing.T) {
	fixture := newEngineFixture(t)
	buy := domain.SideBuy
	venueOrderId := domain.VenueOrderId("12")

	fixture.engine.ExecuteCancellation(protocol.OrderCancellationRequest{
		Session:      clientSession("CLIENT"),
		VenueOrderId: &venueOrderId,
		Side:         &buy,
	})
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 1)

	reject, ok := replies[0].(protocol.OrderCancellationReject)
	require.True(t, ok)
	assert.Equal(t, domain.RejectText("order not found"), reject.RejectText)
}

func TestEngine_PlacementRejectedWhenClosed(t *testing.T) {
	fixture := newEngineFixture(t)
	fixture.engine.HandlePhaseTransition(domain.MarketPhase{
		Phase: domain.TradingPhaseClosed, Status: domain.TradingStatusResume,
	})
	fixture.engine.CollectNotifications()

	replies := fixture.place(placement(clientSession("CLIENT"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, ""))
	require.Len(t, replies, 1)

	reject, ok := replies[0].(protocol.OrderPlacementReject)
	require.True(t, ok)
	assert.Equal(t, domain.RejectText(rejectPhaseForbidsPlacement), reject.RejectText)
}

func TestEngine_HaltStopsMatchingButPreservesBook(t *testing.T) {
	fixture := newEngineFixture(t)
	fixture.place(placement(clientSession("SELLER"),
		domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 50, ""))

	fixture.engine.HandlePhaseTransition(domain.MarketPhase{
		Phase: domain.TradingPhaseOpen, Status: domain.TradingStatusHalt,
	})
	fixture.engine.CollectNotifications()

	// A crossing limit order rests instead of matching.
	replies := fixture.place(placement(clientSession("BUYER"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 50, ""))
	require.Len(t, replies, 1)
	_, ok := replies[0].(protocol.OrderPlacementConfirmation)
	assert.True(t, ok)

	_, _, hasOffer := fixture.engine.book.Best(domain.SideSell)
	assert.True(t, hasOffer)
	_, _, hasBid := fixture.engine.book.Best(domain.SideBuy)
	assert.True(t, hasBid)
}

func TestEngine_TransitionIntoClosedCancelsDayOrders(t *testing.T) {
	fixture := newEngineFixture(t)
	fixture.place(placement(clientSession("CLIENT"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceDay, 10.00, 100, "DAY-1"))
	fixture.place(placement(clientSession("CLIENT"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 9.99, 100, "GTC-1"))

	fixture.engine.HandlePhaseTransition(domain.MarketPhase{
		Phase: domain.TradingPhaseClosed, Status: domain.TradingStatusResume,
	})
	replies := fixture.engine.CollectNotifications()
	require.Len(t, replies, 1)

	report, ok := replies[0].(protocol.ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusCancelled, report.OrderStatus)
	assert.Equal(t, domain.ClientOrderId("DAY-1"), *report.ClientOrderId)

	// The good-till-cancel order survives.
	_, _, hasBid := fixture.engine.book.Best(domain.SideBuy)
	assert.True(t, hasBid)
}

func TestEngine_SessionTerminatedDropsOrdersSilently(t *testing.T) {
	fixture := newEngineFixture(t)
	lost := clientSession("LOST")
	other := clientSession("OTHER")

	fixture.place(placement(lost,
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceDay, 10.00, 100, ""))
	fixture.place(placement(lost,
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 9.99, 100, ""))
	fixture.place(placement(other,
		domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceDay, 10.10, 100, ""))

	fixture.engine.HandleSessionTerminated(protocol.SessionTerminatedEvent{Session: lost})
	replies := fixture.engine.CollectNotifications()

	// No reply is ever emitted towards the lost session.
	for _, reply := range replies {
		assert.False(t, reply.ReplySession().Equal(lost))
	}

	// Only the good-till-cancel order of the lost session survives.
	price, _, hasBid := fixture.engine.book.Best(domain.SideBuy)
	require.True(t, hasBid)
	assert.Equal(t, domain.NewPrice(9.99), price)

	_, _, hasOffer := fixture.engine.book.Best(domain.SideSell)
	assert.True(t, hasOffer)
}

func TestEngine_ProvideState(t *testing.T) {
	fixture := newEngineFixture(t)
	fixture.place(placement(clientSession("A"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.00, 100, ""))
	fixture.place(placement(clientSession("B"),
		domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.10, 70, ""))

	var state protocol.InstrumentState
	fixture.engine.ProvideState(&state)

	require.NotNil(t, state.BestBidPrice)
	assert.Equal(t, domain.NewPrice(10.00), *state.BestBidPrice)
	assert.Equal(t, domain.NewQuantity(100), *state.CurrentBidDepth)
	require.NotNil(t, state.BestOfferPrice)
	assert.Equal(t, domain.NewPrice(10.10), *state.BestOfferPrice)
	assert.Equal(t, domain.NewQuantity(70), *state.CurrentOfferDepth)
}

func TestEngine_StoreAndRecoverState(t *testing.T) {
	fixture := newEngineFixture(t)
	session := clientSession("CLIENT")

	for idx, price := range []float64{10.00, 9.99, 9.98, 9.97, 9.96} {
		clOrdId := string(rune('A' + idx))
		fixture.place(placement(session,
			domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, price, 100, clOrdId))
	}
	for _, price := range []float64{10.10, 10.11, 10.12} {
		fixture.place(placement(session,
			domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, price, 50, ""))
	}
	// One trade to populate last trade and session prices.
	fixture.place(placement(clientSession("AGGRESSOR"),
		domain.SideBuy, domain.OrderTypeLimit, domain.TimeInForceImmediateOrCancel, 10.10, 50, ""))

	var state marketstate.InstrumentState
	fixture.engine.StoreState(&state)

	assert.Equal(t, "AAPL", state.Instrument.Symbol)
	require.NotNil(t, state.LastTrade)
	assert.Equal(t, domain.NewPrice(10.10), state.LastTrade.Price)
	require.NotNil(t, state.Info)
	assert.Equal(t, domain.NewPrice(10.10), *state.Info.LowPrice)
	assert.Equal(t, domain.NewPrice(10.10), *state.Info.HighPrice)
	assert.Len(t, state.OrderBook.BuyOrders, 5)
	assert.Len(t, state.OrderBook.SellOrders, 2)

	// Recover into a fresh engine and compare level by level.
	restored := NewEngine(testInstrument(), EngineConfig{
		Clock: func() time.Time { return fixture.now },
	}, zaptest.NewLogger(t))
	restored.RecoverState(state)

	var restoredState marketstate.InstrumentState
	restored.StoreState(&restoredState)
	assert.Equal(t, state.OrderBook, restoredState.OrderBook)
	assert.Equal(t, state.Info, restoredState.Info)
	require.NotNil(t, restoredState.LastTrade)
	assert.True(t, state.LastTrade.Time.Equal(restoredState.LastTrade.Time))
}

func TestEngine_RecoverDropsInvalidOrders(t *testing.T) {
	fixture := newEngineFixture(t)

	var state marketstate.InstrumentState
	state.Instrument = marketstate.RecordInstrument(testInstrument())
	valid := marketstate.LimitOrder{
		ClientSession:       clientSession("CLIENT"),
		TimeInForce:         domain.TimeInForceGoodTillCancel,
		OrderId:             1,
		OrderTime:           domain.NewUTCTimestamp(fixture.now),
		Side:                domain.SideBuy,
		OrderStatus:         domain.OrderStatusNew,
		OrderPrice:          domain.NewPrice(10.00),
		TotalQuantity:       domain.NewQuantity(100),
		CumExecutedQuantity: domain.NewQuantity(0),
	}
	offTick := valid
	offTick.OrderId = 2
	offTick.OrderPrice = domain.NewPrice(10.005)
	overExecuted := valid
	overExecuted.OrderId = 3
	overExecuted.CumExecutedQuantity = domain.NewQuantity(100)
	wrongSide := valid
	wrongSide.OrderId = 4
	wrongSide.Side = domain.SideSell

	state.OrderBook.BuyOrders = []marketstate.LimitOrder{valid, offTick, overExecuted, wrongSide}

	fixture.engine.RecoverState(state)

	_, ok := fixture.engine.book.Lookup(domain.OrderId(1))
	assert.True(t, ok)
	for _, dropped := range []uint64{2, 3, 4} {
		_, ok := fixture.engine.book.Lookup(domain.OrderId(dropped))
		assert.False(t, ok)
	}

	// The order id counter advances past recovered identifiers.
	replies := fixture.place(placement(clientSession("CLIENT"),
		domain.SideSell, domain.OrderTypeLimit, domain.TimeInForceGoodTillCancel, 10.10, 100, ""))
	confirmation := replies[0].(protocol.OrderPlacementConfirmation)
	assert.Equal(t, domain.VenueOrderId("2"), confirmation.VenueOrderId)
}

func pricePtr(v float64) *domain.Price {
	price := domain.NewPrice(v)
	return &price
}

func quantityPtr(v float64) *domain.Quantity {
	quantity := domain.NewQuantity(v)
	return &quantity
}
