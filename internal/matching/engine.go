package matching

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/instruments"
	"github.com/abdoElHodaky/marketsim/internal/marketstate"
	"github.com/abdoElHodaky/marketsim/internal/matching/book"
	"github.com/abdoElHodaky/marketsim/internal/metrics"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// Reject texts composed by the engine outside the validation chain.
const (
	rejectPhaseForbidsPlacement = "order placement is not allowed in the current trading phase"
	rejectOrderNotFound         = "order not found"
	rejectNoEffect              = "modification has no effect on the order"
	cancelReasonNoLiquidity     = "no liquidity"
	cancelReasonFok             = "insufficient liquidity for FOK"
	cancelReasonExpired         = "expired"
	cancelReasonPhaseClosed     = "cancelled on trading phase transition"
)

// EngineConfig carries the per-instrument engine settings.
type EngineConfig struct {
	// Clock supplies the engine-local wall clock. Defaults to time.Now.
	Clock func() time.Time
}

// Engine is the per-instrument matching engine. It owns the order book,
// the market data aggregator and the security status subscriptions, and
// produces every client reply for its instrument. All methods must be
// invoked from the engine's queue worker; the engine performs no
// internal locking.
type Engine struct {
	instrument instruments.Instrument
	logger     *zap.Logger
	clock      func() time.Time

	book  *book.OrderBook
	mdata *marketDataAggregator
	phase domain.MarketPhase
	cache *NotificationCache

	phaseSubscriptions *phaseHandler
	validator          *requestValidator

	nextOrderId uint64

	lastTrade *domain.Trade
	lowPrice  *domain.Price
	highPrice *domain.Price
}

// NewEngine creates an engine for one instrument.
func NewEngine(instrument instruments.Instrument, config EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	engine := &Engine{
		instrument: instrument,
		logger: logger.With(
			zap.Uint64("instrumentID", uint64(instrument.Id)),
			zap.String("symbol", instrument.Symbol),
		),
		clock:       clock,
		book:        book.NewOrderBook(),
		phase:       domain.MarketPhaseOpen(),
		cache:       &NotificationCache{},
		nextOrderId: 0,
	}
	engine.mdata = newMarketDataAggregator(engine)
	engine.phaseSubscriptions = newPhaseHandler(engine)
	engine.validator = newRequestValidator(instrument, clock)
	return engine
}

// Instrument returns the engine's immutable instrument description.
func (e *Engine) Instrument() instruments.Instrument { return e.instrument }

// CollectNotifications drains the reply batch produced by the last
// executed command.
func (e *Engine) CollectNotifications() []protocol.Reply {
	return e.cache.Collect()
}

func (e *Engine) mintOrderId() domain.OrderId {
	e.nextOrderId++
	return domain.OrderId(e.nextOrderId)
}

// ExecutePlacement processes an order placement request. An invalid
// request, or one the phase forbids, gets a single reject. An accepted
// order gets a confirmation, possibly followed by execution reports and a
// cancellation report for an unrested residual. A fill-or-kill order that
// cannot be filled in full gets a single cancelled execution report and no
// confirmation.
func (e *Engine) ExecutePlacement(request protocol.OrderPlacementRequest) {
	e.logger.Debug("processing order placement request")

	if conclusion := e.validator.ValidatePlacement(request); conclusion.failed {
		e.rejectPlacement(request, conclusion.text)
		metrics.OrdersRejected.Inc()
		return
	}
	if !e.phase.AllowsPlacement() {
		e.rejectPlacement(request, rejectPhaseForbidsPlacement)
		metrics.OrdersRejected.Inc()
		return
	}

	if *request.OrderType == domain.OrderTypeMarket {
		e.placeMarketOrder(request)
	} else {
		e.placeLimitOrder(request)
	}
	e.mdata.OnBookChanged()
}

func (e *Engine) placeLimitOrder(request protocol.OrderPlacementRequest) {
	timeInForce := domain.TimeInForceDay
	if request.TimeInForce != nil {
		timeInForce = *request.TimeInForce
	}

	order := &book.LimitOrder{
		OrderId:                    e.mintOrderId(),
		ClientSession:              request.Session,
		ClientOrderId:              request.ClientOrderId,
		ClientInstrumentDescriptor: request.Instrument,
		OrderParties:               request.Parties,
		Side:                       *request.Side,
		OrderType:                  domain.OrderTypeLimit,
		TimeInForce:                timeInForce,
		OrderPrice:                 *request.OrderPrice,
		TotalQuantity:              *request.OrderQuantity,
		OrderStatus:                domain.OrderStatusNew,
		OrderTime:                  e.clock().Truncate(time.Microsecond),
		ExpireTime:                 request.ExpireTime,
		ExpireDate:                 request.ExpireDate,
		ShortSaleExemptionReason:   request.ShortSaleExemptionReason,
	}

	// Fill-or-kill is all-or-none: unless the whole quantity is
	// consumable right now the order is cancelled without touching
	// the book.
	if timeInForce == domain.TimeInForceFillOrKill {
		crossable := e.book.CrossableQuantity(order.Side, &order.OrderPrice)
		if !e.phase.AllowsMatching() || crossable.Value() < order.TotalQuantity.Value() {
			order.OrderStatus = domain.OrderStatusCancelled
			e.emitCancelledReport(order, cancelReasonFok)
			metrics.OrdersRejected.Inc()
			return
		}
	}

	e.confirmPlacement(order)
	metrics.OrdersAccepted.Inc()

	if e.phase.AllowsMatching() {
		executions := e.book.MatchAggressor(
			order.Side, &order.OrderPrice, order.LeavesQuantity(), e.instrument.QuantityTick)
		e.reportExecutions(order, executions)
	}

	switch {
	case order.LeavesQuantity().Value() <= 0:
		// Fully executed on entry; already reported as Filled.
	case timeInForce.CanRest() && e.phase.AllowsResting():
		e.book.Insert(order)
	default:
		order.OrderStatus = domain.OrderStatusCancelled
		e.emitCancelledReport(order, cancelReasonNoLiquidity)
	}
}

func (e *Engine) placeMarketOrder(request protocol.OrderPlacementRequest) {
	order := &book.MarketOrder{
		OrderId:                    e.mintOrderId(),
		ClientSession:              request.Session,
		ClientOrderId:              request.ClientOrderId,
		ClientInstrumentDescriptor: request.Instrument,
		OrderParties:               request.Parties,
		Side:                       *request.Side,
		TotalQuantity:              *request.OrderQuantity,
		OrderTime:                  e.clock().Truncate(time.Microsecond),
		ShortSaleExemptionReason:   request.ShortSaleExemptionReason,
	}

	e.confirmMarketPlacement(order, request)
	metrics.OrdersAccepted.Inc()

	if e.phase.AllowsMatching() {
		executions := e.book.MatchAggressor(
			order.Side, nil, order.LeavesQuantity(), e.instrument.QuantityTick)
		e.reportMarketExecutions(order, executions)
	}

	if order.LeavesQuantity().Value() > 0 {
		e.emitMarketCancelledReport(order, cancelReasonNoLiquidity)
	}
}

// ExecuteModification processes an order modification request.
func (e *Engine) ExecuteModification(request protocol.OrderModificationRequest) {
	e.logger.Debug("processing order modification request")

	if conclusion := e.validator.ValidateModification(request); conclusion.failed {
		e.rejectModification(request, conclusion.text)
		return
	}

	order, found := e.locateOrder(request.Session, request.VenueOrderId, request.OrigClientOrderId)
	if !found {
		e.rejectModification(request, rejectOrderNotFound)
		return
	}

	update := book.LimitUpdate{
		OrderPrice:    *request.OrderPrice,
		TotalQuantity: *request.OrderQuantity,
		TimeInForce:   order.TimeInForce,
		ExpireTime:    request.ExpireTime,
		ExpireDate:    request.ExpireDate,
	}
	if request.TimeInForce != nil {
		update.TimeInForce = *request.TimeInForce
	}

	// A reduction at or below the executed quantity leaves nothing open
	// to trade: the modification is confirmed and the order is closed as
	// filled.
	if update.TotalQuantity.Value() <= order.CumExecutedQuantity.Value() {
		e.book.Remove(order)
		order.OrigClientOrderId = request.OrigClientOrderId
		if request.ClientOrderId != nil {
			order.ClientOrderId = request.ClientOrderId
		}
		order.TotalQuantity = order.CumExecutedQuantity
		order.OrderStatus = domain.OrderStatusModified
		e.confirmModification(order)
		order.OrderStatus = domain.OrderStatusFilled
		e.emitFilledOnReduction(order)
		e.mdata.OnBookChanged()
		return
	}

	modified, err := e.book.Modify(order.OrderId, update)
	if err != nil {
		switch {
		case err == book.ErrNoEffect:
			e.rejectModification(request, rejectNoEffect)
		case err == book.ErrOrderNotFound:
			e.rejectModification(request, rejectOrderNotFound)
		default:
			e.rejectModification(request, err.Error())
		}
		return
	}

	modified.OrigClientOrderId = request.OrigClientOrderId
	if request.ClientOrderId != nil {
		modified.ClientOrderId = request.ClientOrderId
	}

	e.confirmModification(modified)
	e.mdata.OnBookChanged()
}

// ExecuteCancellation processes an order cancellation request.
func (e *Engine) ExecuteCancellation(request protocol.OrderCancellationRequest) {
	e.logger.Debug("processing order cancellation request")

	if conclusion := e.validator.ValidateCancellation(request); conclusion.failed {
		e.rejectCancellation(request, conclusion.text)
		return
	}

	order, found := e.locateOrder(request.Session, request.VenueOrderId, request.OrigClientOrderId)
	if !found {
		e.rejectCancellation(request, rejectOrderNotFound)
		return
	}

	e.book.Remove(order)
	order.OrigClientOrderId = request.OrigClientOrderId
	if request.ClientOrderId != nil {
		order.ClientOrderId = request.ClientOrderId
	}
	order.OrderStatus = domain.OrderStatusCancelled

	e.confirmCancellation(order)
	e.mdata.OnBookChanged()
}

// ExecuteMarketDataRequest processes a market data request.
func (e *Engine) ExecuteMarketDataRequest(request protocol.MarketDataRequest) {
	e.logger.Debug("processing market data request")
	e.mdata.Process(request)
}

// ExecuteSecurityStatusRequest processes a security status request.
func (e *Engine) ExecuteSecurityStatusRequest(request protocol.SecurityStatusRequest) {
	e.logger.Debug("processing security status request")
	e.phaseSubscriptions.Process(request)
}

// ProvideState fills the synchronous top-of-book reply.
func (e *Engine) ProvideState(reply *protocol.InstrumentState) {
	reply.Instrument = e.instrument.Descriptor()
	if price, depth, ok := e.book.Best(domain.SideBuy); ok {
		bestBid, bidDepth := price, depth
		reply.BestBidPrice = &bestBid
		reply.CurrentBidDepth = &bidDepth
	}
	if price, depth, ok := e.book.Best(domain.SideSell); ok {
		bestOffer, offerDepth := price, depth
		reply.BestOfferPrice = &bestOffer
		reply.CurrentOfferDepth = &offerDepth
	}
}

// HandleSessionTerminated removes every trace of a disappeared session:
// non-persistent resting orders are dropped without client notifications,
// and all subscriptions of the session are cancelled.
func (e *Engine) HandleSessionTerminated(event protocol.SessionTerminatedEvent) {
	removed := e.book.TakeMatching(func(order *book.LimitOrder) bool {
		return order.ClientSession.Equal(event.Session) &&
			!order.TimeInForce.SurvivesSessionLoss()
	})
	for _, order := range removed {
		e.logger.Info("dropped order of terminated session",
			zap.String("orderID", order.OrderId.String()),
			zap.String("timeInForce", order.TimeInForce.String()),
		)
	}

	e.mdata.DropSession(event.Session)
	e.phaseSubscriptions.DropSession(event.Session)

	if len(removed) > 0 {
		e.mdata.OnBookChanged()
	}
}

// HandleTick expires Day and GoodTillDate orders whose deadline passed.
func (e *Engine) HandleTick(now time.Time) {
	expired := e.book.TakeMatching(func(order *book.LimitOrder) bool {
		return order.Expired(now)
	})
	if len(expired) == 0 {
		return
	}
	for _, order := range expired {
		order.OrderStatus = domain.OrderStatusCancelled
		e.emitCancelledReport(order, cancelReasonExpired)
	}
	e.mdata.OnBookChanged()
}

// HandlePhaseTransition applies a new market phase. A transition into
// Closed cancels all Day orders; a transition into Halt stops matching
// but preserves the book. Security status subscribers are notified.
func (e *Engine) HandlePhaseTransition(phase domain.MarketPhase) {
	if e.phase == phase {
		return
	}
	previous := e.phase
	e.phase = phase

	e.logger.Info("trading phase changed",
		zap.String("from", previous.String()),
		zap.String("to", phase.String()),
	)

	if phase.Phase == domain.TradingPhaseClosed && previous.Phase != domain.TradingPhaseClosed {
		cancelled := e.book.TakeMatching(func(order *book.LimitOrder) bool {
			return order.TimeInForce == domain.TimeInForceDay
		})
		for _, order := range cancelled {
			order.OrderStatus = domain.OrderStatusCancelled
			e.emitCancelledReport(order, cancelReasonPhaseClosed)
		}
		if len(cancelled) > 0 {
			e.mdata.OnBookChanged()
		}
	}

	e.phaseSubscriptions.PublishTransition()
}

// StoreState populates the persisted snapshot of this engine.
func (e *Engine) StoreState(state *marketstate.InstrumentState) {
	state.Instrument = marketstate.RecordInstrument(e.instrument)
	state.LastTrade = e.lastTrade
	if e.lowPrice != nil || e.highPrice != nil {
		info := &marketstate.InstrumentInfo{}
		if e.lowPrice != nil {
			low := *e.lowPrice
			info.LowPrice = &low
		}
		if e.highPrice != nil {
			high := *e.highPrice
			info.HighPrice = &high
		}
		state.Info = info
	}

	state.OrderBook = marketstate.OrderBookState{}
	for _, order := range e.book.CollectOrders(domain.SideBuy) {
		state.OrderBook.BuyOrders = append(state.OrderBook.BuyOrders, recordOrder(order))
	}
	for _, order := range e.book.CollectOrders(domain.SideSell) {
		state.OrderBook.SellOrders = append(state.OrderBook.SellOrders, recordOrder(order))
	}
}

// RecoverState replaces the engine's book and trade statistics with a
// persisted snapshot. Every recovered order is validated; invalid orders
// are dropped with a structured log entry.
func (e *Engine) RecoverState(state marketstate.InstrumentState) {
	e.book = book.NewOrderBook()
	e.lastTrade = state.LastTrade
	e.lowPrice, e.highPrice = nil, nil
	if state.Info != nil {
		e.lowPrice = state.Info.LowPrice
		e.highPrice = state.Info.HighPrice
	}

	for _, record := range state.OrderBook.BuyOrders {
		e.recoverOrder(record, domain.SideBuy)
	}
	for _, record := range state.OrderBook.SellOrders {
		e.recoverOrder(record, domain.SideSell)
	}

	e.mdata.OnBookChanged()
}

func (e *Engine) recoverOrder(record marketstate.LimitOrder, bookSide domain.Side) {
	if reason, ok := e.validateRecoveredOrder(record, bookSide); !ok {
		e.logger.Warn("dropped invalid recovered order",
			zap.Uint64("orderID", record.OrderId),
			zap.String("reason", reason),
		)
		return
	}

	order := restoreOrder(record)
	e.book.Insert(order)
	if uint64(order.OrderId) > e.nextOrderId {
		e.nextOrderId = uint64(order.OrderId)
	}
}

func (e *Engine) validateRecoveredOrder(record marketstate.LimitOrder, bookSide domain.Side) (string, bool) {
	if bookSide == domain.SideBuy && record.Side != domain.SideBuy {
		return "order side does not match the book side", false
	}
	if bookSide == domain.SideSell && !record.Side.IsSell() {
		return "order side does not match the book side", false
	}

	switch record.OrderStatus {
	case domain.OrderStatusNew, domain.OrderStatusPartiallyFilled, domain.OrderStatusModified:
	default:
		return "order status is not supported for a resting order", false
	}

	if !record.TimeInForce.CanRest() {
		return "time in force is not supported for a resting order", false
	}

	if record.TotalQuantity.Value() < e.instrument.MinQuantity.Value() ||
		(e.instrument.MaxQuantity.Value() > 0 && record.TotalQuantity.Value() > e.instrument.MaxQuantity.Value()) ||
		!record.TotalQuantity.RespectsTick(e.instrument.QuantityTick) {
		return "total quantity violates the instrument constraints", false
	}
	if record.CumExecutedQuantity.Value() < 0 ||
		!record.CumExecutedQuantity.RespectsTick(e.instrument.QuantityTick) {
		return "executed quantity violates the instrument constraints", false
	}
	if record.CumExecutedQuantity.Value() >= record.TotalQuantity.Value() {
		return "executed quantity is not less than the total quantity", false
	}
	if record.OrderPrice.Value() <= 0 || !record.OrderPrice.RespectsTick(e.instrument.PriceTick) {
		return "order price violates the instrument constraints", false
	}
	if record.ExpireTime != nil && record.ExpireDate != nil {
		return "both expire time and expire date are specified", false
	}

	now := e.clock()
	switch record.TimeInForce {
	case domain.TimeInForceDay:
		if !domain.NewLocalDate(record.OrderTime.Time().In(now.Location())).Equal(domain.NewLocalDate(now)) {
			return "day order was accepted on a past trading day", false
		}
	case domain.TimeInForceGoodTillDate:
		if record.ExpireTime == nil && record.ExpireDate == nil {
			return "good-till-date order has no expire information", false
		}
		if record.ExpireTime != nil && !now.Before(record.ExpireTime.Time()) {
			return "good-till-date order is already expired", false
		}
		if record.ExpireDate != nil && !now.Before(record.ExpireDate.EndOfDay(now.Location())) {
			return "good-till-date order is already expired", false
		}
	}

	return "", true
}

func (e *Engine) locateOrder(session protocol.Session, venueOrderId *domain.VenueOrderId, origClientOrderId *domain.OrigClientOrderId) (*book.LimitOrder, bool) {
	if venueOrderId != nil {
		parsed, err := strconv.ParseUint(venueOrderId.String(), 10, 64)
		if err != nil {
			return nil, false
		}
		order, ok := e.book.Lookup(domain.OrderId(parsed))
		if !ok || !order.ClientSession.Equal(session) {
			return nil, false
		}
		return order, true
	}
	if origClientOrderId != nil {
		return e.book.FindByClientOrderId(func(order *book.LimitOrder) bool {
			return order.ClientOrderId != nil &&
				string(*order.ClientOrderId) == string(*origClientOrderId) &&
				order.ClientSession.Equal(session)
		})
	}
	return nil, false
}

// recordTrade stores the last trade and updates session low/high prices.
func (e *Engine) recordTrade(trade domain.Trade) {
	e.lastTrade = &trade
	if e.lowPrice == nil || trade.Price.Value() < e.lowPrice.Value() {
		low := trade.Price
		e.lowPrice = &low
	}
	if e.highPrice == nil || trade.Price.Value() > e.highPrice.Value() {
		high := trade.Price
		e.highPrice = &high
	}
	metrics.TradesExecuted.Inc()
	e.mdata.OnTrade(trade)
}

func recordOrder(order *book.LimitOrder) marketstate.LimitOrder {
	return marketstate.LimitOrder{
		ClientInstrumentDescriptor: order.ClientInstrumentDescriptor,
		ClientSession:              order.ClientSession,
		ClientOrderId:              order.ClientOrderId,
		OrderParties:               order.OrderParties,
		ExpireTime:                 order.ExpireTime,
		ExpireDate:                 order.ExpireDate,
		ShortSaleExemptionReason:   order.ShortSaleExemptionReason,
		TimeInForce:                order.TimeInForce,
		OrderId:                    uint64(order.OrderId),
		OrderTime:                  domain.NewUTCTimestamp(order.OrderTime),
		Side:                       order.Side,
		OrderStatus:                order.OrderStatus,
		OrderPrice:                 order.OrderPrice,
		TotalQuantity:              order.TotalQuantity,
		CumExecutedQuantity:        order.CumExecutedQuantity,
	}
}

func restoreOrder(record marketstate.LimitOrder) *book.LimitOrder {
	return &book.LimitOrder{
		OrderId:                    domain.OrderId(record.OrderId),
		ClientSession:              record.ClientSession,
		ClientOrderId:              record.ClientOrderId,
		ClientInstrumentDescriptor: record.ClientInstrumentDescriptor,
		OrderParties:               record.OrderParties,
		Side:                       record.Side,
		OrderType:                  domain.OrderTypeLimit,
		TimeInForce:                record.TimeInForce,
		OrderPrice:                 record.OrderPrice,
		TotalQuantity:              record.TotalQuantity,
		CumExecutedQuantity:        record.CumExecutedQuantity,
		OrderStatus:                record.OrderStatus,
		OrderTime:                  record.OrderTime.Time(),
		ExpireTime:                 record.ExpireTime,
		ExpireDate:                 record.ExpireDate,
		ShortSaleExemptionReason:   record.ShortSaleExemptionReason,
	}
}
