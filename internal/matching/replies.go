package matching

import (
	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/matching/book"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

func zapRejectText(text string) zap.Field { return zap.String("reason", text) }

// Reply builders. Emission order within one request follows the engine
// contract: the confirmation always precedes the execution reports it
// triggered.

func (e *Engine) confirmPlacement(order *book.LimitOrder) {
	price := order.OrderPrice
	e.cache.Emit(protocol.OrderPlacementConfirmation{
		Session:                  order.ClientSession,
		Instrument:               order.ClientInstrumentDescriptor,
		Parties:                  order.OrderParties,
		VenueOrderId:             order.VenueOrderId(),
		ClientOrderId:            order.ClientOrderId,
		ExecutionId:              order.NextExecutionId(),
		OrderType:                order.OrderType,
		Side:                     order.Side,
		TimeInForce:              order.TimeInForce,
		OrderPrice:               &price,
		OrderQuantity:            order.TotalQuantity,
		ExpireTime:               order.ExpireTime,
		ExpireDate:               order.ExpireDate,
		ShortSaleExemptionReason: order.ShortSaleExemptionReason,
	})
}

func (e *Engine) confirmMarketPlacement(order *book.MarketOrder, request protocol.OrderPlacementRequest) {
	timeInForce := domain.TimeInForceImmediateOrCancel
	if request.TimeInForce != nil {
		timeInForce = *request.TimeInForce
	}
	e.cache.Emit(protocol.OrderPlacementConfirmation{
		Session:                  order.ClientSession,
		Instrument:               order.ClientInstrumentDescriptor,
		Parties:                  order.OrderParties,
		VenueOrderId:             order.VenueOrderId(),
		ClientOrderId:            order.ClientOrderId,
		ExecutionId:              order.NextExecutionId(),
		OrderType:                domain.OrderTypeMarket,
		Side:                     order.Side,
		TimeInForce:              timeInForce,
		OrderQuantity:            order.TotalQuantity,
		ShortSaleExemptionReason: order.ShortSaleExemptionReason,
	})
}

func (e *Engine) rejectPlacement(request protocol.OrderPlacementRequest, text string) {
	orderId := e.mintOrderId()
	venueOrderId := domain.NewVenueOrderId(orderId)
	e.cache.Emit(protocol.OrderPlacementReject{
		Session:       request.Session,
		Instrument:    request.Instrument,
		VenueOrderId:  venueOrderId,
		ClientOrderId: request.ClientOrderId,
		ExecutionId:   domain.NewExecutionId(venueOrderId, 1),
		RejectText:    domain.RejectText(text),
		OrderType:     request.OrderType,
		Side:          request.Side,
		TimeInForce:   request.TimeInForce,
		OrderPrice:    request.OrderPrice,
		OrderQuantity: request.OrderQuantity,
	})

	e.logger.Debug("order placement request rejected",
		zapRejectText(text),
	)
}

func (e *Engine) confirmModification(order *book.LimitOrder) {
	e.cache.Emit(protocol.OrderModificationConfirmation{
		Session:             order.ClientSession,
		Instrument:          order.ClientInstrumentDescriptor,
		Parties:             order.OrderParties,
		VenueOrderId:        order.VenueOrderId(),
		ClientOrderId:       order.ClientOrderId,
		OrigClientOrderId:   order.OrigClientOrderId,
		ExecutionId:         order.NextExecutionId(),
		OrderType:           order.OrderType,
		Side:                order.Side,
		TimeInForce:         order.TimeInForce,
		OrderStatus:         order.OrderStatus,
		OrderPrice:          order.OrderPrice,
		OrderQuantity:       order.TotalQuantity,
		CumExecutedQuantity: order.CumExecutedQuantity,
		LeavesQuantity:      order.LeavesQuantity(),
	})
}

func (e *Engine) rejectModification(request protocol.OrderModificationRequest, text string) {
	e.cache.Emit(protocol.OrderModificationReject{
		Session:           request.Session,
		Instrument:        request.Instrument,
		VenueOrderId:      request.VenueOrderId,
		ClientOrderId:     request.ClientOrderId,
		OrigClientOrderId: request.OrigClientOrderId,
		RejectText:        domain.RejectText(text),
	})

	e.logger.Debug("order modification request rejected",
		zapRejectText(text),
	)
}

func (e *Engine) confirmCancellation(order *book.LimitOrder) {
	e.cache.Emit(protocol.OrderCancellationConfirmation{
		Session:             order.ClientSession,
		Instrument:          order.ClientInstrumentDescriptor,
		Parties:             order.OrderParties,
		VenueOrderId:        order.VenueOrderId(),
		ClientOrderId:       order.ClientOrderId,
		OrigClientOrderId:   order.OrigClientOrderId,
		ExecutionId:         order.NextExecutionId(),
		OrderType:           order.OrderType,
		Side:                order.Side,
		TimeInForce:         order.TimeInForce,
		OrderStatus:         order.OrderStatus,
		OrderPrice:          order.OrderPrice,
		OrderQuantity:       order.TotalQuantity,
		CumExecutedQuantity: order.CumExecutedQuantity,
		LeavesQuantity:      order.LeavesQuantity(),
	})
}

func (e *Engine) rejectCancellation(request protocol.OrderCancellationRequest, text string) {
	e.cache.Emit(protocol.OrderCancellationReject{
		Session:           request.Session,
		Instrument:        request.Instrument,
		VenueOrderId:      request.VenueOrderId,
		ClientOrderId:     request.ClientOrderId,
		OrigClientOrderId: request.OrigClientOrderId,
		RejectText:        domain.RejectText(text),
	})

	e.logger.Debug("order cancellation request rejected",
		zapRejectText(text),
	)
}

// reportExecutions reports the matching steps of a limit aggressor. For
// every step the resting counterparty's report precedes the aggressor's,
// and the trade is recorded afterwards.
func (e *Engine) reportExecutions(aggressor *book.LimitOrder, executions []book.Execution) {
	for _, execution := range executions {
		aggressor.CumExecutedQuantity = domain.NewQuantity(
			aggressor.CumExecutedQuantity.Value() + execution.Quantity.Value())
		if aggressor.LeavesQuantity().Value() <= 0 {
			aggressor.OrderStatus = domain.OrderStatusFilled
		} else {
			aggressor.OrderStatus = domain.OrderStatusPartiallyFilled
		}

		e.emitTradeReport(execution.Resting, execution, counterpartyId(aggressor.OrderParties))
		e.emitAggressorTradeReport(aggressor, execution)
		e.recordTrade(e.buildTrade(aggressor.Side, execution, aggressor.OrderParties))
	}
}

// reportMarketExecutions is the market order variant of reportExecutions.
func (e *Engine) reportMarketExecutions(aggressor *book.MarketOrder, executions []book.Execution) {
	for _, execution := range executions {
		aggressor.CumExecutedQuantity = domain.NewQuantity(
			aggressor.CumExecutedQuantity.Value() + execution.Quantity.Value())

		e.emitTradeReport(execution.Resting, execution, counterpartyId(aggressor.OrderParties))

		status := domain.OrderStatusPartiallyFilled
		if aggressor.LeavesQuantity().Value() <= 0 {
			status = domain.OrderStatusFilled
		}
		executedPrice := execution.Price
		executedQuantity := execution.Quantity
		e.cache.Emit(protocol.ExecutionReport{
			Session:             aggressor.ClientSession,
			Instrument:          aggressor.ClientInstrumentDescriptor,
			Parties:             aggressor.OrderParties,
			VenueOrderId:        aggressor.VenueOrderId(),
			ClientOrderId:       aggressor.ClientOrderId,
			ExecutionId:         aggressor.NextExecutionId(),
			ExecutionType:       domain.ExecutionTypeOrderTraded,
			OrderStatus:         status,
			OrderType:           domain.OrderTypeMarket,
			Side:                aggressor.Side,
			TimeInForce:         domain.TimeInForceImmediateOrCancel,
			ExecutedPrice:       &executedPrice,
			ExecutedQuantity:    &executedQuantity,
			OrderQuantity:       aggressor.TotalQuantity,
			CumExecutedQuantity: aggressor.CumExecutedQuantity,
			LeavesQuantity:      aggressor.LeavesQuantity(),
			CounterpartyId:      counterpartyId(execution.Resting.OrderParties),
		})

		e.recordTrade(e.buildTrade(aggressor.Side, execution, aggressor.OrderParties))
	}
}

// emitTradeReport reports one execution to the resting counterparty.
func (e *Engine) emitTradeReport(resting *book.LimitOrder, execution book.Execution, counterparty *domain.PartyId) {
	executedPrice := execution.Price
	executedQuantity := execution.Quantity
	orderPrice := resting.OrderPrice
	e.cache.Emit(protocol.ExecutionReport{
		Session:             resting.ClientSession,
		Instrument:          resting.ClientInstrumentDescriptor,
		Parties:             resting.OrderParties,
		VenueOrderId:        resting.VenueOrderId(),
		ClientOrderId:       resting.ClientOrderId,
		ExecutionId:         resting.NextExecutionId(),
		ExecutionType:       domain.ExecutionTypeOrderTraded,
		OrderStatus:         resting.OrderStatus,
		OrderType:           resting.OrderType,
		Side:                resting.Side,
		TimeInForce:         resting.TimeInForce,
		ExecutedPrice:       &executedPrice,
		ExecutedQuantity:    &executedQuantity,
		OrderPrice:          &orderPrice,
		OrderQuantity:       resting.TotalQuantity,
		CumExecutedQuantity: resting.CumExecutedQuantity,
		LeavesQuantity:      resting.LeavesQuantity(),
		CounterpartyId:      counterparty,
	})
}

func (e *Engine) emitAggressorTradeReport(aggressor *book.LimitOrder, execution book.Execution) {
	executedPrice := execution.Price
	executedQuantity := execution.Quantity
	orderPrice := aggressor.OrderPrice
	e.cache.Emit(protocol.ExecutionReport{
		Session:             aggressor.ClientSession,
		Instrument:          aggressor.ClientInstrumentDescriptor,
		Parties:             aggressor.OrderParties,
		VenueOrderId:        aggressor.VenueOrderId(),
		ClientOrderId:       aggressor.ClientOrderId,
		ExecutionId:         aggressor.NextExecutionId(),
		ExecutionType:       domain.ExecutionTypeOrderTraded,
		OrderStatus:         aggressor.OrderStatus,
		OrderType:           aggressor.OrderType,
		Side:                aggressor.Side,
		TimeInForce:         aggressor.TimeInForce,
		ExecutedPrice:       &executedPrice,
		ExecutedQuantity:    &executedQuantity,
		OrderPrice:          &orderPrice,
		OrderQuantity:       aggressor.TotalQuantity,
		CumExecutedQuantity: aggressor.CumExecutedQuantity,
		LeavesQuantity:      aggressor.LeavesQuantity(),
		CounterpartyId:      counterpartyId(execution.Resting.OrderParties),
	})
}

// emitCancelledReport reports the terminal cancellation of a limit order
// with the given reason text.
func (e *Engine) emitCancelledReport(order *book.LimitOrder, reason string) {
	rejectText := domain.RejectText(reason)
	orderPrice := order.OrderPrice
	e.cache.Emit(protocol.ExecutionReport{
		Session:             order.ClientSession,
		Instrument:          order.ClientInstrumentDescriptor,
		Parties:             order.OrderParties,
		VenueOrderId:        order.VenueOrderId(),
		ClientOrderId:       order.ClientOrderId,
		ExecutionId:         order.NextExecutionId(),
		ExecutionType:       domain.ExecutionTypeOrderCancelled,
		OrderStatus:         domain.OrderStatusCancelled,
		OrderType:           order.OrderType,
		Side:                order.Side,
		TimeInForce:         order.TimeInForce,
		OrderPrice:          &orderPrice,
		OrderQuantity:       order.TotalQuantity,
		CumExecutedQuantity: order.CumExecutedQuantity,
		LeavesQuantity:      order.LeavesQuantity(),
		RejectText:          &rejectText,
	})
}

func (e *Engine) emitMarketCancelledReport(order *book.MarketOrder, reason string) {
	rejectText := domain.RejectText(reason)
	e.cache.Emit(protocol.ExecutionReport{
		Session:             order.ClientSession,
		Instrument:          order.ClientInstrumentDescriptor,
		Parties:             order.OrderParties,
		VenueOrderId:        order.VenueOrderId(),
		ClientOrderId:       order.ClientOrderId,
		ExecutionId:         order.NextExecutionId(),
		ExecutionType:       domain.ExecutionTypeOrderCancelled,
		OrderStatus:         domain.OrderStatusCancelled,
		OrderType:           domain.OrderTypeMarket,
		Side:                order.Side,
		TimeInForce:         domain.TimeInForceImmediateOrCancel,
		OrderQuantity:       order.TotalQuantity,
		CumExecutedQuantity: order.CumExecutedQuantity,
		LeavesQuantity:      order.LeavesQuantity(),
		RejectText:          &rejectText,
	})
}

// emitFilledOnReduction closes an order whose modification reduced the
// total quantity to the executed quantity.
func (e *Engine) emitFilledOnReduction(order *book.LimitOrder) {
	orderPrice := order.OrderPrice
	e.cache.Emit(protocol.ExecutionReport{
		Session:             order.ClientSession,
		Instrument:          order.ClientInstrumentDescriptor,
		Parties:             order.OrderParties,
		VenueOrderId:        order.VenueOrderId(),
		ClientOrderId:       order.ClientOrderId,
		ExecutionId:         order.NextExecutionId(),
		ExecutionType:       domain.ExecutionTypeOrderTraded,
		OrderStatus:         domain.OrderStatusFilled,
		OrderType:           order.OrderType,
		Side:                order.Side,
		TimeInForce:         order.TimeInForce,
		OrderPrice:          &orderPrice,
		OrderQuantity:       order.TotalQuantity,
		CumExecutedQuantity: order.CumExecutedQuantity,
		LeavesQuantity:      domain.NewQuantity(0),
	})
}

// buildTrade composes the immutable trade record of one execution step.
func (e *Engine) buildTrade(aggressorSide domain.Side, execution book.Execution, aggressorParties []domain.Party) domain.Trade {
	var buyer, seller *domain.PartyId
	if aggressorSide == domain.SideBuy {
		buyer = counterpartyId(aggressorParties)
		seller = counterpartyId(execution.Resting.OrderParties)
	} else {
		buyer = counterpartyId(execution.Resting.OrderParties)
		seller = counterpartyId(aggressorParties)
	}
	return domain.Trade{
		Buyer:         buyer,
		Seller:        seller,
		Price:         execution.Price,
		Quantity:      execution.Quantity,
		AggressorSide: domain.AggressorSide(aggressorSide),
		Time:          domain.NewUTCTimestamp(e.clock()),
		Phase:         e.phase,
	}
}

// counterpartyId extracts the identifier a counterparty is reported
// under: the first party on the order, when present.
func counterpartyId(parties []domain.Party) *domain.PartyId {
	if len(parties) == 0 {
		return nil
	}
	id := parties[0].PartyId
	return &id
}
