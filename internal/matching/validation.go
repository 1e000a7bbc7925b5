package matching

import (
	"time"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/instruments"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// Canonical reject texts produced by the request validator. Each text
// belongs to exactly one check; the first failing check short-circuits the
// chain and its text is sent to the client verbatim.
const (
	rejectSideMissing          = "order side is missing"
	rejectSideNotSupported     = "order side is not supported"
	rejectOrderTypeMissing     = "order type is missing"
	rejectOrderTypeUnsupported = "order type is not supported"
	rejectQuantityMissing      = "order quantity is missing"
	rejectQuantityBelowMin     = "order quantity is less than the minimal instrument quantity"
	rejectQuantityAboveMax     = "order quantity is greater than the maximal instrument quantity"
	rejectQuantityTick         = "order quantity is not a multiple of the instrument quantity tick"
	rejectPriceMissing         = "order price is missing"
	rejectPriceUnexpected      = "order price is not expected for a market order"
	rejectPriceTick            = "order price is not a multiple of the instrument price tick"
	rejectTimeInForce          = "time in force is not supported"
	rejectExpireInfoMissing    = "expire time or expire date is required for a good-till-date order"
	rejectExpireInfoBoth       = "both expire time and expire date are specified"
	rejectAlreadyExpired       = "order is already expired"
)

// validationConclusion is the outcome of a validation run: success, or a
// failure carrying the reject text of the first violated check.
type validationConclusion struct {
	failed bool
	text   string
}

func validationSuccess() validationConclusion { return validationConclusion{} }

func validationFailure(text string) validationConclusion {
	return validationConclusion{failed: true, text: text}
}

// requestValidator runs the fixed checker chain over client order
// requests prior to any engine state change.
type requestValidator struct {
	instrument instruments.Instrument
	clock      func() time.Time
}

func newRequestValidator(instrument instruments.Instrument, clock func() time.Time) *requestValidator {
	return &requestValidator{instrument: instrument, clock: clock}
}

type orderCheck func() *string

func runChecks(checks []orderCheck) validationConclusion {
	for _, check := range checks {
		if text := check(); text != nil {
			return validationFailure(*text)
		}
	}
	return validationSuccess()
}

func failure(text string) *string { return &text }

// ValidatePlacement validates an order placement request.
func (v *requestValidator) ValidatePlacement(request protocol.OrderPlacementRequest) validationConclusion {
	return v.validateOrderFields(orderFields{
		side:        request.Side,
		orderType:   request.OrderType,
		timeInForce: request.TimeInForce,
		price:       request.OrderPrice,
		quantity:    request.OrderQuantity,
		expireTime:  request.ExpireTime,
		expireDate:  request.ExpireDate,
	})
}

// ValidateModification validates an order modification request.
func (v *requestValidator) ValidateModification(request protocol.OrderModificationRequest) validationConclusion {
	return v.validateOrderFields(orderFields{
		side:        request.Side,
		orderType:   request.OrderType,
		timeInForce: request.TimeInForce,
		price:       request.OrderPrice,
		quantity:    request.OrderQuantity,
		expireTime:  request.ExpireTime,
		expireDate:  request.ExpireDate,
	})
}

// ValidateCancellation validates an order cancellation request.
func (v *requestValidator) ValidateCancellation(request protocol.OrderCancellationRequest) validationConclusion {
	return runChecks([]orderCheck{
		v.checkSidePresent(request.Side),
		v.checkSideSupported(request.Side),
	})
}

type orderFields struct {
	side        *domain.Side
	orderType   *domain.OrderType
	timeInForce *domain.TimeInForce
	price       *domain.Price
	quantity    *domain.Quantity
	expireTime  *domain.UTCTimestamp
	expireDate  *domain.LocalDate
}

func (v *requestValidator) validateOrderFields(fields orderFields) validationConclusion {
	checks := []orderCheck{
		v.checkSidePresent(fields.side),
		v.checkSideSupported(fields.side),
		v.checkOrderTypePresent(fields.orderType),
		v.checkOrderTypeSupported(fields.orderType),
		v.checkQuantityPresent(fields.quantity),
		v.checkQuantityRespectsMinimum(fields.quantity),
		v.checkQuantityRespectsMaximum(fields.quantity),
		v.checkQuantityRespectsTick(fields.quantity),
		v.checkPricePresence(fields.orderType, fields.price),
		v.checkPriceRespectsTick(fields.orderType, fields.price),
		v.checkTimeInForceSupported(fields.orderType, fields.timeInForce),
		v.checkExpireInfo(fields.timeInForce, fields.expireTime, fields.expireDate),
		v.checkNotExpired(fields.timeInForce, fields.expireTime, fields.expireDate),
	}
	return runChecks(checks)
}

func (v *requestValidator) checkSidePresent(side *domain.Side) orderCheck {
	return func() *string {
		if side == nil {
			return failure(rejectSideMissing)
		}
		return nil
	}
}

func (v *requestValidator) checkSideSupported(side *domain.Side) orderCheck {
	return func() *string {
		if side == nil {
			return nil
		}
		switch *side {
		case domain.SideBuy, domain.SideSell, domain.SideSellShort, domain.SideSellShortExempt:
			return nil
		}
		return failure(rejectSideNotSupported)
	}
}

func (v *requestValidator) checkOrderTypePresent(orderType *domain.OrderType) orderCheck {
	return func() *string {
		if orderType == nil {
			return failure(rejectOrderTypeMissing)
		}
		return nil
	}
}

func (v *requestValidator) checkOrderTypeSupported(orderType *domain.OrderType) orderCheck {
	return func() *string {
		if orderType == nil {
			return nil
		}
		switch *orderType {
		case domain.OrderTypeLimit, domain.OrderTypeMarket:
			return nil
		}
		return failure(rejectOrderTypeUnsupported)
	}
}

func (v *requestValidator) checkQuantityPresent(quantity *domain.Quantity) orderCheck {
	return func() *string {
		if quantity == nil {
			return failure(rejectQuantityMissing)
		}
		return nil
	}
}

func (v *requestValidator) checkQuantityRespectsMinimum(quantity *domain.Quantity) orderCheck {
	return func() *string {
		if quantity == nil {
			return nil
		}
		if quantity.Value() < v.instrument.MinQuantity.Value() {
			return failure(rejectQuantityBelowMin)
		}
		return nil
	}
}

func (v *requestValidator) checkQuantityRespectsMaximum(quantity *domain.Quantity) orderCheck {
	return func() *string {
		if quantity == nil {
			return nil
		}
		if v.instrument.MaxQuantity.Value() > 0 && quantity.Value() > v.instrument.MaxQuantity.Value() {
			return failure(rejectQuantityAboveMax)
		}
		return nil
	}
}

func (v *requestValidator) checkQuantityRespectsTick(quantity *domain.Quantity) orderCheck {
	return func() *string {
		if quantity == nil {
			return nil
		}
		if !quantity.RespectsTick(v.instrument.QuantityTick) {
			return failure(rejectQuantityTick)
		}
		return nil
	}
}

// checkPricePresence enforces price-present-iff-limit.
func (v *requestValidator) checkPricePresence(orderType *domain.OrderType, price *domain.Price) orderCheck {
	return func() *string {
		if orderType == nil {
			return nil
		}
		switch *orderType {
		case domain.OrderTypeLimit:
			if price == nil {
				return failure(rejectPriceMissing)
			}
		case domain.OrderTypeMarket:
			if price != nil {
				return failure(rejectPriceUnexpected)
			}
		}
		return nil
	}
}

func (v *requestValidator) checkPriceRespectsTick(orderType *domain.OrderType, price *domain.Price) orderCheck {
	return func() *string {
		if orderType == nil || *orderType != domain.OrderTypeLimit || price == nil {
			return nil
		}
		if price.Value() <= 0 || !price.RespectsTick(v.instrument.PriceTick) {
			return failure(rejectPriceTick)
		}
		return nil
	}
}

func (v *requestValidator) checkTimeInForceSupported(orderType *domain.OrderType, timeInForce *domain.TimeInForce) orderCheck {
	return func() *string {
		if timeInForce == nil {
			// Absent time in force defaults to Day downstream.
			return nil
		}
		switch *timeInForce {
		case domain.TimeInForceDay, domain.TimeInForceImmediateOrCancel,
			domain.TimeInForceFillOrKill, domain.TimeInForceGoodTillDate,
			domain.TimeInForceGoodTillCancel:
			return nil
		}
		return failure(rejectTimeInForce)
	}
}

func (v *requestValidator) checkExpireInfo(timeInForce *domain.TimeInForce, expireTime *domain.UTCTimestamp, expireDate *domain.LocalDate) orderCheck {
	return func() *string {
		if expireTime != nil && expireDate != nil {
			return failure(rejectExpireInfoBoth)
		}
		if timeInForce == nil || *timeInForce != domain.TimeInForceGoodTillDate {
			return nil
		}
		if expireTime == nil && expireDate == nil {
			return failure(rejectExpireInfoMissing)
		}
		return nil
	}
}

func (v *requestValidator) checkNotExpired(timeInForce *domain.TimeInForce, expireTime *domain.UTCTimestamp, expireDate *domain.LocalDate) orderCheck {
	return func() *string {
		if timeInForce == nil || *timeInForce != domain.TimeInForceGoodTillDate {
			return nil
		}
		now := v.clock()
		if expireTime != nil && !now.Before(expireTime.Time()) {
			return failure(rejectAlreadyExpired)
		}
		if expireDate != nil && !now.Before(expireDate.EndOfDay(now.Location())) {
			return failure(rejectAlreadyExpired)
		}
		return nil
	}
}
