// Package marketstate defines the persisted image of the trading
// system: every engine's order book, last trade and session statistics,
// used for cold restart.
package marketstate

import (
	"fmt"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/instruments"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// Snapshot is the persisted market state of a whole venue.
type Snapshot struct {
	VenueId     string            `json:"venue_id"`
	Instruments []InstrumentState `json:"instruments"`
}

// InstrumentState is the persisted state of one instrument.
type InstrumentState struct {
	Instrument InstrumentRecord `json:"instrument"`
	LastTrade  *domain.Trade    `json:"last_trade,omitempty"`
	Info       *InstrumentInfo  `json:"info,omitempty"`
	OrderBook  OrderBookState   `json:"order_book"`
}

// InstrumentRecord carries the identifying attributes of an instrument.
type InstrumentRecord struct {
	Symbol           string              `json:"symbol"`
	PriceCurrency    string              `json:"price_currency,omitempty"`
	BaseCurrency     string              `json:"base_currency,omitempty"`
	SecurityExchange string              `json:"security_exchange,omitempty"`
	PartyId          string              `json:"party_id,omitempty"`
	PartyRole        *domain.PartyRole   `json:"party_role,omitempty"`
	Cusip            string              `json:"cusip,omitempty"`
	Sedol            string              `json:"sedol,omitempty"`
	Isin             string              `json:"isin,omitempty"`
	Ric              string              `json:"ric,omitempty"`
	ExchangeId       string              `json:"exchange_id,omitempty"`
	BloombergId      string              `json:"bloomberg_id,omitempty"`
	PriceTick        domain.Price        `json:"price_tick"`
	QuantityTick     domain.Quantity     `json:"quantity_tick"`
	MinQuantity      domain.Quantity     `json:"min_quantity"`
	MaxQuantity      domain.Quantity     `json:"max_quantity"`
	SecurityType     domain.SecurityType `json:"security_type"`
}

// RecordInstrument converts a catalogue instrument into its persisted
// record.
func RecordInstrument(instrument instruments.Instrument) InstrumentRecord {
	record := InstrumentRecord{
		Symbol:           instrument.Symbol,
		PriceCurrency:    instrument.PriceCurrency,
		BaseCurrency:     instrument.BaseCurrency,
		SecurityExchange: instrument.SecurityExchange,
		PartyId:          instrument.PartyId,
		Cusip:            instrument.Cusip,
		Sedol:            instrument.Sedol,
		Isin:             instrument.Isin,
		Ric:              instrument.Ric,
		ExchangeId:       instrument.ExchangeId,
		BloombergId:      instrument.BloombergId,
		PriceTick:        instrument.PriceTick,
		QuantityTick:     instrument.QuantityTick,
		MinQuantity:      instrument.MinQuantity,
		MaxQuantity:      instrument.MaxQuantity,
		SecurityType:     instrument.SecurityType,
	}
	if instrument.PartyId != "" {
		role := instrument.PartyRole
		record.PartyRole = &role
	}
	return record
}

// InstrumentInfo carries session price statistics.
type InstrumentInfo struct {
	LowPrice  *domain.Price `json:"low_price,omitempty"`
	HighPrice *domain.Price `json:"high_price,omitempty"`
}

// OrderBookState is the persisted order book of one instrument. Orders
// appear in book order: price levels best-first, FIFO within a level.
type OrderBookState struct {
	BuyOrders  []LimitOrder `json:"buy_orders"`
	SellOrders []LimitOrder `json:"sell_orders"`
}

// LimitOrder is the persisted form of a resting order.
type LimitOrder struct {
	ClientInstrumentDescriptor domain.InstrumentDescriptor      `json:"client_instrument_descriptor"`
	ClientSession              protocol.Session                 `json:"client_session"`
	ClientOrderId              *domain.ClientOrderId            `json:"client_order_id,omitempty"`
	OrderParties               []domain.Party                   `json:"order_parties,omitempty"`
	ExpireTime                 *domain.UTCTimestamp             `json:"expire_time,omitempty"`
	ExpireDate                 *domain.LocalDate                `json:"expire_date,omitempty"`
	ShortSaleExemptionReason   *domain.ShortSaleExemptionReason `json:"short_sale_exemption_reason,omitempty"`
	TimeInForce                domain.TimeInForce               `json:"time_in_force"`
	OrderId                    uint64                           `json:"order_id"`
	OrderTime                  domain.UTCTimestamp              `json:"order_time"`
	Side                       domain.Side                      `json:"side"`
	OrderStatus                domain.OrderStatus               `json:"order_status"`
	OrderPrice                 domain.Price                     `json:"order_price"`
	TotalQuantity              domain.Quantity                  `json:"total_quantity"`
	CumExecutedQuantity        domain.Quantity                  `json:"cum_executed_quantity"`
}

// Validate verifies that every required field of a decoded snapshot is
// present. Errors are path-qualified for the persistence controller's
// malformed-file report.
func (s *Snapshot) Validate() error {
	if s.VenueId == "" {
		return missingField("venue_id")
	}
	for idx := range s.Instruments {
		if err := s.Instruments[idx].validate(fmt.Sprintf("instruments[%d]", idx)); err != nil {
			return err
		}
	}
	return nil
}

func (s *InstrumentState) validate(path string) error {
	if s.Instrument.Symbol == "" {
		return missingField(path + ".instrument.symbol")
	}
	if s.Instrument.SecurityType == 0 {
		return missingField(path + ".instrument.security_type")
	}
	for idx := range s.OrderBook.BuyOrders {
		orderPath := fmt.Sprintf("%s.order_book.buy_orders[%d]", path, idx)
		if err := s.OrderBook.BuyOrders[idx].validate(orderPath); err != nil {
			return err
		}
	}
	for idx := range s.OrderBook.SellOrders {
		orderPath := fmt.Sprintf("%s.order_book.sell_orders[%d]", path, idx)
		if err := s.OrderBook.SellOrders[idx].validate(orderPath); err != nil {
			return err
		}
	}
	return nil
}

func (o *LimitOrder) validate(path string) error {
	if o.OrderId == 0 {
		return missingField(path + ".order_id")
	}
	if o.ClientSession.Type == 0 {
		return missingField(path + ".client_session")
	}
	if o.ClientSession.Type == protocol.SessionTypeFix && o.ClientSession.Fix == nil {
		return missingField(path + ".client_session.fix_session")
	}
	if o.Side == 0 {
		return missingField(path + ".side")
	}
	if o.OrderStatus == 0 {
		return missingField(path + ".order_status")
	}
	if o.TimeInForce == 0 {
		return missingField(path + ".time_in_force")
	}
	if o.OrderTime.Time().IsZero() {
		return missingField(path + ".order_time")
	}
	if o.OrderPrice == 0 {
		return missingField(path + ".order_price")
	}
	if o.TotalQuantity == 0 {
		return missingField(path + ".total_quantity")
	}
	return nil
}

func missingField(path string) error {
	return fmt.Errorf("failed to parse field '%s': missing required field", path)
}
