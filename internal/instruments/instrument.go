package instruments

import (
	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// InstrumentId is a dense instrument identifier assigned when the
// catalogue is built. Ids index the engine registry directly.
type InstrumentId uint64

// Instrument is the immutable description of a listed instrument.
// Optional string identifiers are empty when absent.
type Instrument struct {
	Id InstrumentId

	Symbol           string
	SecurityType     domain.SecurityType
	PriceCurrency    string
	BaseCurrency     string
	SecurityExchange string

	Cusip       string
	Sedol       string
	Isin        string
	Ric         string
	ExchangeId  string
	BloombergId string

	PartyId   string
	PartyRole domain.PartyRole

	PriceTick    domain.Price
	QuantityTick domain.Quantity
	MinQuantity  domain.Quantity
	MaxQuantity  domain.Quantity
}

// Descriptor renders the instrument's identifying attributes as a client
// facing descriptor, used when the core composes messages on its own
// behalf (e.g. recovered state replies).
func (i Instrument) Descriptor() domain.InstrumentDescriptor {
	descriptor := domain.InstrumentDescriptor{}
	if i.Symbol != "" {
		symbol := domain.Symbol(i.Symbol)
		descriptor.Symbol = &symbol
	}
	if i.SecurityExchange != "" {
		exchange := domain.SecurityExchange(i.SecurityExchange)
		descriptor.SecurityExchange = &exchange
	}
	if i.PriceCurrency != "" {
		currency := domain.Currency(i.PriceCurrency)
		descriptor.Currency = &currency
	}
	securityType := i.SecurityType
	descriptor.SecurityType = &securityType
	return descriptor
}

// Matches reports whether a persisted instrument record describes this
// instrument. Identity is decided by the identifying attributes, not by
// catalogue position.
func (i Instrument) Matches(symbol, exchange string, securityType domain.SecurityType) bool {
	return i.Symbol == symbol &&
		i.SecurityExchange == exchange &&
		i.SecurityType == securityType
}
