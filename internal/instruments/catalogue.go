package instruments

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// Catalogue is the immutable instrument universe built once at startup.
// It is safe for unsynchronised concurrent reads.
type Catalogue struct {
	instruments []Instrument

	bySecurityId  map[securityIdKey]InstrumentId
	bySymbol      map[string][]InstrumentId
	byCusip       map[string]InstrumentId
	bySedol       map[string]InstrumentId
	byIsin        map[string]InstrumentId
	byRic         map[string]InstrumentId
	byExchangeId  map[string]InstrumentId
	byBloombergId map[string]InstrumentId
	byParty       map[partyKey]InstrumentId
}

type securityIdKey struct {
	source domain.SecurityIdSource
	id     string
}

type partyKey struct {
	partyId string
	role    domain.PartyRole
}

// BuildCatalogue assigns dense instrument ids and populates a lookup
// index entry for every non-empty identifying attribute. Identifier
// collisions are a configuration defect and fail the build: resolution
// must stay injective.
func BuildCatalogue(listings []Instrument, logger *zap.Logger) (*Catalogue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalogue := &Catalogue{
		instruments:   make([]Instrument, 0, len(listings)),
		bySecurityId:  make(map[securityIdKey]InstrumentId),
		bySymbol:      make(map[string][]InstrumentId),
		byCusip:       make(map[string]InstrumentId),
		bySedol:       make(map[string]InstrumentId),
		byIsin:        make(map[string]InstrumentId),
		byRic:         make(map[string]InstrumentId),
		byExchangeId:  make(map[string]InstrumentId),
		byBloombergId: make(map[string]InstrumentId),
		byParty:       make(map[partyKey]InstrumentId),
	}

	for idx, listing := range listings {
		listing.Id = InstrumentId(idx)
		if err := catalogue.index(listing); err != nil {
			return nil, err
		}
		catalogue.instruments = append(catalogue.instruments, listing)

		logger.Debug("indexed instrument",
			zap.Uint64("instrumentID", uint64(listing.Id)),
			zap.String("symbol", listing.Symbol),
			zap.String("exchange", listing.SecurityExchange),
		)
	}

	logger.Info("instrument catalogue built",
		zap.Int("instruments", len(catalogue.instruments)),
	)

	return catalogue, nil
}

func (c *Catalogue) index(instrument Instrument) error {
	id := instrument.Id

	if instrument.Symbol != "" {
		c.bySymbol[instrument.Symbol] = append(c.bySymbol[instrument.Symbol], id)
	}

	type altIndex struct {
		index  map[string]InstrumentId
		value  string
		source domain.SecurityIdSource
	}
	alternatives := []altIndex{
		{c.byCusip, instrument.Cusip, domain.SecurityIdSourceCusip},
		{c.bySedol, instrument.Sedol, domain.SecurityIdSourceSedol},
		{c.byIsin, instrument.Isin, domain.SecurityIdSourceIsin},
		{c.byRic, instrument.Ric, domain.SecurityIdSourceRic},
		{c.byExchangeId, instrument.ExchangeId, domain.SecurityIdSourceExchangeSymbol},
		{c.byBloombergId, instrument.BloombergId, domain.SecurityIdSourceBloombergSymbol},
	}
	for _, alt := range alternatives {
		if alt.value == "" {
			continue
		}
		if existing, taken := alt.index[alt.value]; taken {
			return fmt.Errorf(
				"instrument %q: %s identifier %q already assigned to instrument %d",
				instrument.Symbol, alt.source, alt.value, existing)
		}
		alt.index[alt.value] = id
		c.bySecurityId[securityIdKey{source: alt.source, id: alt.value}] = id
	}

	if instrument.PartyId != "" {
		key := partyKey{partyId: instrument.PartyId, role: instrument.PartyRole}
		if existing, taken := c.byParty[key]; taken {
			return fmt.Errorf(
				"instrument %q: party (%s, %s) already assigned to instrument %d",
				instrument.Symbol, instrument.PartyId, instrument.PartyRole, existing)
		}
		c.byParty[key] = id
	}

	return nil
}

// Size returns the number of listed instruments.
func (c *Catalogue) Size() int { return len(c.instruments) }

// ViewInstrument looks up an instrument by its dense identifier.
func (c *Catalogue) ViewInstrument(id InstrumentId) (Instrument, bool) {
	if int(id) >= len(c.instruments) {
		return Instrument{}, false
	}
	return c.instruments[id], true
}

// ForEach visits every instrument in catalogue order.
func (c *Catalogue) ForEach(visit func(instrument Instrument)) {
	for _, instrument := range c.instruments {
		visit(instrument)
	}
}

// FindByIdentity locates an instrument by its identifying attributes.
// Used to match persisted instrument states back to engines.
func (c *Catalogue) FindByIdentity(symbol, exchange string, securityType domain.SecurityType) (Instrument, bool) {
	for _, instrument := range c.instruments {
		if instrument.Matches(symbol, exchange, securityType) {
			return instrument, true
		}
	}
	return Instrument{}, false
}
