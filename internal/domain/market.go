package domain

// MarketPhase is the pair of trading phase and trading status controlling
// whether matching and resting are permitted on an instrument.
type MarketPhase struct {
	Phase  TradingPhase  `json:"trading_phase"`
	Status TradingStatus `json:"trading_status"`
}

// MarketPhaseOpen is the default phase of a freshly started market.
func MarketPhaseOpen() MarketPhase {
	return MarketPhase{Phase: TradingPhaseOpen, Status: TradingStatusResume}
}

// AllowsMatching reports whether aggressing orders may execute against
// the book in this phase.
func (p MarketPhase) AllowsMatching() bool {
	return p.Phase == TradingPhaseOpen && p.Status == TradingStatusResume
}

// AllowsResting reports whether limit orders may be placed into the book
// in this phase.
func (p MarketPhase) AllowsResting() bool {
	return p.Phase != TradingPhaseClosed && p.Phase != TradingPhasePostTrading
}

// AllowsPlacement reports whether placement requests are accepted at all
// in this phase.
func (p MarketPhase) AllowsPlacement() bool { return p.AllowsResting() }

func (p MarketPhase) String() string {
	return p.Phase.String() + "/" + p.Status.String()
}

// InstrumentDescriptor is a bundle of possibly-partial instrument
// identifiers supplied by a client, resolved to an instrument by the
// instrument resolver.
type InstrumentDescriptor struct {
	SecurityId            *SecurityId       `json:"security_id,omitempty"`
	SecurityIdSource      *SecurityIdSource `json:"security_id_source,omitempty"`
	Symbol                *Symbol           `json:"symbol,omitempty"`
	Currency              *Currency         `json:"currency,omitempty"`
	SecurityExchange      *SecurityExchange `json:"security_exchange,omitempty"`
	SecurityType          *SecurityType     `json:"security_type,omitempty"`
	Parties               []Party           `json:"parties,omitempty"`
	RequesterInstrumentId *uint64           `json:"requester_instrument_id,omitempty"`
}

// MarketDataEntry is a single market data element published to a
// subscriber, either inside a snapshot or an incremental update.
type MarketDataEntry struct {
	Id            *MarketEntryId
	BuyerId       *PartyId
	SellerId      *PartyId
	Time          *UTCTimestamp
	Price         *Price
	Quantity      *Quantity
	Phase         *MarketPhase
	AggressorSide *AggressorSide
	Action        *MarketEntryAction
	Type          MdEntryType
}

// Trade is an immutable record of a crossing between two orders.
type Trade struct {
	Buyer         *PartyId      `json:"buyer"`
	Seller        *PartyId      `json:"seller"`
	Price         Price         `json:"price"`
	Quantity      Quantity      `json:"quantity"`
	AggressorSide AggressorSide `json:"aggressor_side"`
	Time          UTCTimestamp  `json:"time"`
	Phase         MarketPhase   `json:"phase"`
}
