package domain

// Identifier literals. Each wire identifier is a distinct nominal type
// so unrelated attributes cannot be mixed, even where the underlying
// primitive is the same.

// Symbol is the human-readable ticker of an instrument.
type Symbol string

func (s Symbol) String() string { return string(s) }

// Currency is an ISO currency code.
type Currency string

func (c Currency) String() string { return string(c) }

// SecurityExchange is the exchange (MIC) an instrument is listed on.
type SecurityExchange string

func (e SecurityExchange) String() string { return string(e) }

// SecurityId is a security identifier interpreted per SecurityIdSource.
type SecurityId string

func (id SecurityId) String() string { return string(id) }

// PartyId identifies a trading participant.
type PartyId string

func (id PartyId) String() string { return string(id) }

// ClientOrderId is the client-assigned order identifier.
type ClientOrderId string

func (id ClientOrderId) String() string { return string(id) }

// OrigClientOrderId is a derived attribute over ClientOrderId: the
// previously assigned client order identifier referenced by a
// modification or cancellation. It compares and formats identically to
// ClientOrderId.
type OrigClientOrderId string

func (id OrigClientOrderId) String() string { return string(id) }

// MdRequestId identifies a market data request and its subscription.
type MdRequestId string

func (id MdRequestId) String() string { return string(id) }

// SecurityStatusReqId identifies a security status request and its
// subscription.
type SecurityStatusReqId string

func (id SecurityStatusReqId) String() string { return string(id) }

// MarketEntryId identifies one published market data entry.
type MarketEntryId string

func (id MarketEntryId) String() string { return string(id) }

// RejectText is the human-readable reason attached to a rejection.
type RejectText string

func (t RejectText) String() string { return string(t) }

// SeqNum is the session-level sequence number of an inbound message,
// echoed on business message rejects.
type SeqNum uint64
