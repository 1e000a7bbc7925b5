package domain

import "fmt"

// Side represents the side of an order.
type Side uint8

const (
	// SideBuy represents a buy order
	SideBuy Side = iota + 1
	// SideSell represents a sell order
	SideSell
	// SideSellShort represents a short sell order
	SideSellShort
	// SideSellShortExempt represents a short sell order exempt from the uptick rule
	SideSellShortExempt
)

var sideNames = map[Side]string{
	SideBuy:             "Buy",
	SideSell:            "Sell",
	SideSellShort:       "SellShort",
	SideSellShortExempt: "SellShortExempt",
}

func (s Side) String() string { return enumString(sideNames, s) }

// Opposite returns the side resting orders are matched from when s aggresses.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// IsSell reports whether the side takes liquidity from the buy side.
// Short-sale sides are matched exactly as Sell.
func (s Side) IsSell() bool {
	return s == SideSell || s == SideSellShort || s == SideSellShortExempt
}

// ParseSide converts a canonical string into a Side.
func ParseSide(v string) (Side, error) { return enumParse(sideNames, v, "Side") }

func (s Side) MarshalText() ([]byte, error)  { return enumMarshal(sideNames, s, "Side") }
func (s *Side) UnmarshalText(b []byte) error { return enumUnmarshal(sideNames, b, "Side", s) }

// AggressorSide is a derived attribute over Side: it identifies the side
// of the incoming order that consumed liquidity in a trade. It compares
// and formats identically to Side.
type AggressorSide uint8

func (s AggressorSide) String() string { return Side(s).String() }

// ParseAggressorSide converts a canonical string into an AggressorSide.
func ParseAggressorSide(v string) (AggressorSide, error) {
	side, err := enumParse(sideNames, v, "AggressorSide")
	return AggressorSide(side), err
}

func (s AggressorSide) MarshalText() ([]byte, error) {
	return enumMarshal(sideNames, Side(s), "AggressorSide")
}

func (s *AggressorSide) UnmarshalText(b []byte) error {
	var side Side
	if err := enumUnmarshal(sideNames, b, "AggressorSide", &side); err != nil {
		return err
	}
	*s = AggressorSide(side)
	return nil
}

// OrderType represents the type of an order.
type OrderType uint8

const (
	// OrderTypeLimit represents a limit order
	OrderTypeLimit OrderType = iota + 1
	// OrderTypeMarket represents a market order
	OrderTypeMarket
)

var orderTypeNames = map[OrderType]string{
	OrderTypeLimit:  "Limit",
	OrderTypeMarket: "Market",
}

func (t OrderType) String() string { return enumString(orderTypeNames, t) }

// ParseOrderType converts a canonical string into an OrderType.
func ParseOrderType(v string) (OrderType, error) { return enumParse(orderTypeNames, v, "OrderType") }

func (t OrderType) MarshalText() ([]byte, error) { return enumMarshal(orderTypeNames, t, "OrderType") }
func (t *OrderType) UnmarshalText(b []byte) error {
	return enumUnmarshal(orderTypeNames, b, "OrderType", t)
}

// TimeInForce represents the lifetime constraint of an order.
type TimeInForce uint8

const (
	// TimeInForceDay expires at the end of the local trading day
	TimeInForceDay TimeInForce = iota + 1
	// TimeInForceImmediateOrCancel cancels any unmatched quantity immediately
	TimeInForceImmediateOrCancel
	// TimeInForceFillOrKill executes fully or is cancelled entirely
	TimeInForceFillOrKill
	// TimeInForceGoodTillDate expires at the specified time or date
	TimeInForceGoodTillDate
	// TimeInForceGoodTillCancel rests until explicitly cancelled
	TimeInForceGoodTillCancel
)

var timeInForceNames = map[TimeInForce]string{
	TimeInForceDay:               "Day",
	TimeInForceImmediateOrCancel: "ImmediateOrCancel",
	TimeInForceFillOrKill:        "FillOrKill",
	TimeInForceGoodTillDate:      "GoodTillDate",
	TimeInForceGoodTillCancel:    "GoodTillCancel",
}

func (t TimeInForce) String() string { return enumString(timeInForceNames, t) }

// CanRest reports whether an order with this time in force may be placed
// into the book. ImmediateOrCancel and FillOrKill orders never rest.
func (t TimeInForce) CanRest() bool {
	return t == TimeInForceDay || t == TimeInForceGoodTillDate || t == TimeInForceGoodTillCancel
}

// SurvivesSessionLoss reports whether resting orders with this time in
// force are kept when the owning client session terminates.
func (t TimeInForce) SurvivesSessionLoss() bool {
	return t == TimeInForceGoodTillCancel
}

// ParseTimeInForce converts a canonical string into a TimeInForce.
func ParseTimeInForce(v string) (TimeInForce, error) {
	return enumParse(timeInForceNames, v, "TimeInForce")
}

func (t TimeInForce) MarshalText() ([]byte, error) {
	return enumMarshal(timeInForceNames, t, "TimeInForce")
}

func (t *TimeInForce) UnmarshalText(b []byte) error {
	return enumUnmarshal(timeInForceNames, b, "TimeInForce", t)
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus uint8

const (
	// OrderStatusNew represents an accepted order without executions
	OrderStatusNew OrderStatus = iota + 1
	// OrderStatusPartiallyFilled represents an order with partial executions
	OrderStatusPartiallyFilled
	// OrderStatusFilled represents a fully executed order
	OrderStatusFilled
	// OrderStatusModified represents an order changed by a modification request
	OrderStatusModified
	// OrderStatusCancelled represents a cancelled order
	OrderStatusCancelled
	// OrderStatusRejected represents a rejected request
	OrderStatusRejected
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusNew:             "New",
	OrderStatusPartiallyFilled: "PartiallyFilled",
	OrderStatusFilled:          "Filled",
	OrderStatusModified:        "Modified",
	OrderStatusCancelled:       "Cancelled",
	OrderStatusRejected:        "Rejected",
}

func (s OrderStatus) String() string { return enumString(orderStatusNames, s) }

// ParseOrderStatus converts a canonical string into an OrderStatus.
func ParseOrderStatus(v string) (OrderStatus, error) {
	return enumParse(orderStatusNames, v, "OrderStatus")
}

func (s OrderStatus) MarshalText() ([]byte, error) {
	return enumMarshal(orderStatusNames, s, "OrderStatus")
}

func (s *OrderStatus) UnmarshalText(b []byte) error {
	return enumUnmarshal(orderStatusNames, b, "OrderStatus", s)
}

// ExecutionType classifies an execution report.
type ExecutionType uint8

const (
	// ExecutionTypeOrderPlaced confirms an order placement
	ExecutionTypeOrderPlaced ExecutionType = iota + 1
	// ExecutionTypeOrderModified confirms an order modification
	ExecutionTypeOrderModified
	// ExecutionTypeOrderCancelled confirms an order cancellation
	ExecutionTypeOrderCancelled
	// ExecutionTypeRejected reports a rejected request
	ExecutionTypeRejected
	// ExecutionTypeOrderTraded reports a trade
	ExecutionTypeOrderTraded
)

var executionTypeNames = map[ExecutionType]string{
	ExecutionTypeOrderPlaced:    "OrderPlaced",
	ExecutionTypeOrderModified:  "OrderModified",
	ExecutionTypeOrderCancelled: "OrderCancelled",
	ExecutionTypeRejected:       "Rejected",
	ExecutionTypeOrderTraded:    "OrderTraded",
}

func (t ExecutionType) String() string { return enumString(executionTypeNames, t) }

// ParseExecutionType converts a canonical string into an ExecutionType.
func ParseExecutionType(v string) (ExecutionType, error) {
	return enumParse(executionTypeNames, v, "ExecutionType")
}

func (t ExecutionType) MarshalText() ([]byte, error) {
	return enumMarshal(executionTypeNames, t, "ExecutionType")
}

func (t *ExecutionType) UnmarshalText(b []byte) error {
	return enumUnmarshal(executionTypeNames, b, "ExecutionType", t)
}

// TradingPhase represents the trading phase of an instrument.
type TradingPhase uint8

const (
	// TradingPhaseOpen represents continuous trading
	TradingPhaseOpen TradingPhase = iota + 1
	// TradingPhaseClosed represents a closed market
	TradingPhaseClosed
	// TradingPhasePostTrading represents the post-trading phase
	TradingPhasePostTrading
	// TradingPhaseOpeningAuction represents the opening auction
	TradingPhaseOpeningAuction
	// TradingPhaseIntradayAuction represents an intraday auction
	TradingPhaseIntradayAuction
	// TradingPhaseClosingAuction represents the closing auction
	TradingPhaseClosingAuction
)

var tradingPhaseNames = map[TradingPhase]string{
	TradingPhaseOpen:            "Open",
	TradingPhaseClosed:          "Closed",
	TradingPhasePostTrading:     "PostTrading",
	TradingPhaseOpeningAuction:  "OpeningAuction",
	TradingPhaseIntradayAuction: "IntradayAuction",
	TradingPhaseClosingAuction:  "ClosingAuction",
}

func (p TradingPhase) String() string { return enumString(tradingPhaseNames, p) }

// ParseTradingPhase converts a canonical string into a TradingPhase.
func ParseTradingPhase(v string) (TradingPhase, error) {
	return enumParse(tradingPhaseNames, v, "TradingPhase")
}

func (p TradingPhase) MarshalText() ([]byte, error) {
	return enumMarshal(tradingPhaseNames, p, "TradingPhase")
}

func (p *TradingPhase) UnmarshalText(b []byte) error {
	return enumUnmarshal(tradingPhaseNames, b, "TradingPhase", p)
}

// TradingStatus represents the trading status within a phase.
type TradingStatus uint8

const (
	// TradingStatusHalt represents halted trading
	TradingStatusHalt TradingStatus = iota + 1
	// TradingStatusResume represents resumed trading
	TradingStatusResume
)

var tradingStatusNames = map[TradingStatus]string{
	TradingStatusHalt:   "Halt",
	TradingStatusResume: "Resume",
}

func (s TradingStatus) String() string { return enumString(tradingStatusNames, s) }

// ParseTradingStatus converts a canonical string into a TradingStatus.
func ParseTradingStatus(v string) (TradingStatus, error) {
	return enumParse(tradingStatusNames, v, "TradingStatus")
}

func (s TradingStatus) MarshalText() ([]byte, error) {
	return enumMarshal(tradingStatusNames, s, "TradingStatus")
}

func (s *TradingStatus) UnmarshalText(b []byte) error {
	return enumUnmarshal(tradingStatusNames, b, "TradingStatus", s)
}

// MdEntryType represents a market data entry type.
type MdEntryType uint8

const (
	// MdEntryTypeBid represents a bid entry
	MdEntryTypeBid MdEntryType = iota + 1
	// MdEntryTypeOffer represents an offer entry
	MdEntryTypeOffer
	// MdEntryTypeTrade represents a trade entry
	MdEntryTypeTrade
	// MdEntryTypeLowPrice represents the session low price
	MdEntryTypeLowPrice
	// MdEntryTypeMidPrice represents the mid price
	MdEntryTypeMidPrice
	// MdEntryTypeHighPrice represents the session high price
	MdEntryTypeHighPrice
)

var mdEntryTypeNames = map[MdEntryType]string{
	MdEntryTypeBid:       "Bid",
	MdEntryTypeOffer:     "Offer",
	MdEntryTypeTrade:     "Trade",
	MdEntryTypeLowPrice:  "LowPrice",
	MdEntryTypeMidPrice:  "MidPrice",
	MdEntryTypeHighPrice: "HighPrice",
}

func (t MdEntryType) String() string { return enumString(mdEntryTypeNames, t) }

// ParseMdEntryType converts a canonical string into an MdEntryType.
func ParseMdEntryType(v string) (MdEntryType, error) {
	return enumParse(mdEntryTypeNames, v, "MDEntryType")
}

func (t MdEntryType) MarshalText() ([]byte, error) {
	return enumMarshal(mdEntryTypeNames, t, "MDEntryType")
}

func (t *MdEntryType) UnmarshalText(b []byte) error {
	return enumUnmarshal(mdEntryTypeNames, b, "MDEntryType", t)
}

// MarketEntryAction represents an incremental market data action.
type MarketEntryAction uint8

const (
	// MarketEntryActionNew adds a level or entry
	MarketEntryActionNew MarketEntryAction = iota + 1
	// MarketEntryActionChange changes an existing level or entry
	MarketEntryActionChange
	// MarketEntryActionDelete removes a level or entry
	MarketEntryActionDelete
)

var marketEntryActionNames = map[MarketEntryAction]string{
	MarketEntryActionNew:    "New",
	MarketEntryActionChange: "Change",
	MarketEntryActionDelete: "Delete",
}

func (a MarketEntryAction) String() string { return enumString(marketEntryActionNames, a) }

// ParseMarketEntryAction converts a canonical string into a MarketEntryAction.
func ParseMarketEntryAction(v string) (MarketEntryAction, error) {
	return enumParse(marketEntryActionNames, v, "MarketEntryAction")
}

func (a MarketEntryAction) MarshalText() ([]byte, error) {
	return enumMarshal(marketEntryActionNames, a, "MarketEntryAction")
}

func (a *MarketEntryAction) UnmarshalText(b []byte) error {
	return enumUnmarshal(marketEntryActionNames, b, "MarketEntryAction", a)
}

// MarketDataUpdateType represents the requested update delivery mode.
type MarketDataUpdateType uint8

const (
	// MarketDataUpdateTypeSnapshot requests full refreshes
	MarketDataUpdateTypeSnapshot MarketDataUpdateType = iota + 1
	// MarketDataUpdateTypeIncremental requests incremental updates
	MarketDataUpdateTypeIncremental
)

var marketDataUpdateTypeNames = map[MarketDataUpdateType]string{
	MarketDataUpdateTypeSnapshot:    "Snapshot",
	MarketDataUpdateTypeIncremental: "Incremental",
}

func (t MarketDataUpdateType) String() string { return enumString(marketDataUpdateTypeNames, t) }

// ParseMarketDataUpdateType converts a canonical string into a MarketDataUpdateType.
func ParseMarketDataUpdateType(v string) (MarketDataUpdateType, error) {
	return enumParse(marketDataUpdateTypeNames, v, "MarketDataUpdateType")
}

func (t MarketDataUpdateType) MarshalText() ([]byte, error) {
	return enumMarshal(marketDataUpdateTypeNames, t, "MarketDataUpdateType")
}

func (t *MarketDataUpdateType) UnmarshalText(b []byte) error {
	return enumUnmarshal(marketDataUpdateTypeNames, b, "MarketDataUpdateType", t)
}

// MdSubscriptionRequestType represents the subscription operation requested.
type MdSubscriptionRequestType uint8

const (
	// MdSubscriptionRequestTypeSubscribe installs a subscription
	MdSubscriptionRequestTypeSubscribe MdSubscriptionRequestType = iota + 1
	// MdSubscriptionRequestTypeUnsubscribe removes a subscription
	MdSubscriptionRequestTypeUnsubscribe
	// MdSubscriptionRequestTypeSnapshot requests a one-shot snapshot
	MdSubscriptionRequestTypeSnapshot
)

var mdSubscriptionRequestTypeNames = map[MdSubscriptionRequestType]string{
	MdSubscriptionRequestTypeSubscribe:   "Subscribe",
	MdSubscriptionRequestTypeUnsubscribe: "Unsubscribe",
	MdSubscriptionRequestTypeSnapshot:    "Snapshot",
}

func (t MdSubscriptionRequestType) String() string {
	return enumString(mdSubscriptionRequestTypeNames, t)
}

// ParseMdSubscriptionRequestType converts a canonical string into an
// MdSubscriptionRequestType.
func ParseMdSubscriptionRequestType(v string) (MdSubscriptionRequestType, error) {
	return enumParse(mdSubscriptionRequestTypeNames, v, "MdSubscriptionRequestType")
}

func (t MdSubscriptionRequestType) MarshalText() ([]byte, error) {
	return enumMarshal(mdSubscriptionRequestTypeNames, t, "MdSubscriptionRequestType")
}

func (t *MdSubscriptionRequestType) UnmarshalText(b []byte) error {
	return enumUnmarshal(mdSubscriptionRequestTypeNames, b, "MdSubscriptionRequestType", t)
}

// MdRejectReason represents a market data request rejection reason.
type MdRejectReason uint8

const (
	// MdRejectReasonUnknownSymbol rejects a request for an unknown instrument
	MdRejectReasonUnknownSymbol MdRejectReason = iota + 1
	// MdRejectReasonDuplicateMdReqId rejects a duplicate request identifier
	MdRejectReasonDuplicateMdReqId
)

var mdRejectReasonNames = map[MdRejectReason]string{
	MdRejectReasonUnknownSymbol:    "UnknownSymbol",
	MdRejectReasonDuplicateMdReqId: "DuplicateMdReqId",
}

func (r MdRejectReason) String() string { return enumString(mdRejectReasonNames, r) }

// ParseMdRejectReason converts a canonical string into an MdRejectReason.
func ParseMdRejectReason(v string) (MdRejectReason, error) {
	return enumParse(mdRejectReasonNames, v, "MdRejectReason")
}

func (r MdRejectReason) MarshalText() ([]byte, error) {
	return enumMarshal(mdRejectReasonNames, r, "MdRejectReason")
}

func (r *MdRejectReason) UnmarshalText(b []byte) error {
	return enumUnmarshal(mdRejectReasonNames, b, "MdRejectReason", r)
}

// BusinessRejectReason represents a business message reject reason.
type BusinessRejectReason uint8

const (
	// BusinessRejectReasonOther represents an unclassified rejection
	BusinessRejectReasonOther BusinessRejectReason = iota + 1
	// BusinessRejectReasonUnknownId represents an unknown reference identifier
	BusinessRejectReasonUnknownId
	// BusinessRejectReasonUnknownSecurity represents an unknown security
	BusinessRejectReasonUnknownSecurity
)

var businessRejectReasonNames = map[BusinessRejectReason]string{
	BusinessRejectReasonOther:           "Other",
	BusinessRejectReasonUnknownId:       "UnknownId",
	BusinessRejectReasonUnknownSecurity: "UnknownSecurity",
}

func (r BusinessRejectReason) String() string { return enumString(businessRejectReasonNames, r) }

// ParseBusinessRejectReason converts a canonical string into a BusinessRejectReason.
func ParseBusinessRejectReason(v string) (BusinessRejectReason, error) {
	return enumParse(businessRejectReasonNames, v, "BusinessRejectReason")
}

func (r BusinessRejectReason) MarshalText() ([]byte, error) {
	return enumMarshal(businessRejectReasonNames, r, "BusinessRejectReason")
}

func (r *BusinessRejectReason) UnmarshalText(b []byte) error {
	return enumUnmarshal(businessRejectReasonNames, b, "BusinessRejectReason", r)
}

// RejectedMessageType identifies the message type referenced by a
// business message reject.
type RejectedMessageType uint8

const (
	// RejectedMessageTypeSecurityStatusRequest references a security status request
	RejectedMessageTypeSecurityStatusRequest RejectedMessageType = iota + 1
)

var rejectedMessageTypeNames = map[RejectedMessageType]string{
	RejectedMessageTypeSecurityStatusRequest: "SecurityStatusRequest",
}

func (t RejectedMessageType) String() string { return enumString(rejectedMessageTypeNames, t) }

// ParseRejectedMessageType converts a canonical string into a RejectedMessageType.
func ParseRejectedMessageType(v string) (RejectedMessageType, error) {
	return enumParse(rejectedMessageTypeNames, v, "RejectedMessageType")
}

func (t RejectedMessageType) MarshalText() ([]byte, error) {
	return enumMarshal(rejectedMessageTypeNames, t, "RejectedMessageType")
}

func (t *RejectedMessageType) UnmarshalText(b []byte) error {
	return enumUnmarshal(rejectedMessageTypeNames, b, "RejectedMessageType", t)
}

// enumString formats an enum through its canonical name table. Unknown
// numeric values format as "undefined".
func enumString[E comparable](names map[E]string, value E) string {
	if name, ok := names[value]; ok {
		return name
	}
	return "undefined"
}

func enumParse[E comparable](names map[E]string, value, attribute string) (E, error) {
	for enum, name := range names {
		if name == value {
			return enum, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("unable to convert %q into a %s value", value, attribute)
}

func enumMarshal[E comparable](names map[E]string, value E, attribute string) ([]byte, error) {
	if name, ok := names[value]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("unable to represent an unknown %s value as a string", attribute)
}

func enumUnmarshal[E comparable](names map[E]string, raw []byte, attribute string, out *E) error {
	parsed, err := enumParse(names, string(raw), attribute)
	if err != nil {
		return err
	}
	*out = parsed
	return nil
}
