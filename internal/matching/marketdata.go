package matching

import (
	"github.com/google/uuid"

	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// mdSubscriptionKey identifies one market data subscription.
type mdSubscriptionKey struct {
	session   protocol.Session
	requestId domain.MdRequestId
}

func (k mdSubscriptionKey) matches(session protocol.Session, requestId domain.MdRequestId) bool {
	return k.requestId == requestId && k.session.Equal(session)
}

// levelSnapshot is the last published state of one price level, kept per
// subscription to compute incremental diffs.
type levelSnapshot struct {
	price    domain.Price
	quantity domain.Quantity
}

// mdSubscription carries the requested view of one subscriber.
type mdSubscription struct {
	key        mdSubscriptionKey
	requestId  domain.MdRequestId
	instrument domain.InstrumentDescriptor
	entryTypes map[domain.MdEntryType]bool
	depth      domain.MarketDepth
	updateType domain.MarketDataUpdateType

	lastBids   []levelSnapshot
	lastOffers []levelSnapshot
}

func (s *mdSubscription) wants(entryType domain.MdEntryType) bool {
	return len(s.entryTypes) == 0 || s.entryTypes[entryType]
}

// marketDataAggregator computes top-of-book and depth views and produces
// snapshot and incremental update notifications per subscription.
type marketDataAggregator struct {
	engine        *Engine
	subscriptions []*mdSubscription
}

func newMarketDataAggregator(engine *Engine) *marketDataAggregator {
	return &marketDataAggregator{engine: engine}
}

// Process executes a market data request addressed to this engine.
func (a *marketDataAggregator) Process(request protocol.MarketDataRequest) {
	if request.RequestType == nil {
		a.businessReject(request, domain.BusinessRejectReasonOther,
			"market data request type is missing")
		return
	}
	if request.RequestId == nil {
		a.businessReject(request, domain.BusinessRejectReasonOther,
			"market data request id is missing")
		return
	}

	switch *request.RequestType {
	case domain.MdSubscriptionRequestTypeSubscribe:
		a.subscribe(request)
	case domain.MdSubscriptionRequestTypeUnsubscribe:
		a.unsubscribe(request)
	case domain.MdSubscriptionRequestTypeSnapshot:
		subscription := a.buildSubscription(request)
		a.emitSnapshot(subscription)
	}
}

func (a *marketDataAggregator) buildSubscription(request protocol.MarketDataRequest) *mdSubscription {
	subscription := &mdSubscription{
		key: mdSubscriptionKey{
			session:   request.Session,
			requestId: *request.RequestId,
		},
		requestId:  *request.RequestId,
		instrument: a.engine.instrument.Descriptor(),
		entryTypes: make(map[domain.MdEntryType]bool, len(request.EntryTypes)),
		updateType: domain.MarketDataUpdateTypeIncremental,
	}
	if len(request.Instruments) == 1 {
		subscription.instrument = request.Instruments[0]
	}
	for _, entryType := range request.EntryTypes {
		subscription.entryTypes[entryType] = true
	}
	if request.MarketDepth != nil {
		subscription.depth = *request.MarketDepth
	}
	if request.UpdateType != nil {
		subscription.updateType = *request.UpdateType
	}
	return subscription
}

func (a *marketDataAggregator) subscribe(request protocol.MarketDataRequest) {
	if a.find(request.Session, *request.RequestId) != nil {
		a.engine.cache.Emit(protocol.MarketDataReject{
			Session:    request.Session,
			RequestId:  request.RequestId,
			Reason:     domain.MdRejectReasonDuplicateMdReqId,
			RejectText: domain.RejectText("market data request id is already in use"),
		})
		return
	}

	subscription := a.buildSubscription(request)
	a.subscriptions = append(a.subscriptions, subscription)
	a.emitSnapshot(subscription)
}

func (a *marketDataAggregator) unsubscribe(request protocol.MarketDataRequest) {
	for idx, subscription := range a.subscriptions {
		if subscription.key.matches(request.Session, *request.RequestId) {
			a.subscriptions = append(a.subscriptions[:idx], a.subscriptions[idx+1:]...)
			return
		}
	}
	a.businessReject(request, domain.BusinessRejectReasonUnknownId,
		"no subscription found for the market data request id")
}

// DropSession removes every subscription owned by a session.
func (a *marketDataAggregator) DropSession(session protocol.Session) {
	kept := a.subscriptions[:0]
	for _, subscription := range a.subscriptions {
		if !subscription.key.session.Equal(session) {
			kept = append(kept, subscription)
		}
	}
	a.subscriptions = kept
}

// OnBookChanged publishes book-driven updates to every subscription
// after a command mutated the order book.
func (a *marketDataAggregator) OnBookChanged() {
	for _, subscription := range a.subscriptions {
		switch subscription.updateType {
		case domain.MarketDataUpdateTypeSnapshot:
			a.emitSnapshot(subscription)
		case domain.MarketDataUpdateTypeIncremental:
			a.emitIncremental(subscription)
		}
	}
}

// OnTrade publishes trade-driven entries to subscribers requesting them.
func (a *marketDataAggregator) OnTrade(trade domain.Trade) {
	for _, subscription := range a.subscriptions {
		var entries []domain.MarketDataEntry
		if subscription.wants(domain.MdEntryTypeTrade) {
			entries = append(entries, a.tradeEntry(trade))
		}
		entries = append(entries, a.statEntries(subscription)...)
		if len(entries) == 0 {
			continue
		}
		a.engine.cache.Emit(protocol.MarketDataUpdate{
			Session:    subscription.key.session,
			Instrument: subscription.instrument,
			RequestId:  &subscription.requestId,
			Entries:    entries,
		})
	}
}

func (a *marketDataAggregator) emitSnapshot(subscription *mdSubscription) {
	var entries []domain.MarketDataEntry

	if subscription.wants(domain.MdEntryTypeBid) {
		bids := a.currentLevels(domain.SideBuy, subscription.depth)
		for _, level := range bids {
			entries = append(entries, a.levelEntry(domain.MdEntryTypeBid, level, nil))
		}
		subscription.lastBids = bids
	}
	if subscription.wants(domain.MdEntryTypeOffer) {
		offers := a.currentLevels(domain.SideSell, subscription.depth)
		for _, level := range offers {
			entries = append(entries, a.levelEntry(domain.MdEntryTypeOffer, level, nil))
		}
		subscription.lastOffers = offers
	}
	if subscription.wants(domain.MdEntryTypeTrade) && a.engine.lastTrade != nil {
		entries = append(entries, a.tradeEntry(*a.engine.lastTrade))
	}
	entries = append(entries, a.statEntries(subscription)...)

	a.engine.cache.Emit(protocol.MarketDataSnapshot{
		Session:    subscription.key.session,
		Instrument: subscription.instrument,
		RequestId:  &subscription.requestId,
		Entries:    entries,
	})
}

func (a *marketDataAggregator) emitIncremental(subscription *mdSubscription) {
	var entries []domain.MarketDataEntry

	if subscription.wants(domain.MdEntryTypeBid) {
		current := a.currentLevels(domain.SideBuy, subscription.depth)
		entries = append(entries,
			a.diffLevels(domain.MdEntryTypeBid, subscription.lastBids, current)...)
		subscription.lastBids = current
	}
	if subscription.wants(domain.MdEntryTypeOffer) {
		current := a.currentLevels(domain.SideSell, subscription.depth)
		entries = append(entries,
			a.diffLevels(domain.MdEntryTypeOffer, subscription.lastOffers, current)...)
		subscription.lastOffers = current
	}

	if len(entries) == 0 {
		return
	}
	a.engine.cache.Emit(protocol.MarketDataUpdate{
		Session:    subscription.key.session,
		Instrument: subscription.instrument,
		RequestId:  &subscription.requestId,
		Entries:    entries,
	})
}

func (a *marketDataAggregator) currentLevels(side domain.Side, depth domain.MarketDepth) []levelSnapshot {
	var levels []levelSnapshot
	a.engine.book.ForEachPriceLevel(side, func(price domain.Price, quantity domain.Quantity) bool {
		levels = append(levels, levelSnapshot{price: price, quantity: quantity})
		return depth == domain.FullMarketDepth || len(levels) < int(depth)
	})
	return levels
}

// diffLevels computes New/Change/Delete actions between the last
// published levels and the current ones, matching levels by price.
func (a *marketDataAggregator) diffLevels(entryType domain.MdEntryType, previous, current []levelSnapshot) []domain.MarketDataEntry {
	var entries []domain.MarketDataEntry

	previousByPrice := make(map[domain.Price]levelSnapshot, len(previous))
	for _, level := range previous {
		previousByPrice[level.price] = level
	}
	currentByPrice := make(map[domain.Price]bool, len(current))

	for _, level := range current {
		currentByPrice[level.price] = true
		before, existed := previousByPrice[level.price]
		switch {
		case !existed:
			entries = append(entries, a.levelEntry(entryType, level, actionPtr(domain.MarketEntryActionNew)))
		case before.quantity != level.quantity:
			entries = append(entries, a.levelEntry(entryType, level, actionPtr(domain.MarketEntryActionChange)))
		}
	}

	for _, level := range previous {
		if !currentByPrice[level.price] {
			entries = append(entries, a.levelEntry(entryType, level, actionPtr(domain.MarketEntryActionDelete)))
		}
	}

	return entries
}

func (a *marketDataAggregator) levelEntry(entryType domain.MdEntryType, level levelSnapshot, action *domain.MarketEntryAction) domain.MarketDataEntry {
	price := level.price
	quantity := level.quantity
	phase := a.engine.phase
	return domain.MarketDataEntry{
		Id:       entryId(),
		Price:    &price,
		Quantity: &quantity,
		Phase:    &phase,
		Action:   action,
		Type:     entryType,
	}
}

func (a *marketDataAggregator) tradeEntry(trade domain.Trade) domain.MarketDataEntry {
	price := trade.Price
	quantity := trade.Quantity
	aggressor := trade.AggressorSide
	tradeTime := trade.Time
	phase := trade.Phase
	return domain.MarketDataEntry{
		Id:            entryId(),
		BuyerId:       trade.Buyer,
		SellerId:      trade.Seller,
		Time:          &tradeTime,
		Price:         &price,
		Quantity:      &quantity,
		Phase:         &phase,
		AggressorSide: &aggressor,
		Type:          domain.MdEntryTypeTrade,
	}
}

func (a *marketDataAggregator) statEntries(subscription *mdSubscription) []domain.MarketDataEntry {
	var entries []domain.MarketDataEntry
	phase := a.engine.phase

	if subscription.wants(domain.MdEntryTypeLowPrice) && a.engine.lowPrice != nil {
		price := *a.engine.lowPrice
		entries = append(entries, domain.MarketDataEntry{
			Id: entryId(), Price: &price, Phase: &phase, Type: domain.MdEntryTypeLowPrice,
		})
	}
	if subscription.wants(domain.MdEntryTypeMidPrice) {
		if mid, ok := a.midPrice(); ok {
			entries = append(entries, domain.MarketDataEntry{
				Id: entryId(), Price: &mid, Phase: &phase, Type: domain.MdEntryTypeMidPrice,
			})
		}
	}
	if subscription.wants(domain.MdEntryTypeHighPrice) && a.engine.highPrice != nil {
		price := *a.engine.highPrice
		entries = append(entries, domain.MarketDataEntry{
			Id: entryId(), Price: &price, Phase: &phase, Type: domain.MdEntryTypeHighPrice,
		})
	}
	return entries
}

func (a *marketDataAggregator) midPrice() (domain.Price, bool) {
	bestBid, _, hasBid := a.engine.book.Best(domain.SideBuy)
	bestOffer, _, hasOffer := a.engine.book.Best(domain.SideSell)
	if !hasBid || !hasOffer {
		return 0, false
	}
	return domain.NewPrice((bestBid.Value() + bestOffer.Value()) / 2), true
}

func (a *marketDataAggregator) find(session protocol.Session, requestId domain.MdRequestId) *mdSubscription {
	for _, subscription := range a.subscriptions {
		if subscription.key.matches(session, requestId) {
			return subscription
		}
	}
	return nil
}

func (a *marketDataAggregator) businessReject(request protocol.MarketDataRequest, reason domain.BusinessRejectReason, text string) {
	reject := protocol.BusinessMessageReject{
		Session:   request.Session,
		Reason:    reason,
		Text:      domain.RejectText(text),
		RefSeqNum: request.SeqNum,
	}
	if request.RequestId != nil {
		refId := string(*request.RequestId)
		reject.RefId = &refId
	}
	a.engine.cache.Emit(reject)
}

func entryId() *domain.MarketEntryId {
	id := domain.MarketEntryId(uuid.NewString())
	return &id
}

func actionPtr(action domain.MarketEntryAction) *domain.MarketEntryAction {
	return &action
}
