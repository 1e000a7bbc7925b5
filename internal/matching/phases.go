package matching

import (
	"github.com/abdoElHodaky/marketsim/internal/domain"
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// phaseSubscription is one security status subscription.
type phaseSubscription struct {
	session    protocol.Session
	instrument domain.InstrumentDescriptor
	requestId  domain.SecurityStatusReqId
}

// phaseHandler owns the security status subscriptions of one engine and
// publishes trading phase reports to them.
type phaseHandler struct {
	engine        *Engine
	subscriptions []*phaseSubscription
}

func newPhaseHandler(engine *Engine) *phaseHandler {
	return &phaseHandler{engine: engine}
}

// Process executes a security status request addressed to this engine.
func (h *phaseHandler) Process(request protocol.SecurityStatusRequest) {
	if request.RequestType == nil {
		h.reject(request, domain.BusinessRejectReasonOther,
			"security status subscription request type is missing")
		return
	}
	if request.RequestId == nil {
		h.reject(request, domain.BusinessRejectReasonOther,
			"security status subscription request id is missing")
		return
	}

	switch *request.RequestType {
	case domain.MdSubscriptionRequestTypeSubscribe:
		h.subscribe(request)
	case domain.MdSubscriptionRequestTypeUnsubscribe:
		h.unsubscribe(request)
	case domain.MdSubscriptionRequestTypeSnapshot:
		h.publish(&phaseSubscription{
			session:    request.Session,
			instrument: request.Instrument,
			requestId:  *request.RequestId,
		})
	}
}

func (h *phaseHandler) subscribe(request protocol.SecurityStatusRequest) {
	if h.find(request.Session, *request.RequestId) != nil {
		h.reject(request, domain.BusinessRejectReasonOther,
			"security status subscription request id is already in use")
		return
	}
	subscription := &phaseSubscription{
		session:    request.Session,
		instrument: request.Instrument,
		requestId:  *request.RequestId,
	}
	h.subscriptions = append(h.subscriptions, subscription)
	h.publish(subscription)
}

func (h *phaseHandler) unsubscribe(request protocol.SecurityStatusRequest) {
	for idx, subscription := range h.subscriptions {
		if subscription.requestId == *request.RequestId && subscription.session.Equal(request.Session) {
			h.subscriptions = append(h.subscriptions[:idx], h.subscriptions[idx+1:]...)
			return
		}
	}
	h.reject(request, domain.BusinessRejectReasonUnknownId,
		"no subscription found for the security status request id")
}

// PublishTransition reports the current phase to every subscriber. Called
// by the engine after a phase transition changed the market phase.
func (h *phaseHandler) PublishTransition() {
	for _, subscription := range h.subscriptions {
		h.publish(subscription)
	}
}

// DropSession removes every subscription owned by a session.
func (h *phaseHandler) DropSession(session protocol.Session) {
	kept := h.subscriptions[:0]
	for _, subscription := range h.subscriptions {
		if !subscription.session.Equal(session) {
			kept = append(kept, subscription)
		}
	}
	h.subscriptions = kept
}

func (h *phaseHandler) publish(subscription *phaseSubscription) {
	requestId := subscription.requestId
	h.engine.cache.Emit(protocol.SecurityStatus{
		Session:       subscription.session,
		Instrument:    subscription.instrument,
		RequestId:     &requestId,
		TradingPhase:  h.engine.phase.Phase,
		TradingStatus: h.engine.phase.Status,
	})
}

func (h *phaseHandler) find(session protocol.Session, requestId domain.SecurityStatusReqId) *phaseSubscription {
	for _, subscription := range h.subscriptions {
		if subscription.requestId == requestId && subscription.session.Equal(session) {
			return subscription
		}
	}
	return nil
}

func (h *phaseHandler) reject(request protocol.SecurityStatusRequest, reason domain.BusinessRejectReason, text string) {
	messageType := domain.RejectedMessageTypeSecurityStatusRequest
	reject := protocol.BusinessMessageReject{
		Session:        request.Session,
		Reason:         reason,
		Text:           domain.RejectText(text),
		RefMessageType: &messageType,
		RefSeqNum:      request.SeqNum,
	}
	if request.RequestId != nil {
		refId := string(*request.RequestId)
		reject.RefId = &refId
	}
	h.engine.cache.Emit(reject)
}
