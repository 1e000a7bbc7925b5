package protocol

import "fmt"

// SessionType discriminates the flavours of client sessions the core
// routes replies to.
type SessionType uint8

const (
	// SessionTypeFix represents a client session established via FIX
	SessionTypeFix SessionType = iota + 1
	// SessionTypeGenerator represents the synthetic random-order generator session
	SessionTypeGenerator
)

var sessionTypeNames = map[SessionType]string{
	SessionTypeFix:       "Fix",
	SessionTypeGenerator: "Generator",
}

func (t SessionType) String() string {
	if name, ok := sessionTypeNames[t]; ok {
		return name
	}
	return "undefined"
}

func (t SessionType) MarshalText() ([]byte, error) {
	if name, ok := sessionTypeNames[t]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("unable to represent an unknown SessionType value as a string")
}

func (t *SessionType) UnmarshalText(b []byte) error {
	for enum, name := range sessionTypeNames {
		if name == string(b) {
			*t = enum
			return nil
		}
	}
	return fmt.Errorf("unable to convert %q into a SessionType value", string(b))
}

// FixSession describes a client trading session established via the FIX
// protocol. ClientSubId does not participate in session identity and is
// used only to route replies.
type FixSession struct {
	BeginString  string  `json:"begin_string"`
	SenderCompId string  `json:"sender_comp_id"`
	TargetCompId string  `json:"target_comp_id"`
	ClientSubId  *string `json:"client_sub_id,omitempty"`
}

// Equal compares two FIX sessions by their identifying strings.
func (s FixSession) Equal(other FixSession) bool {
	return s.BeginString == other.BeginString &&
		s.SenderCompId == other.SenderCompId &&
		s.TargetCompId == other.TargetCompId
}

func (s FixSession) String() string {
	return fmt.Sprintf("FixSession{%s:%s->%s}", s.BeginString, s.SenderCompId, s.TargetCompId)
}

// Session is the opaque client handle attached to every request and reply.
type Session struct {
	Type SessionType `json:"type"`
	Fix  *FixSession `json:"fix_session,omitempty"`
}

// NewFixSession wraps a FIX session descriptor into a Session handle.
func NewFixSession(fix FixSession) Session {
	return Session{Type: SessionTypeFix, Fix: &fix}
}

// NewGeneratorSession returns the generator session handle. All generator
// session values represent the same session.
func NewGeneratorSession() Session {
	return Session{Type: SessionTypeGenerator}
}

// Equal compares session identities. FIX sessions compare by begin
// string, sender and target comp ids; generator sessions always compare
// equal to each other.
func (s Session) Equal(other Session) bool {
	if s.Type != other.Type {
		return false
	}
	switch s.Type {
	case SessionTypeFix:
		return s.Fix != nil && other.Fix != nil && s.Fix.Equal(*other.Fix)
	case SessionTypeGenerator:
		return true
	}
	return false
}

func (s Session) String() string {
	switch s.Type {
	case SessionTypeFix:
		if s.Fix != nil {
			return s.Fix.String()
		}
		return "FixSession{}"
	case SessionTypeGenerator:
		return "GeneratorSession"
	}
	return "Session{undefined}"
}
