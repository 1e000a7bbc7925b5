package events

import (
	"time"

	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// Tick is the periodic timer event delivered to every engine.
type Tick struct {
	Now time.Time
}

// PhaseTransition announces a new market phase to every engine.
type PhaseTransition struct {
	Phase domain.MarketPhase
}
