package execution

import (
	"sync/atomic"
	"time"

	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// orderIdGenerator produces unique 18-decimal-digit venue order
// identifiers for rejected requests, so a rejected request still carries
// a plausible VenueOrderId. Identifiers are monotonic per process.
type orderIdGenerator struct {
	next uint64
}

// idFloor keeps every generated identifier at exactly 18 decimal digits.
const idFloor = uint64(100_000_000_000_000_000)

func newOrderIdGenerator() *orderIdGenerator {
	seed := uint64(time.Now().UnixNano()) % idFloor
	return &orderIdGenerator{next: idFloor + seed}
}

// GenerateVenueOrderId mints the next identifier.
func (g *orderIdGenerator) GenerateVenueOrderId() domain.VenueOrderId {
	id := atomic.AddUint64(&g.next, 1)
	return domain.NewVenueOrderId(domain.OrderId(id))
}
