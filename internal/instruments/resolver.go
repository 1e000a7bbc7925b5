package instruments

import (
	simerrors "github.com/abdoElHodaky/marketsim/internal/common/errors"
	"github.com/abdoElHodaky/marketsim/internal/domain"
)

// Resolution failures. Every failure maps to a stable client-facing
// reject text composed by the execution system.
var (
	ErrNotFound  = simerrors.New(simerrors.ErrInstrumentNotFound, "no instrument matches the descriptor")
	ErrAmbiguous = simerrors.New(simerrors.ErrInstrumentAmbiguous, "descriptor identifiers resolve to different instruments")
	ErrEmpty     = simerrors.New(simerrors.ErrDescriptorEmpty, "descriptor contains no usable identifier")
)

// Resolver maps client instrument descriptors onto catalogue instruments.
type Resolver interface {
	Resolve(descriptor domain.InstrumentDescriptor) (InstrumentId, error)
}

// CatalogueResolver resolves descriptors against the immutable catalogue
// indexes. Identifier groups are consulted in a defined order: explicit
// security-id plus source first, then symbol (narrowed by exchange),
// then the alternative security identifiers, then the party pair. When
// several groups are present they must agree on one instrument.
type CatalogueResolver struct {
	catalogue *Catalogue
}

// NewCatalogueResolver creates a resolver over a built catalogue.
func NewCatalogueResolver(catalogue *Catalogue) *CatalogueResolver {
	return &CatalogueResolver{catalogue: catalogue}
}

// Resolve produces exactly one InstrumentId or one of ErrNotFound,
// ErrAmbiguous, ErrEmpty.
func (r *CatalogueResolver) Resolve(descriptor domain.InstrumentDescriptor) (InstrumentId, error) {
	lookups := r.collectLookups(descriptor)
	if len(lookups) == 0 {
		return 0, ErrEmpty
	}

	resolved := make([]InstrumentId, 0, len(lookups))
	for _, lookup := range lookups {
		if id, ok := lookup(); ok {
			resolved = append(resolved, id)
		}
	}

	if len(resolved) == 0 {
		return 0, ErrNotFound
	}
	first := resolved[0]
	for _, id := range resolved[1:] {
		if id != first {
			return 0, ErrAmbiguous
		}
	}
	return first, nil
}

type lookupFn func() (InstrumentId, bool)

func (r *CatalogueResolver) collectLookups(descriptor domain.InstrumentDescriptor) []lookupFn {
	var lookups []lookupFn

	if descriptor.SecurityId != nil && descriptor.SecurityIdSource != nil {
		securityId, source := string(*descriptor.SecurityId), *descriptor.SecurityIdSource
		lookups = append(lookups, func() (InstrumentId, bool) {
			id, ok := r.catalogue.bySecurityId[securityIdKey{source: source, id: securityId}]
			return id, ok
		})
	}

	if descriptor.Symbol != nil {
		symbol := string(*descriptor.Symbol)
		exchange := descriptor.SecurityExchange
		lookups = append(lookups, func() (InstrumentId, bool) {
			return r.resolveSymbol(symbol, exchange)
		})
	}

	lookups = append(lookups, r.collectAlternativeLookups(descriptor)...)

	for _, party := range descriptor.Parties {
		key := partyKey{partyId: string(party.PartyId), role: party.Role}
		lookups = append(lookups, func() (InstrumentId, bool) {
			id, ok := r.catalogue.byParty[key]
			return id, ok
		})
	}

	return lookups
}

// collectAlternativeLookups covers descriptors carrying a bare security
// identifier without an explicit source: every alternative index that
// knows the value contributes a candidate, and disagreement between them
// surfaces as Ambiguous.
func (r *CatalogueResolver) collectAlternativeLookups(descriptor domain.InstrumentDescriptor) []lookupFn {
	if descriptor.SecurityId == nil || descriptor.SecurityIdSource != nil {
		return nil
	}
	securityId := string(*descriptor.SecurityId)

	indexes := []map[string]InstrumentId{
		r.catalogue.byCusip,
		r.catalogue.bySedol,
		r.catalogue.byIsin,
		r.catalogue.byRic,
		r.catalogue.byExchangeId,
		r.catalogue.byBloombergId,
	}

	var lookups []lookupFn
	for _, index := range indexes {
		index := index
		if _, known := index[securityId]; !known {
			continue
		}
		lookups = append(lookups, func() (InstrumentId, bool) {
			id, ok := index[securityId]
			return id, ok
		})
	}
	if len(lookups) == 0 {
		// The identifier is present but unknown everywhere: it still
		// counts as a usable identifier, so resolution must report
		// NotFound rather than Empty.
		lookups = append(lookups, func() (InstrumentId, bool) { return 0, false })
	}
	return lookups
}

func (r *CatalogueResolver) resolveSymbol(symbol string, exchange *domain.SecurityExchange) (InstrumentId, bool) {
	candidates := r.catalogue.bySymbol[symbol]
	if len(candidates) == 0 {
		return 0, false
	}
	if exchange == nil {
		if len(candidates) == 1 {
			return candidates[0], true
		}
		return 0, false
	}
	for _, id := range candidates {
		instrument, _ := r.catalogue.ViewInstrument(id)
		if instrument.SecurityExchange == string(*exchange) {
			return id, true
		}
	}
	return 0, false
}
