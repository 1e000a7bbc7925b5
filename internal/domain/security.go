package domain

// SecurityType represents the product type of an instrument. The canonical
// string form is the FIX wire value (e.g. "CS" for common stock).
type SecurityType uint8

const (
	SecurityTypeCommonStock SecurityType = iota + 1
	SecurityTypeFuture
	SecurityTypeOption
	SecurityTypeMultiLeg
	SecurityTypeSyntheticMultiLeg
	SecurityTypeWarrant
	SecurityTypeMutualFund
	SecurityTypeCorporateBond
	SecurityTypeConvertibleBond
	SecurityTypeRepurchaseAgreement
	SecurityTypeIndex
	SecurityTypeContractForDifference
	SecurityTypeCertificate
	SecurityTypeFxSpot
	SecurityTypeForward
	SecurityTypeFxForward
	SecurityTypeFxNonDeliverableForward
	SecurityTypeFxSwap
	SecurityTypeFxNonDeliverableSwap
)

var securityTypeNames = map[SecurityType]string{
	SecurityTypeCommonStock:             "CS",
	SecurityTypeFuture:                  "FUT",
	SecurityTypeOption:                  "OPT",
	SecurityTypeMultiLeg:                "MLEG",
	SecurityTypeSyntheticMultiLeg:       "SML",
	SecurityTypeWarrant:                 "WAR",
	SecurityTypeMutualFund:              "MF",
	SecurityTypeCorporateBond:           "CORP",
	SecurityTypeConvertibleBond:         "CB",
	SecurityTypeRepurchaseAgreement:     "REPO",
	SecurityTypeIndex:                   "INDEX",
	SecurityTypeContractForDifference:   "CFD",
	SecurityTypeCertificate:             "CD",
	SecurityTypeFxSpot:                  "FXSPOT",
	SecurityTypeForward:                 "FORWARD",
	SecurityTypeFxForward:               "FXFWD",
	SecurityTypeFxNonDeliverableForward: "FXNDF",
	SecurityTypeFxSwap:                  "FXSWAP",
	SecurityTypeFxNonDeliverableSwap:    "FXNDS",
}

func (t SecurityType) String() string { return enumString(securityTypeNames, t) }

// ParseSecurityType converts a FIX security type string into a SecurityType.
func ParseSecurityType(v string) (SecurityType, error) {
	return enumParse(securityTypeNames, v, "SecurityType")
}

func (t SecurityType) MarshalText() ([]byte, error) {
	return enumMarshal(securityTypeNames, t, "SecurityType")
}

func (t *SecurityType) UnmarshalText(b []byte) error {
	return enumUnmarshal(securityTypeNames, b, "SecurityType", t)
}

// SecurityIdSource identifies the naming authority of a security identifier.
type SecurityIdSource uint8

const (
	SecurityIdSourceCusip SecurityIdSource = iota + 1
	SecurityIdSourceSedol
	SecurityIdSourceIsin
	SecurityIdSourceRic
	SecurityIdSourceExchangeSymbol
	SecurityIdSourceBloombergSymbol
)

var securityIdSourceNames = map[SecurityIdSource]string{
	SecurityIdSourceCusip:           "CUSIP",
	SecurityIdSourceSedol:           "SEDOL",
	SecurityIdSourceIsin:            "ISIN",
	SecurityIdSourceRic:             "RIC",
	SecurityIdSourceExchangeSymbol:  "ExchangeSymbol",
	SecurityIdSourceBloombergSymbol: "BloombergSymbol",
}

func (s SecurityIdSource) String() string { return enumString(securityIdSourceNames, s) }

// ParseSecurityIdSource converts a canonical string into a SecurityIdSource.
func ParseSecurityIdSource(v string) (SecurityIdSource, error) {
	return enumParse(securityIdSourceNames, v, "SecurityIDSource")
}

func (s SecurityIdSource) MarshalText() ([]byte, error) {
	return enumMarshal(securityIdSourceNames, s, "SecurityIDSource")
}

func (s *SecurityIdSource) UnmarshalText(b []byte) error {
	return enumUnmarshal(securityIdSourceNames, b, "SecurityIDSource", s)
}
