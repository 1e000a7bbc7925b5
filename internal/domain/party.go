package domain

// PartyIdSource identifies the naming authority of a party identifier.
type PartyIdSource uint8

const (
	PartyIdSourceBIC PartyIdSource = iota + 1
	PartyIdSourceGeneralIdentifier
	PartyIdSourceProprietary
	PartyIdSourceISOCountryCode
	PartyIdSourceSettlementEntityLocation
	PartyIdSourceMIC
	PartyIdSourceCSDParticipant
	PartyIdSourceLegalEntityIdentifier
	PartyIdSourceShortCodeIdentifier
	PartyIdSourceNationalIDNaturalPerson
	PartyIdSourceTaxID
	PartyIdSourceUKNationalInsuranceOrPensionNumber
	PartyIdSourceUSSocialSecurityNumber
	PartyIdSourceUSEmployerOrTaxIDNumber
	PartyIdSourceAustralianBusinessNumber
	PartyIdSourceAustralianTaxFileNumber
	PartyIdSourceKoreanInvestorID
	PartyIdSourceChineseInvestorID
	PartyIdSourceISITCAcronym
)

var partyIdSourceNames = map[PartyIdSource]string{
	PartyIdSourceBIC:                                "BIC",
	PartyIdSourceGeneralIdentifier:                  "GeneralIdentifier",
	PartyIdSourceProprietary:                        "Proprietary",
	PartyIdSourceISOCountryCode:                     "ISOCountryCode",
	PartyIdSourceSettlementEntityLocation:           "SettlementEntityLocation",
	PartyIdSourceMIC:                                "MIC",
	PartyIdSourceCSDParticipant:                     "CSDParticipant",
	PartyIdSourceLegalEntityIdentifier:              "LegalEntityIdentifier",
	PartyIdSourceShortCodeIdentifier:                "ShortCodeIdentifier",
	PartyIdSourceNationalIDNaturalPerson:            "NationalIDNaturalPerson",
	PartyIdSourceTaxID:                              "TaxID",
	PartyIdSourceUKNationalInsuranceOrPensionNumber: "UKNationalInsuranceOrPensionNumber",
	PartyIdSourceUSSocialSecurityNumber:             "USSocialSecurityNumber",
	PartyIdSourceUSEmployerOrTaxIDNumber:            "USEmployerOrTaxIDNumber",
	PartyIdSourceAustralianBusinessNumber:           "AustralianBusinessNumber",
	PartyIdSourceAustralianTaxFileNumber:            "AustralianTaxFileNumber",
	PartyIdSourceKoreanInvestorID:                   "KoreanInvestorID",
	PartyIdSourceChineseInvestorID:                  "ChineseInvestorID",
	PartyIdSourceISITCAcronym:                       "ISITCAcronym",
}

func (s PartyIdSource) String() string { return enumString(partyIdSourceNames, s) }

// ParsePartyIdSource converts a canonical string into a PartyIdSource.
func ParsePartyIdSource(v string) (PartyIdSource, error) {
	return enumParse(partyIdSourceNames, v, "PartyIDSource")
}

func (s PartyIdSource) MarshalText() ([]byte, error) {
	return enumMarshal(partyIdSourceNames, s, "PartyIDSource")
}

func (s *PartyIdSource) UnmarshalText(b []byte) error {
	return enumUnmarshal(partyIdSourceNames, b, "PartyIDSource", s)
}

// PartyRole represents the role a party plays on an order or instrument.
type PartyRole uint8

const (
	PartyRoleExecutingFirm PartyRole = iota + 1
	PartyRoleBrokerOfCredit
	PartyRoleClientID
	PartyRoleClearingFirm
	PartyRoleInvestorID
	PartyRoleIntroducingFirm
	PartyRoleEnteringFirm
	PartyRoleLocate
	PartyRoleFundManagerClientID
	PartyRoleSettlementLocation
	PartyRoleOrderOriginationTrader
	PartyRoleExecutingTrader
	PartyRoleOrderOriginationFirm
	PartyRoleExecutingSystem
	PartyRoleContraFirm
	PartyRoleContraClearingFirm
	PartyRoleSponsoringFirm
	PartyRoleClearingOrganization
	PartyRoleExchange
	PartyRoleCustomerAccount
	PartyRoleCorrespondentBroker
	PartyRoleBuyer
	PartyRoleCustodian
	PartyRoleIntermediary
	PartyRoleAgent
	PartyRoleBeneficiary
	PartyRoleInterestedParty
	PartyRoleRegulatoryBody
	PartyRoleLiquidityProvider
	PartyRoleEnteringTrader
	PartyRoleContraTrader
	PartyRolePositionAccount
	PartyRoleMarketMaker
	PartyRoleInvestmentFirm
	PartyRoleExecutionVenue
	PartyRoleIssuer
	PartyRoleTradingSubAccount
	PartyRoleInvestmentDecisionMaker
	PartyRoleSessionID
	PartyRoleTraderMnemonic
	PartyRoleSenderLocation
	PartyRoleReportOriginator
	PartyRoleSystematicInternaliser
	PartyRoleMultilateralTradingFacility
	PartyRoleRegulatedMarket
)

var partyRoleNames = map[PartyRole]string{
	PartyRoleExecutingFirm:               "ExecutingFirm",
	PartyRoleBrokerOfCredit:              "BrokerOfCredit",
	PartyRoleClientID:                    "ClientID",
	PartyRoleClearingFirm:                "ClearingFirm",
	PartyRoleInvestorID:                  "InvestorID",
	PartyRoleIntroducingFirm:             "IntroducingFirm",
	PartyRoleEnteringFirm:                "EnteringFirm",
	PartyRoleLocate:                      "Locate",
	PartyRoleFundManagerClientID:         "FundManagerClientID",
	PartyRoleSettlementLocation:          "SettlementLocation",
	PartyRoleOrderOriginationTrader:      "OrderOriginationTrader",
	PartyRoleExecutingTrader:             "ExecutingTrader",
	PartyRoleOrderOriginationFirm:        "OrderOriginationFirm",
	PartyRoleExecutingSystem:             "ExecutingSystem",
	PartyRoleContraFirm:                  "ContraFirm",
	PartyRoleContraClearingFirm:          "ContraClearingFirm",
	PartyRoleSponsoringFirm:              "SponsoringFirm",
	PartyRoleClearingOrganization:        "ClearingOrganization",
	PartyRoleExchange:                    "Exchange",
	PartyRoleCustomerAccount:             "CustomerAccount",
	PartyRoleCorrespondentBroker:         "CorrespondentBroker",
	PartyRoleBuyer:                       "Buyer",
	PartyRoleCustodian:                   "Custodian",
	PartyRoleIntermediary:                "Intermediary",
	PartyRoleAgent:                       "Agent",
	PartyRoleBeneficiary:                 "Beneficiary",
	PartyRoleInterestedParty:             "InterestedParty",
	PartyRoleRegulatoryBody:              "RegulatoryBody",
	PartyRoleLiquidityProvider:           "LiquidityProvider",
	PartyRoleEnteringTrader:              "EnteringTrader",
	PartyRoleContraTrader:                "ContraTrader",
	PartyRolePositionAccount:             "PositionAccount",
	PartyRoleMarketMaker:                 "MarketMaker",
	PartyRoleInvestmentFirm:              "InvestmentFirm",
	PartyRoleExecutionVenue:              "ExecutionVenue",
	PartyRoleIssuer:                      "Issuer",
	PartyRoleTradingSubAccount:           "TradingSubAccount",
	PartyRoleInvestmentDecisionMaker:     "InvestmentDecisionMaker",
	PartyRoleSessionID:                   "SessionID",
	PartyRoleTraderMnemonic:              "TraderMnemonic",
	PartyRoleSenderLocation:              "SenderLocation",
	PartyRoleReportOriginator:            "ReportOriginator",
	PartyRoleSystematicInternaliser:      "SystematicInternaliser",
	PartyRoleMultilateralTradingFacility: "MultilateralTradingFacility",
	PartyRoleRegulatedMarket:             "RegulatedMarket",
}

func (r PartyRole) String() string { return enumString(partyRoleNames, r) }

// ParsePartyRole converts a canonical string into a PartyRole.
func ParsePartyRole(v string) (PartyRole, error) {
	return enumParse(partyRoleNames, v, "PartyRole")
}

func (r PartyRole) MarshalText() ([]byte, error) {
	return enumMarshal(partyRoleNames, r, "PartyRole")
}

func (r *PartyRole) UnmarshalText(b []byte) error {
	return enumUnmarshal(partyRoleNames, b, "PartyRole", r)
}

// Party identifies a trading participant referenced on an order or
// an instrument.
type Party struct {
	PartyId PartyId       `json:"party_id"`
	Source  PartyIdSource `json:"party_id_source"`
	Role    PartyRole     `json:"party_role"`
}
