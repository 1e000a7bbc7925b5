package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSide_StringRoundTrip(t *testing.T) {
	cases := map[Side]string{
		SideBuy:             "Buy",
		SideSell:            "Sell",
		SideSellShort:       "SellShort",
		SideSellShortExempt: "SellShortExempt",
	}
	for side, name := range cases {
		assert.Equal(t, name, side.String())

		parsed, err := ParseSide(name)
		require.NoError(t, err)
		assert.Equal(t, side, parsed)
	}
}

func TestSide_UnknownValues(t *testing.T) {
	_, err := ParseSide("bad-value")
	assert.Error(t, err)

	assert.Equal(t, "undefined", Side(0xFF).String())

	_, err = Side(0xFF).MarshalText()
	assert.Error(t, err)
}

func TestSide_IsSell(t *testing.T) {
	assert.False(t, SideBuy.IsSell())
	assert.True(t, SideSell.IsSell())
	assert.True(t, SideSellShort.IsSell())
	assert.True(t, SideSellShortExempt.IsSell())
}

func TestTimeInForce_StringRoundTrip(t *testing.T) {
	cases := map[TimeInForce]string{
		TimeInForceDay:               "Day",
		TimeInForceImmediateOrCancel: "ImmediateOrCancel",
		TimeInForceFillOrKill:        "FillOrKill",
		TimeInForceGoodTillDate:      "GoodTillDate",
		TimeInForceGoodTillCancel:    "GoodTillCancel",
	}
	for tif, name := range cases {
		assert.Equal(t, name, tif.String())

		parsed, err := ParseTimeInForce(name)
		require.NoError(t, err)
		assert.Equal(t, tif, parsed)
	}
}

func TestTimeInForce_CanRest(t *testing.T) {
	assert.True(t, TimeInForceDay.CanRest())
	assert.True(t, TimeInForceGoodTillDate.CanRest())
	assert.True(t, TimeInForceGoodTillCancel.CanRest())
	assert.False(t, TimeInForceImmediateOrCancel.CanRest())
	assert.False(t, TimeInForceFillOrKill.CanRest())
}

func TestTimeInForce_SurvivesSessionLoss(t *testing.T) {
	assert.True(t, TimeInForceGoodTillCancel.SurvivesSessionLoss())
	assert.False(t, TimeInForceDay.SurvivesSessionLoss())
	assert.False(t, TimeInForceGoodTillDate.SurvivesSessionLoss())
}

func TestOrderStatus_StringRoundTrip(t *testing.T) {
	cases := map[OrderStatus]string{
		OrderStatusNew:             "New",
		OrderStatusPartiallyFilled: "PartiallyFilled",
		OrderStatusFilled:          "Filled",
		OrderStatusModified:        "Modified",
		OrderStatusCancelled:       "Cancelled",
		OrderStatusRejected:        "Rejected",
	}
	for status, name := range cases {
		assert.Equal(t, name, status.String())

		parsed, err := ParseOrderStatus(name)
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
}

func TestSecurityType_WireStrings(t *testing.T) {
	cases := map[SecurityType]string{
		SecurityTypeCommonStock:           "CS",
		SecurityTypeFuture:                "FUT",
		SecurityTypeOption:                "OPT",
		SecurityTypeCorporateBond:         "CORP",
		SecurityTypeContractForDifference: "CFD",
		SecurityTypeFxSpot:                "FXSPOT",
		SecurityTypeFxNonDeliverableSwap:  "FXNDS",
	}
	for securityType, wire := range cases {
		assert.Equal(t, wire, securityType.String())

		parsed, err := ParseSecurityType(wire)
		require.NoError(t, err)
		assert.Equal(t, securityType, parsed)
	}

	_, err := ParseSecurityType("bad-value")
	assert.Error(t, err)
}

func TestTradingPhase_StringRoundTrip(t *testing.T) {
	for phase, name := range map[TradingPhase]string{
		TradingPhaseOpen:            "Open",
		TradingPhaseClosed:          "Closed",
		TradingPhasePostTrading:     "PostTrading",
		TradingPhaseOpeningAuction:  "OpeningAuction",
		TradingPhaseIntradayAuction: "IntradayAuction",
		TradingPhaseClosingAuction:  "ClosingAuction",
	} {
		parsed, err := ParseTradingPhase(name)
		require.NoError(t, err)
		assert.Equal(t, phase, parsed)
		assert.Equal(t, name, phase.String())
	}
}

func TestMdEnums_StringRoundTrip(t *testing.T) {
	for entryType, name := range map[MdEntryType]string{
		MdEntryTypeBid:       "Bid",
		MdEntryTypeOffer:     "Offer",
		MdEntryTypeTrade:     "Trade",
		MdEntryTypeLowPrice:  "LowPrice",
		MdEntryTypeMidPrice:  "MidPrice",
		MdEntryTypeHighPrice: "HighPrice",
	} {
		parsed, err := ParseMdEntryType(name)
		require.NoError(t, err)
		assert.Equal(t, entryType, parsed)
	}

	for action, name := range map[MarketEntryAction]string{
		MarketEntryActionNew:    "New",
		MarketEntryActionChange: "Change",
		MarketEntryActionDelete: "Delete",
	} {
		parsed, err := ParseMarketEntryAction(name)
		require.NoError(t, err)
		assert.Equal(t, action, parsed)
	}

	assert.Equal(t, "UnknownSymbol", MdRejectReasonUnknownSymbol.String())
	assert.Equal(t, "DuplicateMdReqId", MdRejectReasonDuplicateMdReqId.String())
}

func TestMarketPhase_Permissions(t *testing.T) {
	open := MarketPhaseOpen()
	assert.True(t, open.AllowsMatching())
	assert.True(t, open.AllowsResting())

	halted := MarketPhase{Phase: TradingPhaseOpen, Status: TradingStatusHalt}
	assert.False(t, halted.AllowsMatching())
	assert.True(t, halted.AllowsResting())

	closed := MarketPhase{Phase: TradingPhaseClosed, Status: TradingStatusResume}
	assert.False(t, closed.AllowsMatching())
	assert.False(t, closed.AllowsResting())

	auction := MarketPhase{Phase: TradingPhaseOpeningAuction, Status: TradingStatusResume}
	assert.False(t, auction.AllowsMatching())
	assert.True(t, auction.AllowsResting())
}
