package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrice_NormalisesFraction(t *testing.T) {
	// A value accumulated through float arithmetic drifts off the grid;
	// construction must snap it back.
	drifted := 0.1 + 0.2
	assert.Equal(t, NewPrice(0.3), NewPrice(drifted))

	assert.Equal(t, NewPrice(10.0), NewPrice(10.0000000000004))
}

func TestNewPrice_RoundTripStable(t *testing.T) {
	price := NewPrice(10.01)
	again := NewPrice(price.Value())
	assert.Equal(t, price, again)
}

func TestPrice_RespectsTick(t *testing.T) {
	tick := NewPrice(0.01)
	assert.True(t, NewPrice(10.01).RespectsTick(tick))
	assert.True(t, NewPrice(10.00).RespectsTick(tick))
	assert.False(t, NewPrice(10.005).RespectsTick(tick))
}

func TestQuantity_RespectsTick(t *testing.T) {
	tick := NewQuantity(10)
	assert.True(t, NewQuantity(100).RespectsTick(tick))
	assert.False(t, NewQuantity(105).RespectsTick(tick))

	// A zero tick disables the constraint.
	assert.True(t, NewQuantity(105).RespectsTick(NewQuantity(0)))
}

func TestVenueOrderId_IsDecimal(t *testing.T) {
	assert.Equal(t, VenueOrderId("42"), NewVenueOrderId(OrderId(42)))
}

func TestExecutionId_Format(t *testing.T) {
	id := NewExecutionId(NewVenueOrderId(OrderId(7)), 1)
	assert.Equal(t, ExecutionId("7-1"), id)
}

func TestUTCTimestamp_Format(t *testing.T) {
	moment := time.Date(2024, time.March, 5, 14, 30, 1, 123456789, time.UTC)
	stamp := NewUTCTimestamp(moment)
	assert.Equal(t, "2024-03-05 14:30:01.123456", stamp.String())
}

func TestUTCTimestamp_TextRoundTrip(t *testing.T) {
	stamp := NewUTCTimestamp(time.Date(2024, time.March, 5, 14, 30, 1, 123456000, time.UTC))

	text, err := stamp.MarshalText()
	require.NoError(t, err)

	var decoded UTCTimestamp
	require.NoError(t, decoded.UnmarshalText(text))
	assert.True(t, stamp.Equal(decoded))
}

func TestUTCTimestamp_RejectsBadFormat(t *testing.T) {
	var decoded UTCTimestamp
	assert.Error(t, decoded.UnmarshalText([]byte("2024-03-05T14:30:01Z")))
}

func TestLocalDate_TextRoundTrip(t *testing.T) {
	date := LocalDate{Year: 2024, Month: time.March, Day: 5}
	assert.Equal(t, "2024-03-05", date.String())

	var decoded LocalDate
	require.NoError(t, decoded.UnmarshalText([]byte("2024-03-05")))
	assert.Equal(t, date, decoded)
}

func TestLocalDate_EndOfDay(t *testing.T) {
	date := LocalDate{Year: 2024, Month: time.March, Day: 5}
	end := date.EndOfDay(time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), end)
}
