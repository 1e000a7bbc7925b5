package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// fractionGridScale is the decimal scale every floating-point attribute is
// normalised to at construction. Wire protocols round-trip prices through
// textual representations; pinning the fractional part to a fixed grid
// keeps a value bit-identical after any number of round-trips.
const fractionGridScale = 10

// normalizeFraction snaps a floating-point value onto the 10^-10 grid.
func normalizeFraction(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(fractionGridScale).Float64()
	return f
}

// Price is an instrument price normalised to the fraction grid.
type Price float64

// NewPrice constructs a Price snapped to the fraction grid.
func NewPrice(v float64) Price { return Price(normalizeFraction(v)) }

func (p Price) Value() float64 { return float64(p) }

func (p Price) String() string {
	return decimal.NewFromFloat(float64(p)).String()
}

// RespectsTick reports whether the price is a whole multiple of tick.
func (p Price) RespectsTick(tick Price) bool {
	return isGridMultiple(float64(p), float64(tick))
}

// Quantity is an order or trade quantity normalised to the fraction grid.
type Quantity float64

// NewQuantity constructs a Quantity snapped to the fraction grid.
func NewQuantity(v float64) Quantity { return Quantity(normalizeFraction(v)) }

func (q Quantity) Value() float64 { return float64(q) }

func (q Quantity) String() string {
	return decimal.NewFromFloat(float64(q)).String()
}

// RespectsTick reports whether the quantity is a whole multiple of tick.
func (q Quantity) RespectsTick(tick Quantity) bool {
	return isGridMultiple(float64(q), float64(tick))
}

func isGridMultiple(value, tick float64) bool {
	if tick <= 0 {
		return true
	}
	rem := decimal.NewFromFloat(value).Mod(decimal.NewFromFloat(tick))
	return rem.IsZero()
}

// OrderId is a dense order identifier, monotonically increasing per engine.
type OrderId uint64

func (id OrderId) String() string { return strconv.FormatUint(uint64(id), 10) }

// VenueOrderId is the wire representation of an OrderId: its decimal form.
type VenueOrderId string

// NewVenueOrderId derives the wire order identifier from an OrderId.
func NewVenueOrderId(id OrderId) VenueOrderId { return VenueOrderId(id.String()) }

func (id VenueOrderId) String() string { return string(id) }

// ExecutionId identifies a single execution of an order on the wire:
// "<venue-order-id>-<per-order sequence starting at 1>".
type ExecutionId string

// NewExecutionId composes an execution identifier from the venue order
// identifier and the per-order execution sequence number.
func NewExecutionId(orderId VenueOrderId, sequence uint64) ExecutionId {
	return ExecutionId(fmt.Sprintf("%s-%d", orderId, sequence))
}

func (id ExecutionId) String() string { return string(id) }

// MarketDepth is a requested market data book depth. Zero requests the
// full book.
type MarketDepth uint32

// FullMarketDepth requests every price level of a book side.
const FullMarketDepth MarketDepth = 0

// ShortSaleExemptionReason is the numeric exemption reason carried on
// short-sell-exempt orders.
type ShortSaleExemptionReason int32

func (r ShortSaleExemptionReason) Value() int32 { return int32(r) }

const (
	utcTimestampLayout = "2006-01-02 15:04:05.000000"
	localDateLayout    = "2006-01-02"
)

// UTCTimestamp is a microsecond-precision point in time formatted as
// "YYYY-MM-DD HH:MM:SS.ffffff" in UTC.
type UTCTimestamp time.Time

// NewUTCTimestamp truncates t to microsecond precision in UTC.
func NewUTCTimestamp(t time.Time) UTCTimestamp {
	return UTCTimestamp(t.UTC().Truncate(time.Microsecond))
}

func (t UTCTimestamp) Time() time.Time { return time.Time(t) }

func (t UTCTimestamp) String() string {
	return time.Time(t).UTC().Format(utcTimestampLayout)
}

func (t UTCTimestamp) Equal(other UTCTimestamp) bool {
	return time.Time(t).Equal(time.Time(other))
}

func (t UTCTimestamp) Before(other UTCTimestamp) bool {
	return time.Time(t).Before(time.Time(other))
}

func (t UTCTimestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *UTCTimestamp) UnmarshalText(b []byte) error {
	parsed, err := time.ParseInLocation(utcTimestampLayout, string(b), time.UTC)
	if err != nil {
		return fmt.Errorf("unable to parse %q as a timestamp: %w", string(b), err)
	}
	*t = UTCTimestamp(parsed)
	return nil
}

// LocalDate is a calendar day formatted as "YYYY-MM-DD".
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewLocalDate extracts the calendar day of t in t's location.
func NewLocalDate(t time.Time) LocalDate {
	year, month, day := t.Date()
	return LocalDate{Year: year, Month: month, Day: day}
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// EndOfDay returns the first instant after the date in the given location.
func (d LocalDate) EndOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}

func (d LocalDate) Equal(other LocalDate) bool { return d == other }

func (d LocalDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *LocalDate) UnmarshalText(b []byte) error {
	parsed, err := time.Parse(localDateLayout, string(b))
	if err != nil {
		return fmt.Errorf("unable to parse %q as a date: %w", string(b), err)
	}
	*d = NewLocalDate(parsed)
	return nil
}
