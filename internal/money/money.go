// Package money is a fixed-precision decimal amount, replacing the
// original's floating-point prices and revenue sums per the design notes:
// rewrites should use a fixed-precision type and only round at display.
package money

import (
	"fmt"
	"strconv"
)

// Amount is a monetary value stored as an integer number of cents. It is
// comparable with ==, unlike a float.
type Amount int64

// FromMajorMinor builds an Amount from whole units and cents, e.g.
// FromMajorMinor(10, 50) is $10.50.
func FromMajorMinor(major int64, minorCents int64) Amount {
	return Amount(major*100 + minorCents)
}

// FromUnits builds an Amount from a whole-unit price such as the event
// seat-type prices in the spec's examples (VIP: 1000).
func FromUnits(units int64) Amount {
	return Amount(units * 100)
}

func (a Amount) Add(b Amount) Amount { return a + b }

func (a Amount) MulInt(n int) Amount { return a * Amount(n) }

// Float64 renders the amount for display/JSON, the one place rounding is
// allowed to happen.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	whole := int64(a) / 100
	frac := int64(a) % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}

// MarshalJSON renders as a JSON number with two decimal places, matching
// the original's float-shaped responses without reintroducing float math.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(a.Float64(), 'f', 2, 64)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*a = Amount(f*100 + 0.5)
	return nil
}
