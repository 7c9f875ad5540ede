// Package money holds the integer minor-unit amounts used for every price
// and total. Formatted strings such as "$8.00" only exist at the JSON and
// presentation boundaries.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice  = errors.New("invalid price")
	ErrNegativePrice = errors.New("price must not be negative")
)

// Cents is an amount in US cents.
type Cents int64

// FromDecimal rounds a dollar amount to the nearest cent.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Decimal returns the amount in dollars.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Times multiplies the amount by a quantity.
func (c Cents) Times(qty int) Cents {
	return c * Cents(qty)
}

// String formats the amount as "$8.00".
func (c Cents) String() string {
	if c < 0 {
		return "-$" + (-c).Decimal().StringFixed(2)
	}
	return "$" + c.Decimal().StringFixed(2)
}

// Parse converts a formatted price such as "$8.00", "8" or "$1,200.50"
// into cents, rounding to the nearest cent.
func Parse(s string) (Cents, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrNegativePrice, s)
	}

	return FromDecimal(d), nil
}

// Price is a unit price. It is stored in cents and travels as a
// formatted dollar string in JSON.
type Price Cents

// MustParsePrice parses a formatted price and panics on failure. Intended
// for seed data and tests.
func MustParsePrice(s string) Price {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return Price(c)
}

// Cents returns the price as a plain amount.
func (p Price) Cents() Cents {
	return Cents(p)
}

func (p Price) String() string {
	return Cents(p).String()
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the formatted string form and, for robustness,
// a bare JSON number of dollars.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var d decimal.Decimal
		if numErr := json.Unmarshal(data, &d); numErr != nil {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, string(data))
		}
		if d.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativePrice, string(data))
		}
		*p = Price(FromDecimal(d))
		return nil
	}

	c, err := Parse(s)
	if err != nil {
		return err
	}
	*p = Price(c)
	return nil
}
