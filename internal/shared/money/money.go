package money

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount is an exact monetary value with two fraction digits. It crosses the
// wire as a decimal string ("110.00") and is stored as DECIMAL(10,2); binary
// floats never touch it.
//
// The embedded decimal carries the sql Valuer/Scanner implementations, so
// Amount works as a gorm field directly.
type Amount struct {
	decimal.Decimal
}

func Zero() Amount {
	return Amount{decimal.New(0, -2)}
}

// Parse reads a decimal string and pins it to two fraction digits. Values
// with more precision than cents are rejected rather than rounded.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return Amount{}, fmt.Errorf("amount %q has more than 2 fraction digits", s)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("amount %q is negative", s)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for literals in wiring and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d.Truncate(2)}
}

func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Cmp(b.Decimal) == 0
}

// String always renders two fraction digits: "110" and "110.0" do not exist
// on the wire.
func (a Amount) String() string {
	return a.Decimal.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.Decimal.StringFixed(2))), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// LineTotal is price * qty.
func LineTotal(price Amount, qty int) Amount {
	return FromDecimal(price.Decimal.Mul(decimal.NewFromInt(int64(qty))))
}
