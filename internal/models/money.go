package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point amount with two decimal places. It marshals to a
// JSON string ("24.99") and accepts either a string or a number on input.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// ParseMoney parses a decimal string, rounding to cents
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return NewMoney(d), nil
}

// MaxAmount is the largest amount a NUMERIC(10, 2) column holds
var MaxAmount = MustMoney("99999999.99")

// ExceedsMax reports whether m is too large to persist
func (m Money) ExceedsMax() bool {
	return m.GreaterThan(MaxAmount.Decimal)
}

func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) String() string {
	return m.StringFixed(2)
}

// Times multiplies the amount by an integer quantity
func (m Money) Times(quantity int) Money {
	return NewMoney(m.Mul(decimal.NewFromInt(int64(quantity))))
}

func (m Money) Plus(o Money) Money {
	return NewMoney(m.Add(o.Decimal))
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

// Value stores the amount as a 2 dp decimal string
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}
