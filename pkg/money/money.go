// Package money totals document amounts in minor units using the Fowler Money
// pattern, so that workbook summaries never accumulate float error.
package money

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency codes (ISO-4217) seen on purchase orders
const (
	VND = "VND" // Vietnamese Dong (no decimal places)
	USD = "USD"
)

// Money represents a monetary value with currency.
type Money struct {
	m *money.Money
}

// New creates a new Money value from minor units and currency code.
func New(amount int64, currencyCode string) *Money {
	return &Money{m: money.New(amount, currencyCode)}
}

// NewFromDecimal creates Money from a decimal.Decimal value, rounding to the
// currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(USD)
		currencyCode = USD
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(multiplier).Round(0).IntPart()

	return New(minor, currencyCode)
}

// NewFromString parses an amount printed as "1,234.56".
func NewFromString(amount string, currencyCode string) (*Money, error) {
	amount = strings.TrimSpace(amount)
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.ReplaceAll(amount, ",", "")

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return NewFromDecimal(d, currencyCode), nil
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsZero returns true if the amount is zero
func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

// Add adds two Money values. Returns error if currencies don't match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}

	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Sum adds values of one currency, skipping nils.
func Sum(currencyCode string, values ...*Money) (*Money, error) {
	total := Zero(currencyCode)
	for _, v := range values {
		var err error
		if total, err = total.Add(v); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Display returns a formatted string for display (e.g., "1,234,567 ₫")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "0"
	}
	return m.m.Display()
}

// ToDecimal converts to decimal.Decimal in major units
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// String returns the amount as a decimal string
func (m *Money) String() string {
	return m.ToDecimal().String()
}
