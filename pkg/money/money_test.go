package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
	}{
		{"dong has no minor unit", "207776.60", VND, 207777},
		{"whole dong", "2077766", VND, 2077766},
		{"dollars to cents", "12.345", USD, 1235},
		{"unknown currency falls back to USD", "1.5", "XXX-NOPE", 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFromDecimal(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, m.Amount())
		})
	}
}

func TestNewFromString(t *testing.T) {
	m, err := NewFromString(" 2,077,766.00 ", VND)
	require.NoError(t, err)
	assert.Equal(t, int64(2077766), m.Amount())
	assert.Equal(t, VND, m.Currency())

	_, err = NewFromString("abc", VND)
	assert.Error(t, err)
}

func TestSum(t *testing.T) {
	total, err := Sum(VND, New(1000, VND), nil, New(234567, VND))
	require.NoError(t, err)
	assert.Equal(t, int64(235567), total.Amount())

	_, err = Sum(VND, New(1, USD))
	assert.Error(t, err)
}

func TestDisplay(t *testing.T) {
	m := New(1234567, VND)
	assert.True(t, strings.HasSuffix(m.Display(), "₫"), m.Display())
	assert.Equal(t, "1234567", m.String())

	var nilMoney *Money
	assert.Equal(t, "0", nilMoney.Display())
	assert.True(t, nilMoney.IsZero())
	assert.Equal(t, int64(0), nilMoney.Amount())
}
