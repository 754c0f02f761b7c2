package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("defaults currency when empty", func(t *testing.T) {
		m := NewMoney(decimal.NewFromInt(10), "")
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("keeps explicit currency", func(t *testing.T) {
		m := NewMoney(decimal.NewFromInt(10), "AUD")
		assert.Equal(t, "AUD", m.Currency())
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyNZD(decimal.NewFromFloat(10.25))
		b := NewMoneyNZD(decimal.NewFromFloat(4.75))

		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(15)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		a := NewMoneyNZD(decimal.NewFromInt(10))
		b := NewMoney(decimal.NewFromInt(5), "USD")

		_, err := a.Add(b)
		assert.Error(t, err)
	})
}

func TestMoney_Sub(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		a := NewMoneyNZD(decimal.NewFromInt(10))
		b := NewMoneyNZD(decimal.NewFromInt(4))

		diff, err := a.Sub(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(6)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		a := NewMoneyNZD(decimal.NewFromInt(10))
		b := NewMoney(decimal.NewFromInt(5), "USD")

		_, err := a.Sub(b)
		assert.Error(t, err)
	})
}

func TestMoney_Mul(t *testing.T) {
	m := NewMoneyNZD(decimal.NewFromFloat(2.5)).Mul(decimal.NewFromInt(4))
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(10)))
	assert.Equal(t, DefaultCurrency, m.Currency())
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyNZD(decimal.NewFromFloat(120.5))
	assert.Equal(t, "NZD 120.50", m.String())
}

func TestMoney_Equal(t *testing.T) {
	a := NewMoneyNZD(decimal.NewFromFloat(1.50))
	b := NewMoneyNZD(decimal.NewFromFloat(1.5))
	c := NewMoney(decimal.NewFromFloat(1.5), "USD")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
