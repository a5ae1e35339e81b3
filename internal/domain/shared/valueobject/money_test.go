package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
	})
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, EUR, c)

	c, err = ParseCurrency("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, c)

	_, err = ParseCurrency("EURO")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustMoney(decimal.RequireFromString("10.25"), USD)
	b := MustMoney(decimal.RequireFromString("4.75"), USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(15)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "5.50 USD", diff.String())

	assert.Equal(t, "30.75 USD", a.MultiplyByInt(3).String())
	assert.Equal(t, "1.03 USD", a.Percentage(decimal.NewFromInt(10)).Round(2).String())

	_, err = a.Add(MustMoney(decimal.NewFromInt(1), EUR))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	ge, err := a.GreaterThanOrEqual(b)
	require.NoError(t, err)
	assert.True(t, ge)
}

func TestMoney_JSON(t *testing.T) {
	m := MustMoney(decimal.RequireFromString("19.999"), GBP)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"20","currency":"GBP"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"3.5"}`), &back))
	assert.Equal(t, DefaultCurrency, back.Currency())
	assert.True(t, back.Amount().Equal(decimal.RequireFromString("3.5")))
}
