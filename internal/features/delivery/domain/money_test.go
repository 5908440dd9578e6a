package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Conversions(t *testing.T) {
	assert.Equal(t, "12.34", MoneyFromCents(1234).String())
	assert.Equal(t, int64(1234), MoneyFromFloat(12.34).Cents())
	assert.Equal(t, int64(1025), MoneyFromFloat(10.245).Cents())
	assert.Equal(t, "9.62", NewMoney(decimal.RequireFromString("9.615")).String())
	assert.Equal(t, "10.24", MoneyFromFloat(4.99).Add(MoneyFromFloat(5.25)).String())
	assert.True(t, MoneyFromFloat(5).Less(MoneyFromFloat(5.01)))
	assert.False(t, MoneyFromFloat(5).Less(MoneyFromFloat(5)))
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Fee Money `json:"fee"`
	}{Fee: MoneyFromFloat(5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fee":5.00}`, string(b))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Number", input: `{"v":12.5}`, want: "12.50"},
		{name: "String", input: `{"v":"7.125"}`, want: "7.13"},
		{name: "Null", input: `{"v":null}`, want: "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				V Money `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &out))
			assert.Equal(t, tt.want, out.V.String())
		})
	}

	var bad struct {
		V Money `json:"v"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"v":"abc"}`), &bad))
}

func TestMoney_ValueScan(t *testing.T) {
	v, err := MoneyFromFloat(3.5).Value()
	require.NoError(t, err)
	assert.Equal(t, "3.50", v)

	var m Money
	require.NoError(t, m.Scan("8.499"))
	assert.Equal(t, "8.50", m.String())

	require.NoError(t, m.Scan(float64(2.25)))
	assert.Equal(t, "2.25", m.String())
}
