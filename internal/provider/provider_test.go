package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoin_KeepsRawJSON(t *testing.T) {
	t.Parallel()

	in := `{"coins":[{"id":"ethereum","name":"Ethereum","symbol":"ETH","market_cap_rank":2,"thumb":"t.png"}]}`

	var cs CoinSearch
	require.NoError(t, json.Unmarshal([]byte(in), &cs))
	require.Len(t, cs.Coins, 1)
	require.Equal(t, "ethereum", cs.Coins[0].ID)
	require.Equal(t, "ETH", cs.Coins[0].Symbol)

	out, err := json.Marshal(cs)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestNewCoin_Marshal(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(NewCoin("bitcoin", "BTC"))
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"bitcoin","symbol":"BTC"}`, string(out))
}

func TestStockSearch_Symbols(t *testing.T) {
	t.Parallel()

	s := NewStockSearch([]byte(`{"count":3,"quotes":[{"symbol":"AAPL"},{"name":"no symbol"},{"symbol":" "},{"symbol":"APLE"}],"news":[]}`))
	require.Equal(t, []string{"AAPL", "APLE"}, s.Symbols())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	require.Contains(t, string(out), `"news":[]`)
}

func TestStockSearch_EmptyAndInvalid(t *testing.T) {
	t.Parallel()

	require.Empty(t, StockSearch{}.Symbols())
	require.Empty(t, NewStockSearch([]byte(`[1,2]`)).Symbols())

	out, err := json.Marshal(StockSearch{})
	require.NoError(t, err)
	require.Equal(t, "null", string(out))
}
