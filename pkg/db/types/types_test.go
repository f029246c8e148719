package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceHistoryRoundTrip(t *testing.T) {
	day := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	history := PriceHistory{}.
		Append(day, decimal.RequireFromString("46.57")).
		Append(day.AddDate(0, 0, 7), decimal.RequireFromString("48.00"))

	raw, err := history.Value()
	require.NoError(t, err)

	var decoded PriceHistory
	require.NoError(t, decoded.Scan(raw))
	require.Len(t, decoded, 2)

	last, ok := decoded.Last()
	require.True(t, ok)
	assert.True(t, last.Price.Equal(decimal.RequireFromString("48.00")))
	assert.True(t, last.Date.After(decoded[0].Date))
}

func TestPriceHistoryScanNil(t *testing.T) {
	var history PriceHistory
	require.NoError(t, history.Scan(nil))
	_, ok := history.Last()
	assert.False(t, ok)
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"TD1", "GSA"}
	raw, err := list.Value()
	require.NoError(t, err)

	var decoded StringList
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, list, decoded)
	assert.True(t, decoded.Contains("TD1"))
	assert.False(t, decoded.Contains("INF1"))
}

func TestStringListAddUnique(t *testing.T) {
	list := StringList{"MAC"}
	list = list.AddUnique("MAC")
	list = list.AddUnique("CEN")
	assert.Equal(t, StringList{"MAC", "CEN"}, list)
}
