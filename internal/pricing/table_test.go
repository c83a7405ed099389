package pricing

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOverrides struct {
	prices map[string]int64
}

func (s *stubOverrides) Prices(ctx context.Context) (map[string]int64, error) {
	if s.prices == nil {
		return map[string]int64{}, nil
	}
	return s.prices, nil
}

func TestPriceOfBuiltinTable(t *testing.T) {
	table := NewTable(&stubOverrides{})

	for code, want := range builtin {
		got, err := table.PriceOf(context.Background(), code)
		require.NoError(t, err, "code %s", code)
		assert.Equal(t, want, got, "code %s", code)
	}
}

func TestPriceOfWeeklyPass(t *testing.T) {
	table := NewTable(&stubOverrides{})

	for n := int64(1); n <= 10; n++ {
		code := "wp" + strconv.FormatInt(n, 10)
		got, err := table.PriceOf(context.Background(), code)
		require.NoError(t, err, "code %s", code)
		assert.Equal(t, n*6000, got)
	}
}

func TestPriceOfWeeklyPassOutOfRange(t *testing.T) {
	table := NewTable(&stubOverrides{})

	for _, code := range []string{"wp0", "wp11", "wp99", "wp", "wpx"} {
		_, err := table.PriceOf(context.Background(), code)
		assert.ErrorIs(t, err, ErrUnknownItem, "code %s", code)
	}
}

func TestPriceOfUnknownCode(t *testing.T) {
	table := NewTable(&stubOverrides{})

	_, err := table.PriceOf(context.Background(), "99999")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestOverrideWinsOverBuiltin(t *testing.T) {
	table := NewTable(&stubOverrides{prices: map[string]int64{"11": 1000}})

	got, err := table.PriceOf(context.Background(), "11")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)
}

func TestOverrideWinsOverWeeklyPassRule(t *testing.T) {
	table := NewTable(&stubOverrides{prices: map[string]int64{"wp1": 5500}})

	got, err := table.PriceOf(context.Background(), "wp1")
	require.NoError(t, err)
	assert.Equal(t, int64(5500), got)
}

func TestOverrideAddsNewCode(t *testing.T) {
	table := NewTable(&stubOverrides{prices: map[string]int64{"special": 123}})

	got, err := table.PriceOf(context.Background(), "special")
	require.NoError(t, err)
	assert.Equal(t, int64(123), got)
}

func TestSampleScenarioEleven(t *testing.T) {
	table := NewTable(&stubOverrides{})

	got, err := table.PriceOf(context.Background(), "11")
	require.NoError(t, err)
	assert.Equal(t, int64(950), got)
}
