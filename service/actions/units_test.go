package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLamports(t *testing.T) {
	tests := []struct {
		sol  float64
		want uint64
	}{
		{0, 0},
		{1, 1_000_000_000},
		{0.01, 10_000_000},
		{0.001, 1_000_000},
		{0.03, 30_000_000},
		{0.000000001, 1},
		{0.0000000019, 1}, // truncated, not rounded
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToLamports(tt.sol), "ToLamports(%v)", tt.sol)
	}
}

func TestToLamports_TruncatesFloatError(t *testing.T) {
	// 0.015 * 11 is 0.16499999999999998 in float64, one lamport short.
	price := 0.015
	assert.Equal(t, uint64(164_999_999), ToLamports(price*11))
}

func TestToSOL(t *testing.T) {
	assert.Equal(t, 0.0, ToSOL(0))
	assert.Equal(t, 1.0, ToSOL(1_000_000_000))
	assert.Equal(t, 0.000005, ToSOL(LamportsPerSignature))
}

func TestFormatSOL(t *testing.T) {
	assert.Equal(t, "0", FormatSOL(0))
	assert.Equal(t, "0.01", FormatSOL(10_000_000))
	assert.Equal(t, "0.000000001", FormatSOL(1))
	assert.Equal(t, "1.5", FormatSOL(1_500_000_000))
	assert.Equal(t, "18446744073.709551615", FormatSOL(^uint64(0)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.01", formatAmount(0.01))
	assert.Equal(t, "0.03", formatAmount(0.015*2))
	assert.Equal(t, "0.001", formatAmount(MinTipSOL))
}
