package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		assert.Regexp(t, "^[0-9A-F]{8}$", code)
		seen[code] = true
	}
	// 50 draws from a 32-bit space should not all collide
	assert.Greater(t, len(seen), 1)
}

func TestValidContactNumber(t *testing.T) {
	assert.True(t, ValidContactNumber("+6281234567890"))
	assert.True(t, ValidContactNumber("+14155552671"))

	assert.False(t, ValidContactNumber(""))
	assert.False(t, ValidContactNumber("not a number"))
	assert.False(t, ValidContactNumber("081234567890")) // missing country code
	assert.False(t, ValidContactNumber("+1"))
}

func TestStringToInt(t *testing.T) {
	n, err := StringToInt("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = StringToInt("forty-two")
	assert.Error(t, err)
}
