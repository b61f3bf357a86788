package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProductID(t *testing.T) {
	assert.Equal(t, int64(42), ParseProductID("42"))
	assert.Equal(t, int64(42), ParseProductID(" 42 "))
	assert.Zero(t, ParseProductID(""))
	assert.Zero(t, ParseProductID("0"))
	assert.Zero(t, ParseProductID("-5"))
	assert.Zero(t, ParseProductID("abc"))
	assert.Zero(t, ParseProductID("4.2"))
}

func TestIsTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "on", " Yes "} {
		assert.True(t, IsTruthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "no", "off", "2"} {
		assert.False(t, IsTruthy(s), s)
	}
}

func TestReplaceText(t *testing.T) {
	out := ReplaceText("{product_name} saved for {guest_session_in_days} days", map[string]string{
		"{product_name}":          "Walnut Desk",
		"{guest_session_in_days}": "30",
	})
	assert.Equal(t, "Walnut Desk saved for 30 days", out)

	assert.Equal(t, "unchanged", ReplaceText("unchanged", nil))
	assert.Empty(t, ReplaceText("", map[string]string{"{a}": "b"}))
}

func TestRandomTokenShape(t *testing.T) {
	token := RandomToken(7)
	assert.Len(t, token, 7)
	for _, c := range token {
		assert.Contains(t, tokenAlphabet, string(c))
	}
	assert.NotEqual(t, RandomToken(7), RandomToken(7))
}
