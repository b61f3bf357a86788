package utils

import (
	"crypto/rand"
	"strconv"
	"strings"
)

// ParseProductID parses a product ID from request input. Returns 0 for
// anything that is not a positive integer; callers treat 0 as "no valid
// product" and degrade to a no-op rather than erroring.
func ParseProductID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// IsTruthy normalizes the flag spellings clients send for optional
// parameters like cart_all.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ReplaceText substitutes {placeholder} tokens in configurable notice
// texts, e.g. {product_name}.
func ReplaceText(text string, replacements map[string]string) string {
	if text == "" || len(replacements) == 0 {
		return text
	}
	pairs := make([]string, 0, len(replacements)*2)
	for k, v := range replacements {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomToken mints a short alphanumeric session token. Guest wishlist
// tokens are 7 characters, matching the cookie format clients already hold.
func RandomToken(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = tokenAlphabet[int(b[i])%len(tokenAlphabet)]
	}
	return string(b)
}
