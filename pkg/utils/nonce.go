package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mutation endpoints require a nonce tied to the caller's identity key
// (user ID or guest token). A request with a missing or invalid nonce is
// terminated outright; the client must fetch a fresh one from the session
// endpoint. Format: "<unix-expiry>.<hex hmac-sha256>".

func GenerateNonce(secret, identityKey string, ttl time.Duration) string {
	expiry := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%d.%s", expiry, nonceMAC(secret, identityKey, expiry))
}

func VerifyNonce(secret, identityKey, nonce string) bool {
	expiryStr, mac, ok := strings.Cut(nonce, ".")
	if !ok {
		return false
	}
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		return false
	}
	expected := nonceMAC(secret, identityKey, expiry)
	return subtle.ConstantTimeCompare([]byte(mac), []byte(expected)) == 1
}

func nonceMAC(secret, identityKey string, expiry int64) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%s|%d", identityKey, expiry)
	return hex.EncodeToString(h.Sum(nil))
}
