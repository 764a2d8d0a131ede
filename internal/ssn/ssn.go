// Package ssn turns raw Social Security Numbers into keyed digests suitable
// for storage in place of the plaintext value.
package ssn

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/zarlcorp/core/pkg/zcrypto"
)

// DevKey is the well-known fallback key used when no secret is configured.
// Digests made with it offer no protection against anyone who has read this
// source.
const DevKey = "dev-ssn-secret-change-me"

// DigestLen is the length of every digest Protect returns.
const DigestLen = sha256.Size * 2

// ErrDefaultKey reports that the development key is in use.
var ErrDefaultKey = errors.New("SSN_SECRET is not set; using the insecure development key")

// Protect returns the lowercase hex HMAC-SHA256 of raw under key.
// The input is not validated.
func Protect(raw, key string) string {
	k := []byte(key)
	defer zcrypto.Erase(k)

	mac := hmac.New(sha256.New, k)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether digest is the digest of raw under key, comparing in
// constant time.
func Verify(raw, digest, key string) bool {
	want, err := hex.DecodeString(Protect(raw, key))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}
