package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSessionToken returns a SHA-256 hash of the session token string, hex-encoded.
// The session ledger stores and looks up this hash so raw tokens never hit the database.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
