package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, mis-signed, or expired.
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims holds the JWT claims for a session token: subject (user id),
// issued-at, expiry, and a per-issuance random nonce in the jti claim. The nonce
// keeps two tokens minted in the same second for the same user distinct.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies session JWTs signed with a shared HMAC secret (HS256).
// The codec is stateless; session-ledger validity is checked separately by callers.
type TokenCodec struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenCodec returns a TokenCodec signing with secret. issuer and audience are
// set on issued claims and validated on Verify.
func NewTokenCodec(secret []byte, issuer, audience string) *TokenCodec {
	return &TokenCodec{secret: secret, issuer: issuer, audience: audience}
}

// Issue signs a session token for subjectID expiring ttl from now.
// Returns the token string and its expiry time.
func (c *TokenCodec) Issue(subjectID string, ttl time.Duration) (token string, expiresAt time.Time, err error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			Subject:   subjectID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(c.secret)
	return token, expiresAt, err
}

// Verify parses and validates a session token (signature, exp, iss, aud) and
// returns its claims. Malformed structure, a bad signature, and an expired
// embedded claim all collapse to ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != c.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == c.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
