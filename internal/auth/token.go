package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskfolio/taskfolio/internal/shared"
)

// defaultTokenTTL applies when a caller does not supply a validity window.
const defaultTokenTTL = 15 * time.Minute

// Claims is the session token payload: a composite subject
// ("<username> - <email>"), the numeric user id and an expiry.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Username extracts the username part of the composite subject claim.
func (c *Claims) Username() string {
	sub, _, _ := strings.Cut(c.Subject, " - ")
	return sub
}

// Codec mints and verifies signed session tokens. Both operations are
// pure CPU work; the codec holds no state beyond the signing secret.
type Codec struct {
	secret []byte
}

// NewCodec constructs a Codec with the process-wide signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Mint signs a token for the given identity, valid for ttl from now.
// A non-positive ttl falls back to the internal default of 15 minutes.
func (c *Codec) Mint(username, email string, userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username + " - " + email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of a token string and returns
// its claims. Malformed input, a signature mismatch and an expired token
// all collapse to shared.ErrInvalidToken; the wrapped cause is kept for
// diagnostics only and is never shown to the end user.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}
